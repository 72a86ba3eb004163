package slides

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
)

// maxImageBytes caps how much of a single source is read.
const maxImageBytes = 32 << 20

var (
	ErrUnsupportedScheme = errors.New("slides: unsupported url scheme")

	// ErrTooLarge reports a body over the byte cap or a bitmap over the
	// pixel cap.
	ErrTooLarge = errors.New("slides: image exceeds size limit")
)

// Fetcher opens the bytes behind an image source.
type Fetcher interface {
	Fetch(ctx context.Context, src string) (io.ReadCloser, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, src string) (io.ReadCloser, error)

func (f FetcherFunc) Fetch(ctx context.Context, src string) (io.ReadCloser, error) {
	return f(ctx, src)
}

// SourceFetcher reads http(s) URLs through Client and file:// URLs or bare
// paths from the local filesystem.
type SourceFetcher struct {
	Client *http.Client
}

func (f SourceFetcher) Fetch(ctx context.Context, src string) (io.ReadCloser, error) {
	u, err := url.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("slides: parse %q: %w", src, err)
	}
	switch u.Scheme {
	case "http", "https":
		return f.get(ctx, src)
	case "file":
		return os.Open(u.Path)
	case "":
		return os.Open(src)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
}

func (f SourceFetcher) get(ctx context.Context, src string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("slides: GET %s: %s", src, resp.Status)
	}
	return resp.Body, nil
}

// Loader fetches, decodes and scales images on a bounded worker pool.
type Loader struct {
	fetch   Fetcher
	height  int
	workers int
	timeout time.Duration
}

// NewLoader returns a loader producing bitmaps of the given height. A nil
// fetcher uses SourceFetcher with the default HTTP client.
func NewLoader(height, workers int, timeout time.Duration, fetch Fetcher) *Loader {
	if fetch == nil {
		fetch = SourceFetcher{}
	}
	return &Loader{
		fetch:   fetch,
		height:  max(height, 1),
		workers: max(workers, 1),
		timeout: timeout,
	}
}

// Height returns the target height of every loaded bitmap.
func (l *Loader) Height() int { return l.height }

// Start loads urls in the background and sends one event per url to out,
// tagged with gen. Sends stop once ctx is cancelled.
func (l *Loader) Start(ctx context.Context, gen uint64, urls []string, out chan<- LoadEvent) {
	go func() {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(l.workers)
		for i, src := range urls {
			i, src := i, src
			g.Go(func() error {
				img, err := l.Load(gctx, src)
				ev := LoadEvent{Index: i, Generation: gen, Image: img, Err: err}
				select {
				case out <- ev:
				case <-gctx.Done():
				}
				return nil
			})
		}
		_ = g.Wait()
	}()
}

// Load fetches, decodes and scales a single source.
func (l *Loader) Load(ctx context.Context, src string) (*image.RGBA, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	rc, err := l.fetch.Fetch(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("slides: fetch %s: %w", src, err)
	}
	defer rc.Close()

	lr := &io.LimitedReader{R: rc, N: maxImageBytes + 1}
	img, err := Decode(lr)
	if lr.N <= 0 {
		return nil, fmt.Errorf("slides: %s: %w", src, ErrTooLarge)
	}
	if err != nil {
		return nil, fmt.Errorf("slides: %s: %w", src, err)
	}
	return ScaleToHeight(img, l.height)
}
