package kernel

import "testing"

func TestLoopRunsUntilFrameFuncDone(t *testing.T) {
	k := New()
	frames := 0
	l, err := NewLoop(k, func(*Context) bool {
		frames++
		return frames < 3
	})
	if err != nil {
		t.Fatalf("NewLoop: %v", err)
	}

	l.Start()
	for i := 0; i < 10; i++ {
		k.Frame()
	}
	if frames != 3 {
		t.Fatalf("frames = %d, want 3", frames)
	}
	if l.State() != LoopStopped {
		t.Fatalf("state = %s, want stopped", l.State())
	}
}

func TestLoopStopBeforeArmedFrame(t *testing.T) {
	k := New()
	frames := 0
	l, _ := NewLoop(k, func(*Context) bool {
		frames++
		return true
	})

	l.Start()
	k.Frame()
	k.Frame()
	l.Stop()
	if !k.Armed(l.ID()) {
		t.Fatal("expected loop to still be armed after Stop")
	}
	k.Frame()
	k.Frame()

	if frames != 2 {
		t.Fatalf("frames = %d, want 2 (no frame after Stop)", frames)
	}
	if !k.Idle() {
		t.Fatal("stopped loop re-armed itself")
	}
}

func TestLoopRequestDrawsSingleFrame(t *testing.T) {
	k := New()
	frames := 0
	l, _ := NewLoop(k, func(*Context) bool {
		frames++
		return true
	})

	l.Request()
	l.Request()
	for i := 0; i < 4; i++ {
		k.Frame()
	}
	if frames != 1 {
		t.Fatalf("frames = %d, want 1", frames)
	}
	if l.Running() {
		t.Fatal("Request must not start the loop")
	}
}

func TestLoopRequestWhileRunningDoesNotDoubleStep(t *testing.T) {
	k := New()
	frames := 0
	l, _ := NewLoop(k, func(*Context) bool {
		frames++
		return frames < 4
	})

	l.Start()
	k.Frame()
	l.Request()
	k.Frame()
	k.Frame()
	k.Frame()
	k.Frame()

	if frames != 4 {
		t.Fatalf("frames = %d, want 4", frames)
	}
}

func TestLoopStopCancelsRequest(t *testing.T) {
	k := New()
	frames := 0
	l, _ := NewLoop(k, func(*Context) bool {
		frames++
		return true
	})

	l.Request()
	l.Stop()
	k.Frame()
	if frames != 0 {
		t.Fatalf("frames = %d, want 0", frames)
	}
}
