package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Load reads Options from a YAML (.yaml, .yml) or TOML (.toml) file.
func Load(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var o Options
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &o); err != nil {
			return Options{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &o); err != nil {
			return Options{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	default:
		return Options{}, fmt.Errorf("config: unsupported file type %q", ext)
	}

	if o.Fetch != nil && o.Fetch.Timeout != nil {
		if _, err := time.ParseDuration(*o.Fetch.Timeout); err != nil {
			return Options{}, fmt.Errorf("config: fetch.timeout: %w", err)
		}
	}
	return o, nil
}
