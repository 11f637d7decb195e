package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid configuration")

// Load reads the YAML file at path on top of Default. Unknown keys are
// rejected. A missing file is reported with an error wrapping os.ErrNotExist.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML config data on top of Default.
func Parse(data []byte) (*Model, error) {
	m := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return m, nil
}

// Validate checks the model after flag overrides are applied.
func (m *Model) Validate() error {
	if m.CacheRoot == "" {
		return fmt.Errorf("%w: cache_root must not be empty", ErrInvalid)
	}
	if m.StorePath == "" {
		return fmt.Errorf("%w: store must not be empty", ErrInvalid)
	}
	if len(m.Graphs) == 0 {
		return fmt.Errorf("%w: at least one graphs pattern is required", ErrInvalid)
	}
	for _, p := range m.Graphs {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("%w: bad graphs pattern %q", ErrInvalid, p)
		}
	}

	switch m.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log level must be 'debug', 'info', 'warn', or 'error', got %q", ErrInvalid, m.Log.Level)
	}
	if m.Log.Format != "text" && m.Log.Format != "json" {
		return fmt.Errorf("%w: log format must be 'text' or 'json', got %q", ErrInvalid, m.Log.Format)
	}

	if m.Notify.URL != "" {
		u, err := url.Parse(m.Notify.URL)
		if err != nil || !u.IsAbs() {
			return fmt.Errorf("%w: notify url %q is not absolute", ErrInvalid, m.Notify.URL)
		}
	}
	return nil
}
