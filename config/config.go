// Package config loads the tool configuration from a JSON file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"erd/canvas"
	"erd/export"
	"erd/geometry"
	"erd/routing"
)

// DefaultPath is read when no -config flag is given.
const DefaultPath = "~/.erd.json"

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid configuration")

// Canvas configures the character canvas.
type Canvas struct {
	ScaleX float64 `json:"scaleX"`
	ScaleY float64 `json:"scaleY"`
	Margin int     `json:"margin"`
}

// Image configures PNG output.
type Image struct {
	Scale    float64 `json:"scale"`
	Padding  float64 `json:"padding"`
	FontSize float64 `json:"fontSize"`
}

// Config is the full tool configuration. Fields missing from the file keep
// their defaults.
type Config struct {
	Routing   routing.Config `json:"routing"`
	Canvas    Canvas         `json:"canvas"`
	Image     Image          `json:"image"`
	CacheSize int            `json:"cacheSize"`
	LogLevel  string         `json:"logLevel"`
}

// Default returns the built-in configuration.
func Default() Config {
	opts := export.DefaultOptions()
	return Config{
		Routing: routing.DefaultConfig(),
		Canvas: Canvas{
			ScaleX: opts.ScaleX,
			ScaleY: opts.ScaleY,
			Margin: opts.Margin,
		},
		Image: Image{
			Scale:    opts.PixelScale,
			Padding:  opts.Padding,
			FontSize: opts.FontSize,
		},
		LogLevel: "info",
	}
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expanding %s: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// Load reads the configuration at path on top of the defaults. A missing file
// is not an error: the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	expanded, err := ExpandPath(path)
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(expanded)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", expanded, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", expanded, err)
	}
	return cfg, nil
}

// Validate checks every section of the configuration.
func (c Config) Validate() error {
	if err := c.Routing.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	switch {
	case c.Canvas.ScaleX <= 0 || c.Canvas.ScaleY <= 0:
		return fmt.Errorf("%w: canvas scale must be positive", ErrInvalid)
	case c.Canvas.Margin < 0:
		return fmt.Errorf("%w: canvas margin must not be negative", ErrInvalid)
	case c.Image.Scale <= 0:
		return fmt.Errorf("%w: image scale must be positive", ErrInvalid)
	case c.Image.Padding < 0:
		return fmt.Errorf("%w: image padding must not be negative", ErrInvalid)
	case c.Image.FontSize <= 0:
		return fmt.Errorf("%w: font size must be positive", ErrInvalid)
	case c.CacheSize < 0:
		return fmt.Errorf("%w: cache size must not be negative", ErrInvalid)
	}
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Level returns the configured log level. An empty level means info.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, err
	}
	return level, nil
}

// ExportOptions returns the exporter options derived from the configuration.
func (c Config) ExportOptions() export.Options {
	return export.Options{
		ScaleX:     c.Canvas.ScaleX,
		ScaleY:     c.Canvas.ScaleY,
		Margin:     c.Canvas.Margin,
		PixelScale: c.Image.Scale,
		Padding:    c.Image.Padding,
		FontSize:   c.Image.FontSize,
	}
}

// Projection returns a projection at the configured scale that shows b with
// the configured margin.
func (c Config) Projection(b geometry.Bounds) canvas.Projection {
	return canvas.FitProjection(b, c.Canvas.ScaleX, c.Canvas.ScaleY, c.Canvas.Margin)
}
