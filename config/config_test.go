package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"erd/geometry"
	"erd/routing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "erd.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config is invalid: %v", err)
	}
	if cfg.Routing != routing.DefaultConfig() {
		t.Errorf("Routing = %+v, want defaults", cfg.Routing)
	}
	if cfg.Canvas.ScaleX != 10 || cfg.Canvas.ScaleY != 14 {
		t.Errorf("Canvas scale = %v x %v, want 10 x 14", cfg.Canvas.ScaleX, cfg.Canvas.ScaleY)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
}

func TestLoad_PartialOverride(t *testing.T) {
	path := writeConfig(t, `{"routing": {"stubLength": 30}, "cacheSize": 64, "logLevel": "debug"}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Routing.StubLength != 30 {
		t.Errorf("StubLength = %v, want 30", cfg.Routing.StubLength)
	}
	if cfg.Routing.StepSlack != 128 {
		t.Errorf("StepSlack = %v, want default 128", cfg.Routing.StepSlack)
	}
	if cfg.CacheSize != 64 {
		t.Errorf("CacheSize = %v, want 64", cfg.CacheSize)
	}
	if level, _ := cfg.Level(); level != slog.LevelDebug {
		t.Errorf("Level = %v, want debug", level)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"zero stub", `{"routing": {"stubLength": 0}}`, routing.ErrInvalidConfig},
		{"negative scale", `{"canvas": {"scaleX": -1}}`, ErrInvalid},
		{"negative cache", `{"cacheSize": -5}`, ErrInvalid},
		{"bad level", `{"logLevel": "loud"}`, ErrInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}

	if _, err := Load(writeConfig(t, `{"routing": `)); err == nil {
		t.Error("Expected error for malformed JSON")
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		input    string
		expected string
	}{
		{"~", home},
		{"~/.erd.json", filepath.Join(home, ".erd.json")},
		{"/etc/erd.json", "/etc/erd.json"},
		{"relative/erd.json", "relative/erd.json"},
		{"~other/erd.json", "~other/erd.json"},
	}
	for _, tt := range tests {
		got, err := ExpandPath(tt.input)
		if err != nil {
			t.Errorf("ExpandPath(%q) failed: %v", tt.input, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestLoad_DefaultPathInHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if err := os.WriteFile(filepath.Join(home, ".erd.json"), []byte(`{"canvas": {"margin": 3}}`), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(DefaultPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Canvas.Margin != 3 {
		t.Errorf("Margin = %d, want 3", cfg.Canvas.Margin)
	}

	opts := cfg.ExportOptions()
	if opts.Margin != 3 || opts.ScaleX != cfg.Canvas.ScaleX || opts.PixelScale != cfg.Image.Scale {
		t.Errorf("ExportOptions = %+v do not follow the config", opts)
	}
}

func TestConfig_Projection(t *testing.T) {
	cfg := Default()
	b := geometry.Bounds{Min: geometry.Pt(100, 70), Max: geometry.Pt(400, 300)}

	p := cfg.Projection(b)
	if p.ScaleX != 10 || p.ScaleY != 14 {
		t.Errorf("Scale = %v x %v, want 10 x 14", p.ScaleX, p.ScaleY)
	}
	// One cell of margin before the top-left corner.
	if got := p.Cell(b.Min); got.X != 1 || got.Y != 1 {
		t.Errorf("Top-left corner at cell %v, want (1,1)", got)
	}
}
