package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const shop = "examples/shop.json"

// runCLI runs the command with a config path that does not exist, so the
// user's own configuration never leaks into the test.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{"-config", filepath.Join(t.TempDir(), "none.json")}, args...)
	err := run(full, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestRun_Formats(t *testing.T) {
	tests := []struct {
		format string
		want   []string
	}{
		{"ascii", []string{"users", "orders", "▶"}},
		{"json", []string{`"id": "user_orders"`, `"status": "connecting"`}},
		{"mermaid", []string{"erDiagram", "users ||--o{ orders"}},
		{"d2", []string{"shape: sql_table", "users.id -> orders.user_id"}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			out, _, err := runCLI(t, "-format", tt.format, shop)
			if err != nil {
				t.Fatalf("run failed: %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("Output is missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestRun_OutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shop.png")
	_, stderr, err := runCLI(t, "-format", "png", "-o", path, shop)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Output file missing: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("Output file is not a PNG")
	}
	if !strings.Contains(stderr, "Exported to") {
		t.Errorf("Expected an export notice, got %q", stderr)
	}
}

func TestRun_ValidateAndDebug(t *testing.T) {
	_, stderr, err := runCLI(t, "-validate", "-debug", "-cache", "8", "-format", "json", shop)
	if err != nil {
		t.Fatalf("run failed: %v\n%s", err, stderr)
	}
	if !strings.Contains(stderr, "level=DEBUG") {
		t.Errorf("Expected debug logging, got %q", stderr)
	}
	if !strings.Contains(stderr, "RouteCache") {
		t.Errorf("Expected cache stats in the log, got %q", stderr)
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no file", nil},
		{"unknown flag", []string{"-nope", shop}},
		{"missing file", []string{"does-not-exist.json"}},
		{"bad format", []string{"-format", "svg", shop}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := runCLI(t, tt.args...); err == nil {
				t.Error("Expected an error")
			}
		})
	}

	_, _, err := runCLI(t)
	if !errors.Is(err, errUsage) {
		t.Errorf("Expected usage error without arguments, got %v", err)
	}
}

func TestRun_ImportSchema(t *testing.T) {
	dir := t.TempDir()
	d2 := filepath.Join(dir, "shop.d2")
	schema := "users: {\n  shape: sql_table\n  id: int\n}\norders: {\n  shape: sql_table\n  user_id: int\n}\nusers.id -> orders.user_id\n"
	if err := os.WriteFile(d2, []byte(schema), 0644); err != nil {
		t.Fatal(err)
	}
	mermaid := filepath.Join(dir, "shop.txt")
	if err := os.WriteFile(mermaid, []byte("erDiagram\n  users ||--o{ orders : places\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"by extension", []string{"-format", "json", d2}, `"id": "users_orders"`},
		{"by flag", []string{"-format", "json", "-input-format", "mermaid", mermaid}, `"status": "connected"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, stderr, err := runCLI(t, append([]string{"-validate"}, tt.args...)...)
			if err != nil {
				t.Fatalf("run failed: %v\n%s", err, stderr)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("Output is missing %q:\n%s", tt.want, out)
			}
		})
	}

	if _, _, err := runCLI(t, "-input-format", "dot", mermaid); err == nil {
		t.Error("Expected an unknown input format to fail")
	}
}

func TestRun_BadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "erd.json")
	if err := os.WriteFile(path, []byte(`{"routing": {"stubLength": -1}}`), 0644); err != nil {
		t.Fatal(err)
	}
	var stdout, stderr bytes.Buffer
	if err := run([]string{"-config", path, shop}, &stdout, &stderr); err == nil {
		t.Error("Expected an invalid configuration to fail")
	}
}
