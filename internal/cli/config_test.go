package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/junction/pkg/errors"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, configFile)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadConfig(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
workers = 3
cache = true
cache_ttl = "36h"

[render]
format = "png"
detailed = true
`)

	cfg, err := readConfig(path, true)
	if err != nil {
		t.Fatalf("readConfig: %v", err)
	}
	if cfg.Workers != 3 || !cfg.Cache || cfg.CacheTTL.Duration != 36*time.Hour {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Render.Format != "png" || !cfg.Render.Detailed {
		t.Errorf("render = %+v", cfg.Render)
	}
}

func TestReadConfigMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), configFile)

	cfg, err := readConfig(path, false)
	if err != nil {
		t.Fatalf("optional config: %v", err)
	}
	if cfg != (Config{}) {
		t.Errorf("cfg = %+v, want zero", cfg)
	}

	if _, err := readConfig(path, true); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("required config: err = %v, want INVALID_CONFIG", err)
	}
}

func TestReadConfigInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", `workers = `},
		{"unknown key", `colour = "red"`},
		{"negative workers", `workers = -1`},
		{"bad duration", `cache_ttl = "soon"`},
		{"bad format", "[render]\nformat = \"pdf\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.body)
			if _, err := readConfig(path, true); !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("err = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestConfigAppliesToCommands(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, filepath.Join(dir, "config", appName), "cache = true\n[render]\nformat = \"dot\"\n")

	out, err := run(t, sampleInput, "render")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(out) < 9 || out[:9] != "graph G {" {
		t.Errorf("render should default to dot from config, got %q", out)
	}

	if _, err := os.Stat(filepath.Join(dir, "cache", appName)); err != nil {
		t.Errorf("cache = true should create the cache directory: %v", err)
	}
}

func TestConfigFlagRequiresFile(t *testing.T) {
	isolate(t)

	_, err := run(t, sampleInput, "--config", filepath.Join(t.TempDir(), "nope.toml"), "budget")
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}
