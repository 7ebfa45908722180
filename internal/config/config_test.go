package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Output.Width != 76 {
		t.Errorf("expected width 76, got %d", cfg.Output.Width)
	}
	if !cfg.Output.OutlineFonts {
		t.Error("expected outline fonts on by default")
	}
	if cfg.Images.Level != "none" {
		t.Errorf("expected image level none, got %q", cfg.Images.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv("WORDGO_TEST_PICS", "/tmp/pics")
	path := filepath.Join(t.TempDir(), "wordgo.yaml")
	data := `
output:
  width: 60
  encoding: ISO-8859-2
images:
  level: extract
  dir: ${WORDGO_TEST_PICS}/out
paper:
  size: letter
  landscape: true
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Output.Width != 60 {
		t.Errorf("expected width 60, got %d", cfg.Output.Width)
	}
	if cfg.Output.Encoding != "ISO-8859-2" {
		t.Errorf("expected ISO-8859-2, got %q", cfg.Output.Encoding)
	}
	if cfg.Images.Dir != "/tmp/pics/out" {
		t.Errorf("expected /tmp/pics/out, got %q", cfg.Images.Dir)
	}
	if !cfg.Paper.Landscape || cfg.Paper.Size != "letter" {
		t.Errorf("expected landscape letter, got %+v", cfg.Paper)
	}
	// Unset fields keep their defaults.
	if !cfg.Output.OutlineFonts {
		t.Error("expected outline fonts to keep the default")
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("expected log level warn, got %q", cfg.Log.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected config to validate, got %v", err)
	}
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for a missing file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("output: [1, 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(bad); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestLoad(t *testing.T) {
	t.Setenv(EnvVar, "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Output.Width != 76 {
		t.Errorf("expected defaults without %s, got width %d", EnvVar, cfg.Output.Width)
	}

	path := filepath.Join(t.TempDir(), "wordgo.yaml")
	if err := os.WriteFile(path, []byte("output:\n  width: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvVar, path)
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Output.Width != 0 {
		t.Errorf("expected width 0, got %d", cfg.Output.Width)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"negative width", func(c *Config) { c.Output.Width = -1 }, "output.width"},
		{"encoding", func(c *Config) { c.Output.Encoding = "koi8-r" }, "output.encoding"},
		{"image level", func(c *Config) { c.Images.Level = "all" }, "images.level"},
		{"image dir", func(c *Config) { c.Images.Level = "extract" }, "images.dir"},
		{"paper", func(c *Config) { c.Paper.Size = "napkin" }, "paper.size"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"dump format", func(c *Config) { c.Dump.Format = "xml" }, "dump.format"},
		{"compression", func(c *Config) { c.Dump.Compression = "gzip" }, "dump.compression"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error mentioning %s, got %v", tt.want, err)
			}
		})
	}

	cfg := Default()
	cfg.Output.Width = -5
	cfg.Paper.Size = "napkin"
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "output.width") || !strings.Contains(err.Error(), "paper.size") {
		t.Errorf("expected both errors joined, got %v", err)
	}
}

func TestParseLogLevel(t *testing.T) {
	l, err := ParseLogLevel("DEBUG")
	if err != nil || l != slog.LevelDebug {
		t.Errorf("expected debug, got %v %v", l, err)
	}
	if _, err := ParseLogLevel("chatty"); err == nil {
		t.Error("expected error for unknown level")
	}
}
