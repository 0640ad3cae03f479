package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.RegistryURL != "https://registry.npmjs.org" {
		t.Errorf("RegistryURL = %q", cfg.RegistryURL)
	}
	if cfg.Concurrency != 25 {
		t.Errorf("Concurrency = %d, want 25", cfg.Concurrency)
	}
	if cfg.DataDir != "data" || cfg.OutputDir != "output" || cfg.LogDir != "logs" {
		t.Errorf("unexpected dirs: %+v", cfg)
	}
	if cfg.ConfigFile() != "" {
		t.Errorf("ConfigFile = %q, want none", cfg.ConfigFile())
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	os.WriteFile(path, []byte("concurrency: 4\noutput_dir: /tmp/out\nlog_level: debug\n"), 0644)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Concurrency != 4 {
		t.Errorf("Concurrency = %d, want 4", cfg.Concurrency)
	}
	if cfg.OutputDir != "/tmp/out" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("SlogLevel = %v, want debug", cfg.SlogLevel())
	}
	if cfg.Get("output_dir") != "/tmp/out" {
		t.Errorf("Get(output_dir) = %q", cfg.Get("output_dir"))
	}
}

func TestLoad_FileInWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "publish-registry.yaml"), []byte("retries: 1\n"), 0644)
	t.Chdir(dir)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Retries != 1 {
		t.Errorf("Retries = %d, want 1", cfg.Retries)
	}
}

func TestLoad_Env(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TYPES_PUBLISHER_NPM_TOKEN", "from-env")
	t.Setenv("TYPES_PUBLISHER_CONCURRENCY", "7")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.NpmToken != "from-env" {
		t.Errorf("NpmToken = %q", cfg.NpmToken)
	}
	if cfg.Concurrency != 7 {
		t.Errorf("Concurrency = %d, want 7", cfg.Concurrency)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoad_InvalidConcurrency(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("concurrency: 0\n"), 0644)
	if _, err := Load(path); err == nil {
		t.Error("expected validation error")
	}
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"info":    slog.LevelInfo,
		"WARNING": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := (&Config{LogLevel: in}).SlogLevel(); got != want {
			t.Errorf("SlogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
