package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.View.Layout != "circle" {
		t.Errorf("expected layout 'circle', got %q", cfg.View.Layout)
	}
	if cfg.Service.Timeout.Duration != 30*time.Second {
		t.Errorf("expected timeout 30s, got %v", cfg.Service.Timeout)
	}
	if cfg.View.PruneRemoved {
		t.Error("default prune_removed should be false")
	}
	if len(cfg.Style.Palette) == 0 {
		t.Error("default palette should not be empty")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/test-xdg")
	dir := ConfigDir()
	if dir != "/tmp/test-xdg/ontomap" {
		t.Errorf("expected /tmp/test-xdg/ontomap, got %q", dir)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	dir = ConfigDir()
	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".config", "ontomap")
	if dir != expected {
		t.Errorf("expected %q, got %q", expected, dir)
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	cfg := Default()
	cfg.View.Layout = "radial"
	cfg.Service.Timeout = Duration{5 * time.Second}
	cfg.Service.BaseURL = "https://mappings.example.org/v1"

	if err := Save(cfg, ""); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.View.Layout != "radial" {
		t.Errorf("expected layout radial, got %q", loaded.View.Layout)
	}
	if loaded.Service.Timeout.Duration != 5*time.Second {
		t.Errorf("expected timeout 5s, got %v", loaded.Service.Timeout)
	}
	if loaded.Service.BaseURL != "https://mappings.example.org/v1" {
		t.Errorf("unexpected base url %q", loaded.Service.BaseURL)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Serve.Addr != Default().Serve.Addr {
		t.Errorf("expected default addr, got %q", cfg.Serve.Addr)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	os.WriteFile(path, []byte("[log]\nlevel = \"debug\"\n"), 0o644)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected level debug, got %q", cfg.Log.Level)
	}
	if cfg.View.Width != 1200 {
		t.Errorf("expected default width, got %v", cfg.View.Width)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"bad level":    "[log]\nlevel = \"chatty\"\n",
		"bad url":      "[service]\nbase_url = \"not a url\"\n",
		"bad timeout":  "[service]\ntimeout = \"soon\"\n",
		"bad color":    "[style]\nborder_color = \"grey\"\n",
		"zero width":   "[view]\nwidth = 0.0\n",
		"bad weight":   "[style]\nhighlight_weight = \"heavy\"\n",
		"syntax error": "[view\n",
	}
	for name, body := range tests {
		path := filepath.Join(t.TempDir(), "config.toml")
		os.WriteFile(path, []byte(body), 0o644)
		if _, err := Load(path); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestValidateMessage(t *testing.T) {
	cfg := Default()
	cfg.Log.Format = "xml"
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "Config.Log.Format") {
		t.Errorf("expected field name in error, got %v", err)
	}
}

func TestEnsureExists(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	if err := EnsureExists(""); err != nil {
		t.Fatalf("EnsureExists failed: %v", err)
	}

	path := filepath.Join(tmpDir, "ontomap", "config.toml")
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file not created: %v", err)
	}

	if err := EnsureExists(""); err != nil {
		t.Fatalf("EnsureExists second call failed: %v", err)
	}
}
