package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Default(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	os.Unsetenv("SHIPNOTE_NOTES_API")
	os.Unsetenv("SHIPNOTE_SHIPPING_API")
	os.Unsetenv("SHIPNOTE_TOKEN")
	os.Unsetenv("SHIPNOTE_LABEL_DIR")

	cfg, err := Load(CLIFlags{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.NotesAPI != "http://localhost:3000" {
		t.Errorf("expected default notes API, got %q", cfg.NotesAPI)
	}
	if cfg.ShippingAPI != "http://localhost:8001/api/v1" {
		t.Errorf("expected default shipping API, got %q", cfg.ShippingAPI)
	}
	if cfg.Token != "" {
		t.Errorf("expected empty token, got %q", cfg.Token)
	}
	if cfg.LabelDir == "" {
		t.Error("expected default label dir")
	}
}

func TestLoad_EnvVar(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SHIPNOTE_NOTES_API", "http://notes.example:3000")
	t.Setenv("SHIPNOTE_SHIPPING_API", "http://ship.example/api/v1")
	t.Setenv("SHIPNOTE_TOKEN", "env-token")

	cfg, err := Load(CLIFlags{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.NotesAPI != "http://notes.example:3000" {
		t.Errorf("expected env notes API, got %q", cfg.NotesAPI)
	}
	if cfg.ShippingAPI != "http://ship.example/api/v1" {
		t.Errorf("expected env shipping API, got %q", cfg.ShippingAPI)
	}
	if cfg.Token != "env-token" {
		t.Errorf("expected env token, got %q", cfg.Token)
	}
}

func TestLoad_CLIFlags(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SHIPNOTE_NOTES_API", "http://env.example")

	cfg, err := Load(CLIFlags{
		NotesAPI:    "http://cli.example",
		ShippingAPI: "http://cli-ship.example",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// CLI flags should override env vars
	if cfg.NotesAPI != "http://cli.example" {
		t.Errorf("expected http://cli.example, got %q", cfg.NotesAPI)
	}
	if cfg.ShippingAPI != "http://cli-ship.example" {
		t.Errorf("expected http://cli-ship.example, got %q", cfg.ShippingAPI)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	os.Unsetenv("SHIPNOTE_TOKEN")
	os.Unsetenv("SHIPNOTE_NOTES_API")
	os.Unsetenv("SHIPNOTE_SHIPPING_API")
	os.Unsetenv("SHIPNOTE_LABEL_DIR")

	configDir := filepath.Join(home, ".config", "shipnote")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	data := []byte(`{"notes_api": "http://file.example", "token": "file-token"}`)
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), data, 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(CLIFlags{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.NotesAPI != "http://file.example" {
		t.Errorf("expected file notes API, got %q", cfg.NotesAPI)
	}
	if cfg.Token != "file-token" {
		t.Errorf("expected file token, got %q", cfg.Token)
	}
	// Unset fields keep defaults
	if cfg.ShippingAPI != "http://localhost:8001/api/v1" {
		t.Errorf("expected default shipping API, got %q", cfg.ShippingAPI)
	}
}

func TestLoad_PathExpansion(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(CLIFlags{LabelDir: "~/labels"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := filepath.Join(home, "labels")
	if cfg.LabelDir != expected {
		t.Errorf("expected %q, got %q", expected, cfg.LabelDir)
	}
}

func TestEnsureConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if err := EnsureConfigFile(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path := filepath.Join(home, ".config", "shipnote", "config.json")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file at %s: %v", path, err)
	}

	// Second call must not fail on the existing file
	if err := EnsureConfigFile(); err != nil {
		t.Fatalf("unexpected error on existing file: %v", err)
	}
}
