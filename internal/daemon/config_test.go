package daemon

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("API.Host = %q, want %q", cfg.API.Host, "127.0.0.1")
	}
	if cfg.API.Port != 7420 {
		t.Errorf("API.Port = %d, want %d", cfg.API.Port, 7420)
	}
	if cfg.Profile.UserID != "local" {
		t.Errorf("Profile.UserID = %q, want %q", cfg.Profile.UserID, "local")
	}
	if cfg.Profile.Currency != "EUR" {
		t.Errorf("Profile.Currency = %q, want %q", cfg.Profile.Currency, "EUR")
	}
}

func TestLoadConfig_NoFile(t *testing.T) {
	t.Setenv("SPARFUCHS_HOME", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Profile.UserID != "local" {
		t.Errorf("expected defaults without a config file, got %+v", cfg.Profile)
	}
}

func TestSaveLoadConfig_RoundTrip(t *testing.T) {
	t.Setenv("SPARFUCHS_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.Profile.Currency = "CHF"
	cfg.API.Port = 9999
	cfg.Telemetry.Prometheus = true
	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Profile.Currency != "CHF" {
		t.Errorf("Currency = %q, want CHF", loaded.Profile.Currency)
	}
	if loaded.API.Port != 9999 {
		t.Errorf("Port = %d, want 9999", loaded.API.Port)
	}
	if !loaded.Telemetry.Prometheus {
		t.Error("expected prometheus enabled after round trip")
	}
}

func TestLoadConfig_EmptyFieldsFallBack(t *testing.T) {
	home := t.TempDir()
	t.Setenv("SPARFUCHS_HOME", home)

	raw := "[profile]\nuser_id = \"\"\n\n[store]\ndir = \"\"\n"
	if err := os.WriteFile(filepath.Join(home, "config.toml"), []byte(raw), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Profile.UserID != "local" {
		t.Errorf("expected user fallback, got %q", cfg.Profile.UserID)
	}
	if cfg.Store.Dir != home {
		t.Errorf("expected store dir fallback %q, got %q", home, cfg.Store.Dir)
	}
}
