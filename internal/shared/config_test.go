package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.API.BaseURL != "http://localhost:8000" {
			t.Errorf("unexpected base URL %q", config.API.BaseURL)
		}
		if config.API.DefaultFPS != 30 {
			t.Errorf("expected default fps 30, got %d", config.API.DefaultFPS)
		}
		if config.API.FPSTransport != FPSTransportBoth {
			t.Errorf("expected fps transport both, got %q", config.API.FPSTransport)
		}
		if config.API.Timeout() != 120*time.Second {
			t.Errorf("expected 120s timeout, got %s", config.API.Timeout())
		}
		if config.Database.Path == "" {
			t.Error("expected a database path")
		}
		if config.History.Limit != 10 {
			t.Errorf("expected history limit 10, got %d", config.History.Limit)
		}
	})

	t.Run("Timeout falls back when unset", func(t *testing.T) {
		if got := (APIConfig{}).Timeout(); got != 120*time.Second {
			t.Errorf("expected 120s fallback, got %s", got)
		}
		if got := (APIConfig{TimeoutSeconds: 30}).Timeout(); got != 30*time.Second {
			t.Errorf("expected 30s, got %s", got)
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		t.Run("missing file", func(t *testing.T) {
			_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
			if !errors.Is(err, ErrMissingConfig) {
				t.Errorf("expected ErrMissingConfig, got %v", err)
			}
		})

		t.Run("invalid toml", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.toml")
			if err := os.WriteFile(path, []byte("api = [unclosed"), 0o644); err != nil {
				t.Fatal(err)
			}

			_, err := LoadConfig(path)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})

		t.Run("valid file", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			content := "[api]\nbase_url = \"http://example.com\"\ntimeout_seconds = 60\nfps_transport = \"query\"\n"
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatal(err)
			}

			config, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("expected load to succeed, got %v", err)
			}
			if config.API.BaseURL != "http://example.com" {
				t.Errorf("unexpected base URL %q", config.API.BaseURL)
			}
			if config.API.Timeout() != 60*time.Second {
				t.Errorf("expected 60s timeout, got %s", config.API.Timeout())
			}
			if config.API.FPSTransport != FPSTransportQuery {
				t.Errorf("expected query transport, got %q", config.API.FPSTransport)
			}
		})
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(path); err != nil {
			t.Fatalf("expected create to succeed, got %v", err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("expected generated file to parse, got %v", err)
		}
		if config.API.BaseURL == "" {
			t.Error("expected generated config to carry defaults")
		}

		if err := CreateConfigFile(path); err == nil {
			t.Error("expected second create to fail")
		}
	})
}
