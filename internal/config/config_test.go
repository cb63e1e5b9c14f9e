package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Basket.StorageSentinel != "EBS only" {
		t.Errorf("expected default sentinel, got %q", cfg.Basket.StorageSentinel)
	}
	if cfg.Basket.DefaultVolumeType != "gp3" {
		t.Errorf("expected default volume type gp3, got %q", cfg.Basket.DefaultVolumeType)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for _, name := range []string{"config.json", "config.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			cfg := Default()
			cfg.Sessions.Backend = "file"
			cfg.Sessions.Path = "/tmp/sessions.json"
			cfg.Basket.DefaultVolumeSizeGB = 30
			cfg.Export.Environment = "staging"

			if err := cfg.Save(path); err != nil {
				t.Fatalf("save failed: %v", err)
			}

			loaded, err := Load(path)
			if err != nil {
				t.Fatalf("load failed: %v", err)
			}
			if loaded.Sessions.Backend != "file" || loaded.Sessions.Path != "/tmp/sessions.json" {
				t.Errorf("sessions config not preserved: %+v", loaded.Sessions)
			}
			if loaded.Basket.DefaultVolumeSizeGB != 30 {
				t.Errorf("expected size 30, got %d", loaded.Basket.DefaultVolumeSizeGB)
			}
			if loaded.Export.Environment != "staging" {
				t.Errorf("expected environment staging, got %q", loaded.Export.Environment)
			}
		})
	}
}

func TestLoadPartialYAMLKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("sessions:\n  backend: memory\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Sessions.Backend != "memory" {
		t.Errorf("expected memory backend, got %q", cfg.Sessions.Backend)
	}
	if cfg.Basket.DefaultVolumeType != "gp3" {
		t.Errorf("expected untouched default volume type, got %q", cfg.Basket.DefaultVolumeType)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}
