package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Data.CamerasCSV != "cameras.csv" || cfg.Data.LensesCSV != "lenses.csv" {
		t.Errorf("unexpected data files: %q %q", cfg.Data.CamerasCSV, cfg.Data.LensesCSV)
	}
	if cfg.Cache.Dir == "" {
		t.Error("default cache dir is empty")
	}
	if got := cfg.CacheTTL(); got != 8*time.Hour {
		t.Errorf("default cache TTL = %v, want 8h", got)
	}
	if got := cfg.FetchTimeout(); got != 30*time.Second {
		t.Errorf("default fetch timeout = %v, want 30s", got)
	}
	if cfg.Fetch.MaxWorkers != 4 {
		t.Errorf("default max workers = %d, want 4", cfg.Fetch.MaxWorkers)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("level = %q, want info", cfg.Logging.Level)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cldb.yaml")

	cfg := DefaultConfig()
	cfg.Data.CamerasCSV = "/srv/data/cameras.csv"
	cfg.Cache.TTL = "1h"
	cfg.Fetch.MaxWorkers = 8
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Data.CamerasCSV != "/srv/data/cameras.csv" {
		t.Errorf("cameras csv = %q", loaded.Data.CamerasCSV)
	}
	if got := loaded.CacheTTL(); got != time.Hour {
		t.Errorf("cache TTL = %v, want 1h", got)
	}
	if loaded.Fetch.MaxWorkers != 8 {
		t.Errorf("max workers = %d, want 8", loaded.Fetch.MaxWorkers)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cldb.yaml")
	if err := os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Data.CamerasCSV != "cameras.csv" {
		t.Errorf("cameras csv = %q, want the default", cfg.Data.CamerasCSV)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cldb.yaml")
	if err := os.WriteFile(path, []byte("data: [not a mapping"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CLDB_CACHE_DIR", "/tmp/cldb-cache")
	t.Setenv("CLDB_DATA_DIR", "/srv/cldb")
	t.Setenv("CLDB_HTTP_TIMEOUT", "5s")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Cache.Dir != "/tmp/cldb-cache" {
		t.Errorf("cache dir = %q", cfg.Cache.Dir)
	}
	if want := filepath.Join("/srv/cldb", "lenses.csv"); cfg.Data.LensesCSV != want {
		t.Errorf("lenses csv = %q, want %q", cfg.Data.LensesCSV, want)
	}
	if got := cfg.FetchTimeout(); got != 5*time.Second {
		t.Errorf("fetch timeout = %v, want 5s", got)
	}
}
