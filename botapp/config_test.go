package botapp

import (
	"strings"
	"testing"
)

func TestNormalizeStorageDefaults(t *testing.T) {
	cfg := &Config{}
	if err := normalizeStorage(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Storage.Backend != BackendJSON {
		t.Errorf("backend = %q, want json", cfg.Storage.Backend)
	}
	if cfg.Storage.Path == "" {
		t.Error("default path not filled in")
	}
}

func TestNormalizeStorageBackendCaseInsensitive(t *testing.T) {
	cfg := &Config{}
	cfg.Storage.Backend = " JSON "
	if err := normalizeStorage(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Storage.Backend != BackendJSON {
		t.Errorf("backend = %q", cfg.Storage.Backend)
	}
}

func TestNormalizeStoragePostgresRequiresDatabase(t *testing.T) {
	cfg := &Config{}
	cfg.Storage.Backend = BackendPostgres

	err := normalizeStorage(cfg)
	if err == nil || !strings.Contains(err.Error(), "database.host") {
		t.Fatalf("err = %v, want missing host complaint", err)
	}

	cfg.Database.Host = "localhost"
	err = normalizeStorage(cfg)
	if err == nil || !strings.Contains(err.Error(), "database.name") {
		t.Fatalf("err = %v, want missing name complaint", err)
	}

	cfg.Database.Name = "feedpoint"
	if err := normalizeStorage(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
}

func TestNormalizeStorageRejectsUnknownBackend(t *testing.T) {
	cfg := &Config{}
	cfg.Storage.Backend = "redis"
	if err := normalizeStorage(cfg); err == nil {
		t.Fatal("unknown backend accepted")
	}
}
