package jsonstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/streetpaws/feedpoint/points"
)

func TestLoadMissingFileYieldsEmpty(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "locations.json"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	records, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("records = %+v, want empty", records)
	}
}

func TestOpenCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "nested", "locations.json")
	if _, err := Open(path); err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Errorf("parent dir not created: %v", err)
	}
}

func TestReplaceThenLoadRoundTrip(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "locations.json"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ctx := context.Background()

	created := time.Date(2025, 3, 1, 18, 30, 0, 0, time.UTC)
	in := []points.Record{
		{
			ID:          "p-1",
			OwnerID:     7,
			OwnerName:   "ayse",
			Latitude:    41.0082,
			Longitude:   28.9784,
			Description: "Kapı önü",
			Schedule:    "Her gün 18:00",
			CreatedAt:   created,
			Approved:    true,
		},
		{
			ID:          "p-2",
			OwnerID:     8,
			Latitude:    0,
			Longitude:   0,
			Description: "Null adası",
			Schedule:    "Pazar",
		},
	}
	if err := store.Replace(ctx, in); err != nil {
		t.Fatalf("replace: %v", err)
	}

	out, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if out[0].ID != "p-1" || out[0].OwnerName != "ayse" || !out[0].Approved {
		t.Errorf("first record = %+v", out[0])
	}
	if !out[0].CreatedAt.Equal(created) {
		t.Errorf("created_at = %v, want %v", out[0].CreatedAt, created)
	}
	// Zero coordinates must survive the round trip.
	if out[1].Latitude != 0 || out[1].Longitude != 0 {
		t.Errorf("zero coords lost: %+v", out[1])
	}
	if out[1].Approved {
		t.Error("second record must stay pending")
	}
}

func TestLoadLegacyDocument(t *testing.T) {
	// A file produced by the predecessor: no ids, lat/lon field names,
	// naive timestamps, and a foto URL.
	legacy := `[
  {
    "user_id": 5,
    "username": "mehmet",
    "lat": 39.92,
    "lon": 32.85,
    "description": "Park girişi",
    "time": "Sabahları",
    "foto": "https://example.com/p.jpg",
    "created_at": "2024-11-02T09:15:00.123456",
    "approved": true
  }
]`
	path := filepath.Join(t.TempDir(), "locations.json")
	if err := os.WriteFile(path, []byte(legacy), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	records, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("len = %d", len(records))
	}
	rec := records[0]
	if rec.ID == "" {
		t.Error("legacy record must be assigned an id")
	}
	if rec.Latitude != 39.92 || rec.Longitude != 32.85 {
		t.Errorf("alias coords not honored: %+v", rec)
	}
	if rec.PhotoURL != "https://example.com/p.jpg" {
		t.Errorf("photo = %q", rec.PhotoURL)
	}
	if rec.CreatedAt.IsZero() {
		t.Error("naive timestamp not parsed")
	}

	// The migrated ids must be persisted, not re-generated per load.
	again, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again[0].ID != rec.ID {
		t.Errorf("id changed across loads: %q vs %q", again[0].ID, rec.ID)
	}
}

func TestLoadRejectsCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locations.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := store.Load(context.Background()); err == nil {
		t.Fatal("corrupt file must fail loudly, not truncate")
	}
}

func TestReplaceLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(filepath.Join(dir, "locations.json"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.Replace(context.Background(), []points.Record{
		{ID: "x", OwnerID: 1, Description: "d", Schedule: "s"},
	}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "locations.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("dir contents = %v", names)
	}
}
