// Package jsonstore persists the feeding point collection as a single
// JSON document, rewritten in full on every mutation.
package jsonstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/streetpaws/feedpoint/core/logger"
	"github.com/streetpaws/feedpoint/points"
)

// Store reads and rewrites one JSON file. Writers are serialized so two
// concurrent Replace calls cannot interleave partial documents.
type Store struct {
	path string
	mu   sync.Mutex
}

// Open prepares a store at path, creating the parent directory if needed.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("jsonstore: empty path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("jsonstore: create data dir: %w", err)
		}
	}
	return &Store{path: path}, nil
}

// Load reads the whole collection. A missing file yields an empty slice.
// Records from legacy files that carry no identifier are assigned one and
// the migrated document is written back immediately.
func (s *Store) Load(ctx context.Context) ([]points.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *Store) loadLocked(ctx context.Context) ([]points.Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []points.Record{}, nil
		}
		return nil, fmt.Errorf("jsonstore: read %s: %w", s.path, err)
	}

	var wire []wireRecord
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("jsonstore: parse %s: %w", s.path, err)
	}

	records := make([]points.Record, 0, len(wire))
	migrated := false
	for _, w := range wire {
		rec := w.toRecord()
		if rec.ID == "" {
			rec.ID = uuid.New().String()
			migrated = true
		}
		records = append(records, rec)
	}

	if migrated {
		if err := s.replaceLocked(records); err != nil {
			return nil, err
		}
		logger.LogEvent(ctx, logger.Store, slog.LevelInfo, "store.migrate_ids",
			slog.Int("points_total", len(records)),
		)
	}
	return records, nil
}

// Replace atomically rewrites the whole collection. The document is
// written to a temp file in the same directory and renamed over the old
// one, so readers never observe a partial write.
func (s *Store) Replace(ctx context.Context, records []points.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.replaceLocked(records); err != nil {
		return err
	}
	logger.LogEvent(ctx, logger.Store, slog.LevelDebug, "store.replace",
		slog.Int("points_total", len(records)),
	)
	return nil
}

func (s *Store) replaceLocked(records []points.Record) error {
	wire := make([]wireRecord, 0, len(records))
	for _, r := range records {
		wire = append(wire, fromRecord(r))
	}

	data, err := json.MarshalIndent(wire, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonstore: encode: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("jsonstore: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("jsonstore: write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("jsonstore: close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("jsonstore: rename to %s: %w", s.path, err)
	}
	return nil
}

// wireRecord mirrors the persisted document. The alternate legacy variant
// used lat/lon instead of latitude/longitude and an optional foto field;
// readers tolerate both.
type wireRecord struct {
	ID          string   `json:"id,omitempty"`
	UserID      int64    `json:"user_id"`
	Username    string   `json:"username,omitempty"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	AltLat      *float64 `json:"lat,omitempty"`
	AltLon      *float64 `json:"lon,omitempty"`
	Description string   `json:"description"`
	Time        string   `json:"time,omitempty"`
	Photo       string   `json:"foto,omitempty"`
	CreatedAt   string   `json:"created_at,omitempty"`
	Approved    bool     `json:"approved"`
}

// createdAtLayouts covers RFC3339 and the naive ISO-8601 text the legacy
// writer produced.
var createdAtLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

func (w wireRecord) toRecord() points.Record {
	rec := points.Record{
		ID:          w.ID,
		OwnerID:     w.UserID,
		OwnerName:   w.Username,
		Latitude:    w.Latitude,
		Longitude:   w.Longitude,
		Description: w.Description,
		Schedule:    w.Time,
		PhotoURL:    w.Photo,
		Approved:    w.Approved,
	}
	if w.AltLat != nil {
		rec.Latitude = *w.AltLat
	}
	if w.AltLon != nil {
		rec.Longitude = *w.AltLon
	}
	if w.CreatedAt != "" {
		for _, layout := range createdAtLayouts {
			if t, err := time.Parse(layout, w.CreatedAt); err == nil {
				rec.CreatedAt = t
				break
			}
		}
	}
	return rec
}

func fromRecord(r points.Record) wireRecord {
	w := wireRecord{
		ID:          r.ID,
		UserID:      r.OwnerID,
		Username:    r.OwnerName,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		Description: r.Description,
		Time:        r.Schedule,
		Photo:       r.PhotoURL,
		Approved:    r.Approved,
	}
	if !r.CreatedAt.IsZero() {
		w.CreatedAt = r.CreatedAt.Format(time.RFC3339Nano)
	}
	return w
}
