// Package pgstore keeps the feeding point collection in Postgres while
// preserving the whole-document Load/Replace contract of the JSON store.
package pgstore

import (
	"context"
	"database/sql"
	"fmt"

	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/streetpaws/feedpoint/core/logger"
	"github.com/streetpaws/feedpoint/points"
)

// Store implements points.Store over a feeding_points table. Replace
// runs as one transaction that rewrites the table, so the collection is
// swapped atomically just like the file rename in the JSON backend.
type Store struct {
	db *sqlx.DB
}

// New wires a Store over an established connection pool.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

type row struct {
	Seq         int            `db:"seq"`
	ID          string         `db:"id"`
	UserID      int64          `db:"user_id"`
	Username    sql.NullString `db:"username"`
	Latitude    float64        `db:"latitude"`
	Longitude   float64        `db:"longitude"`
	Description string         `db:"description"`
	Schedule    string         `db:"schedule"`
	PhotoURL    sql.NullString `db:"photo_url"`
	CreatedAt   sql.NullTime   `db:"created_at"`
	Approved    bool           `db:"approved"`
}

// Load returns all records in insertion order.
func (s *Store) Load(ctx context.Context) ([]points.Record, error) {
	var rows []row
	err := s.db.SelectContext(ctx, &rows,
		`SELECT seq, id, user_id, username, latitude, longitude,
		        description, schedule, photo_url, created_at, approved
		   FROM feeding_points ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("pgstore: load: %w", err)
	}

	records := make([]points.Record, 0, len(rows))
	for _, r := range rows {
		rec := points.Record{
			ID:          r.ID,
			OwnerID:     r.UserID,
			OwnerName:   r.Username.String,
			Latitude:    r.Latitude,
			Longitude:   r.Longitude,
			Description: r.Description,
			Schedule:    r.Schedule,
			PhotoURL:    r.PhotoURL.String,
			Approved:    r.Approved,
		}
		if r.CreatedAt.Valid {
			rec.CreatedAt = r.CreatedAt.Time
		}
		records = append(records, rec)
	}
	return records, nil
}

// Replace rewrites the whole table inside one transaction.
func (s *Store) Replace(ctx context.Context, records []points.Record) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("pgstore: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM feeding_points`); err != nil {
		return fmt.Errorf("pgstore: clear: %w", err)
	}

	const insert = `INSERT INTO feeding_points
		(seq, id, user_id, username, latitude, longitude,
		 description, schedule, photo_url, created_at, approved)
		VALUES (:seq, :id, :user_id, :username, :latitude, :longitude,
		        :description, :schedule, :photo_url, :created_at, :approved)`
	for i, rec := range records {
		r := row{
			Seq:         i,
			ID:          rec.ID,
			UserID:      rec.OwnerID,
			Latitude:    rec.Latitude,
			Longitude:   rec.Longitude,
			Description: rec.Description,
			Schedule:    rec.Schedule,
			Approved:    rec.Approved,
		}
		if rec.OwnerName != "" {
			r.Username = sql.NullString{String: rec.OwnerName, Valid: true}
		}
		if rec.PhotoURL != "" {
			r.PhotoURL = sql.NullString{String: rec.PhotoURL, Valid: true}
		}
		if !rec.CreatedAt.IsZero() {
			r.CreatedAt = sql.NullTime{Time: rec.CreatedAt, Valid: true}
		}
		if _, err := tx.NamedExecContext(ctx, insert, r); err != nil {
			return fmt.Errorf("pgstore: insert %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("pgstore: commit: %w", err)
	}
	logger.LogEvent(ctx, logger.Store, slog.LevelDebug, "store.replace",
		slog.Int("points_total", len(records)),
	)
	return nil
}
