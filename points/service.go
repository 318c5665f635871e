package points

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/streetpaws/feedpoint/core/logger"
)

// Submission carries the fields collected by the three-step form.
type Submission struct {
	OwnerID     int64
	OwnerName   string
	Latitude    float64
	Longitude   float64
	Description string
	Schedule    string
	PhotoURL    string
}

// Service implements the submission, moderation, and self-service
// workflows over a Store. All load-modify-save cycles are serialized
// behind one mutex so concurrent submitters cannot lose each other's
// appends.
type Service struct {
	store Store
	admin AdminPolicy

	mu    sync.Mutex
	now   func() time.Time
	newID func() string
}

// NewService wires a Service over the given store and admin policy.
func NewService(store Store, admin AdminPolicy) *Service {
	return &Service{
		store: store,
		admin: admin,
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
}

// IsAdmin exposes the capability check to callers building UI.
func (s *Service) IsAdmin(userID int64) bool {
	return s.admin != nil && s.admin.IsAdmin(userID)
}

// Submit appends one record assembled from the completed form.
// Submissions by the admin go live immediately; everyone else's wait for
// moderation.
func (s *Service) Submit(ctx context.Context, sub Submission) (Record, error) {
	if strings.TrimSpace(sub.Description) == "" {
		return Record{}, fmt.Errorf("%w: empty description", ErrValidation)
	}
	if strings.TrimSpace(sub.Schedule) == "" {
		return Record{}, fmt.Errorf("%w: empty schedule", ErrValidation)
	}

	rec := Record{
		ID:          s.newID(),
		OwnerID:     sub.OwnerID,
		OwnerName:   sub.OwnerName,
		Latitude:    sub.Latitude,
		Longitude:   sub.Longitude,
		Description: sub.Description,
		Schedule:    sub.Schedule,
		PhotoURL:    sub.PhotoURL,
		CreatedAt:   s.now(),
		Approved:    s.IsAdmin(sub.OwnerID),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.store.Load(ctx)
	if err != nil {
		return Record{}, err
	}
	records = append(records, rec)
	if err := s.store.Replace(ctx, records); err != nil {
		return Record{}, err
	}

	logger.LogEvent(ctx, logger.SVCPoints, slog.LevelInfo, "point.submitted",
		slog.String("point_id", rec.ID),
		slog.Int64("owner_id", rec.OwnerID),
		slog.Bool("approved", rec.Approved),
		slog.Int("points_total", len(records)),
	)
	return rec, nil
}

// Approved returns the publicly visible subset in store order.
func (s *Service) Approved(ctx context.Context) ([]Record, error) {
	records, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return filter(records, func(r Record) bool { return r.Approved }), nil
}

// Pending lists records awaiting moderation, admin only, store order preserved.
func (s *Service) Pending(ctx context.Context, callerID int64) ([]Record, error) {
	if !s.IsAdmin(callerID) {
		return nil, ErrUnauthorized
	}
	records, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return filter(records, func(r Record) bool { return !r.Approved }), nil
}

// Owned lists the caller's own records with their approval status.
func (s *Service) Owned(ctx context.Context, userID int64) ([]Record, error) {
	records, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return filter(records, func(r Record) bool { return r.OwnerID == userID }), nil
}

// Get returns a single record by identifier.
func (s *Service) Get(ctx context.Context, id string) (Record, error) {
	records, err := s.store.Load(ctx)
	if err != nil {
		return Record{}, err
	}
	for _, r := range records {
		if r.ID == id {
			return r, nil
		}
	}
	return Record{}, ErrNotFound
}

// Counts reports pending and approved totals for the admin panel.
func (s *Service) Counts(ctx context.Context, callerID int64) (pending, approved int, err error) {
	if !s.IsAdmin(callerID) {
		return 0, 0, ErrUnauthorized
	}
	records, err := s.store.Load(ctx)
	if err != nil {
		return 0, 0, err
	}
	for _, r := range records {
		if r.Approved {
			approved++
		} else {
			pending++
		}
	}
	return pending, approved, nil
}

// Approve marks the record visible. Approving an already approved record
// is a no-op reporting success.
func (s *Service) Approve(ctx context.Context, callerID int64, id string) (Record, error) {
	if !s.IsAdmin(callerID) {
		return Record{}, ErrUnauthorized
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.store.Load(ctx)
	if err != nil {
		return Record{}, err
	}
	for i := range records {
		if records[i].ID != id {
			continue
		}
		if !records[i].Approved {
			records[i].Approved = true
			if err := s.store.Replace(ctx, records); err != nil {
				return Record{}, err
			}
		}
		logger.LogEvent(ctx, logger.SVCPoints, slog.LevelInfo, "point.approved",
			slog.String("point_id", id),
		)
		return records[i], nil
	}
	return Record{}, ErrNotFound
}

// Reject removes a record during moderation and returns the removed copy.
func (s *Service) Reject(ctx context.Context, callerID int64, id string) (Record, error) {
	if !s.IsAdmin(callerID) {
		return Record{}, ErrUnauthorized
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.store.Load(ctx)
	if err != nil {
		return Record{}, err
	}
	for i := range records {
		if records[i].ID != id {
			continue
		}
		removed := records[i]
		records = append(records[:i], records[i+1:]...)
		if err := s.store.Replace(ctx, records); err != nil {
			return Record{}, err
		}
		logger.LogEvent(ctx, logger.SVCPoints, slog.LevelInfo, "point.rejected",
			slog.String("point_id", id),
		)
		return removed, nil
	}
	return Record{}, ErrNotFound
}

// Delete removes the caller's own record. Records owned by someone else
// are refused even when the identifier exists.
func (s *Service) Delete(ctx context.Context, callerID int64, id string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.store.Load(ctx)
	if err != nil {
		return Record{}, err
	}
	for i := range records {
		if records[i].ID != id {
			continue
		}
		if records[i].OwnerID != callerID {
			return Record{}, ErrUnauthorized
		}
		removed := records[i]
		records = append(records[:i], records[i+1:]...)
		if err := s.store.Replace(ctx, records); err != nil {
			return Record{}, err
		}
		logger.LogEvent(ctx, logger.SVCPoints, slog.LevelInfo, "point.deleted",
			slog.String("point_id", id),
			slog.Int64("owner_id", callerID),
		)
		return removed, nil
	}
	return Record{}, ErrNotFound
}

func filter(records []Record, keep func(Record) bool) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
