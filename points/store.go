package points

import "context"

// Store persists the whole record collection as one document.
// Load on missing backing storage yields an empty slice, not an error.
// Replace must never leave a partially written document observable.
type Store interface {
	Load(ctx context.Context) ([]Record, error)
	Replace(ctx context.Context, records []Record) error
}

// AdminPolicy answers capability checks for moderation entry points.
type AdminPolicy interface {
	IsAdmin(userID int64) bool
}

// SingleAdmin is the minimal AdminPolicy: one configured identifier.
// The zero value matches nobody.
type SingleAdmin int64

// IsAdmin reports whether userID equals the configured admin identifier.
func (a SingleAdmin) IsAdmin(userID int64) bool {
	return int64(a) != 0 && userID == int64(a)
}
