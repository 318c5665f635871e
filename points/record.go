// Package points holds the feeding point domain: records, the store
// contract, and the submission/moderation/self-service workflows.
package points

import "time"

// AnonymousOwner is the display handle used when Telegram reports no username.
const AnonymousOwner = "Anonim"

// Record is one submitted feeding location.
type Record struct {
	// ID is a generated identifier stable across list reordering.
	// Records loaded from legacy files receive one on first load.
	ID          string
	OwnerID     int64
	OwnerName   string
	Latitude    float64
	Longitude   float64
	Description string
	Schedule    string
	// PhotoURL optionally points at a photo of the spot.
	PhotoURL  string
	CreatedAt time.Time
	// Approved gates public visibility of the record.
	Approved bool
}

// DisplayName returns the owner handle or the anonymous placeholder.
func (r Record) DisplayName() string {
	if r.OwnerName == "" {
		return AnonymousOwner
	}
	return r.OwnerName
}
