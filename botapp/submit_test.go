package botapp

import (
	"context"
	"strings"
	"testing"

	"github.com/streetpaws/feedpoint/core/telegram/state"
	"github.com/streetpaws/feedpoint/points"
)

type stubStore struct {
	records []points.Record
}

func (s *stubStore) Load(_ context.Context) ([]points.Record, error) {
	out := make([]points.Record, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *stubStore) Replace(_ context.Context, records []points.Record) error {
	s.records = make([]points.Record, len(records))
	copy(s.records, records)
	return nil
}

func newTestApp(store *stubStore, admin int64) *App {
	return &App{
		cfg:    &Config{},
		svc:    points.NewService(store, points.SingleAdmin(admin)),
		states: state.NewMemoryManager(),
	}
}

func TestCompleteSubmissionPersistsRecord(t *testing.T) {
	store := &stubStore{}
	app := newTestApp(store, 99)

	const userID int64 = 5
	app.states.SetState(userID, stateAwaitingSchedule)
	app.states.SetTemp(userID, tmpLatitude, 41.01)
	app.states.SetTemp(userID, tmpLongitude, 28.97)
	app.states.SetTemp(userID, tmpDescription, "Kapı önü")

	reply := app.completeSubmission(context.Background(), userID, "ayse", "Her gün 18:00")
	if !strings.Contains(reply, "onayı beklemektedir") {
		t.Errorf("reply = %q, want pending confirmation", reply)
	}
	if len(store.records) != 1 {
		t.Fatalf("store has %d records", len(store.records))
	}
	if store.records[0].Description != "Kapı önü" || store.records[0].Approved {
		t.Errorf("record = %+v", store.records[0])
	}
	if app.states.InProgress(userID) {
		t.Error("flow still in progress after completion")
	}
}

func TestCompleteSubmissionRestartsOnLostSession(t *testing.T) {
	store := &stubStore{}
	app := newTestApp(store, 99)

	// Schedule arrives but the session data has expired meanwhile.
	const userID int64 = 5
	reply := app.completeSubmission(context.Background(), userID, "", "18:00")
	if reply != msgAskLocation {
		t.Errorf("reply = %q, want location prompt", reply)
	}
	if got := app.states.GetState(userID); got != stateAwaitingLocation {
		t.Errorf("state = %q, want %q", got, stateAwaitingLocation)
	}
	if len(store.records) != 0 {
		t.Error("incomplete submission reached the store")
	}
}

func TestCompleteSubmissionRestartsOnInvalidData(t *testing.T) {
	store := &stubStore{}
	app := newTestApp(store, 99)

	const userID int64 = 5
	app.states.SetState(userID, stateAwaitingSchedule)
	app.states.SetTemp(userID, tmpLatitude, 41.01)
	app.states.SetTemp(userID, tmpLongitude, 28.97)
	app.states.SetTemp(userID, tmpDescription, "")

	reply := app.completeSubmission(context.Background(), userID, "", "18:00")
	if reply != msgAskLocation {
		t.Errorf("reply = %q, want location prompt", reply)
	}
	// The user is told to share a location again, so the flow must be
	// back at the location step, not cleared.
	if got := app.states.GetState(userID); got != stateAwaitingLocation {
		t.Errorf("state = %q, want %q", got, stateAwaitingLocation)
	}
	if len(store.records) != 0 {
		t.Error("invalid submission reached the store")
	}
}
