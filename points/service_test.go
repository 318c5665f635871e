package points

import (
	"context"
	"errors"
	"testing"
	"time"
)

type memStore struct {
	records  []Record
	loadErr  error
	saveErr  error
	replaces int
}

func (m *memStore) Load(_ context.Context) ([]Record, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	out := make([]Record, len(m.records))
	copy(out, m.records)
	return out, nil
}

func (m *memStore) Replace(_ context.Context, records []Record) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.replaces++
	m.records = make([]Record, len(records))
	copy(m.records, records)
	return nil
}

const adminID int64 = 99

func newTestService(store *memStore) *Service {
	svc := NewService(store, SingleAdmin(adminID))
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	n := 0
	svc.newID = func() string {
		n++
		return []string{"id-1", "id-2", "id-3", "id-4"}[n-1]
	}
	return svc
}

func TestSubmitRegularUserAwaitsModeration(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store)

	rec, err := svc.Submit(context.Background(), Submission{
		OwnerID:     1,
		OwnerName:   "ayse",
		Latitude:    41.01,
		Longitude:   28.97,
		Description: "Kapı önü",
		Schedule:    "Her gün 18:00",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if rec.Approved {
		t.Error("regular user's submission must start pending")
	}
	if rec.ID != "id-1" {
		t.Errorf("id = %q", rec.ID)
	}
	if len(store.records) != 1 {
		t.Fatalf("store has %d records", len(store.records))
	}

	visible, err := svc.Approved(context.Background())
	if err != nil {
		t.Fatalf("approved: %v", err)
	}
	if len(visible) != 0 {
		t.Errorf("pending record already visible: %+v", visible)
	}
}

func TestSubmitAdminGoesLiveImmediately(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store)

	rec, err := svc.Submit(context.Background(), Submission{
		OwnerID:     adminID,
		Description: "Park bahçesi",
		Schedule:    "Cumartesi",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !rec.Approved {
		t.Error("admin submission must be approved on arrival")
	}

	visible, err := svc.Approved(context.Background())
	if err != nil {
		t.Fatalf("approved: %v", err)
	}
	if len(visible) != 1 {
		t.Fatalf("visible = %d, want 1", len(visible))
	}
}

func TestSubmitValidation(t *testing.T) {
	svc := newTestService(&memStore{})

	_, err := svc.Submit(context.Background(), Submission{OwnerID: 1, Schedule: "yarın"})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("empty description: err = %v, want ErrValidation", err)
	}
	_, err = svc.Submit(context.Background(), Submission{OwnerID: 1, Description: "x", Schedule: "  "})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("blank schedule: err = %v, want ErrValidation", err)
	}
}

func TestApproveFlow(t *testing.T) {
	store := &memStore{records: []Record{
		{ID: "a", OwnerID: 1, Description: "one"},
		{ID: "b", OwnerID: 2, Description: "two"},
	}}
	svc := newTestService(store)

	if _, err := svc.Approve(context.Background(), 1, "a"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("non-admin approve: err = %v, want ErrUnauthorized", err)
	}

	rec, err := svc.Approve(context.Background(), adminID, "a")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if !rec.Approved {
		t.Error("returned record not marked approved")
	}

	// Second approval reports success without rewriting storage.
	before := store.replaces
	if _, err := svc.Approve(context.Background(), adminID, "a"); err != nil {
		t.Fatalf("re-approve: %v", err)
	}
	if store.replaces != before {
		t.Error("idempotent approve must not rewrite the store")
	}

	if _, err := svc.Approve(context.Background(), adminID, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown id: err = %v, want ErrNotFound", err)
	}
}

func TestRejectRemovesRecord(t *testing.T) {
	store := &memStore{records: []Record{
		{ID: "a", OwnerID: 1, Description: "one"},
		{ID: "b", OwnerID: 2, Description: "two"},
	}}
	svc := newTestService(store)

	removed, err := svc.Reject(context.Background(), adminID, "a")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if removed.ID != "a" {
		t.Errorf("removed.ID = %q", removed.ID)
	}
	if len(store.records) != 1 || store.records[0].ID != "b" {
		t.Errorf("store after reject = %+v", store.records)
	}

	if _, err := svc.Reject(context.Background(), 2, "b"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("non-admin reject: err = %v, want ErrUnauthorized", err)
	}
}

func TestDeleteOwnership(t *testing.T) {
	store := &memStore{records: []Record{
		{ID: "a", OwnerID: 1, Description: "mine"},
		{ID: "b", OwnerID: 2, Description: "theirs"},
	}}
	svc := newTestService(store)

	if _, err := svc.Delete(context.Background(), 1, "b"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("foreign delete: err = %v, want ErrUnauthorized", err)
	}
	if len(store.records) != 2 {
		t.Fatal("refused delete must leave the store untouched")
	}

	if _, err := svc.Delete(context.Background(), 1, "a"); err != nil {
		t.Fatalf("own delete: %v", err)
	}
	if len(store.records) != 1 || store.records[0].ID != "b" {
		t.Errorf("store after delete = %+v", store.records)
	}

	if _, err := svc.Delete(context.Background(), 1, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown id: err = %v, want ErrNotFound", err)
	}
}

func TestListingsPreserveOrderAndFilter(t *testing.T) {
	store := &memStore{records: []Record{
		{ID: "a", OwnerID: 1, Approved: true},
		{ID: "b", OwnerID: 2, Approved: false},
		{ID: "c", OwnerID: 1, Approved: true},
	}}
	svc := newTestService(store)
	ctx := context.Background()

	approved, err := svc.Approved(ctx)
	if err != nil {
		t.Fatalf("approved: %v", err)
	}
	if len(approved) != 2 || approved[0].ID != "a" || approved[1].ID != "c" {
		t.Errorf("approved = %+v", approved)
	}

	if _, err := svc.Pending(ctx, 1); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("non-admin pending: err = %v", err)
	}
	pending, err := svc.Pending(ctx, adminID)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != "b" {
		t.Errorf("pending = %+v", pending)
	}

	own, err := svc.Owned(ctx, 1)
	if err != nil {
		t.Fatalf("owned: %v", err)
	}
	if len(own) != 2 {
		t.Errorf("owned = %+v", own)
	}

	p, a, err := svc.Counts(ctx, adminID)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if p != 1 || a != 2 {
		t.Errorf("counts = (%d, %d), want (1, 2)", p, a)
	}
}

func TestStoreErrorsPropagate(t *testing.T) {
	boom := errors.New("disk gone")
	svc := newTestService(&memStore{loadErr: boom})

	if _, err := svc.Approved(context.Background()); !errors.Is(err, boom) {
		t.Errorf("load error lost: %v", err)
	}
	if _, err := svc.Submit(context.Background(), Submission{
		OwnerID: 1, Description: "x", Schedule: "y",
	}); !errors.Is(err, boom) {
		t.Errorf("submit load error lost: %v", err)
	}

	svc = newTestService(&memStore{saveErr: boom})
	if _, err := svc.Submit(context.Background(), Submission{
		OwnerID: 1, Description: "x", Schedule: "y",
	}); !errors.Is(err, boom) {
		t.Errorf("submit save error lost: %v", err)
	}
}
