package state

import (
	"testing"
	"time"
)

const testState State = "awaiting_input"

func TestStateTransitions(t *testing.T) {
	m := NewMemoryManager()

	if m.HasState(1) {
		t.Fatal("fresh manager reports active state")
	}
	if got := m.GetState(1); got != StateIdle {
		t.Fatalf("state = %q, want idle", got)
	}

	m.SetState(1, testState)
	if !m.InProgress(1) {
		t.Error("InProgress false after SetState")
	}
	if got := m.GetState(1); got != testState {
		t.Errorf("state = %q", got)
	}
	// Other users are unaffected.
	if m.InProgress(2) {
		t.Error("state leaked across users")
	}

	m.ClearState(1)
	if m.HasState(1) {
		t.Error("HasState true after ClearState")
	}
}

func TestTempDataTypedAccessors(t *testing.T) {
	m := NewMemoryManager()

	m.SetTemp(1, "latitude", 41.0082)
	m.SetTemp(1, "description", "kapı önü")
	m.SetTemp(1, "count", int64(3))

	if v, ok := m.GetTempFloat64(1, "latitude"); !ok || v != 41.0082 {
		t.Errorf("latitude = %v, %v", v, ok)
	}
	if v, ok := m.GetTempString(1, "description"); !ok || v != "kapı önü" {
		t.Errorf("description = %q, %v", v, ok)
	}
	if v, ok := m.GetTempInt64(1, "count"); !ok || v != 3 {
		t.Errorf("count = %v, %v", v, ok)
	}

	// Wrong-type access fails instead of panicking.
	if _, ok := m.GetTempFloat64(1, "description"); ok {
		t.Error("string read back as float64")
	}

	m.ClearTemp(1, "latitude")
	if _, ok := m.GetTemp(1, "latitude"); ok {
		t.Error("value survived ClearTemp")
	}
}

func TestClearDropsEverything(t *testing.T) {
	m := NewMemoryManager()

	m.SetState(1, testState)
	m.SetTemp(1, "k", "v")
	m.Clear(1)

	if m.HasState(1) {
		t.Error("state survived Clear")
	}
	if _, ok := m.GetTemp(1, "k"); ok {
		t.Error("temp data survived Clear")
	}
}

func TestSessionExpiry(t *testing.T) {
	m := NewMemoryManagerTTL(10 * time.Minute).(*memoryManager)
	current := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return current }

	m.SetState(1, testState)
	m.SetTemp(1, "k", "v")

	current = current.Add(9 * time.Minute)
	if !m.InProgress(1) {
		t.Fatal("session expired before TTL")
	}

	// Reads do not extend the session; push past the TTL now.
	current = current.Add(2 * time.Minute)
	if m.InProgress(1) {
		t.Error("session survived past TTL")
	}
	if _, ok := m.GetTemp(1, "k"); ok {
		t.Error("temp data survived expiry")
	}
	if got := m.GetState(1); got != StateIdle {
		t.Errorf("expired state = %q, want idle", got)
	}
}

func TestActivityExtendsSession(t *testing.T) {
	m := NewMemoryManagerTTL(10 * time.Minute).(*memoryManager)
	current := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return current }

	m.SetState(1, testState)
	for i := 0; i < 5; i++ {
		current = current.Add(8 * time.Minute)
		m.SetTemp(1, "step", i)
	}
	if !m.InProgress(1) {
		t.Error("active session expired despite regular updates")
	}
}
