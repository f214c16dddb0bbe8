package audit

import (
	"testing"
	"time"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open journal: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestJournalRecordAndRecent(t *testing.T) {
	j := openTestJournal(t)

	entries := []struct{ kind, outcome, detail string }{
		{"registration", "success", "Registered Ama"},
		{"verification", "rejected", "camera not active"},
		{"alert_resolution", "failure", "Alert not found"},
	}
	for _, e := range entries {
		if err := j.Record(e.kind, e.outcome, e.detail); err != nil {
			t.Fatalf("record failed: %v", err)
		}
		// created_at ordering is second-level only in sqlite comparisons
		// when values collide; give each row a distinct timestamp.
		time.Sleep(2 * time.Millisecond)
	}

	got, err := j.Recent(10)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	if got[0].Kind != "alert_resolution" {
		t.Errorf("expected newest entry first, got %s", got[0].Kind)
	}
	if got[0].ID == "" {
		t.Error("expected generated id")
	}
}

func TestJournalRecentLimit(t *testing.T) {
	j := openTestJournal(t)

	for i := 0; i < 5; i++ {
		if err := j.Record("registration", "success", "x"); err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}

	got, err := j.Recent(2)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected limit of 2, got %d", len(got))
	}

	// A non-positive limit falls back to the default window.
	got, err = j.Recent(0)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if len(got) != 5 {
		t.Errorf("expected all 5 entries, got %d", len(got))
	}
}
