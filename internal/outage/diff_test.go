package outage

import (
	"testing"
	"time"
)

func TestDiff(t *testing.T) {
	rec1 := NewRecord(datePtr(2025, time.November, 13), "До 22:00", "Земун: Карађорђев трг 5", "", nil)
	rec2 := NewRecord(datePtr(2025, time.November, 14), "До 10:00", "Други блок садржаја.", "", nil)
	rec3 := NewRecord(nil, "", "Радови у току", "", nil)
	gone := NewRecord(datePtr(2025, time.November, 1), "До 12:00", "Стари радови", "", nil)

	previous := CreateSnapshot([]*Record{rec1, gone}, time.Now().UTC().Format(time.RFC3339))
	current := []*Record{rec1, rec2, rec3}

	t.Run("finds new records in page order", func(t *testing.T) {
		result := Diff(previous, current)

		if len(result.NewRecords) != 2 {
			t.Fatalf("expected 2 new records, got %d", len(result.NewRecords))
		}
		if result.NewRecords[0].ID != rec2.ID || result.NewRecords[1].ID != rec3.ID {
			t.Error("expected new records to keep page order")
		}
		if !result.HasChanges() {
			t.Error("HasChanges() = false, want true")
		}
	})

	t.Run("reports removed records", func(t *testing.T) {
		result := Diff(previous, current)

		if len(result.RemovedRecords) != 1 {
			t.Fatalf("expected 1 removed record, got %d", len(result.RemovedRecords))
		}
		if result.RemovedRecords[0].ID != gone.ID {
			t.Error("expected the old record to be reported as removed")
		}
	})

	t.Run("handles nil previous snapshot", func(t *testing.T) {
		result := Diff(nil, current)

		if len(result.NewRecords) != 3 {
			t.Errorf("expected 3 new records, got %d", len(result.NewRecords))
		}
		if len(result.RemovedRecords) != 0 {
			t.Errorf("expected 0 removed records, got %d", len(result.RemovedRecords))
		}
	})

	t.Run("no changes", func(t *testing.T) {
		result := Diff(CreateSnapshot(current, ""), current)

		if result.HasChanges() {
			t.Error("HasChanges() = true, want false")
		}
	})
}

func TestSnapshot_Contains(t *testing.T) {
	rec := NewRecord(nil, "Title", "", "", nil)
	snap := CreateSnapshot([]*Record{rec}, "2025-11-13T00:00:00Z")

	if !snap.Contains(rec.ID) {
		t.Error("Contains() = false, want true")
	}
	if snap.Contains("missing") {
		t.Error("Contains() = true for missing ID")
	}

	var nilSnap *Snapshot
	if nilSnap.Contains(rec.ID) {
		t.Error("nil snapshot should not contain anything")
	}
}
