package telemetry

import "testing"

func TestLifetimeTracker_Lineage(t *testing.T) {
	lt := NewLifetimeTracker()
	lt.RegisterSeed(1, 0, 4)
	lt.RegisterSeed(2, 0, 4)

	lt.RecordDivision(10, 1, 3, 4, 2, 2)
	lt.RecordDivision(20, 3, 5, 6, 1, 1)

	if lt.Get(1) != nil || lt.Get(3) != nil {
		t.Error("divided parents should be retired")
	}
	if lt.Count() != 4 {
		t.Errorf("count = %d, want 4", lt.Count())
	}

	d := lt.Get(5)
	if d == nil {
		t.Fatal("missing daughter")
	}
	if d.Generation != 2 || d.FounderID != 1 || d.ParentID != 3 || d.BirthFrame != 20 {
		t.Errorf("unexpected lineage: %+v", *d)
	}
	if lt.MaxGeneration() != 2 {
		t.Errorf("max generation = %d, want 2", lt.MaxGeneration())
	}
	if lt.ActiveFounderCount() != 2 {
		t.Errorf("founders = %d, want 2", lt.ActiveFounderCount())
	}

	lt.Remove(2)
	if lt.ActiveFounderCount() != 1 {
		t.Errorf("founders after removal = %d, want 1", lt.ActiveFounderCount())
	}

	lt.Reset()
	if lt.Count() != 0 || lt.MaxGeneration() != 0 {
		t.Error("reset should clear everything")
	}
}

func TestLifetimeTracker_UnknownParent(t *testing.T) {
	lt := NewLifetimeTracker()
	lt.RecordDivision(1, 9, 10, 11, 0.5, 0.5)

	d := lt.Get(10)
	if d == nil || d.Generation != 1 || d.FounderID != 9 {
		t.Errorf("unknown parent should act as founder: %+v", d)
	}
}
