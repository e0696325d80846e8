package store

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/theirongolddev/cxdash/internal/model"
)

func sample() []model.Project {
	return []model.Project{
		{ProjectName: "A", ValueStream: "VS1", SubStream: "S1", Category: model.Capex, ResourceCount: 3, Target: 10, Achieved: 5},
		{ProjectName: "B", ValueStream: "VS2", SubStream: "S2", Category: model.Opex, ResourceCount: math.NaN(), Target: 4, Achieved: 8},
		{ProjectName: "A", ValueStream: "VS1", SubStream: "S1", Category: "Other", WeeklyHours: 1.5, Target: math.NaN(), Achieved: 1},
	}
}

func openStores(t *testing.T) map[string]Store {
	t.Helper()
	fileDB, err := Open(BackendSQLite, filepath.Join(t.TempDir(), "nested", "cxdash.db"))
	if err != nil {
		t.Fatalf("Open(sqlite file): %v", err)
	}
	memDB, err := Open(BackendSQLite, "")
	if err != nil {
		t.Fatalf("Open(sqlite memory): %v", err)
	}
	mem, err := Open(BackendMemory, "")
	if err != nil {
		t.Fatalf("Open(memory): %v", err)
	}
	stores := map[string]Store{"memory": mem, "sqlite-memory": memDB, "sqlite-file": fileDB}
	t.Cleanup(func() {
		for _, s := range stores {
			_ = s.Close()
		}
	})
	return stores
}

func TestStore_AppendPreservesOrderAndDuplicates(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			if n, _ := s.Len(); n != 0 {
				t.Fatalf("new store Len() = %d", n)
			}
			if err := s.Append(sample()[:2]); err != nil {
				t.Fatal(err)
			}
			if err := s.Append(sample()[2:]); err != nil {
				t.Fatal(err)
			}
			if err := s.Append(nil); err != nil {
				t.Fatal(err)
			}

			got, err := s.All()
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != 3 {
				t.Fatalf("len(All()) = %d, want 3", len(got))
			}
			for i, want := range []string{"A", "B", "A"} {
				if got[i].ProjectName != want {
					t.Errorf("All()[%d] = %q, want %q", i, got[i].ProjectName, want)
				}
			}
			if n, _ := s.Len(); n != 3 {
				t.Errorf("Len() = %d, want 3", n)
			}
		})
	}
}

func TestStore_NaNRoundTrip(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Append(sample()); err != nil {
				t.Fatal(err)
			}
			got, err := s.All()
			if err != nil {
				t.Fatal(err)
			}
			if !math.IsNaN(got[1].ResourceCount) {
				t.Errorf("ResourceCount = %v, want NaN", got[1].ResourceCount)
			}
			if !math.IsNaN(got[2].Target) {
				t.Errorf("Target = %v, want NaN", got[2].Target)
			}
			if got[2].WeeklyHours != 1.5 || got[2].Category != "Other" {
				t.Errorf("record = %+v", got[2])
			}
		})
	}
}

func TestMemory_AllReturnsCopy(t *testing.T) {
	m := NewMemory()
	_ = m.Append(sample())
	got, _ := m.All()
	got[0].ProjectName = "mutated"

	again, _ := m.All()
	if again[0].ProjectName != "A" {
		t.Errorf("All() leaked internal slice: %q", again[0].ProjectName)
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	if _, err := Open("postgres", ""); err == nil {
		t.Error("expected error for unknown backend")
	}
}
