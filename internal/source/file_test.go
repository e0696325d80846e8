package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSeed(t *testing.T) {
	seed := Seed()
	if len(seed) != 4 {
		t.Fatalf("len(Seed()) = %d, want 4", len(seed))
	}
	names := []string{"PRjej", "PRjejewew", "OnboardX", "PayTrack"}
	for i, want := range names {
		if seed[i].ProjectName != want {
			t.Errorf("seed[%d] = %q, want %q", i, seed[i].ProjectName, want)
		}
	}
	if seed[0].Category != "Capex" || seed[0].MonthlyHours != 40 {
		t.Errorf("seed[0] = %+v", seed[0])
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "import.CSV")
	if err := os.WriteFile(path, []byte("projectName\nX\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	a, data, err := ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Format() != FormatCSV {
		t.Errorf("Format() = %q, want csv", a.Format())
	}
	if string(data) != "projectName\nX\n" {
		t.Errorf("data = %q", data)
	}

	if _, _, err := ReadFile(filepath.Join(dir, "import.txt")); err == nil {
		t.Error("expected error for unknown extension")
	}
}
