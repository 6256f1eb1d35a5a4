package seed

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	table, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}

	total := 0
	for _, classes := range table {
		total += len(classes)
	}
	if total != 12 {
		t.Errorf("default timetable has %d classes, want 12", total)
	}
	if got := len(table["Wednesday"]); got != 4 {
		t.Errorf("Wednesday has %d classes, want 4", got)
	}
	if table["Thursday"][1].Classroom != "" {
		t.Errorf("Physics Lab should have no classroom, got %q", table["Thursday"][1].Classroom)
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"unknown day": "days:\n  Funday:\n    - { subject: X, code: X1, section: '1', startTime: 9, endTime: 10, color: pink, icon: math }\n",
		"inverted":    "days:\n  Monday:\n    - { subject: X, code: X1, section: '1', startTime: 11, endTime: 10, color: pink, icon: math }\n",
		"bad color":   "days:\n  Monday:\n    - { subject: X, code: X1, section: '1', startTime: 9, endTime: 10, color: teal, icon: math }\n",
		"broken yaml": "days: [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(doc)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	doc := "days:\n  Monday:\n    - { subject: Art, code: AR1, section: '1', startTime: 10, endTime: 11.5, color: peach, icon: default }\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	table, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(table["Monday"]) != 1 || table["Monday"][0].EndTime != 11.5 {
		t.Errorf("unexpected table: %+v", table)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
