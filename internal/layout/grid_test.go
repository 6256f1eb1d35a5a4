package layout

import (
	"errors"
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestYOfUniform(t *testing.T) {
	g := NewGrid(8, 18, 60, nil)

	tests := []struct {
		name string
		t    float64
		want float64
	}{
		{"start", 8, BaseOffset},
		{"half past nine", 9.5, BaseOffset + 90},
		{"end", 18, BaseOffset + 600},
		{"before start clamps", 6, BaseOffset},
		{"after end clamps", 20, BaseOffset + 600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.YOf(tt.t); !almostEqual(got, tt.want) {
				t.Errorf("YOf(%v) = %v, want %v", tt.t, got, tt.want)
			}
		})
	}
}

func TestYOfPerRowScenario(t *testing.T) {
	g := NewGrid(8, 18, 60, map[int]float64{8: 40, 9: 80})

	if got := g.YOf(9.0); !almostEqual(got, BaseOffset+40) {
		t.Errorf("YOf(9.0) = %v, want %v", got, BaseOffset+40)
	}
	if got := g.YOf(9.5); !almostEqual(got, BaseOffset+80) {
		t.Errorf("YOf(9.5) = %v, want %v", got, BaseOffset+80)
	}
	if got := g.HeightOf(9.0, 9.5); !almostEqual(got, 40) {
		t.Errorf("HeightOf(9.0, 9.5) = %v, want 40", got)
	}
	// 10시 이후는 기본 행 높이
	if got := g.YOf(11); !almostEqual(got, BaseOffset+40+80+60) {
		t.Errorf("YOf(11) = %v, want %v", got, BaseOffset+180)
	}
}

func TestGridProperties(t *testing.T) {
	grids := map[string]Grid{
		"uniform":    NewGrid(7, 20, 45, nil),
		"per-row":    NewGrid(7, 20, 45, map[int]float64{7: 30, 12: 90, 19: 20}),
		"fractional": NewGrid(7.5, 19, 60, map[int]float64{7: 100}),
	}

	for name, g := range grids {
		t.Run(name, func(t *testing.T) {
			if got := g.YOf(g.StartHour); !almostEqual(got, g.BaseOffset) {
				t.Fatalf("YOf(start) = %v, want base %v", got, g.BaseOffset)
			}
			if g.YOf(g.EndHour) < g.YOf(g.StartHour) {
				t.Fatalf("YOf(end) < YOf(start)")
			}

			prev := g.YOf(g.StartHour)
			for x := g.StartHour; x <= g.EndHour; x += 0.25 {
				y := g.YOf(x)
				if y < prev {
					t.Fatalf("YOf not monotonic at %v: %v < %v", x, y, prev)
				}
				prev = y
			}

			for s := g.StartHour; s < g.EndHour; s += 0.5 {
				for e := s + 0.25; e <= g.EndHour; e += 0.75 {
					if got, want := g.HeightOf(s, e), g.YOf(e)-g.YOf(s); !almostEqual(got, want) {
						t.Fatalf("HeightOf(%v,%v) = %v, want %v", s, e, got, want)
					}
				}
			}
		})
	}
}

func TestRenderedHeightMinimum(t *testing.T) {
	g := NewGrid(8, 18, 60, nil)

	if got := g.RenderedHeight(9, 10); got != MinClassHeight {
		t.Errorf("RenderedHeight(9,10) = %v, want %v", got, MinClassHeight)
	}
	if got := g.RenderedHeight(9, 13); !almostEqual(got, 240) {
		t.Errorf("RenderedHeight(9,13) = %v, want 240", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		grid    Grid
		wantErr bool
	}{
		{"ok", NewGrid(8, 18, 60, nil), false},
		{"inverted", NewGrid(18, 8, 60, nil), true},
		{"equal", NewGrid(8, 8, 60, nil), true},
		{"negative start", NewGrid(-1, 8, 60, nil), true},
		{"past midnight", NewGrid(8, 25, 60, nil), true},
		{"zero height", NewGrid(8, 18, 0, nil), true},
		{"bad row hour", NewGrid(8, 18, 60, map[int]float64{24: 30}), true},
		{"bad row height", NewGrid(8, 18, 60, map[int]float64{9: -5}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.grid.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidRange) {
				t.Fatalf("Validate() error = %v, want ErrInvalidRange", err)
			}
		})
	}
}

func TestOverlapsAndVisibleHours(t *testing.T) {
	g := NewGrid(8, 18, 60, nil)

	if !g.Overlaps(17, 19) {
		t.Error("17-19 should overlap 8-18")
	}
	if g.Overlaps(18, 19) {
		t.Error("18-19 should not overlap 8-18")
	}
	if g.Overlaps(6, 8) {
		t.Error("6-8 should not overlap 8-18")
	}

	hours := g.VisibleHours()
	if len(hours) != 11 || hours[0] != 8 || hours[10] != 18 {
		t.Errorf("VisibleHours() = %v", hours)
	}
}

func TestColumns(t *testing.T) {
	for i := 0; i < DaysPerWeek; i++ {
		if got := DayIndexAt(ColumnX(i)); got != i {
			t.Errorf("DayIndexAt(ColumnX(%d)) = %d", i, got)
		}
	}
	if got := DayIndexAt(ColumnX(2) + 90); got != 2 {
		t.Errorf("nudged node should stay in column 2, got %d", got)
	}
	if got := DayIndexAt(-500); got != 0 {
		t.Errorf("DayIndexAt(-500) = %d, want 0", got)
	}
	if got := DayIndexAt(5000); got != DaysPerWeek-1 {
		t.Errorf("DayIndexAt(5000) = %d, want %d", got, DaysPerWeek-1)
	}
}
