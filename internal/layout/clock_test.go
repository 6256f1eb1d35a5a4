package layout

import (
	"errors"
	"testing"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"09:30", 9.5, false},
		{"13:45", 13.75, false},
		{" 8:00 ", 8, false},
		{"24:00", 24, false},
		{"0:15", 0.25, false},
		{"9", 0, true},
		{"ab:cd", 0, true},
		{"10:", 0, true},
		{"25:00", 0, true},
		{"10:60", 0, true},
		{"24:30", 0, true},
		{"", 0, true},
		{"+9:05", 0, true},
		{"9:5", 0, true},
		{"-1:30", 0, true},
		{"09:+5", 0, true},
		{"009:00", 0, true},
		{"09:005", 0, true},
		{"9:05", 9 + 5.0/60, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidClock) {
					t.Fatalf("ParseClock(%q) error = %v, want ErrInvalidClock", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseClock(%q) unexpected error: %v", tt.in, err)
			}
			if !almostEqual(got, tt.want) {
				t.Errorf("ParseClock(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatClock(t *testing.T) {
	cases := map[float64]string{
		8:     "08:00",
		9.5:   "09:30",
		12.25: "12:15",
		18.5:  "18:30",
	}
	for in, want := range cases {
		if got := FormatClock(in); got != want {
			t.Errorf("FormatClock(%v) = %q, want %q", in, got, want)
		}
	}
	if got := HourLabel(9); got != "9:00" {
		t.Errorf("HourLabel(9) = %q", got)
	}
}
