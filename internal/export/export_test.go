package export

import (
	"bytes"
	"errors"
	"image/png"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"
	"github.com/xuri/excelize/v2"

	"schedule-backend/internal/board"
	"schedule-backend/internal/model"
)

func sampleBoard(t *testing.T) *board.Board {
	t.Helper()
	table := model.Timetable{
		"Tuesday": {
			{Subject: "Physics for Engineers", Code: "PHY201", Section: "002", StartTime: 9, EndTime: 10.5, Color: model.ColorPink, Icon: model.IconPhysics, Classroom: "BLDG A-301"},
		},
		"Thursday": {
			{Subject: "Calculus II", Code: "MTH141", Section: "001", StartTime: 13, EndTime: 14, Color: model.ColorBlue, Icon: model.IconMath},
			{Subject: "Calculus Lab", Code: "MTH141L", Section: "001", StartTime: 13.5, EndTime: 14.5, Color: model.ColorMint, Icon: model.IconMath},
		},
	}
	b, err := board.Build(table, model.DefaultSettings())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return b
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"png", "ics", "xlsx"} {
		if _, err := ParseFormat(s); err != nil {
			t.Errorf("ParseFormat(%q) error: %v", s, err)
		}
	}
	if _, err := ParseFormat("pdf"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("ParseFormat(pdf) error = %v, want ErrUnknownFormat", err)
	}
}

func TestPNG(t *testing.T) {
	b := sampleBoard(t)

	var buf bytes.Buffer
	if err := PNG(&buf, b.Nodes); err != nil {
		t.Fatalf("PNG() error: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}

	// 7개 요일 열 + 좌우 여백
	bounds := img.Bounds()
	if bounds.Dx() < 7*200 || bounds.Dy() < 10*60 {
		t.Errorf("image size = %v, too small for the grid", bounds.Size())
	}

	if err := PNG(&buf, nil); !errors.Is(err, ErrEmptyBoard) {
		t.Errorf("PNG(nil) error = %v, want ErrEmptyBoard", err)
	}
}

func TestICS(t *testing.T) {
	b := sampleBoard(t)
	seoul, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		t.Skip("tzdata unavailable")
	}

	var buf bytes.Buffer
	err = ICS(&buf, b.Nodes, Options{
		Name:      "Fall",
		FirstWeek: time.Date(2026, time.September, 2, 0, 0, 0, 0, seoul), // 수요일
		Weeks:     4,
		Location:  seoul,
	})
	if err != nil {
		t.Fatalf("ICS() error: %v", err)
	}

	cal, err := ical.ParseCalendar(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("ParseCalendar() error: %v", err)
	}
	events := cal.Events()
	if len(events) != 3 {
		t.Fatalf("events = %d, want 3", len(events))
	}

	var physics *ical.VEvent
	for _, ev := range events {
		if p := ev.GetProperty(ical.ComponentPropertySummary); p != nil && strings.HasPrefix(p.Value, "PHY201") {
			physics = ev
		}
	}
	if physics == nil {
		t.Fatal("PHY201 event missing")
	}

	start, err := physics.GetStartAt()
	if err != nil {
		t.Fatalf("GetStartAt() error: %v", err)
	}
	// 2026-09-01 (화) 09:00 KST
	want := time.Date(2026, time.September, 1, 9, 0, 0, 0, seoul)
	if !start.Equal(want) {
		t.Errorf("start = %v, want %v", start, want)
	}
	if loc := physics.GetProperty(ical.ComponentPropertyLocation); loc == nil || loc.Value != "BLDG A-301" {
		t.Errorf("location = %v", loc)
	}

	raw := physics.GetProperty(ical.ComponentPropertyRrule)
	if raw == nil {
		t.Fatal("RRULE missing")
	}
	r, err := rrule.StrToRRule(raw.Value)
	if err != nil {
		t.Fatalf("StrToRRule(%q) error: %v", raw.Value, err)
	}
	r.DTStart(start)
	if got := len(r.All()); got != 4 {
		t.Errorf("occurrences = %d, want 4", got)
	}

	if err := ICS(&buf, nil, Options{}); !errors.Is(err, ErrEmptyBoard) {
		t.Errorf("ICS(nil) error = %v, want ErrEmptyBoard", err)
	}
}

func TestXLSX(t *testing.T) {
	b := sampleBoard(t)

	var buf bytes.Buffer
	if err := XLSX(&buf, b.Nodes, b.Settings, "Fall: 2026"); err != nil {
		t.Fatalf("XLSX() error: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error: %v", err)
	}
	defer f.Close()

	sheet := "Fall 2026"
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		t.Fatalf("sheet %q missing, have %v", sheet, f.GetSheetList())
	}

	// 헤더: A1 Time, C1 Tuesday
	if v, _ := f.GetCellValue(sheet, "C1"); v != "Tuesday" {
		t.Errorf("C1 = %q, want Tuesday", v)
	}
	// 8:00 시작, 30분 슬롯 → 9:00 은 4행
	if v, _ := f.GetCellValue(sheet, "A4"); v != "09:00" {
		t.Errorf("A4 = %q, want 09:00", v)
	}
	if v, _ := f.GetCellValue(sheet, "C4"); !strings.HasPrefix(v, "PHY201") {
		t.Errorf("C4 = %q, want PHY201 block", v)
	}

	merges, err := f.GetMergeCells(sheet)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, m := range merges {
		if m.GetStartAxis() == "C4" && m.GetEndAxis() == "C6" {
			found = true
		}
	}
	if !found {
		t.Errorf("PHY201 merge C4:C6 missing, merges = %v", merges)
	}

	// 겹치는 실습 수업은 13:00 칸에 이어 붙는다
	if v, _ := f.GetCellValue(sheet, "E12"); !strings.Contains(v, "MTH141L") || !strings.HasPrefix(v, "MTH141 ") {
		t.Errorf("E12 = %q, want both Thursday blocks", v)
	}
}

func TestSheetName(t *testing.T) {
	tests := map[string]string{
		"":                      "Schedule",
		"Fall/2026":             "Fall2026",
		"[]":                    "Schedule",
		strings.Repeat("a", 40): strings.Repeat("a", 31),
	}
	for in, want := range tests {
		if got := sheetName(in); got != want {
			t.Errorf("sheetName(%q) = %q, want %q", in, got, want)
		}
	}
}
