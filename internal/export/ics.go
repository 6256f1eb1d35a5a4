package export

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"schedule-backend/internal/layout"
	"schedule-backend/internal/model"
)

const (
	DefaultICSWeeks = 15
	icsProductID    = "-//schedule-backend//timetable//EN"
)

// ICS 수업 노드를 매주 반복 일정으로 내보내기
//
// 요일은 노드의 현재 X 위치(가장 가까운 열)로 정한다.
func ICS(w io.Writer, nodes []model.Node, opts Options) error {
	classes := classNodes(nodes)
	if len(classes) == 0 {
		return ErrEmptyBoard
	}

	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	weeks := opts.Weeks
	if weeks <= 0 {
		weeks = DefaultICSWeeks
	}
	first := opts.FirstWeek
	if first.IsZero() {
		first = time.Now()
	}
	monday := weekStart(first.In(loc))
	stamp := time.Now().UTC()

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(icsProductID)
	if opts.Name != "" {
		cal.SetXWRCalName(opts.Name)
	}

	for _, n := range classes {
		block := n.Class()
		day := monday.AddDate(0, 0, layout.DayIndexAt(n.Position.X))
		start := atClock(day, block.StartTime)
		end := atClock(day, block.EndTime)

		rule, err := weeklyRule(start, weeks)
		if err != nil {
			return fmt.Errorf("failed to build rule for %s: %w", n.ID, err)
		}

		event := cal.AddEvent(n.ID + "@schedule-backend")
		event.SetDtStampTime(stamp)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(summary(block))
		if block.Classroom != "" {
			event.SetLocation(block.Classroom)
		}
		event.SetDescription(fmt.Sprintf("%s section %s", block.Code, block.Section))
		event.AddProperty(ical.ComponentPropertyRrule, rule)
	}

	_, err := io.WriteString(w, cal.Serialize())
	return err
}

// weeklyRule 주간 반복 RRULE 값
func weeklyRule(start time.Time, weeks int) (string, error) {
	r, err := rrule.NewRRule(rrule.ROption{
		Freq:    rrule.WEEKLY,
		Count:   weeks,
		Dtstart: start,
	})
	if err != nil {
		return "", err
	}
	return r.OrigOptions.RRuleString(), nil
}

func summary(block *model.ClassBlock) string {
	parts := []string{}
	if block.Code != "" {
		parts = append(parts, block.Code)
	}
	if block.Subject != "" {
		parts = append(parts, block.Subject)
	}
	return strings.Join(parts, " ")
}

// weekStart 해당 주의 월요일 0시
func weekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// atClock 날짜에 소수 시간을 더한 시각
func atClock(day time.Time, hours float64) time.Time {
	minutes := int(math.Round(hours * 60))
	y, m, d := day.Date()
	return time.Date(y, m, d, 0, minutes, 0, 0, day.Location())
}
