package layout

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidClock = errors.New("invalid clock value")

// ParseClock "HH:MM" 문자열을 소수 시간으로 변환 (예: "09:30" → 9.5)
func ParseClock(value string) (float64, error) {
	value = strings.TrimSpace(value)
	hoursPart, minutesPart, found := strings.Cut(value, ":")
	if !found {
		return 0, fmt.Errorf("%w: %q is not HH:MM", ErrInvalidClock, value)
	}

	// 시는 1~2자리, 분은 정확히 2자리 숫자 (부호 불가)
	if len(hoursPart) < 1 || len(hoursPart) > 2 || !digits(hoursPart) {
		return 0, fmt.Errorf("%w: hour %q", ErrInvalidClock, hoursPart)
	}
	if len(minutesPart) != 2 || !digits(minutesPart) {
		return 0, fmt.Errorf("%w: minute %q", ErrInvalidClock, minutesPart)
	}
	hours, _ := strconv.Atoi(hoursPart)
	minutes, _ := strconv.Atoi(minutesPart)

	if hours < 0 || hours > 24 || minutes < 0 || minutes > 59 || (hours == 24 && minutes != 0) {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidClock, value)
	}

	return float64(hours) + float64(minutes)/60, nil
}

func digits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FormatClock 소수 시간을 "HH:MM" 문자열로 변환
func FormatClock(t float64) string {
	total := int(math.Round(t * 60))
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// HourLabel 시간 라벨 텍스트 (예: 8 → "8:00")
func HourLabel(hour int) string {
	return strconv.Itoa(hour) + ":00"
}
