package seed

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"schedule-backend/internal/board"
	"schedule-backend/internal/model"
)

//go:embed timetable.yaml
var defaultTimetable []byte

// file 시간표 YAML 파일 형식
type file struct {
	Days map[string][]model.ClassBlock `yaml:"days"`
}

// Default 내장 기본 시간표
func Default() (model.Timetable, error) {
	return Parse(defaultTimetable)
}

// Load 파일에서 시간표 로드 (경로가 비어 있으면 기본 시간표)
func Load(path string) (model.Timetable, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

// Parse YAML 시간표 파싱 및 검증
func Parse(data []byte) (model.Timetable, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed yaml: %w", err)
	}

	table := make(model.Timetable, len(f.Days))
	for day, classes := range f.Days {
		if model.WeekdayIndex(day) < 0 {
			return nil, fmt.Errorf("unknown weekday %q", day)
		}
		for i, c := range classes {
			if err := board.ValidateClass(c); err != nil {
				return nil, fmt.Errorf("%s[%d] %s: %w", day, i, c.Code, err)
			}
		}
		table[day] = classes
	}
	return table, nil
}
