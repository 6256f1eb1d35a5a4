package board

import (
	"errors"
	"fmt"
	"strings"

	"schedule-backend/internal/layout"
	"schedule-backend/internal/model"
)

var ErrInvalidClass = errors.New("invalid class block")

// ClassEdit 인라인 편집 요청 (nil 필드는 변경하지 않음)
type ClassEdit struct {
	Subject   *string `json:"subject,omitempty"`
	Code      *string `json:"code,omitempty"`
	Section   *string `json:"section,omitempty"`
	Classroom *string `json:"classroom,omitempty"`
	Color     *string `json:"color,omitempty"`
	Icon      *string `json:"icon,omitempty"`
	StartTime *string `json:"startTime,omitempty"` // "HH:MM"
	EndTime   *string `json:"endTime,omitempty"`   // "HH:MM"
}

func (e ClassEdit) changesTime() bool {
	return e.StartTime != nil || e.EndTime != nil
}

// Apply 편집 내용을 검증 후 블록에 적용
func (e ClassEdit) Apply(block model.ClassBlock) (model.ClassBlock, error) {
	if e.Subject != nil {
		block.Subject = strings.TrimSpace(*e.Subject)
	}
	if e.Code != nil {
		block.Code = strings.TrimSpace(*e.Code)
	}
	if e.Section != nil {
		block.Section = strings.TrimSpace(*e.Section)
	}
	if e.Classroom != nil {
		block.Classroom = strings.TrimSpace(*e.Classroom)
	}
	if e.Color != nil {
		block.Color = model.Color(*e.Color)
	}
	if e.Icon != nil {
		block.Icon = model.Icon(*e.Icon)
	}
	if e.StartTime != nil {
		t, err := layout.ParseClock(*e.StartTime)
		if err != nil {
			return model.ClassBlock{}, fmt.Errorf("startTime: %w", err)
		}
		block.StartTime = t
	}
	if e.EndTime != nil {
		t, err := layout.ParseClock(*e.EndTime)
		if err != nil {
			return model.ClassBlock{}, fmt.Errorf("endTime: %w", err)
		}
		block.EndTime = t
	}

	if err := ValidateClass(block); err != nil {
		return model.ClassBlock{}, err
	}
	return block, nil
}

// ValidateClass 수업 블록 검증
func ValidateClass(block model.ClassBlock) error {
	if block.StartTime < 0 || block.EndTime > 24 {
		return fmt.Errorf("%w: times must be within 0..24", ErrInvalidClass)
	}
	if !(block.StartTime < block.EndTime) {
		return fmt.Errorf("%w: startTime %s must be before endTime %s",
			ErrInvalidClass, layout.FormatClock(block.StartTime), layout.FormatClock(block.EndTime))
	}
	if !block.Color.Valid() {
		return fmt.Errorf("%w: unknown color %q", ErrInvalidClass, block.Color)
	}
	if !block.Icon.Valid() {
		return fmt.Errorf("%w: unknown icon %q", ErrInvalidClass, block.Icon)
	}
	return nil
}
