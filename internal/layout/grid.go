package layout

import (
	"errors"
	"fmt"
	"math"
)

// 그리드 기본 치수 (px)
const (
	BaseOffset = 100.0 // 첫 시간 행의 Y 위치

	DayLabelY      = 50.0
	DayLabelWidth  = 200.0
	DayLabelHeight = 60.0

	TimeLabelX      = 20.0
	TimeLabelWidth  = 50.0
	TimeLabelHeight = 30.0

	ColumnOrigin = 100.0 // 첫 요일 열의 X 위치
	ColumnStride = 220.0 // 요일 열 간격

	ClassWidth     = 180.0
	MinClassHeight = 160.0 // 가독성을 위한 최소 렌더링 높이

	DaysPerWeek = 7
)

var ErrInvalidRange = errors.New("invalid grid range")

// Grid 시간 → 픽셀 좌표 변환기
//
// RowHeights가 비어 있으면 균일 모드, 하나라도 있으면 행별 모드로 계산한다.
// 행별 모드에서 지정되지 않은 시간은 RowHeight를 사용한다.
type Grid struct {
	StartHour  float64
	EndHour    float64
	BaseOffset float64
	RowHeight  float64
	RowHeights map[int]float64
}

// NewGrid 기본 오프셋을 사용하는 Grid 생성
func NewGrid(startHour, endHour, rowHeight float64, rowHeights map[int]float64) Grid {
	return Grid{
		StartHour:  startHour,
		EndHour:    endHour,
		BaseOffset: BaseOffset,
		RowHeight:  rowHeight,
		RowHeights: rowHeights,
	}
}

// Validate 시간 범위와 행 높이 검증
func (g Grid) Validate() error {
	if math.IsNaN(g.StartHour) || math.IsNaN(g.EndHour) {
		return fmt.Errorf("%w: NaN hour", ErrInvalidRange)
	}
	if g.StartHour < 0 || g.EndHour > 24 {
		return fmt.Errorf("%w: hours must be within 0..24 (got %g..%g)", ErrInvalidRange, g.StartHour, g.EndHour)
	}
	if g.StartHour >= g.EndHour {
		return fmt.Errorf("%w: start %g must be before end %g", ErrInvalidRange, g.StartHour, g.EndHour)
	}
	if !(g.RowHeight > 0) {
		return fmt.Errorf("%w: row height must be positive", ErrInvalidRange)
	}
	for hour, h := range g.RowHeights {
		if hour < 0 || hour > 23 {
			return fmt.Errorf("%w: row hour %d out of range", ErrInvalidRange, hour)
		}
		if !(h > 0) {
			return fmt.Errorf("%w: row %d height must be positive", ErrInvalidRange, hour)
		}
	}
	return nil
}

// PerRow 행별 높이 모드 여부
func (g Grid) PerRow() bool {
	return len(g.RowHeights) > 0
}

// RowHeightAt 특정 시간 행의 높이
func (g Grid) RowHeightAt(hour int) float64 {
	if h, ok := g.RowHeights[hour]; ok {
		return h
	}
	return g.RowHeight
}

// Clamp 시간을 표시 범위로 제한
func (g Grid) Clamp(t float64) float64 {
	return math.Max(g.StartHour, math.Min(g.EndHour, t))
}

// Overlaps 구간이 표시 범위와 겹치는지 여부
func (g Grid) Overlaps(start, end float64) bool {
	return start < g.EndHour && end > g.StartHour
}

// YOf 시간의 Y 픽셀 위치 (범위 밖 시간은 경계로 제한)
func (g Grid) YOf(t float64) float64 {
	t = g.Clamp(t)
	if !g.PerRow() {
		return g.BaseOffset + (t-g.StartHour)*g.RowHeight
	}

	// 시작 시간이 정수가 아닐 수 있으므로 첫 행은 부분 높이만 더한다
	y := g.BaseOffset
	cursor := g.StartHour
	for cursor < t {
		hour := int(math.Floor(cursor))
		next := math.Min(float64(hour+1), t)
		y += g.RowHeightAt(hour) * (next - cursor)
		cursor = next
	}
	return y
}

// HeightOf 구간의 픽셀 높이
func (g Grid) HeightOf(start, end float64) float64 {
	if g.PerRow() {
		return g.YOf(end) - g.YOf(start)
	}
	return (g.Clamp(end) - g.Clamp(start)) * g.RowHeight
}

// RenderedHeight 최소 높이가 적용된 블록 높이
func (g Grid) RenderedHeight(start, end float64) float64 {
	return math.Max(g.HeightOf(start, end), MinClassHeight)
}

// VisibleHours 라벨을 그릴 정수 시간 목록 (양 끝 포함)
func (g Grid) VisibleHours() []int {
	first := int(math.Ceil(g.StartHour))
	last := int(math.Floor(g.EndHour))
	hours := make([]int, 0, last-first+1)
	for h := first; h <= last; h++ {
		hours = append(hours, h)
	}
	return hours
}

// ColumnX 요일 인덱스의 X 위치
func ColumnX(dayIndex int) float64 {
	return float64(dayIndex)*ColumnStride + ColumnOrigin
}

// DayIndexAt X 위치에서 가장 가까운 요일 인덱스 (0..6)
func DayIndexAt(x float64) int {
	idx := int(math.Round((x - ColumnOrigin) / ColumnStride))
	if idx < 0 {
		return 0
	}
	if idx >= DaysPerWeek {
		return DaysPerWeek - 1
	}
	return idx
}
