package model

// NodeType 캔버스 노드 타입
type NodeType string

const (
	NodeTypeClass     NodeType = "classNode"
	NodeTypeDayLabel  NodeType = "dayLabel"
	NodeTypeTimeLabel NodeType = "timeLabel"
)

// String 메서드
func (t NodeType) String() string {
	return string(t)
}

// IsLabel 라벨 노드 여부 (드래그/삭제 불가)
func (t NodeType) IsLabel() bool {
	return t == NodeTypeDayLabel || t == NodeTypeTimeLabel
}

// Color 클래스 블록 색상 태그
type Color string

const (
	ColorPink     Color = "pink"
	ColorBlue     Color = "blue"
	ColorMint     Color = "mint"
	ColorLavender Color = "lavender"
	ColorYellow   Color = "yellow"
	ColorPeach    Color = "peach"
)

// Colors 허용된 색상 목록
var Colors = []Color{ColorPink, ColorBlue, ColorMint, ColorLavender, ColorYellow, ColorPeach}

func (c Color) String() string {
	return string(c)
}

// Valid 허용된 색상인지 확인
func (c Color) Valid() bool {
	for _, known := range Colors {
		if c == known {
			return true
		}
	}
	return false
}

// Icon 클래스 블록 아이콘 태그
type Icon string

const (
	IconPhysics     Icon = "physics"
	IconMath        Icon = "math"
	IconChemistry   Icon = "chemistry"
	IconEngineering Icon = "engineering"
	IconThinking    Icon = "thinking"
	IconInnovation  Icon = "innovation"
	IconDefault     Icon = "default"
)

// Icons 허용된 아이콘 목록
var Icons = []Icon{IconPhysics, IconMath, IconChemistry, IconEngineering, IconThinking, IconInnovation, IconDefault}

func (i Icon) String() string {
	return string(i)
}

// Valid 허용된 아이콘인지 확인
func (i Icon) Valid() bool {
	for _, known := range Icons {
		if i == known {
			return true
		}
	}
	return false
}

// Weekdays 그리드 열 순서 (월요일 시작)
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// WeekdayIndex 요일 이름의 열 인덱스 (없으면 -1)
func WeekdayIndex(day string) int {
	for i, d := range Weekdays {
		if d == day {
			return i
		}
	}
	return -1
}
