package model

// ClassBlock 수업 블록 (시간은 소수 시간: 9.5 = 9:30)
type ClassBlock struct {
	Subject   string  `json:"subject" yaml:"subject"`
	Code      string  `json:"code" yaml:"code"`
	Section   string  `json:"section" yaml:"section"`
	StartTime float64 `json:"startTime" yaml:"startTime"`
	EndTime   float64 `json:"endTime" yaml:"endTime"`
	Color     Color   `json:"color" yaml:"color"`
	Icon      Icon    `json:"icon" yaml:"icon"`
	Classroom string  `json:"classroom,omitempty" yaml:"classroom,omitempty"`
}

// Position 노드 좌표 (px)
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size 노드 크기 (px)
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NodeData 노드 타입별 페이로드
//
// 라벨 노드는 Label/FontSize, 수업 노드는 ClassBlock 필드를 사용한다.
// ClassBlock을 포인터로 임베드해서 JSON 모양이 캔버스 라이브러리와 동일하게 평탄화된다.
type NodeData struct {
	Label    string  `json:"label,omitempty"`
	FontSize float64 `json:"fontSize,omitempty"`
	*ClassBlock
}

// Node 캔버스 노드
type Node struct {
	ID          string   `json:"id"`
	Type        NodeType `json:"type"`
	Position    Position `json:"position"`
	Size        Size     `json:"size"`
	Data        NodeData `json:"data"`
	Draggable   bool     `json:"draggable"`
	Selectable  bool     `json:"selectable"`
	Connectable bool     `json:"connectable"`
}

// Class 수업 노드의 블록 (라벨이면 nil)
func (n *Node) Class() *ClassBlock {
	if n.Type != NodeTypeClass {
		return nil
	}
	return n.Data.ClassBlock
}

// Clone 깊은 복사
func (n Node) Clone() Node {
	if n.Data.ClassBlock != nil {
		block := *n.Data.ClassBlock
		n.Data.ClassBlock = &block
	}
	return n
}

// Settings 그리드 설정
type Settings struct {
	StartTime    float64         `json:"startTime"`
	EndTime      float64         `json:"endTime"`
	TimeFontSize float64         `json:"timeFontSize"`
	TimeHeight   float64         `json:"timeHeight"`
	RowHeights   map[int]float64 `json:"rowHeights,omitempty"`
}

// DefaultSettings 기본 그리드 설정
func DefaultSettings() Settings {
	return Settings{
		StartTime:    8,
		EndTime:      18,
		TimeFontSize: 12,
		TimeHeight:   60,
	}
}

// Clone 깊은 복사
func (s Settings) Clone() Settings {
	if s.RowHeights != nil {
		rows := make(map[int]float64, len(s.RowHeights))
		for h, px := range s.RowHeights {
			rows[h] = px
		}
		s.RowHeights = rows
	}
	return s
}

// Timetable 요일 → 수업 목록
type Timetable map[string][]ClassBlock
