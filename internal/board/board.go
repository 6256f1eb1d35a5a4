package board

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/google/uuid"

	"schedule-backend/internal/layout"
	"schedule-backend/internal/model"
)

var (
	ErrNodeNotFound = errors.New("node not found")
	ErrNotClassNode = errors.New("node is not a class block")
	ErrNotDraggable = errors.New("node is not draggable")
)

// 복제 시 위치 오프셋 (스냅 그리드 한 칸)
const DuplicateOffset = 20.0

// 새 수업 기본 위치
var DefaultAddPosition = model.Position{X: 300, Y: 200}

// Board 노드 목록과 그리드 설정 (편집 작업 사본)
type Board struct {
	Settings model.Settings `json:"settings"`
	Nodes    []model.Node   `json:"nodes"`
}

// Grid 현재 설정의 좌표 변환기
func (b *Board) Grid() layout.Grid {
	return GridFor(b.Settings)
}

// GridFor 설정에서 좌표 변환기 생성
func GridFor(s model.Settings) layout.Grid {
	return layout.NewGrid(s.StartTime, s.EndTime, s.TimeHeight, s.RowHeights)
}

// Build 시간표와 설정으로 전체 노드 목록 생성
func Build(table model.Timetable, settings model.Settings) (*Board, error) {
	grid := GridFor(settings)
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	for day := range table {
		if model.WeekdayIndex(day) < 0 {
			return nil, fmt.Errorf("unknown weekday %q", day)
		}
	}

	b := &Board{Settings: settings.Clone()}
	b.Nodes = append(b.Nodes, labelNodes(grid, settings)...)

	seq := 1
	for dayIndex, day := range model.Weekdays {
		// 범위 밖 수업도 경계에 배치해 두고, 범위가 넓어지면 reflow로 제자리를 찾는다
		for _, block := range table[day] {
			block := block
			b.Nodes = append(b.Nodes, classNode("class-"+strconv.Itoa(seq), &block, layout.ColumnX(dayIndex), grid))
			seq++
		}
	}
	return b, nil
}

// labelNodes 요일/시간 라벨 노드
func labelNodes(grid layout.Grid, settings model.Settings) []model.Node {
	nodes := make([]model.Node, 0, len(model.Weekdays)+24)
	for i, day := range model.Weekdays {
		nodes = append(nodes, model.Node{
			ID:       fmt.Sprintf("day-%d", i),
			Type:     model.NodeTypeDayLabel,
			Position: model.Position{X: layout.ColumnX(i), Y: layout.DayLabelY},
			Size:     model.Size{Width: layout.DayLabelWidth, Height: layout.DayLabelHeight},
			Data:     model.NodeData{Label: day},
		})
	}
	for _, hour := range grid.VisibleHours() {
		nodes = append(nodes, model.Node{
			ID:       fmt.Sprintf("time-%d", hour),
			Type:     model.NodeTypeTimeLabel,
			Position: model.Position{X: layout.TimeLabelX, Y: grid.YOf(float64(hour))},
			Size:     model.Size{Width: layout.TimeLabelWidth, Height: layout.TimeLabelHeight},
			Data:     model.NodeData{Label: layout.HourLabel(hour), FontSize: settings.TimeFontSize},
		})
	}
	return nodes
}

func classNode(id string, block *model.ClassBlock, x float64, grid layout.Grid) model.Node {
	return model.Node{
		ID:         id,
		Type:       model.NodeTypeClass,
		Position:   model.Position{X: x, Y: grid.YOf(block.StartTime)},
		Size:       model.Size{Width: layout.ClassWidth, Height: grid.RenderedHeight(block.StartTime, block.EndTime)},
		Data:       model.NodeData{ClassBlock: block},
		Draggable:  true,
		Selectable: true,
	}
}

// DefaultClass 새로 추가되는 수업 기본값
func DefaultClass() model.ClassBlock {
	return model.ClassBlock{
		Subject:   "New Class",
		Code:      "NEW101",
		Section:   "001",
		StartTime: 9,
		EndTime:   10.5,
		Color:     model.ColorBlue,
		Icon:      model.IconDefault,
		Classroom: "TBD",
	}
}

func newClassID() string {
	return "class-" + uuid.NewString()
}

// Find 노드 인덱스 조회
func (b *Board) Find(id string) (int, bool) {
	for i := range b.Nodes {
		if b.Nodes[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

// Node 노드 조회
func (b *Board) Node(id string) (*model.Node, error) {
	i, ok := b.Find(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	return &b.Nodes[i], nil
}

// AddClass 수업 노드 추가 (nil이면 기본값)
func (b *Board) AddClass(block *model.ClassBlock, pos *model.Position) (model.Node, error) {
	data := DefaultClass()
	if block != nil {
		if err := ValidateClass(*block); err != nil {
			return model.Node{}, err
		}
		data = *block
	}
	position := DefaultAddPosition
	if pos != nil {
		position = *pos
	}

	node := model.Node{
		ID:         newClassID(),
		Type:       model.NodeTypeClass,
		Position:   position,
		Size:       model.Size{Width: layout.ClassWidth, Height: layout.MinClassHeight},
		Data:       model.NodeData{ClassBlock: &data},
		Draggable:  true,
		Selectable: true,
	}
	b.Nodes = append(b.Nodes, node)
	return node.Clone(), nil
}

// Duplicate 수업 노드 복제 (새 ID, 동일 데이터, 위치 오프셋)
func (b *Board) Duplicate(id string) (model.Node, error) {
	src, err := b.Node(id)
	if err != nil {
		return model.Node{}, err
	}
	if src.Type != model.NodeTypeClass {
		return model.Node{}, fmt.Errorf("%w: %s", ErrNotClassNode, id)
	}

	dup := src.Clone()
	dup.ID = newClassID()
	dup.Position.X += DuplicateOffset
	dup.Position.Y += DuplicateOffset
	b.Nodes = append(b.Nodes, dup)
	return dup.Clone(), nil
}

// Delete 수업 노드 하나 삭제
func (b *Board) Delete(id string) error {
	i, ok := b.Find(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	if b.Nodes[i].Type.IsLabel() {
		return fmt.Errorf("%w: %s", ErrNotClassNode, id)
	}
	b.Nodes = append(b.Nodes[:i], b.Nodes[i+1:]...)
	return nil
}

// DeleteMany 선택 영역 삭제 (라벨과 없는 ID는 무시), 삭제된 수 반환
func (b *Board) DeleteMany(ids []string) int {
	remove := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		remove[id] = struct{}{}
	}

	kept := b.Nodes[:0]
	removed := 0
	for _, n := range b.Nodes {
		if _, ok := remove[n.ID]; ok && !n.Type.IsLabel() {
			removed++
			continue
		}
		kept = append(kept, n)
	}
	b.Nodes = kept
	return removed
}

// Move 노드 위치 저장
func (b *Board) Move(id string, pos model.Position) error {
	n, err := b.Node(id)
	if err != nil {
		return err
	}
	if !n.Draggable {
		return fmt.Errorf("%w: %s", ErrNotDraggable, id)
	}
	n.Position = pos
	return nil
}

// Resize 노드 크기 저장 (최소 크기 적용)
func (b *Board) Resize(id string, size model.Size) error {
	n, err := b.Node(id)
	if err != nil {
		return err
	}
	if n.Type != model.NodeTypeClass {
		return fmt.Errorf("%w: %s", ErrNotClassNode, id)
	}
	n.Size = model.Size{
		Width:  math.Max(size.Width, layout.ClassWidth),
		Height: math.Max(size.Height, layout.MinClassHeight),
	}
	return nil
}

// UpdateClass 편집 내용 반영 후 시간에 맞춰 Y/높이 재계산
func (b *Board) UpdateClass(id string, edit ClassEdit) (model.Node, error) {
	n, err := b.Node(id)
	if err != nil {
		return model.Node{}, err
	}
	current := n.Class()
	if current == nil {
		return model.Node{}, fmt.Errorf("%w: %s", ErrNotClassNode, id)
	}

	updated, err := edit.Apply(*current)
	if err != nil {
		return model.Node{}, err
	}

	n.Data.ClassBlock = &updated
	if edit.changesTime() {
		grid := b.Grid()
		n.Position.Y = grid.YOf(updated.StartTime)
		n.Size.Height = grid.RenderedHeight(updated.StartTime, updated.EndTime)
	}
	return n.Clone(), nil
}

// ApplySettings 설정 변경 후 재배치
//
// 라벨은 다시 생성하고, 수업 노드는 ID/X/폭/데이터를 유지한 채 Y와 높이만 다시 계산한다.
func (b *Board) ApplySettings(settings model.Settings) error {
	grid := GridFor(settings)
	if err := grid.Validate(); err != nil {
		return err
	}
	b.Settings = settings.Clone()
	b.reflow(grid)
	return nil
}

// SetRowHeight 특정 시간 행 높이 지정 후 재배치
func (b *Board) SetRowHeight(hour int, height float64) error {
	settings := b.Settings.Clone()
	if settings.RowHeights == nil {
		settings.RowHeights = make(map[int]float64)
	}
	settings.RowHeights[hour] = height
	return b.ApplySettings(settings)
}

func (b *Board) reflow(grid layout.Grid) {
	nodes := labelNodes(grid, b.Settings)
	for _, n := range b.Nodes {
		if n.Type.IsLabel() {
			continue
		}
		if block := n.Class(); block != nil {
			n.Position.Y = grid.YOf(block.StartTime)
			n.Size.Height = grid.RenderedHeight(block.StartTime, block.EndTime)
		}
		nodes = append(nodes, n)
	}
	b.Nodes = nodes
}

// Replace 불러온 노드/설정으로 통째로 교체 (재배치 없음)
func (b *Board) Replace(nodes []model.Node, settings model.Settings) error {
	if err := GridFor(settings).Validate(); err != nil {
		return err
	}
	b.Settings = settings.Clone()
	b.Nodes = make([]model.Node, len(nodes))
	for i, n := range nodes {
		b.Nodes[i] = n.Clone()
	}
	return nil
}

// Snapshot 저장용 깊은 복사본
func (b *Board) Snapshot() ([]model.Node, model.Settings) {
	nodes := make([]model.Node, len(b.Nodes))
	for i, n := range b.Nodes {
		nodes[i] = n.Clone()
	}
	return nodes, b.Settings.Clone()
}

// ClassNodes 수업 노드만 반환
func (b *Board) ClassNodes() []model.Node {
	classes := make([]model.Node, 0, len(b.Nodes))
	for _, n := range b.Nodes {
		if n.Class() != nil {
			classes = append(classes, n.Clone())
		}
	}
	return classes
}
