package export

import (
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"schedule-backend/internal/layout"
	"schedule-backend/internal/model"
)

const (
	slotsPerHour = 2
	defaultSheet = "Schedule"
)

// XLSX 요일 × 30분 슬롯 표로 내보내기
//
// 수업은 시작 슬롯에 기록되고 끝 슬롯까지 병합된다.
// 같은 칸을 차지하는 수업이 이미 있으면 병합하지 않고 텍스트를 이어 붙인다.
func XLSX(w io.Writer, nodes []model.Node, settings model.Settings, name string) error {
	grid := layout.NewGrid(settings.StartTime, settings.EndTime, settings.TimeHeight, settings.RowHeights)
	if err := grid.Validate(); err != nil {
		return err
	}
	if name == "" {
		name = defaultSheet
	}
	sheet := sheetName(name)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	startHour := math.Floor(grid.StartHour)
	slots := int(math.Ceil((grid.EndHour - startHour) * slotsPerHour))

	header, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "7C3AED"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"F3E8FF"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	if err := f.SetCellValue(sheet, "A1", "Time"); err != nil {
		return err
	}
	for i, day := range model.Weekdays {
		cell, _ := excelize.CoordinatesToCellName(i+2, 1)
		if err := f.SetCellValue(sheet, cell, day); err != nil {
			return err
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(model.Weekdays)+1, 1)
	if err := f.SetCellStyle(sheet, "A1", lastHeader, header); err != nil {
		return err
	}

	for s := 0; s < slots; s++ {
		cell, _ := excelize.CoordinatesToCellName(1, s+2)
		t := startHour + float64(s)/slotsPerHour
		if err := f.SetCellValue(sheet, cell, layout.FormatClock(t)); err != nil {
			return err
		}
	}

	styles := make(map[model.Color]int)
	occupied := make(map[[2]int]int)

	for _, n := range classNodes(nodes) {
		block := n.Class()
		if !grid.Overlaps(block.StartTime, block.EndTime) {
			continue
		}
		col := layout.DayIndexAt(n.Position.X) + 2
		first := int(math.Floor((grid.Clamp(block.StartTime) - startHour) * slotsPerHour))
		last := int(math.Ceil((grid.Clamp(block.EndTime)-startHour)*slotsPerHour)) - 1
		if last < first {
			last = first
		}

		top, _ := excelize.CoordinatesToCellName(col, first+2)
		bottom, _ := excelize.CoordinatesToCellName(col, last+2)
		text := fmt.Sprintf("%s (%s)\n%s\n%s - %s",
			block.Code, block.Section, block.Subject,
			layout.FormatClock(block.StartTime), layout.FormatClock(block.EndTime))

		if prev, taken := occupiedRange(occupied, col, first, last); taken {
			owner, _ := excelize.CoordinatesToCellName(col, prev+2)
			existing, _ := f.GetCellValue(sheet, owner)
			if err := f.SetCellValue(sheet, owner, existing+"\n\n"+text); err != nil {
				return err
			}
			continue
		}

		if err := f.SetCellValue(sheet, top, text); err != nil {
			return err
		}
		if last > first {
			if err := f.MergeCell(sheet, top, bottom); err != nil {
				return err
			}
		}

		style, ok := styles[block.Color]
		if !ok {
			sw := swatchFor(block.Color)
			style, _ = f.NewStyle(&excelize.Style{
				Font: &excelize.Font{Color: hexOf(sw.text)},
				Fill: excelize.Fill{Type: "pattern", Color: []string{hexOf(sw.fill)}, Pattern: 1},
				Border: []excelize.Border{
					{Type: "left", Color: hexOf(sw.border), Style: 1},
					{Type: "right", Color: hexOf(sw.border), Style: 1},
					{Type: "top", Color: hexOf(sw.border), Style: 1},
					{Type: "bottom", Color: hexOf(sw.border), Style: 1},
				},
				Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
			})
			styles[block.Color] = style
		}
		if err := f.SetCellStyle(sheet, top, bottom, style); err != nil {
			return err
		}

		for s := first; s <= last; s++ {
			occupied[[2]int{col, s}] = first
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(model.Weekdays) + 1)
	if err := f.SetColWidth(sheet, "A", "A", 8); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", lastCol, 24); err != nil {
		return err
	}

	return f.Write(w)
}

// occupiedRange 범위 안에 이미 기록된 수업이 있으면 그 시작 슬롯 반환
func occupiedRange(occupied map[[2]int]int, col, first, last int) (int, bool) {
	for s := first; s <= last; s++ {
		if owner, ok := occupied[[2]int{col, s}]; ok {
			return owner, true
		}
	}
	return 0, false
}

func hexOf(c interface{ RGBA() (r, g, b, a uint32) }) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("%02X%02X%02X", r>>8, g>>8, b>>8)
}

// sheetName 엑셀 시트 이름 제약 (31자, 특수문자 제외)
func sheetName(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			continue
		}
		out = append(out, r)
		if len(out) == 31 {
			break
		}
	}
	if len(out) == 0 {
		return defaultSheet
	}
	return string(out)
}
