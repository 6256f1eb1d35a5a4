package export

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"schedule-backend/internal/layout"
	"schedule-backend/internal/model"
)

const pngPadding = 40.0

// swatch 색상 태그별 채우기/테두리/글자색
type swatch struct {
	fill, border, text color.RGBA
}

func rgb(hex uint32) color.RGBA {
	return color.RGBA{R: uint8(hex >> 16), G: uint8(hex >> 8), B: uint8(hex), A: 0xff}
}

var palette = map[model.Color]swatch{
	model.ColorPink:     {rgb(0xFCE7F3), rgb(0xFBCFE8), rgb(0x831843)},
	model.ColorBlue:     {rgb(0xDBEAFE), rgb(0xBFDBFE), rgb(0x1E3A8A)},
	model.ColorMint:     {rgb(0xD1FAE5), rgb(0xA7F3D0), rgb(0x064E3B)},
	model.ColorLavender: {rgb(0xF3E8FF), rgb(0xE9D5FF), rgb(0x581C87)},
	model.ColorYellow:   {rgb(0xFEF3C7), rgb(0xFDE68A), rgb(0x78350F)},
	model.ColorPeach:    {rgb(0xFFEDD5), rgb(0xFED7AA), rgb(0x7C2D12)},
}

func swatchFor(c model.Color) swatch {
	if s, ok := palette[c]; ok {
		return s
	}
	return palette[model.ColorPink]
}

// canvas 그리기 상태 (원점 이동 + 폰트 캐시)
type canvas struct {
	dc     *gg.Context
	font   *truetype.Font
	faces  map[float64]font.Face
	origin model.Position
}

func (c *canvas) face(size float64) font.Face {
	if f, ok := c.faces[size]; ok {
		return f
	}
	f := truetype.NewFace(c.font, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	c.faces[size] = f
	return f
}

func (c *canvas) rect(n model.Node) (x, y, w, h float64) {
	return n.Position.X - c.origin.X, n.Position.Y - c.origin.Y, n.Size.Width, n.Size.Height
}

// renderer 노드 타입별 그리기 함수
type renderer func(c *canvas, n model.Node)

var renderers = map[model.NodeType]renderer{
	model.NodeTypeClass:     drawClass,
	model.NodeTypeDayLabel:  drawDayLabel,
	model.NodeTypeTimeLabel: drawTimeLabel,
}

// PNG 노드 목록을 PNG 이미지로 렌더링
func PNG(w io.Writer, nodes []model.Node) error {
	if len(nodes) == 0 {
		return ErrEmptyBoard
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range nodes {
		minX = math.Min(minX, n.Position.X)
		minY = math.Min(minY, n.Position.Y)
		maxX = math.Max(maxX, n.Position.X+n.Size.Width)
		maxY = math.Max(maxY, n.Position.Y+n.Size.Height)
	}

	width := int(math.Ceil(maxX-minX+2*pngPadding))
	height := int(math.Ceil(maxY-minY+2*pngPadding))

	ttf, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return fmt.Errorf("failed to parse font: %w", err)
	}

	c := &canvas{
		dc:     gg.NewContext(width, height),
		font:   ttf,
		faces:  make(map[float64]font.Face),
		origin: model.Position{X: minX - pngPadding, Y: minY - pngPadding},
	}
	c.dc.SetColor(color.White)
	c.dc.Clear()

	// 라벨을 먼저 그려 수업 블록이 위에 오도록 한다
	for _, pass := range []bool{true, false} {
		for _, n := range nodes {
			if n.Type.IsLabel() != pass {
				continue
			}
			if draw, ok := renderers[n.Type]; ok {
				draw(c, n)
			}
		}
	}

	return c.dc.EncodePNG(w)
}

func drawDayLabel(c *canvas, n model.Node) {
	x, y, w, h := c.rect(n)
	c.dc.DrawRoundedRectangle(x, y, w, h, 16)
	c.dc.SetColor(rgb(0xF3E8FF))
	c.dc.FillPreserve()
	c.dc.SetColor(rgb(0xD1B3E8))
	c.dc.SetLineWidth(2)
	c.dc.Stroke()

	c.dc.SetFontFace(c.face(16))
	c.dc.SetColor(rgb(0x7C3AED))
	c.dc.DrawStringAnchored(n.Data.Label, x+w/2, y+h/2, 0.5, 0.35)
}

func drawTimeLabel(c *canvas, n model.Node) {
	x, y, w, h := c.rect(n)
	size := n.Data.FontSize
	if size <= 0 {
		size = 12
	}
	c.dc.SetFontFace(c.face(size))
	c.dc.SetColor(rgb(0x9CA3AF))
	c.dc.DrawStringAnchored(n.Data.Label, x+w/2, y+h/2, 0.5, 0.35)

	// 시간 행 안내선
	c.dc.SetColor(rgb(0xE5E7EB))
	c.dc.SetLineWidth(1)
	c.dc.DrawLine(x+w, y, float64(c.dc.Width()), y)
	c.dc.Stroke()
}

func drawClass(c *canvas, n model.Node) {
	block := n.Class()
	if block == nil {
		return
	}
	x, y, w, h := c.rect(n)
	s := swatchFor(block.Color)

	c.dc.DrawRoundedRectangle(x, y, w, h, 16)
	c.dc.SetColor(s.fill)
	c.dc.FillPreserve()
	c.dc.SetColor(s.border)
	c.dc.SetLineWidth(2)
	c.dc.Stroke()

	pad := 12.0
	c.dc.SetColor(s.text)

	c.dc.SetFontFace(c.face(14))
	c.dc.DrawString(block.Code, x+pad, y+pad+14)

	c.dc.SetFontFace(c.face(11))
	c.dc.DrawString("Sec "+block.Section, x+pad, y+pad+30)
	if block.Classroom != "" {
		c.dc.DrawString(block.Classroom, x+pad, y+pad+44)
	}

	c.dc.SetFontFace(c.face(12))
	c.dc.DrawStringWrapped(block.Subject, x+pad, y+pad+58, 0, 0, w-2*pad, 1.3, gg.AlignLeft)

	times := strings.Join([]string{layout.FormatClock(block.StartTime), layout.FormatClock(block.EndTime)}, " - ")
	c.dc.SetFontFace(c.face(11))
	c.dc.DrawString(times, x+pad, y+h-pad)
}
