package export

import (
	"errors"
	"fmt"
	"io"
	"time"

	"schedule-backend/internal/model"
)

var (
	ErrUnknownFormat = errors.New("unknown export format")
	ErrEmptyBoard    = errors.New("nothing to export")
)

// Format 내보내기 형식
type Format string

const (
	FormatPNG  Format = "png"
	FormatICS  Format = "ics"
	FormatXLSX Format = "xlsx"
)

// ParseFormat 형식 문자열 검증
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatPNG, FormatICS, FormatXLSX:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// ContentType HTTP Content-Type
func (f Format) ContentType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatICS:
		return "text/calendar; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/octet-stream"
}

// Options 내보내기 옵션
type Options struct {
	Name      string         // 캘린더/시트 이름
	FirstWeek time.Time      // ICS 반복 시작 주 (해당 주의 월요일로 맞춤)
	Weeks     int            // ICS 반복 주 수
	Location  *time.Location // ICS 벽시계 시간대
}

// Write 지정 형식으로 내보내기
func Write(w io.Writer, format Format, nodes []model.Node, settings model.Settings, opts Options) error {
	switch format {
	case FormatPNG:
		return PNG(w, nodes)
	case FormatICS:
		return ICS(w, nodes, opts)
	case FormatXLSX:
		return XLSX(w, nodes, settings, opts.Name)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// classNodes 수업 노드만 추출
func classNodes(nodes []model.Node) []model.Node {
	out := make([]model.Node, 0, len(nodes))
	for _, n := range nodes {
		if n.Class() != nil {
			out = append(out, n)
		}
	}
	return out
}
