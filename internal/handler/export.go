package handler

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"schedule-backend/internal/config"
	"schedule-backend/internal/export"
	"schedule-backend/internal/model"
)

// Exporter 보드/시간표 파일 내보내기 응답
type Exporter struct {
	opts export.Options
}

// NewExporter 설정으로 Exporter 생성 (시간대/첫 주 검증)
func NewExporter(cfg config.ExportConfig) (*Exporter, error) {
	loc, err := time.LoadLocation(cfg.ICSTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid ICS_TIMEZONE %q: %w", cfg.ICSTimezone, err)
	}

	opts := export.Options{Weeks: cfg.ICSWeeks, Location: loc}
	if cfg.ICSFirstDay != "" {
		first, err := time.ParseInLocation("2006-01-02", cfg.ICSFirstDay, loc)
		if err != nil {
			return nil, fmt.Errorf("invalid ICS_FIRST_DAY %q: %w", cfg.ICSFirstDay, err)
		}
		opts.FirstWeek = first
	}
	return &Exporter{opts: opts}, nil
}

// Send 요청 형식으로 렌더링 후 첨부 파일로 전송
//
// 쿼리: weeks (ICS 반복 횟수), from (YYYY-MM-DD, ICS 첫 주)
func (e *Exporter) Send(c *fiber.Ctx, name string, nodes []model.Node, settings model.Settings) error {
	format, err := export.ParseFormat(strings.ToLower(c.Params("format")))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unsupported export format",
		})
	}

	opts := e.opts
	opts.Name = name
	if weeks := c.QueryInt("weeks", 0); weeks > 0 {
		opts.Weeks = weeks
	}
	if from := c.Query("from"); from != "" {
		first, err := time.ParseInLocation("2006-01-02", from, opts.Location)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "from must be YYYY-MM-DD",
			})
		}
		opts.FirstWeek = first
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, nodes, settings, opts); err != nil {
		if errors.Is(err, export.ErrEmptyBoard) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": "nothing to export",
			})
		}
		log.Printf("[Export] ❌ %s export failed: %v", format, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to export",
		})
	}

	c.Attachment(fileName(name, format))
	c.Set(fiber.HeaderContentType, format.ContentType())
	return c.Send(buf.Bytes())
}

// fileName 다운로드 파일 이름 (영숫자/-/_ 만 유지)
func fileName(name string, format export.Format) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		b.WriteString("schedule")
	}
	return b.String() + "." + string(format)
}
