package handler

import (
	"github.com/gofiber/fiber/v2"

	"schedule-backend/internal/board"
	"schedule-backend/internal/model"
)

// LayoutHandler 시간 → 좌표 변환 핸들러
type LayoutHandler struct {
	defaults model.Settings
}

// NewLayoutHandler LayoutHandler 생성
func NewLayoutHandler(defaults model.Settings) *LayoutHandler {
	return &LayoutHandler{defaults: defaults}
}

// ProjectRequest 좌표 변환 요청 (settings 생략 시 기본값)
type ProjectRequest struct {
	Settings *model.Settings `json:"settings,omitempty"`
	Start    float64         `json:"start"`
	End      float64         `json:"end"`
}

// ProjectResponse 좌표 변환 결과
type ProjectResponse struct {
	Y              float64 `json:"y"`
	Height         float64 `json:"height"`
	RenderedHeight float64 `json:"renderedHeight"`
	Visible        bool    `json:"visible"`
}

// Project 수업 시간 구간의 Y/높이 계산
func (h *LayoutHandler) Project(c *fiber.Ctx) error {
	var req ProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	settings := h.defaults
	if req.Settings != nil {
		settings = *req.Settings
	}
	grid := board.GridFor(settings)
	if err := grid.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if !(req.Start < req.End) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "start must be before end",
		})
	}

	return c.JSON(ProjectResponse{
		Y:              grid.YOf(req.Start),
		Height:         grid.HeightOf(req.Start, req.End),
		RenderedHeight: grid.RenderedHeight(req.Start, req.End),
		Visible:        grid.Overlaps(req.Start, req.End),
	})
}

// validateSettings 그리드 설정 검증
func validateSettings(s model.Settings) error {
	return board.GridFor(s).Validate()
}
