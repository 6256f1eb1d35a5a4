package handler

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"schedule-backend/internal/model"
	"schedule-backend/internal/service"
)

// ScheduleHandler 저장된 시간표 핸들러
type ScheduleHandler struct {
	schedules *service.ScheduleService
	exporter  *Exporter
}

// NewScheduleHandler ScheduleHandler 생성
func NewScheduleHandler(schedules *service.ScheduleService, exporter *Exporter) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules, exporter: exporter}
}

// SaveScheduleRequest 시간표 저장 요청
type SaveScheduleRequest struct {
	Name     string         `json:"name"`
	Nodes    []model.Node   `json:"nodes"`
	Settings model.Settings `json:"settings"`
}

// ListSchedules 저장된 시간표 목록 (최근 수정 순)
func (h *ScheduleHandler) ListSchedules(c *fiber.Ctx) error {
	schedules, err := h.schedules.List(c.UserContext())
	if err != nil {
		log.Printf("[Schedule] ❌ List failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load schedules",
		})
	}

	return c.JSON(fiber.Map{
		"schedules": schedules,
		"total":     len(schedules),
	})
}

// SaveSchedule 이름 기준 저장 (같은 이름이면 덮어씀)
func (h *ScheduleHandler) SaveSchedule(c *fiber.Ctx) error {
	var req SaveScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if err := validateSettings(req.Settings); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	schedule, err := h.schedules.Save(c.UserContext(), req.Name, req.Nodes, req.Settings)
	if err != nil {
		if errors.Is(err, service.ErrInvalidName) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "schedule name is required",
			})
		}
		log.Printf("[Schedule] ❌ Save failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to save schedule",
		})
	}

	log.Printf("[Schedule] 💾 Saved %q (%d nodes)", schedule.Name, len(req.Nodes))
	return c.JSON(schedule)
}

// GetSchedule 시간표 조회
func (h *ScheduleHandler) GetSchedule(c *fiber.Ctx) error {
	schedule, err := h.schedules.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return scheduleError(c, err, "failed to load schedule")
	}
	return c.JSON(schedule)
}

// DeleteSchedule 시간표 삭제
func (h *ScheduleHandler) DeleteSchedule(c *fiber.Ctx) error {
	if err := h.schedules.Delete(c.UserContext(), c.Params("id")); err != nil {
		return scheduleError(c, err, "failed to delete schedule")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ExportSchedule 저장된 시간표 내보내기
func (h *ScheduleHandler) ExportSchedule(c *fiber.Ctx) error {
	schedule, err := h.schedules.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return scheduleError(c, err, "failed to load schedule")
	}
	return h.exporter.Send(c, schedule.Name, schedule.Nodes.Data(), schedule.Settings.Data())
}

func scheduleError(c *fiber.Ctx, err error, message string) error {
	if errors.Is(err, service.ErrScheduleNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "schedule not found",
		})
	}
	log.Printf("[Schedule] ❌ %s: %v", message, err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": message,
	})
}
