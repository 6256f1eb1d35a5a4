package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"schedule-backend/internal/session"
)

// BoardMiddleware 편집 세션 존재 확인 미들웨어
type BoardMiddleware struct {
	sessions *session.Manager
}

// NewBoardMiddleware BoardMiddleware 생성
func NewBoardMiddleware(sessions *session.Manager) *BoardMiddleware {
	return &BoardMiddleware{sessions: sessions}
}

// RequireBoard :id 세션이 있어야 통과 (세션 ID를 컨텍스트에 저장)
func (m *BoardMiddleware) RequireBoard() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "board ID is required",
			})
		}

		if _, err := m.sessions.Get(c.UserContext(), id); err != nil {
			if errors.Is(err, session.ErrSessionNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "board not found",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load board",
			})
		}

		c.Locals("boardID", id)
		return c.Next()
	}
}
