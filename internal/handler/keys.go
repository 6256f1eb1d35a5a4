package handler

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"schedule-backend/internal/auth"
)

// KeyHandler API 키 발급 핸들러 (service 역할 전용)
type KeyHandler struct {
	keys *auth.KeyManager
}

// NewKeyHandler KeyHandler 생성
func NewKeyHandler(keys *auth.KeyManager) *KeyHandler {
	return &KeyHandler{keys: keys}
}

// IssueKeyRequest 키 발급 요청
type IssueKeyRequest struct {
	Role    auth.Role `json:"role"`
	Subject string    `json:"subject"`
}

// IssueKey 새 API 키 발급
func (h *KeyHandler) IssueKey(c *fiber.Ctx) error {
	var req IssueKeyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if req.Role == "" {
		req.Role = auth.RoleAnon
	}
	if !req.Role.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "role must be anon or service",
		})
	}

	key, err := h.keys.Issue(req.Role, req.Subject)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to issue key",
		})
	}

	issuer, _ := auth.GetClaimsFromContext(c)
	if issuer != nil {
		log.Printf("[Auth] 🔑 %s issued %s key for %q", issuer.Subject, req.Role, req.Subject)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"key":  key,
		"role": req.Role,
	})
}
