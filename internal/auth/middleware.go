package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ExtractKey 요청에서 API 키 추출 (apikey 헤더 > Bearer 토큰 > apikey 쿼리)
func ExtractKey(c *fiber.Ctx) string {
	if key := c.Get("apikey"); key != "" {
		return key
	}
	if header := c.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	// WebSocket은 헤더를 지정할 수 없으므로 쿼리 허용
	return c.Query("apikey")
}

// KeyMiddleware API 키 인증 미들웨어
func KeyMiddleware(keys *KeyManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := ExtractKey(c)
		if key == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing api key",
			})
		}

		claims, err := keys.Validate(key)
		if err != nil {
			if errors.Is(err, ErrExpiredToken) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "api key expired",
					"code":  "KEY_EXPIRED",
				})
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid api key",
			})
		}

		c.Locals("claims", claims)
		c.Locals("role", claims.Role)
		return c.Next()
	}
}

// GetClaimsFromContext 컨텍스트에서 클레임 조회
func GetClaimsFromContext(c *fiber.Ctx) (*Claims, error) {
	claims, ok := c.Locals("claims").(*Claims)
	if !ok || claims == nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
