package auth

import "github.com/gofiber/fiber/v2"

// RequireRole 지정된 역할만 허용 (KeyMiddleware 다음에 사용)
func RequireRole(roles ...Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := GetClaimsFromContext(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}

		for _, role := range roles {
			if claims.Role == role {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "insufficient role",
		})
	}
}
