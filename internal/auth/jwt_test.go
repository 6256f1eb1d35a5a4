package auth

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

func TestIssueAndValidate(t *testing.T) {
	keys := NewKeyManager("test-secret", 0)

	token, err := keys.Issue(RoleAnon, "browser")
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}
	claims, err := keys.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if claims.Role != RoleAnon || claims.Subject != "browser" {
		t.Errorf("claims = %+v", claims)
	}

	if _, err := keys.Issue("admin", "x"); !errors.Is(err, ErrUnknownRole) {
		t.Errorf("Issue(admin) error = %v, want ErrUnknownRole", err)
	}

	other := NewKeyManager("other-secret", 0)
	if _, err := other.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Validate() with wrong secret error = %v, want ErrInvalidToken", err)
	}
}

func TestExpiredKey(t *testing.T) {
	keys := NewKeyManager("test-secret", time.Nanosecond)

	token, err := keys.Issue(RoleService, "ops")
	if err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, err := keys.Validate(token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("Validate() error = %v, want ErrExpiredToken", err)
	}
}

func TestMiddleware(t *testing.T) {
	keys := NewKeyManager("test-secret", time.Hour)
	anon, _ := keys.Issue(RoleAnon, "browser")
	service, _ := keys.Issue(RoleService, "ops")

	app := fiber.New()
	app.Get("/open", KeyMiddleware(keys), func(c *fiber.Ctx) error {
		return c.SendString(string(c.Locals("role").(Role)))
	})
	app.Get("/ops", KeyMiddleware(keys), RequireRole(RoleService), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	tests := []struct {
		name   string
		path   string
		header map[string]string
		want   int
	}{
		{"no key", "/open", nil, fiber.StatusUnauthorized},
		{"apikey header", "/open", map[string]string{"apikey": anon}, fiber.StatusOK},
		{"bearer", "/open", map[string]string{"Authorization": "Bearer " + anon}, fiber.StatusOK},
		{"malformed bearer", "/open", map[string]string{"Authorization": anon}, fiber.StatusUnauthorized},
		{"garbage", "/open", map[string]string{"apikey": "not-a-key"}, fiber.StatusUnauthorized},
		{"query", "/open?apikey=" + anon, nil, fiber.StatusOK},
		{"anon on ops", "/ops", map[string]string{"apikey": anon}, fiber.StatusForbidden},
		{"service on ops", "/ops", map[string]string{"apikey": service}, fiber.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}
