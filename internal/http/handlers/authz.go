package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"appliancestore/internal/auth"
	applog "appliancestore/internal/log"
	"appliancestore/internal/services"
)

// SessionCookie carries the signed admin token for page routes.
const SessionCookie = "admin_session"

// tokenFrom prefers an Authorization bearer header and falls back to the cookie.
func tokenFrom(c *fiber.Ctx) string {
	if tok := bearerToken(c); tok != "" {
		return tok
	}
	return c.Cookies(SessionCookie)
}

func bearerToken(c *fiber.Ctx) string {
	if h := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(h[len("Bearer "):])
	}
	return ""
}

// RequireAdmin gates admin pages; unauthenticated visitors go to the login form.
func RequireAdmin(svc *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := c.Cookies(SessionCookie)
		user, ok := svc.Verify(tok)
		if !ok {
			if tok != "" {
				applog.Security(c, "access.denied.admin", map[string]any{"reason": "invalid_token"})
				clearSession(c)
			}
			return c.Redirect("/admin/login")
		}
		c.Locals("admin", user)
		return c.Next()
	}
}

// RequireAdminAPI gates JSON endpoints with 401 instead of a redirect.
func RequireAdminAPI(svc *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := svc.Verify(tokenFrom(c))
		if !ok {
			applog.Security(c, "access.denied.api", nil)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}
		c.Locals("admin", user)
		return c.Next()
	}
}

// OptionalAdmin marks the request as admin for templates without enforcing it.
func OptionalAdmin(svc *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if user, ok := svc.Verify(c.Cookies(SessionCookie)); ok {
			c.Locals("admin", user)
		}
		return c.Next()
	}
}

func setSession(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   false, // set true behind HTTPS
		Expires:  time.Now().Add(auth.TokenTTL),
	})
}

func clearSession(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
}
