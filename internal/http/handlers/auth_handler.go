package handlers

import (
	"github.com/gofiber/fiber/v2"

	"appliancestore/internal/log"
	"appliancestore/internal/services"
	"appliancestore/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	if _, ok := h.Auth.Verify(c.Cookies(SessionCookie)); ok {
		return c.Redirect("/admin")
	}
	return render(c, "login", fiber.Map{"Err": ""})
}

// Login handles the HTML form and sets the session cookie.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	username, ok := validate.Username(c.FormValue("username"))
	if !ok {
		log.Security(c, "auth.login.fail", map[string]any{"reason": "bad_format"})
		return renderStatus(c, fiber.StatusUnauthorized, "login", fiber.Map{"Err": "Invalid username or password"})
	}
	token, err := h.Auth.Login(username, c.FormValue("password"))
	if err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"username": username})
		return renderStatus(c, fiber.StatusUnauthorized, "login", fiber.Map{"Err": "Invalid username or password", "Username": username})
	}
	setSession(c, token)
	c.Locals("admin", username)
	log.Audit(c, "auth.login.success", map[string]any{"username": username})
	return c.Redirect("/admin")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	clearSession(c)
	log.Audit(c, "auth.logout", nil)
	return c.Redirect("/admin/login")
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// APILogin: POST /api/auth/login {username, password} -> {success, token}
func (h *AuthHandler) APILogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	token, err := h.Auth.Login(req.Username, req.Password)
	if err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"username": req.Username, "via": "api"})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
	}
	log.Audit(c, "auth.login.success", map[string]any{"username": req.Username, "via": "api"})
	return c.JSON(fiber.Map{"success": true, "token": token})
}

// APIVerify: GET /api/auth/verify with a bearer token -> {success, username}
func (h *AuthHandler) APIVerify(c *fiber.Ctx) error {
	tok := bearerToken(c)
	if tok == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	user, ok := h.Auth.Verify(tok)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	return c.JSON(fiber.Map{"success": true, "username": user})
}
