package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"appliancestore/internal/auth"
	applog "appliancestore/internal/log"
	"appliancestore/internal/services"
)

const genericError = "Something went wrong. Please try again."

// statusFor maps service errors onto HTTP statuses.
func statusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrInvalid):
		return fiber.StatusBadRequest
	case errors.Is(err, auth.ErrBadCredentials):
		return fiber.StatusUnauthorized
	case errors.As(err, &fe):
		return fe.Code
	}
	return fiber.StatusInternalServerError
}

// publicMessage is safe to show: validation text passes through, anything
// unexpected is replaced by a generic message.
func publicMessage(err error, status int) string {
	switch status {
	case fiber.StatusBadRequest:
		msg := err.Error()
		if i := strings.Index(msg, ": "); i >= 0 && errors.Is(err, services.ErrInvalid) {
			msg = msg[i+2:]
		}
		return msg
	case fiber.StatusNotFound:
		return "Not found"
	case fiber.StatusUnauthorized:
		return "Invalid credentials"
	case fiber.StatusInternalServerError:
		return genericError
	}
	if fe, ok := err.(*fiber.Error); ok {
		return fe.Message
	}
	return genericError
}

// jsonError writes {"error": ...} and logs unexpected failures.
func jsonError(c *fiber.Ctx, action string, err error) error {
	status := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		applog.Error(c, action, err, nil)
	}
	return c.Status(status).JSON(fiber.Map{"error": publicMessage(err, status)})
}

// pageError renders the error page for HTML routes.
func pageError(c *fiber.Ctx, action string, err error) error {
	status := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		applog.Error(c, action, err, nil)
	}
	return renderStatus(c, status, "notfound", fiber.Map{"Message": publicMessage(err, status)})
}

// ErrorHandler is the app-wide fallback; it never leaks internal error text.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		applog.Error(c, "server.error", err, nil)
	}
	msg := genericError
	if status < fiber.StatusInternalServerError {
		msg = publicMessage(err, status)
	}
	if strings.HasPrefix(c.Path(), "/api/") {
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}
	if rerr := renderStatus(c, status, "notfound", fiber.Map{"Message": msg}); rerr != nil {
		return c.Status(status).SendString(msg)
	}
	return nil
}
