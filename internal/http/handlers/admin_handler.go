package handlers

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"realtydesk/internal/log"
	"realtydesk/internal/store"
)

// AdminHandler owns the administrative reset: the bulk delete used to clear
// state, never part of the normal lifecycle.
type AdminHandler struct {
	Store *store.Store
}

// RequireAdmin gates a route on the admin password, checked against the
// bcrypt hash from config. An empty hash disables the route entirely.
func RequireAdmin(passHash string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if passHash == "" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "admin access not configured"})
		}
		pass := c.Get("X-Admin-Pass")
		if pass == "" || bcrypt.CompareHashAndPassword([]byte(passHash), []byte(pass)) != nil {
			log.Security(c, "admin.auth.fail", nil)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
		}
		return c.Next()
	}
}

func (h *AdminHandler) Reset(c *fiber.Ctx) error {
	if !awaitConfirm(h.Store.DeleteAll()) {
		log.Error(c, "admin.reset.fail", nil, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "reset failed"})
	}
	log.Audit(c, "admin.reset", nil)
	return c.SendStatus(fiber.StatusNoContent)
}
