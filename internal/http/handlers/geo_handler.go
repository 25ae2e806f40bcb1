package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"realtydesk/internal/config"
	"realtydesk/internal/geo"
	"realtydesk/internal/log"
	"realtydesk/internal/validate"
)

// GeoHandler exposes the address -> coordinates capability plus the static
// map preview URL for a resolved address.
type GeoHandler struct {
	Geocoder geo.Geocoder
	Cfg      config.Config
}

func (h *GeoHandler) Resolve(c *fiber.Ctx) error {
	address, ok := validate.Name(c.Query("address"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "address"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "address required"})
	}

	coords, err := h.Geocoder.Resolve(c.Context(), address)
	if errors.Is(err, geo.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "address not found"})
	}
	if err != nil {
		log.Error(c, "geo.resolve.error", err, nil)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "geocoding unavailable"})
	}

	return c.JSON(fiber.Map{
		"lat": coords.Lat,
		"lon": coords.Lon,
		"map": geo.StaticMapURL(h.Cfg.StaticMapURL, coords, 15, 400, 300),
	})
}
