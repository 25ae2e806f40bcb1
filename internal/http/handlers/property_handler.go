package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"realtydesk/internal/domain"
	"realtydesk/internal/log"
	"realtydesk/internal/repos"
	"realtydesk/internal/services"
	"realtydesk/internal/store"
	"realtydesk/internal/validate"
)

// PropertyHandler is the content-access surface: read-all, read-by-id, insert,
// update and delete-by-id under /property, mirroring the store's operations.
type PropertyHandler struct {
	Repo     *repos.PropertyRepo
	Listings *services.ListingService
	Updates  *services.UpdateEngine
	Store    *store.Store
}

// confirmTimeout bounds how long a request waits on a write confirmation.
const confirmTimeout = 5 * time.Second

func (h *PropertyHandler) List(c *fiber.Ctx) error {
	properties, err := h.Repo.All()
	if err != nil {
		log.Error(c, "property.list.error", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load properties"})
	}
	if properties == nil {
		properties = []domain.Property{}
	}
	return c.JSON(fiber.Map{"count": len(properties), "properties": properties})
}

func (h *PropertyHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "id", "value": c.Params("id")})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}
	p, err := h.Repo.GetByID(id)
	if err != nil {
		log.Error(c, "property.get.error", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load property"})
	}
	if p == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}
	return c.JSON(p)
}

// Create inserts a new listing and only answers after the confirmation channel
// resolves, so the caller can trust the row is durable before acting on it.
func (h *PropertyHandler) Create(c *fiber.Ctx) error {
	var p domain.Property
	if err := c.BodyParser(&p); err != nil {
		log.Security(c, "validation.fail", map[string]any{"field": "body"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if p.Type == "" || p.Price < 0 || p.Surface < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "type required, price and surface must be non-negative"})
	}
	if err := services.ValidateSale(p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	ok := awaitConfirm(h.Listings.Create(p))
	if !ok {
		log.Error(c, "property.create.fail", nil, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "insert failed"})
	}
	// the "property added" side effect is gated on confirmed persistence
	log.Audit(c, "property.created", map[string]any{"type": p.Type, "city": p.Address.City})
	return c.SendStatus(fiber.StatusCreated)
}

// Update runs the aggregate update engine: the persisted row is the original,
// the request body the edited aggregate. No write happens when nothing differs.
func (h *PropertyHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}
	original, err := h.Repo.GetByID(id)
	if err != nil {
		log.Error(c, "property.update.error", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load property"})
	}
	if original == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}

	var edited domain.Property
	if err := c.BodyParser(&edited); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	edited.ID = id
	edited.Normalize()
	if err := services.ValidateSale(edited); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	done, changed := h.Updates.Update(*original, edited)
	if !changed {
		return c.JSON(fiber.Map{"changed": false})
	}
	if !awaitConfirm(done) {
		log.Error(c, "property.update.fail", nil, map[string]any{"id": id})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "update failed"})
	}
	log.Audit(c, "property.updated", map[string]any{"id": id})
	return c.JSON(fiber.Map{"changed": true})
}

func (h *PropertyHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}
	if !awaitConfirm(h.Store.DeleteByID(id)) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}
	log.Audit(c, "property.deleted", map[string]any{"id": id})
	return c.SendStatus(fiber.StatusNoContent)
}

func awaitConfirm(done <-chan bool) bool {
	select {
	case ok := <-done:
		return ok
	case <-time.After(confirmTimeout):
		return false
	}
}
