package handlers

import (
	"bufio"
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"realtydesk/internal/domain"
	"realtydesk/internal/log"
	"realtydesk/internal/repos"
	"realtydesk/internal/search"
	"realtydesk/internal/validate"
)

type SearchHandler struct {
	Repo   *repos.PropertyRepo
	Engine *search.Engine
}

// Search is the one-shot bounded query: optional bounds come in as query
// params, the photo-count refinement runs on top of the store result.
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	criteria, err := parseCriteria(c)
	if err != nil {
		log.Security(c, "validation.fail", map[string]any{"err": err.Error()})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	results, qerr := h.Repo.Search(criteria)
	if qerr != nil {
		log.Error(c, "search.error", qerr, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not run search"})
	}
	results = search.Refine(results, criteria.MinPhotos)
	if results == nil {
		results = []domain.Property{}
	}
	return c.JSON(fiber.Map{"count": len(results), "properties": results})
}

// SetCriteria replaces the engine's active filter; the live results feed
// re-derives without its consumer re-subscribing.
func (h *SearchHandler) SetCriteria(c *fiber.Ctx) error {
	var criteria domain.SearchCriteria
	if err := c.BodyParser(&criteria); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if _, ok := validate.Location(criteria.Location); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid location"})
	}
	h.Engine.SetCriteria(criteria)
	log.Info(c, "search.criteria.set", map[string]any{"location": criteria.Location})
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *SearchHandler) ResetCriteria(c *fiber.Ctx) error {
	h.Engine.ResetCriteria()
	log.Info(c, "search.criteria.reset", nil)
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *SearchHandler) GetCriteria(c *fiber.Ctx) error {
	criteria := h.Engine.Criteria()
	if criteria == nil {
		return c.JSON(fiber.Map{"active": false})
	}
	return c.JSON(fiber.Map{"active": true, "criteria": criteria})
}

// Stream binds the engine's live results feed to a server-sent-events
// response. The feed is the single "current results" channel, so one
// subscriber at a time consumes it.
func (h *SearchHandler) Stream(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	results := h.Engine.Results()
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		for batch := range results {
			payload, err := json.Marshal(batch)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	})
	return nil
}

func parseCriteria(c *fiber.Ctx) (domain.SearchCriteria, error) {
	var out domain.SearchCriteria
	var ok bool

	if out.MinPrice, ok = validate.Amount(c.Query("minPrice")); !ok {
		return out, fmt.Errorf("invalid minPrice")
	}
	if out.MaxPrice, ok = validate.Amount(c.Query("maxPrice")); !ok {
		return out, fmt.Errorf("invalid maxPrice")
	}
	if out.MinSurface, ok = validate.Amount(c.Query("minSurface")); !ok {
		return out, fmt.Errorf("invalid minSurface")
	}
	if out.MaxSurface, ok = validate.Amount(c.Query("maxSurface")); !ok {
		return out, fmt.Errorf("invalid maxSurface")
	}
	if out.MinRooms, ok = validate.Count(c.Query("minRooms")); !ok {
		return out, fmt.Errorf("invalid minRooms")
	}
	if out.MinPhotos, ok = validate.Count(c.Query("minPhotos")); !ok {
		return out, fmt.Errorf("invalid minPhotos")
	}
	if out.Location, ok = validate.Location(c.Query("location")); !ok {
		return out, fmt.Errorf("invalid location")
	}
	return out, nil
}
