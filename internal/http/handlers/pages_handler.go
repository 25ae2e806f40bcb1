package handlers

import (
	"github.com/gofiber/fiber/v2"

	"realtydesk/internal/log"
	"realtydesk/internal/repos"
	"realtydesk/internal/search"
	"realtydesk/internal/validate"
)

// PagesHandler renders the server-side listing pages.
type PagesHandler struct {
	Repo *repos.PropertyRepo
}

func (h *PagesHandler) Listings(c *fiber.Ctx) error {
	criteria, err := parseCriteria(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).Render("notfound", fiber.Map{"Message": "Invalid search filter"})
	}

	properties, qerr := h.Repo.Search(criteria)
	if qerr != nil {
		log.Error(c, "pages.listings.error", qerr, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load listings. Please retry."})
	}
	properties = search.Refine(properties, criteria.MinPhotos)

	return render(c, "listings", fiber.Map{
		"Properties": properties,
		"Count":      len(properties),
		"Filtered":   !criteria.Unconstrained(),
	})
}

func (h *PagesHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "This listing does not exist"})
	}
	p, err := h.Repo.GetByID(id)
	if err != nil {
		log.Error(c, "pages.detail.error", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load the listing. Please retry."})
	}
	if p == nil {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "This listing does not exist"})
	}
	return render(c, "listing", fiber.Map{"P": p})
}
