package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"appliancestore/internal/log"
	"appliancestore/internal/services"
	"appliancestore/internal/validate"
)

type SearchHandler struct {
	Catalog *services.CatalogService
}

// Page renders full, unlimited results for /search?q=.
func (h *SearchHandler) Page(c *fiber.Ctx) error {
	rawQ := c.Query("q")
	if strings.TrimSpace(rawQ) == "" {
		// Initial page load: show empty search without errors
		return render(c, "search", fiber.Map{"Q": "", "Count": 0})
	}
	q, ok := validate.Q(rawQ)
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "q"})
		return renderStatus(c, fiber.StatusBadRequest, "search", fiber.Map{
			"Q": "", "Count": 0, "Err": "Enter a valid search query",
		})
	}
	res, err := h.Catalog.Search(q, 0, 0, false)
	if err != nil {
		log.Error(c, "search.error", err, nil)
		return renderStatus(c, fiber.StatusInternalServerError, "notfound", fiber.Map{"Message": "Could not load results. Please retry."})
	}
	return render(c, "search", fiber.Map{
		"Q":          q,
		"Categories": res.Categories,
		"Products":   res.Products,
		"Count":      len(res.Categories) + len(res.Products),
	})
}

// API backs the header dropdown: at most 5 categories and 10 products.
func (h *SearchHandler) API(c *fiber.Ctx) error {
	q, ok := validate.Q(c.Query("q"))
	if !ok {
		q = ""
	}
	res, err := h.Catalog.Search(q, 5, 10, true)
	if err != nil {
		log.Error(c, "search.api.error", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Search failed"})
	}
	return c.JSON(res)
}
