package handlers

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"appliancestore/internal/log"
	"appliancestore/internal/services"
	"appliancestore/internal/validate"
)

type CategoryHandler struct {
	Catalog *services.CatalogService
	Sliders *services.SliderService
}

// Menu loads the navigation categories for every page render.
func (h *CategoryHandler) Menu(c *fiber.Ctx) error {
	if !isPageRequest(c) {
		return c.Next()
	}
	if menu, err := h.Catalog.MenuCategories(); err == nil {
		c.Locals("menu", menu)
	} else {
		log.Error(c, "menu.load.fail", err, nil)
	}
	return c.Next()
}

func (h *CategoryHandler) Home(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories()
	if err != nil {
		return pageError(c, "home.categories.fail", err)
	}
	slides, err := h.Sliders.Active()
	if err != nil {
		return pageError(c, "home.sliders.fail", err)
	}
	return render(c, "home", fiber.Map{"Categories": cats, "Slides": slides})
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories()
	if err != nil {
		return pageError(c, "categories.list.fail", err)
	}
	return render(c, "categories", fiber.Map{"Categories": cats})
}

// Show renders a category with ?search=&sort=&filter_<id>=&page= applied.
func (h *CategoryHandler) Show(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFoundPage(c, "Category not found")
	}
	q := services.ParseListingQuery(c.Queries())
	view, err := h.Catalog.Browse(id, q)
	if err != nil {
		return pageError(c, "category.browse.fail", err)
	}
	return render(c, "category", fiber.Map{
		"View":  view,
		"Pages": pageLinks(c, view.Listing.TotalPages, view.Listing.Page),
	})
}

type pageLink struct {
	N       int
	URL     string
	Current bool
}

// pageLinks keeps the current query string and swaps only the page number.
func pageLinks(c *fiber.Ctx, totalPages, current int) []pageLink {
	if totalPages < 2 {
		return nil
	}
	vals, _ := url.ParseQuery(string(c.Request().URI().QueryString()))
	out := make([]pageLink, 0, totalPages)
	for n := 1; n <= totalPages; n++ {
		vals.Set("page", strconv.Itoa(n))
		out = append(out, pageLink{N: n, URL: c.Path() + "?" + vals.Encode(), Current: n == current})
	}
	return out
}

func isPageRequest(c *fiber.Ctx) bool {
	p := c.Path()
	return !strings.HasPrefix(p, "/api/") && !strings.HasPrefix(p, "/static/") && !strings.HasPrefix(p, "/media/")
}
