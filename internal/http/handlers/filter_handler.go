package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"appliancestore/internal/domain"
	applog "appliancestore/internal/log"
	"appliancestore/internal/services"
	"appliancestore/internal/validate"
)

type FilterHandler struct {
	Catalog *services.CatalogService
	Filters *services.FilterService
}

func (h *FilterHandler) category(c *fiber.Ctx) (*domain.Category, error) {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return nil, services.ErrNotFound
	}
	return h.Catalog.GetCategory(id)
}

// filterOf loads :filterId and checks it belongs to the category.
func (h *FilterHandler) filterOf(c *fiber.Ctx, cat *domain.Category) (*domain.FilterDefinition, error) {
	fid, ok := validate.ID(c.Params("filterId"))
	if !ok {
		return nil, services.ErrNotFound
	}
	f, err := h.Filters.Get(fid)
	if err != nil {
		return nil, err
	}
	if f.CategoryID != cat.ID {
		return nil, services.ErrNotFound
	}
	return f, nil
}

// GET /admin/categories/:id/filters
func (h *FilterHandler) List(c *fiber.Ctx) error {
	cat, err := h.category(c)
	if err != nil {
		return pageError(c, "admin.filters.list.fail", err)
	}
	filters, err := h.Filters.ForCategory(cat.ID)
	if err != nil {
		return pageError(c, "admin.filters.list.fail", err)
	}
	return render(c, "admin_filters", fiber.Map{"Category": cat, "Filters": filters})
}

// GET /admin/categories/:id/filters/new
func (h *FilterHandler) New(c *fiber.Ctx) error {
	cat, err := h.category(c)
	if err != nil {
		return pageError(c, "admin.filter.new.fail", err)
	}
	return render(c, "admin_filter_form", fiber.Map{
		"Category": cat, "Types": domain.FilterTypes,
		"Form": services.FilterInput{Type: string(domain.FilterCheckbox)},
	})
}

// POST /admin/categories/:id/filters/new
func (h *FilterHandler) Create(c *fiber.Ctx) error {
	cat, err := h.category(c)
	if err != nil {
		return pageError(c, "admin.filter.create.fail", err)
	}
	in := services.FilterInput{
		Name:         c.FormValue("filter_name"),
		Type:         c.FormValue("filter_type"),
		DisplayOrder: validate.Int(c.FormValue("display_order"), 0),
	}
	id, err := h.Filters.Create(cat.ID, in)
	if err != nil {
		if statusFor(err) == fiber.StatusBadRequest {
			return renderStatus(c, fiber.StatusBadRequest, "admin_filter_form", fiber.Map{
				"Category": cat, "Types": domain.FilterTypes, "Form": in,
				"Err": publicMessage(err, fiber.StatusBadRequest),
			})
		}
		return pageError(c, "admin.filter.create.fail", err)
	}
	applog.Audit(c, "admin.filter.create", map[string]any{"filter_id": id, "category_id": cat.ID})
	return c.Redirect(fmt.Sprintf("/admin/categories/%d/filters", cat.ID))
}

// GET /admin/categories/:id/filters/:filterId/options/new
func (h *FilterHandler) OptionNew(c *fiber.Ctx) error {
	cat, err := h.category(c)
	if err != nil {
		return pageError(c, "admin.option.new.fail", err)
	}
	f, err := h.filterOf(c, cat)
	if err != nil {
		return pageError(c, "admin.option.new.fail", err)
	}
	return render(c, "admin_option_form", fiber.Map{"Category": cat, "Filter": f})
}

// POST /admin/categories/:id/filters/:filterId/options/new
func (h *FilterHandler) OptionCreate(c *fiber.Ctx) error {
	cat, err := h.category(c)
	if err != nil {
		return pageError(c, "admin.option.create.fail", err)
	}
	f, err := h.filterOf(c, cat)
	if err != nil {
		return pageError(c, "admin.option.create.fail", err)
	}
	value := c.FormValue("option_value")
	id, err := h.Filters.CreateOption(f.ID, value, validate.Int(c.FormValue("display_order"), 0))
	if err != nil {
		if statusFor(err) == fiber.StatusBadRequest {
			return renderStatus(c, fiber.StatusBadRequest, "admin_option_form", fiber.Map{
				"Category": cat, "Filter": f, "Value": value,
				"Err": publicMessage(err, fiber.StatusBadRequest),
			})
		}
		return pageError(c, "admin.option.create.fail", err)
	}
	applog.Audit(c, "admin.option.create", map[string]any{"option_id": id, "filter_id": f.ID})
	return c.Redirect(fmt.Sprintf("/admin/categories/%d/filters", cat.ID))
}

// POST /admin/categories/:id/filters/:filterId/delete (form fallback for the API)
func (h *FilterHandler) DeleteForm(c *fiber.Ctx) error {
	cat, err := h.category(c)
	if err != nil {
		return pageError(c, "admin.filter.delete.fail", err)
	}
	f, err := h.filterOf(c, cat)
	if err != nil {
		return pageError(c, "admin.filter.delete.fail", err)
	}
	if err := h.Filters.Delete(f.ID); err != nil {
		return pageError(c, "admin.filter.delete.fail", err)
	}
	applog.Audit(c, "admin.filter.delete", map[string]any{"filter_id": f.ID})
	return c.Redirect(fmt.Sprintf("/admin/categories/%d/filters", cat.ID))
}

// APIDelete: DELETE /api/filters/:id
func (h *FilterHandler) APIDelete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid filter ID"})
	}
	if err := h.Filters.Delete(id); err != nil {
		return jsonError(c, "admin.filter.delete.fail", err)
	}
	applog.Audit(c, "admin.filter.delete", map[string]any{"filter_id": id})
	return c.JSON(fiber.Map{"success": true})
}

// APIDeleteOption: DELETE /api/filters/:id/options/:optionId
func (h *FilterHandler) APIDeleteOption(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid filter ID"})
	}
	optionID, ok := validate.ID(c.Params("optionId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid option ID"})
	}
	if err := h.Filters.DeleteOption(id, optionID); err != nil {
		return jsonError(c, "admin.option.delete.fail", err)
	}
	applog.Audit(c, "admin.option.delete", map[string]any{"filter_id": id, "option_id": optionID})
	return c.JSON(fiber.Map{"success": true})
}
