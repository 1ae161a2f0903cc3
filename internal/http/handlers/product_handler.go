package handlers

import (
	"github.com/gofiber/fiber/v2"

	"appliancestore/internal/log"
	"appliancestore/internal/services"
	"appliancestore/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "product"})
		return notFoundPage(c, "This item is no longer available")
	}
	v, err := h.Catalog.ProductDetail(id)
	if err != nil {
		return pageError(c, "product.detail.fail", err)
	}
	return render(c, "product", fiber.Map{"P": v.Product, "Category": v.Category, "Values": v.Values})
}

// APIGet: GET /api/products/:id
func (h *ProductHandler) APIGet(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	p, err := h.Catalog.GetProduct(id)
	if err != nil {
		return jsonError(c, "product.get.fail", err)
	}
	return c.JSON(p)
}

// APIDelete: DELETE /api/products/:id
func (h *ProductHandler) APIDelete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	if err := h.Catalog.DeleteProduct(id); err != nil {
		return jsonError(c, "admin.product.delete.fail", err)
	}
	log.Audit(c, "admin.product.delete", map[string]any{"product_id": id})
	return c.JSON(fiber.Map{"success": true})
}
