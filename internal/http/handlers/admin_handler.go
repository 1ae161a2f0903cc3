package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"appliancestore/internal/domain"
	applog "appliancestore/internal/log"
	"appliancestore/internal/services"
	"appliancestore/internal/validate"
)

type AdminHandler struct {
	Catalog  *services.CatalogService
	Filters  *services.FilterService
	Uploader *Uploader
}

// GET /admin
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories()
	if err != nil {
		return pageError(c, "admin.dashboard.fail", err)
	}
	page, err := h.Catalog.AdminProducts(validate.Page(c.Query("page")))
	if err != nil {
		return pageError(c, "admin.dashboard.fail", err)
	}
	names := make(map[int64]string, len(cats))
	for _, cat := range cats {
		names[cat.ID] = cat.Name
	}
	return render(c, "admin_dashboard", fiber.Map{
		"Categories":    cats,
		"CategoryNames": names,
		"Products":      page,
		"Pages":         pageLinks(c, page.TotalPages, page.Page),
	})
}

// ---------- Categories ----------

func categoryForm(c *fiber.Ctx) services.CategoryInput {
	return services.CategoryInput{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		MenuDisplay: validate.Checkbox(c.FormValue("menu_display")),
	}
}

// GET /admin/categories/new
func (h *AdminHandler) CategoryNew(c *fiber.Ctx) error {
	return render(c, "admin_category_form", fiber.Map{
		"Title": "Новая категория", "Action": "/admin/categories/new",
		"Form": services.CategoryInput{MenuDisplay: true},
	})
}

// POST /admin/categories/new
func (h *AdminHandler) CategoryCreate(c *fiber.Ctx) error {
	in := categoryForm(c)
	id, err := h.Catalog.CreateCategory(in)
	if err != nil {
		if statusFor(err) == fiber.StatusBadRequest {
			return renderStatus(c, fiber.StatusBadRequest, "admin_category_form", fiber.Map{
				"Title": "Новая категория", "Action": "/admin/categories/new",
				"Form": in, "Err": publicMessage(err, fiber.StatusBadRequest),
			})
		}
		return pageError(c, "admin.category.create.fail", err)
	}
	applog.Audit(c, "admin.category.create", map[string]any{"category_id": id, "name": in.Name})
	return c.Redirect("/admin")
}

// GET /admin/categories/:id/edit
func (h *AdminHandler) CategoryEdit(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFoundPage(c, "Category not found")
	}
	cat, err := h.Catalog.GetCategory(id)
	if err != nil {
		return pageError(c, "admin.category.edit.fail", err)
	}
	return render(c, "admin_category_form", fiber.Map{
		"Title":  "Редактировать категорию",
		"Action": fmt.Sprintf("/admin/categories/%d/edit", id),
		"Form":   services.CategoryInput{Name: cat.Name, Description: cat.Description, MenuDisplay: cat.MenuDisplay},
		"ID":     id,
	})
}

// POST /admin/categories/:id/edit
func (h *AdminHandler) CategoryUpdate(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFoundPage(c, "Category not found")
	}
	in := categoryForm(c)
	if err := h.Catalog.UpdateCategory(id, in); err != nil {
		if statusFor(err) == fiber.StatusBadRequest {
			return renderStatus(c, fiber.StatusBadRequest, "admin_category_form", fiber.Map{
				"Title":  "Редактировать категорию",
				"Action": fmt.Sprintf("/admin/categories/%d/edit", id),
				"Form":   in, "ID": id, "Err": publicMessage(err, fiber.StatusBadRequest),
			})
		}
		return pageError(c, "admin.category.update.fail", err)
	}
	applog.Audit(c, "admin.category.update", map[string]any{"category_id": id})
	return c.Redirect("/admin")
}

// GET /admin/categories/:id/delete
func (h *AdminHandler) CategoryDeleteConfirm(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFoundPage(c, "Category not found")
	}
	cat, err := h.Catalog.GetCategory(id)
	if err != nil {
		return pageError(c, "admin.category.delete.fail", err)
	}
	prods, err := h.Catalog.ProductsByCategory(id)
	if err != nil {
		return pageError(c, "admin.category.delete.fail", err)
	}
	return render(c, "admin_confirm_delete", fiber.Map{
		"Kind":    "категорию",
		"Name":    cat.Name,
		"Warning": fmt.Sprintf("Вместе с категорией будут удалены товары: %d.", len(prods)),
		"Action":  fmt.Sprintf("/admin/categories/%d/delete", id),
	})
}

// POST /admin/categories/:id/delete
func (h *AdminHandler) CategoryDelete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFoundPage(c, "Category not found")
	}
	if err := h.Catalog.DeleteCategory(id); err != nil {
		return pageError(c, "admin.category.delete.fail", err)
	}
	applog.Audit(c, "admin.category.delete", map[string]any{"category_id": id})
	return c.Redirect("/admin")
}

// ---------- Products ----------

type productForm struct {
	Name         string
	Description  string
	Price        string
	CategoryID   int64
	Availability bool
	PhotoURL     string
}

func (f productForm) input() services.ProductInput {
	return services.ProductInput{
		Name: f.Name, Description: f.Description, Price: f.Price,
		CategoryID: f.CategoryID, Availability: f.Availability, PhotoURL: f.PhotoURL,
	}
}

func formFromProduct(p *domain.Product) productForm {
	f := productForm{
		Name: p.Name, Description: p.Description, CategoryID: p.CategoryID,
		Availability: p.Availability, PhotoURL: p.PhotoURL,
	}
	if p.Price.Valid {
		f.Price = p.Price.Decimal.String()
	}
	return f
}

// readProductForm returns the form and any attached "photo" file. The file
// wins over photo_url but is not stored until savePhoto.
func (h *AdminHandler) readProductForm(c *fiber.Ctx) (productForm, *multipart.FileHeader) {
	catID, _ := strconv.ParseInt(c.FormValue("category_id"), 10, 64)
	f := productForm{
		Name:         c.FormValue("name"),
		Description:  c.FormValue("description"),
		Price:        c.FormValue("price"),
		CategoryID:   catID,
		Availability: validate.Checkbox(c.FormValue("availability")),
		PhotoURL:     c.FormValue("photo_url"),
	}
	if fh, err := c.FormFile("photo"); err == nil && fh.Size > 0 {
		return f, fh
	}
	return f, nil
}

// savePhoto stores the upload only once the rest of the form is valid.
func (h *AdminHandler) savePhoto(c *fiber.Ctx, f *productForm, photo *multipart.FileHeader) error {
	if photo == nil {
		return nil
	}
	in := f.input()
	in.PhotoURL = ""
	if err := h.Catalog.CheckProduct(in); err != nil {
		return err
	}
	url, err := h.Uploader.Save(c, photo)
	if err != nil {
		return err
	}
	f.PhotoURL = url
	return nil
}

func (h *AdminHandler) productFormPage(c *fiber.Ctx, status int, title, action string, id int64, f productForm, errMsg string) error {
	cats, err := h.Catalog.ListCategories()
	if err != nil {
		return pageError(c, "admin.product.form.fail", err)
	}
	data := fiber.Map{
		"Title": title, "Action": action, "Form": f, "Categories": cats, "ID": id, "Err": errMsg,
	}
	if id > 0 && f.CategoryID > 0 {
		filters, err := h.Filters.ForCategory(f.CategoryID)
		if err != nil {
			return pageError(c, "admin.product.form.fail", err)
		}
		vals, err := h.Filters.ProductValues(id)
		if err != nil {
			return pageError(c, "admin.product.form.fail", err)
		}
		current := make(map[int64]string, len(vals))
		for _, v := range vals {
			current[v.FilterDefinitionID] = v.Value
		}
		data["Filters"] = filters
		data["Values"] = current
	}
	return renderStatus(c, status, "admin_product_form", data)
}

// GET /admin/products/new
func (h *AdminHandler) ProductNew(c *fiber.Ctx) error {
	catID, _ := validate.ID(c.Query("category_id"))
	return h.productFormPage(c, fiber.StatusOK, "Новый товар", "/admin/products/new", 0,
		productForm{CategoryID: catID, Availability: true}, "")
}

// POST /admin/products/new
func (h *AdminHandler) ProductCreate(c *fiber.Ctx) error {
	f, photo := h.readProductForm(c)
	var id int64
	err := h.savePhoto(c, &f, photo)
	if err == nil {
		id, err = h.Catalog.CreateProduct(f.input())
	}
	if err != nil {
		if statusFor(err) == fiber.StatusBadRequest {
			return h.productFormPage(c, fiber.StatusBadRequest, "Новый товар", "/admin/products/new", 0, f,
				publicMessage(err, fiber.StatusBadRequest))
		}
		return pageError(c, "admin.product.create.fail", err)
	}
	applog.Audit(c, "admin.product.create", map[string]any{"product_id": id, "name": f.Name})
	// straight to the edit page so filter values can be assigned
	return c.Redirect(fmt.Sprintf("/admin/products/%d/edit", id))
}

// GET /admin/products/:id/edit
func (h *AdminHandler) ProductEdit(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFoundPage(c, "Product not found")
	}
	p, err := h.Catalog.GetProduct(id)
	if err != nil {
		return pageError(c, "admin.product.edit.fail", err)
	}
	return h.productFormPage(c, fiber.StatusOK, "Редактировать товар",
		fmt.Sprintf("/admin/products/%d/edit", id), id, formFromProduct(p), "")
}

// POST /admin/products/:id/edit
func (h *AdminHandler) ProductUpdate(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFoundPage(c, "Product not found")
	}
	action := fmt.Sprintf("/admin/products/%d/edit", id)
	before, err := h.Catalog.GetProduct(id)
	if err != nil {
		return pageError(c, "admin.product.update.fail", err)
	}
	f, photo := h.readProductForm(c)
	err = h.savePhoto(c, &f, photo)
	if err == nil {
		err = h.Catalog.UpdateProduct(id, f.input())
	}
	// filter values belong to the old category; only save them when it is unchanged
	if err == nil && before.CategoryID == f.CategoryID {
		err = h.assignFilterValues(c, id, f.CategoryID)
	}
	if err != nil {
		if statusFor(err) == fiber.StatusBadRequest {
			return h.productFormPage(c, fiber.StatusBadRequest, "Редактировать товар", action, id, f,
				publicMessage(err, fiber.StatusBadRequest))
		}
		return pageError(c, "admin.product.update.fail", err)
	}
	applog.Audit(c, "admin.product.update", map[string]any{"product_id": id})
	return c.Redirect(action)
}

func (h *AdminHandler) assignFilterValues(c *fiber.Ctx, productID, categoryID int64) error {
	filters, err := h.Filters.ForCategory(categoryID)
	if err != nil {
		return err
	}
	values := make(map[int64]string, len(filters))
	for _, f := range filters {
		key := fmt.Sprintf("filter_%d", f.ID)
		// absent fields leave the stored value alone
		if c.Request().PostArgs().Has(key) || hasMultipartValue(c, key) {
			values[f.ID] = c.FormValue(key)
		}
	}
	if len(values) == 0 {
		return nil
	}
	return h.Filters.AssignProductValues(productID, values)
}

func hasMultipartValue(c *fiber.Ctx, key string) bool {
	form, err := c.MultipartForm()
	if err != nil {
		return false
	}
	_, ok := form.Value[key]
	return ok
}

// GET /admin/products/:id/delete
func (h *AdminHandler) ProductDeleteConfirm(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFoundPage(c, "Product not found")
	}
	p, err := h.Catalog.GetProduct(id)
	if err != nil {
		return pageError(c, "admin.product.delete.fail", err)
	}
	return render(c, "admin_confirm_delete", fiber.Map{
		"Kind":   "товар",
		"Name":   p.Name,
		"Action": fmt.Sprintf("/admin/products/%d/delete", id),
	})
}

// POST /admin/products/:id/delete
func (h *AdminHandler) ProductDelete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFoundPage(c, "Product not found")
	}
	if err := h.Catalog.DeleteProduct(id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Redirect("/admin")
		}
		return pageError(c, "admin.product.delete.fail", err)
	}
	applog.Audit(c, "admin.product.delete", map[string]any{"product_id": id})
	return c.Redirect("/admin")
}
