package handlers

import (
	"fmt"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"appliancestore/internal/domain"
	applog "appliancestore/internal/log"
	"appliancestore/internal/services"
	"appliancestore/internal/validate"
)

type SliderHandler struct {
	Sliders  *services.SliderService
	Uploader *Uploader
}

// APIList: GET /api/sliders (?active=1 for the carousel only)
func (h *SliderHandler) APIList(c *fiber.Ctx) error {
	list := h.Sliders.List
	if validate.Checkbox(c.Query("active")) {
		list = h.Sliders.Active
	}
	sliders, err := list()
	if err != nil {
		return jsonError(c, "slider.list.fail", err)
	}
	return c.JSON(sliders)
}

// APIGet: GET /api/sliders/:id
func (h *SliderHandler) APIGet(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid slider ID"})
	}
	s, err := h.Sliders.Get(id)
	if err != nil {
		return jsonError(c, "slider.get.fail", err)
	}
	return c.JSON(s)
}

// APICreate: POST /api/sliders
func (h *SliderHandler) APICreate(c *fiber.Ctx) error {
	var in services.SliderInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	s, err := h.Sliders.Create(in)
	if err != nil {
		return jsonError(c, "slider.create.fail", err)
	}
	applog.Audit(c, "slider.create", map[string]any{"slider_id": s.ID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "id": s.ID, "slider": s})
}

// APIUpdate: PUT /api/sliders/:id
func (h *SliderHandler) APIUpdate(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid slider ID"})
	}
	var in services.SliderInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	s, err := h.Sliders.Update(id, in)
	if err != nil {
		return jsonError(c, "slider.update.fail", err)
	}
	applog.Audit(c, "slider.update", map[string]any{"slider_id": id})
	return c.JSON(fiber.Map{"success": true, "slider": s})
}

// APIDelete: DELETE /api/sliders/:id
func (h *SliderHandler) APIDelete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid slider ID"})
	}
	if err := h.Sliders.Delete(id); err != nil {
		return jsonError(c, "slider.delete.fail", err)
	}
	applog.Audit(c, "slider.delete", map[string]any{"slider_id": id})
	return c.JSON(fiber.Map{"success": true})
}

// ---------- admin pages ----------

// GET /admin/sliders
func (h *SliderHandler) Page(c *fiber.Ctx) error {
	sliders, err := h.Sliders.List()
	if err != nil {
		return pageError(c, "admin.sliders.list.fail", err)
	}
	return render(c, "admin_sliders", fiber.Map{"Sliders": sliders})
}

type sliderForm struct {
	ImageURL    string
	Title       string
	Description string
	LinkURL     string
	OrderIndex  int
	IsActive    bool
}

func (f sliderForm) input() services.SliderInput {
	order, active := f.OrderIndex, f.IsActive
	return services.SliderInput{
		ImageURL: f.ImageURL, Title: f.Title, Description: f.Description, LinkURL: f.LinkURL,
		OrderIndex: &order, IsActive: &active,
	}
}

// readForm returns the form and any attached "image" file, which wins over
// image_url once saveImage stores it.
func (h *SliderHandler) readForm(c *fiber.Ctx) (sliderForm, *multipart.FileHeader) {
	f := sliderForm{
		ImageURL:    c.FormValue("image_url"),
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		LinkURL:     c.FormValue("link_url"),
		OrderIndex:  validate.Int(c.FormValue("order_index"), 0),
		IsActive:    validate.Checkbox(c.FormValue("is_active")),
	}
	if fh, err := c.FormFile("image"); err == nil && fh.Size > 0 {
		return f, fh
	}
	return f, nil
}

func (h *SliderHandler) saveImage(c *fiber.Ctx, f *sliderForm, image *multipart.FileHeader) error {
	if image == nil {
		return nil
	}
	if err := h.Sliders.CheckWithUpload(f.input()); err != nil {
		return err
	}
	url, err := h.Uploader.Save(c, image)
	if err != nil {
		return err
	}
	f.ImageURL = url
	return nil
}

func (h *SliderHandler) formPage(c *fiber.Ctx, status int, title, action string, f sliderForm, errMsg string) error {
	return renderStatus(c, status, "admin_slider_form", fiber.Map{
		"Title": title, "Action": action, "Form": f, "Err": errMsg,
	})
}

// GET /admin/sliders/new
func (h *SliderHandler) New(c *fiber.Ctx) error {
	return h.formPage(c, fiber.StatusOK, "Новый слайд", "/admin/sliders/new", sliderForm{IsActive: true}, "")
}

// POST /admin/sliders/new
func (h *SliderHandler) Create(c *fiber.Ctx) error {
	f, image := h.readForm(c)
	var id int64
	err := h.saveImage(c, &f, image)
	if err == nil {
		var s *domain.Slider
		if s, err = h.Sliders.Create(f.input()); err == nil {
			id = s.ID
		}
	}
	if err != nil {
		if statusFor(err) == fiber.StatusBadRequest {
			return h.formPage(c, fiber.StatusBadRequest, "Новый слайд", "/admin/sliders/new", f,
				publicMessage(err, fiber.StatusBadRequest))
		}
		return pageError(c, "slider.create.fail", err)
	}
	applog.Audit(c, "slider.create", map[string]any{"slider_id": id})
	return c.Redirect("/admin/sliders")
}

// GET /admin/sliders/:id/edit
func (h *SliderHandler) Edit(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFoundPage(c, "Slide not found")
	}
	s, err := h.Sliders.Get(id)
	if err != nil {
		return pageError(c, "slider.edit.fail", err)
	}
	f := sliderForm{
		ImageURL: s.ImageURL, Title: s.Title, Description: s.Description, LinkURL: s.LinkURL,
		OrderIndex: s.OrderIndex, IsActive: s.IsActive,
	}
	return h.formPage(c, fiber.StatusOK, "Редактировать слайд", fmt.Sprintf("/admin/sliders/%d/edit", id), f, "")
}

// POST /admin/sliders/:id/edit
func (h *SliderHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFoundPage(c, "Slide not found")
	}
	action := fmt.Sprintf("/admin/sliders/%d/edit", id)
	f, image := h.readForm(c)
	err := h.saveImage(c, &f, image)
	if err == nil {
		_, err = h.Sliders.Update(id, f.input())
	}
	if err != nil {
		if statusFor(err) == fiber.StatusBadRequest {
			return h.formPage(c, fiber.StatusBadRequest, "Редактировать слайд", action, f,
				publicMessage(err, fiber.StatusBadRequest))
		}
		return pageError(c, "slider.update.fail", err)
	}
	applog.Audit(c, "slider.update", map[string]any{"slider_id": id})
	return c.Redirect("/admin/sliders")
}

// POST /admin/sliders/:id/delete
func (h *SliderHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFoundPage(c, "Slide not found")
	}
	if err := h.Sliders.Delete(id); err != nil {
		return pageError(c, "slider.delete.fail", err)
	}
	applog.Audit(c, "slider.delete", map[string]any{"slider_id": id})
	return c.Redirect("/admin/sliders")
}
