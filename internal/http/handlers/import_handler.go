package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "appliancestore/internal/log"
	"appliancestore/internal/services"
)

type ImportHandler struct {
	Import *services.ImportService
}

func logImport(c *fiber.Ctx, res services.ImportResult, via string) {
	applog.Audit(c, "import.done", map[string]any{
		"via":     via,
		"total":   res.Stats.Total,
		"created": res.Stats.Created,
		"updated": res.Stats.Updated,
		"skipped": res.Stats.Skipped,
	})
}

// API: POST /api/admin/import-products {csvData: "<JSON rows>"}
func (h *ImportHandler) API(c *fiber.Ctx) error {
	rows, err := services.DecodePayload(c.Body())
	if err != nil {
		applog.Security(c, "import.payload.invalid", nil)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": publicMessage(err, fiber.StatusBadRequest)})
	}
	res, err := h.Import.Run(rows)
	if err != nil {
		applog.Error(c, "import.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Import failed"})
	}
	logImport(c, res, "api")
	return c.JSON(res)
}

// GET /admin/import
func (h *ImportHandler) Page(c *fiber.Ctx) error {
	return render(c, "admin_import", fiber.Map{})
}

// Upload: POST /admin/import with a multipart "file" parsed server-side.
func (h *ImportHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return renderStatus(c, fiber.StatusBadRequest, "admin_import", fiber.Map{"Err": "Choose a CSV file to import"})
	}
	f, err := fh.Open()
	if err != nil {
		return pageError(c, "import.fail", err)
	}
	defer f.Close()

	rows, err := services.ParseCSV(f)
	if err != nil {
		return renderStatus(c, fiber.StatusBadRequest, "admin_import", fiber.Map{"Err": publicMessage(err, fiber.StatusBadRequest)})
	}
	if len(rows) == 0 {
		return renderStatus(c, fiber.StatusBadRequest, "admin_import", fiber.Map{"Err": "The file has no rows"})
	}
	res, err := h.Import.Run(rows)
	if err != nil {
		if errors.Is(err, services.ErrInvalid) {
			return renderStatus(c, fiber.StatusBadRequest, "admin_import", fiber.Map{"Err": publicMessage(err, fiber.StatusBadRequest)})
		}
		return pageError(c, "import.fail", err)
	}
	logImport(c, res, "upload")
	return render(c, "admin_import", fiber.Map{"Result": res, "File": fh.Filename})
}
