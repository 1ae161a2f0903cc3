package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"appliancestore/internal/log"
	"appliancestore/internal/services"
)

// MaxUploadBytes caps a single image upload.
const MaxUploadBytes = 5 << 20

var imageExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Uploader stores images under Dir and serves them from /media.
type Uploader struct {
	Dir string
}

// Save checks size and sniffed content type, then writes the file as
// <slug>-<8 hex>.<ext>. It returns the public URL.
func (u *Uploader) Save(c *fiber.Ctx, fh *multipart.FileHeader) (string, error) {
	if fh.Size > MaxUploadBytes {
		return "", fmt.Errorf("%w: file is larger than 5 MB", services.ErrInvalid)
	}
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	_ = f.Close()
	if err != nil && err != io.ErrUnexpectedEOF {
		return "", fmt.Errorf("%w: unreadable file", services.ErrInvalid)
	}
	ext, ok := imageExt[http.DetectContentType(head[:n])]
	if !ok {
		return "", fmt.Errorf("%w: only JPEG, PNG, GIF or WebP images are allowed", services.ErrInvalid)
	}

	base := slug.Make(strings.TrimSuffix(filepath.Base(fh.Filename), filepath.Ext(fh.Filename)))
	if base == "" {
		base = "image"
	}
	if len(base) > 40 {
		base = strings.Trim(base[:40], "-")
	}
	name := base + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8] + ext

	if err := os.MkdirAll(u.Dir, 0o755); err != nil {
		return "", err
	}
	if err := c.SaveFile(fh, filepath.Join(u.Dir, name)); err != nil {
		return "", err
	}
	return "/media/" + name, nil
}

type UploadHandler struct {
	Uploader *Uploader
}

// API: POST /api/upload (multipart "file") -> {success, url}
func (h *UploadHandler) API(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No file provided"})
	}
	url, err := h.Uploader.Save(c, fh)
	if err != nil {
		return jsonError(c, "upload.fail", err)
	}
	log.Audit(c, "upload.saved", map[string]any{"url": url, "size": fh.Size})
	return c.JSON(fiber.Map{"success": true, "url": url})
}
