package controller

import (
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"mannadome_backend/pkg/storage"
	"mannadome_backend/pkg/utils/image"
	"mannadome_backend/pkg/utils/validation"

	"github.com/gofiber/fiber/v2"
)

type UploadController struct {
	store storage.BlobStore
	log   *slog.Logger
	now   func() time.Time
}

func NewUploadController(store storage.BlobStore, log *slog.Logger) *UploadController {
	return &UploadController{store: store, log: log, now: time.Now}
}

// UploadImage takes the raw image as the request body and the original
// name in ?filename=. The image is shrunk and re-encoded before storage.
func (uc *UploadController) UploadImage(c *fiber.Ctx) error {
	filename := strings.TrimSpace(c.Query("filename"))
	body := c.Body()

	if err := validation.ValidateImage(filename, len(body)); err != nil {
		msg := err.Error()
		switch {
		case errors.Is(err, validation.ErrFilename):
			msg = "Filename is required"
		case errors.Is(err, validation.ErrFileRequired):
			msg = "No file provided"
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": msg,
		})
	}

	compressed, contentType, err := image.Compress(body)
	if err != nil {
		uc.log.Warn("compress upload", "filename", filename, "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid image",
		})
	}

	name := strings.TrimSuffix(filename, filepath.Ext(filename)) + ".webp"
	key := storage.ObjectKey(name, uc.now())

	url, err := uc.store.Put(c.UserContext(), key, compressed, contentType)
	if err != nil {
		uc.log.Error("store upload", "key", key, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Upload failed",
		})
	}

	uc.log.Info("image uploaded", "key", key, "bytes_in", len(body), "bytes_out", compressed.Len(), "by", actor(c))
	return c.JSON(fiber.Map{
		"url":         url,
		"pathname":    key,
		"contentType": contentType,
	})
}

// DeleteImage removes a previously uploaded image by its public URL.
func (uc *UploadController) DeleteImage(c *fiber.Ctx) error {
	url := strings.TrimSpace(c.Query("url"))
	if url == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "url is required",
		})
	}

	if err := uc.store.Delete(c.UserContext(), url); err != nil {
		uc.log.Error("delete upload", "url", url, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Delete failed",
		})
	}
	return c.JSON(fiber.Map{
		"message": "Image deleted successfully",
	})
}
