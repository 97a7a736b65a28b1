package controllers

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/NewsFox/internal/pkg/env"
	"github.com/ManuelReschke/NewsFox/internal/pkg/storage"
	"github.com/ManuelReschke/NewsFox/internal/pkg/upload"
	"github.com/ManuelReschke/NewsFox/internal/pkg/usercontext"
)

const mirrorTimeout = 10 * time.Second

// UploadController accepts image uploads for articles and returns stable
// public URLs. Files are stored as-is; no lifecycle management exists.
type UploadController struct {
	store  storage.MediaStore
	mirror *storage.Mirror
}

// NewUploadController creates an upload controller. mirror may be nil when
// S3 mirroring is disabled.
func NewUploadController(store storage.MediaStore, mirror *storage.Mirror) *UploadController {
	return &UploadController{store: store, mirror: mirror}
}

// MaxUploadBytes returns the configured upload ceiling (MAX_UPLOAD_MB,
// default 10 MiB).
func MaxUploadBytes() int64 {
	return int64(env.GetEnvInt("MAX_UPLOAD_MB", 10)) * 1024 * 1024
}

// HandleUploadImage stores a multipart image upload (field "file").
func (uc *UploadController) HandleUploadImage(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return jsonError(c, fiber.StatusUnauthorized, ErrCodeUnauthorized, "Login required")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return jsonValidationError(c, map[string]string{"file": "required"})
	}

	if err := upload.ValidateSize(fileHeader.Size, MaxUploadBytes()); err != nil {
		return jsonError(c, fiber.StatusRequestEntityTooLarge, ErrCodeTooLarge, "File exceeds the maximum allowed size")
	}

	file, err := fileHeader.Open()
	if err != nil {
		fiberlog.Errorf("upload: failed to open multipart file: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, ErrCodeInternal, "Upload failed")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		fiberlog.Errorf("upload: failed to read multipart file: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, ErrCodeInternal, "Upload failed")
	}

	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	contentType, err := upload.ValidateImageBySniff(fileHeader.Filename, head)
	if err != nil {
		if errors.Is(err, upload.ErrUnsupportedType) {
			return jsonError(c, fiber.StatusUnsupportedMediaType, ErrCodeUnsupportedType, "Only JPG, PNG, GIF, WEBP, AVIF and BMP images are supported")
		}
		fiberlog.Errorf("upload: validation failed for %s: %v", fileHeader.Filename, err)
		return jsonError(c, fiber.StatusInternalServerError, ErrCodeInternal, "Upload failed")
	}

	stored, err := uc.store.Save(data, fileHeader.Filename)
	if err != nil {
		fiberlog.Errorf("upload: store failed for %s: %v", fileHeader.Filename, err)
		return jsonError(c, fiber.StatusInternalServerError, ErrCodeInternal, "Upload failed")
	}

	// Best-effort off-site copy; the upload already succeeded
	if uc.mirror != nil {
		ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
		defer cancel()
		if err := uc.mirror.Upload(ctx, stored.ObjectKey, contentType, data); err != nil {
			fiberlog.Warnf("upload: S3 mirror failed for %s: %v", stored.ObjectKey, err)
		}
	}

	return c.JSON(stored)
}
