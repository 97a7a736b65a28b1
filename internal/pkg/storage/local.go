package storage

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/ManuelReschke/NewsFox/internal/pkg/constants"
	"github.com/ManuelReschke/NewsFox/internal/pkg/env"
)

// thumbMaxDimension is the longest side of the generated thumbnail variant.
const thumbMaxDimension = 480

// LocalStore writes uploads beneath a base directory and serves them via the
// static /uploads route. Files are stored as-is; a thumbnail variant is added
// for formats the imaging library can re-encode.
type LocalStore struct {
	BaseDir string
	BaseURL string
}

// NewLocalStore builds a store rooted at UPLOAD_DIR (default "uploads").
func NewLocalStore() *LocalStore {
	return &LocalStore{
		BaseDir: env.GetEnv("UPLOAD_DIR", constants.UploadsPath),
		BaseURL: env.GetEnv("PUBLIC_BASE_URL", ""),
	}
}

// Save persists the original bytes to <base>/YYYY/MM/<uuid>.<ext> and returns
// the public URLs. The original is never transformed.
func (s *LocalStore) Save(data []byte, originalName string) (*StoredImage, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	now := time.Now()
	name := uuid.New().String()

	// Object key format matches the S3 mirror: YYYY/MM/UUID.ext
	relDir := fmt.Sprintf("%04d/%02d", now.Year(), int(now.Month()))
	dir := filepath.Join(s.BaseDir, relDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	fileName := name + ext
	fullPath := filepath.Join(dir, fileName)
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write upload: %w", err)
	}

	stored := &StoredImage{
		URL:       s.publicURL(relDir, fileName),
		ObjectKey: relDir + "/" + fileName,
		Path:      fullPath,
	}

	if thumbName, err := s.writeThumbnail(data, dir, name, ext); err != nil {
		// Thumbnail failures never fail the upload
		log.Warnf("[Storage] thumbnail generation failed for %s: %v", fileName, err)
	} else if thumbName != "" {
		stored.ThumbnailURL = s.publicURL(relDir, thumbName)
	}

	return stored, nil
}

// writeThumbnail renders a downscaled variant next to the original. Formats
// the imaging library cannot decode (webp, avif) are skipped silently.
func (s *LocalStore) writeThumbnail(data []byte, dir, name, ext string) (string, error) {
	var format imaging.Format
	switch ext {
	case ".jpg", ".jpeg":
		format = imaging.JPEG
	case ".png":
		format = imaging.PNG
	case ".gif":
		format = imaging.GIF
	case ".bmp":
		format = imaging.BMP
	default:
		return "", nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", err
	}

	bounds := img.Bounds()
	if bounds.Dx() > thumbMaxDimension || bounds.Dy() > thumbMaxDimension {
		img = imaging.Fit(img, thumbMaxDimension, thumbMaxDimension, imaging.Lanczos)
	}

	thumbName := name + "_thumb" + ext
	if err := saveImage(img, filepath.Join(dir, thumbName), format); err != nil {
		return "", err
	}
	return thumbName, nil
}

func saveImage(img image.Image, path string, format imaging.Format) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return imaging.Encode(f, img, format)
}

func (s *LocalStore) publicURL(relDir, fileName string) string {
	path := constants.UploadsRoute + "/" + relDir + "/" + fileName
	if s.BaseURL == "" {
		return path
	}
	return strings.TrimRight(s.BaseURL, "/") + path
}
