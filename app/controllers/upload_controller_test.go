package controllers

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/NewsFox/app/models"
	"github.com/ManuelReschke/NewsFox/internal/pkg/middleware"
	"github.com/ManuelReschke/NewsFox/internal/pkg/security"
	"github.com/ManuelReschke/NewsFox/internal/pkg/storage"
)

type uploadTestEnv struct {
	app     *fiber.App
	baseDir string
}

func newUploadTestEnv(t *testing.T) (*uploadTestEnv, string) {
	t.Helper()
	t.Setenv("JWT_SECRET", testJWTSecret)

	baseDir := t.TempDir()
	users := newFakeUserRepo()
	store := &storage.LocalStore{BaseDir: baseDir}
	controller := NewUploadController(store, nil)

	app := fiber.New()
	app.Post("/api/upload-image", middleware.RequireAuth(users), controller.HandleUploadImage)

	// the upload-only app has no auth routes, so seed the user by hand
	user, err := models.CreateUser("Redator", "redator@example.com", "segredo123")
	require.NoError(t, err)
	require.NoError(t, users.Create(user))

	token, err := security.IssueToken(user.ID, testJWTSecret, security.DefaultTokenTTL)
	require.NoError(t, err)

	return &uploadTestEnv{app: app, baseDir: baseDir}, token
}

func multipartUpload(t *testing.T, filename string, content []byte, token string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload-image", &body)
	req.Header.Set(fiber.HeaderContentType, writer.FormDataContentType())
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	return req
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := range 8 {
		for y := range 8 {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadImageStoresFileAndThumbnail(t *testing.T) {
	env, token := newUploadTestEnv(t)

	resp, err := env.app.Test(multipartUpload(t, "capa.png", pngBytes(t), token), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	imageURL, _ := body["image_url"].(string)
	thumbURL, _ := body["thumbnail_url"].(string)
	assert.True(t, strings.HasPrefix(imageURL, "/uploads/"), "image_url: %s", imageURL)
	assert.True(t, strings.HasSuffix(imageURL, ".png"))
	assert.Contains(t, thumbURL, "_thumb")

	// the bytes landed on disk under <base>/YYYY/MM/
	rel := strings.TrimPrefix(imageURL, "/uploads/")
	onDisk, err := os.ReadFile(filepath.Join(env.baseDir, filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, pngBytes(t), onDisk, "original is stored unmodified")
}

func TestUploadImageRejectsNonImage(t *testing.T) {
	env, token := newUploadTestEnv(t)

	resp, err := env.app.Test(multipartUpload(t, "payload.jpg", []byte("<html><body>not an image</body></html>"), token), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnsupportedMediaType, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "unsupported_media_type", body["error"])
}

func TestUploadImageRejectsSVG(t *testing.T) {
	env, token := newUploadTestEnv(t)

	svg := []byte(`<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg"/>`)
	resp, err := env.app.Test(multipartUpload(t, "logo.svg", svg, token), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestUploadImageRejectsOversizedFile(t *testing.T) {
	t.Setenv("MAX_UPLOAD_MB", "1")
	env, token := newUploadTestEnv(t)

	huge := bytes.Repeat([]byte{0xAB}, 1024*1024+1)
	resp, err := env.app.Test(multipartUpload(t, "huge.png", huge, token), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusRequestEntityTooLarge, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "too_large", body["error"])
}

func TestUploadImageMissingFile(t *testing.T) {
	env, token := newUploadTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/upload-image", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "validation_error", body["error"])
}

func TestUploadImageRequiresAuth(t *testing.T) {
	env, _ := newUploadTestEnv(t)

	resp, err := env.app.Test(multipartUpload(t, "capa.png", pngBytes(t), ""), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
