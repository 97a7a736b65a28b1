package controllers

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/NewsFox/app/models"
)

func TestCategoryList(t *testing.T) {
	env := newTestEnv()

	resp, err := env.app.Test(jsonRequest(t, http.MethodGet, "/api/categories", nil, ""), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var categories []models.Category
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &categories))
	require.Len(t, categories, 2)
	assert.Equal(t, "politica", categories[0].Slug, "sorted by display order")
	assert.Equal(t, "tecnologia", categories[1].Slug)
}

func TestCategoryGetBySlug(t *testing.T) {
	env := newTestEnv()

	resp, err := env.app.Test(jsonRequest(t, http.MethodGet, "/api/categories/politica", nil, ""), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Política", body["name"])

	resp, err = env.app.Test(jsonRequest(t, http.MethodGet, "/api/categories/nao-existe", nil, ""), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
