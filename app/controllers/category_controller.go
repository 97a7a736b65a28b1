package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/ManuelReschke/NewsFox/app/repository"
)

// CategoryController serves the read-only category registry.
type CategoryController struct {
	categories repository.CategoryRepository
}

// NewCategoryController creates a category controller backed by the repository
func NewCategoryController(categories repository.CategoryRepository) *CategoryController {
	return &CategoryController{categories: categories}
}

// HandleList returns all categories in display order.
func (cc *CategoryController) HandleList(c *fiber.Ctx) error {
	categories, err := cc.categories.GetAll()
	if err != nil {
		fiberlog.Errorf("categories: list failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, ErrCodeInternal, "Failed to load categories")
	}
	return c.JSON(categories)
}

// HandleGetBySlug returns a single category.
func (cc *CategoryController) HandleGetBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")

	category, err := cc.categories.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, ErrCodeNotFound, "Category not found")
		}
		fiberlog.Errorf("categories: lookup failed for %q: %v", slug, err)
		return jsonError(c, fiber.StatusInternalServerError, ErrCodeInternal, "Failed to load category")
	}

	return c.JSON(category)
}
