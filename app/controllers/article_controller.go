package controllers

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/ManuelReschke/NewsFox/app/models"
	"github.com/ManuelReschke/NewsFox/app/repository"
	"github.com/ManuelReschke/NewsFox/internal/pkg/slug"
	"github.com/ManuelReschke/NewsFox/internal/pkg/statistics"
	"github.com/ManuelReschke/NewsFox/internal/pkg/usercontext"
)

const (
	defaultListLimit    = 20
	defaultPopularLimit = 5
	maxListLimit        = 100
)

// ArticleController handles the article store: public reads and
// authenticated mutations.
type ArticleController struct {
	articles   repository.ArticleRepository
	categories repository.CategoryRepository
	validate   *validator.Validate
}

// NewArticleController creates an article controller backed by the repositories
func NewArticleController(articles repository.ArticleRepository, categories repository.CategoryRepository) *ArticleController {
	return &ArticleController{
		articles:   articles,
		categories: categories,
		validate:   validator.New(),
	}
}

type articleCreateRequest struct {
	Title      string `json:"title" validate:"required,min=3,max=255"`
	Summary    string `json:"summary" validate:"required"`
	Content    string `json:"content" validate:"required"`
	ImageURL   string `json:"image_url" validate:"required,max=500"`
	CategoryID uint   `json:"category_id" validate:"required"`
	Featured   bool   `json:"featured"`
}

// articleUpdateRequest merges only the fields the caller sent; absent fields
// stay nil and leave the article untouched.
type articleUpdateRequest struct {
	Title      *string `json:"title"`
	Summary    *string `json:"summary"`
	Content    *string `json:"content"`
	ImageURL   *string `json:"image_url"`
	CategoryID *uint   `json:"category_id"`
	Featured   *bool   `json:"featured"`
}

// HandleList returns articles most recent first. The query parameters keep
// the wire names the frontend already uses: categoria_id and destaque.
func (ac *ArticleController) HandleList(c *fiber.Ctx) error {
	filter := repository.ArticleFilter{
		Limit:  clampLimit(c.Query("limit"), defaultListLimit),
		Offset: parseOffset(c.Query("offset")),
	}

	if raw := c.Query("categoria_id", c.Query("category_id")); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return jsonValidationError(c, map[string]string{"categoria_id": "must be a numeric id"})
		}
		categoryID := uint(id)
		filter.CategoryID = &categoryID
	}

	if raw := c.Query("destaque", c.Query("featured")); raw != "" {
		featured := raw == "true" || raw == "1"
		filter.Featured = &featured
	}

	articles, err := ac.articles.List(filter)
	if err != nil {
		fiberlog.Errorf("articles: list failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, ErrCodeInternal, "Failed to load articles")
	}

	return c.JSON(articles)
}

// HandleGetBySlug returns one article and counts the read. The increment is
// a single atomic add at the storage layer; the response reflects the count
// including this view.
func (ac *ArticleController) HandleGetBySlug(c *fiber.Ctx) error {
	articleSlug := c.Params("slug")

	article, err := ac.articles.GetBySlug(articleSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, ErrCodeNotFound, "Article not found")
		}
		fiberlog.Errorf("articles: slug lookup failed for %q: %v", articleSlug, err)
		return jsonError(c, fiber.StatusInternalServerError, ErrCodeInternal, "Failed to load article")
	}

	if err := ac.articles.IncrementViewCount(article.ID); err != nil {
		fiberlog.Errorf("articles: view increment failed for %d: %v", article.ID, err)
		return jsonError(c, fiber.StatusInternalServerError, ErrCodeInternal, "Failed to load article")
	}
	article.ViewCount++

	return c.JSON(article)
}

// HandlePopular returns the most viewed articles.
func (ac *ArticleController) HandlePopular(c *fiber.Ctx) error {
	limit := clampLimit(c.Query("limit"), defaultPopularLimit)

	articles, err := ac.articles.GetPopular(limit)
	if err != nil {
		fiberlog.Errorf("articles: popular list failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, ErrCodeInternal, "Failed to load articles")
	}

	return c.JSON(articles)
}

// HandleCreate publishes a new article for the authenticated author. The
// category must resolve before anything is persisted.
func (ac *ArticleController) HandleCreate(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return jsonError(c, fiber.StatusUnauthorized, ErrCodeUnauthorized, "Login required")
	}

	var req articleCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, ErrCodeValidation, "Invalid request body")
	}

	if err := ac.validate.Struct(&req); err != nil {
		return jsonValidationError(c, validationFields(err))
	}

	if _, err := ac.categories.GetByID(req.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, ErrCodeCategoryNotFound, "Category not found")
		}
		fiberlog.Errorf("articles: category lookup failed for %d: %v", req.CategoryID, err)
		return jsonError(c, fiber.StatusInternalServerError, ErrCodeInternal, "Failed to create article")
	}

	articleSlug, err := slug.MakeUnique(req.Title, ac.articles.SlugExists)
	if err != nil {
		fiberlog.Errorf("articles: slug generation failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, ErrCodeInternal, "Failed to create article")
	}

	now := time.Now()
	article := &models.Article{
		Title:       req.Title,
		Summary:     req.Summary,
		Content:     req.Content,
		Slug:        articleSlug,
		ImageURL:    req.ImageURL,
		Featured:    req.Featured,
		CategoryID:  req.CategoryID,
		UserID:      userCtx.UserID,
		PublishedAt: now,
		UpdatedAt:   now,
	}

	if err := ac.articles.Create(article); err != nil {
		fiberlog.Errorf("articles: create failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, ErrCodeInternal, "Failed to create article")
	}

	statistics.InvalidateDashboardStats()

	created, err := ac.articles.GetByID(article.ID)
	if err != nil {
		// The row exists; fall back to the in-memory copy without preloads
		fiberlog.Warnf("articles: reload after create failed for %d: %v", article.ID, err)
		return c.Status(fiber.StatusCreated).JSON(article)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// HandleUpdate merges the provided fields into an existing article. The slug
// stays fixed even when the title changes, so published links keep working.
func (ac *ArticleController) HandleUpdate(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return jsonValidationError(c, map[string]string{"id": "must be a numeric id"})
	}

	var req articleUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, ErrCodeValidation, "Invalid request body")
	}

	article, err := ac.articles.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, ErrCodeNotFound, "Article not found")
		}
		fiberlog.Errorf("articles: lookup failed for %d: %v", id, err)
		return jsonError(c, fiber.StatusInternalServerError, ErrCodeInternal, "Failed to update article")
	}

	if req.CategoryID != nil && *req.CategoryID != article.CategoryID {
		if _, err := ac.categories.GetByID(*req.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return jsonError(c, fiber.StatusNotFound, ErrCodeCategoryNotFound, "Category not found")
			}
			fiberlog.Errorf("articles: category lookup failed for %d: %v", *req.CategoryID, err)
			return jsonError(c, fiber.StatusInternalServerError, ErrCodeInternal, "Failed to update article")
		}
		article.CategoryID = *req.CategoryID
	}

	if req.Title != nil {
		article.Title = *req.Title
	}
	if req.Summary != nil {
		article.Summary = *req.Summary
	}
	if req.Content != nil {
		article.Content = *req.Content
	}
	if req.ImageURL != nil {
		article.ImageURL = *req.ImageURL
	}
	if req.Featured != nil {
		article.Featured = *req.Featured
	}
	article.UpdatedAt = time.Now()

	if err := ac.articles.Update(article); err != nil {
		fiberlog.Errorf("articles: update failed for %d: %v", id, err)
		return jsonError(c, fiber.StatusInternalServerError, ErrCodeInternal, "Failed to update article")
	}

	updated, err := ac.articles.GetByID(id)
	if err != nil {
		fiberlog.Warnf("articles: reload after update failed for %d: %v", id, err)
		return c.JSON(article)
	}

	return c.JSON(updated)
}

// HandleDelete hard-removes an article. Deleting the same id twice fails with
// not_found on the second call.
func (ac *ArticleController) HandleDelete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return jsonValidationError(c, map[string]string{"id": "must be a numeric id"})
	}

	if err := ac.articles.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, ErrCodeNotFound, "Article not found")
		}
		fiberlog.Errorf("articles: delete failed for %d: %v", id, err)
		return jsonError(c, fiber.StatusInternalServerError, ErrCodeInternal, "Failed to delete article")
	}

	statistics.InvalidateDashboardStats()

	return c.JSON(fiber.Map{"message": "Article deleted successfully"})
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func clampLimit(raw string, def int) int {
	if raw == "" {
		return def
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return def
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

func parseOffset(raw string) int {
	if raw == "" {
		return 0
	}
	offset, err := strconv.Atoi(raw)
	if err != nil || offset < 0 {
		return 0
	}
	return offset
}
