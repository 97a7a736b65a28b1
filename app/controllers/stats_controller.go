package controllers

import (
	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/NewsFox/app/repository"
	"github.com/ManuelReschke/NewsFox/internal/pkg/statistics"
	"github.com/ManuelReschke/NewsFox/internal/pkg/usercontext"
)

// StatsController serves the admin dashboard aggregates. The numbers are not
// sensitive, but the whole dashboard sits behind the auth guard by policy.
type StatsController struct {
	articles repository.ArticleRepository
}

// NewStatsController creates a stats controller backed by the article repository
func NewStatsController(articles repository.ArticleRepository) *StatsController {
	return &StatsController{articles: articles}
}

// HandleStats returns total article and view counts.
func (sc *StatsController) HandleStats(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return jsonError(c, fiber.StatusUnauthorized, ErrCodeUnauthorized, "Login required")
	}

	stats, err := statistics.GetDashboardStats(sc.articles)
	if err != nil {
		fiberlog.Errorf("stats: aggregation failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, ErrCodeInternal, "Failed to compute stats")
	}

	return c.JSON(stats)
}
