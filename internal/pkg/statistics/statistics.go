package statistics

import (
	"log"
	"strconv"
	"time"

	"github.com/ManuelReschke/NewsFox/app/models"
	"github.com/ManuelReschke/NewsFox/app/repository"
	"github.com/ManuelReschke/NewsFox/internal/pkg/cache"
)

const (
	CacheKeyArticlesTotal = "statistics:articles:total"
	CacheKeyViewsTotal    = "statistics:views:total"
	CacheExpiration       = 5 * time.Minute
)

// GetDashboardStats returns the admin dashboard aggregates, served from the
// cache when fresh and recomputed from the database otherwise.
func GetDashboardStats(articles repository.ArticleRepository) (*models.DashboardStats, error) {
	if stats, ok := statsFromCache(); ok {
		return stats, nil
	}

	totalArticles, err := articles.Count()
	if err != nil {
		return nil, err
	}
	totalViews, err := articles.SumViews()
	if err != nil {
		return nil, err
	}

	stats := &models.DashboardStats{
		TotalArticles: totalArticles,
		TotalViews:    totalViews,
	}
	storeStatsInCache(stats)

	return stats, nil
}

// InvalidateDashboardStats drops the cached aggregates. Called after article
// mutations so the dashboard does not serve stale totals for long.
func InvalidateDashboardStats() {
	if err := cache.Delete(CacheKeyArticlesTotal); err != nil {
		log.Printf("Error invalidating cached article total: %v", err)
	}
	if err := cache.Delete(CacheKeyViewsTotal); err != nil {
		log.Printf("Error invalidating cached view total: %v", err)
	}
}

func statsFromCache() (*models.DashboardStats, bool) {
	totalArticles, err := cache.GetInt64(CacheKeyArticlesTotal)
	if err != nil {
		return nil, false
	}
	totalViews, err := cache.GetInt64(CacheKeyViewsTotal)
	if err != nil {
		return nil, false
	}
	return &models.DashboardStats{
		TotalArticles: totalArticles,
		TotalViews:    totalViews,
	}, true
}

func storeStatsInCache(stats *models.DashboardStats) {
	if err := cache.Set(CacheKeyArticlesTotal, strconv.FormatInt(stats.TotalArticles, 10), CacheExpiration); err != nil {
		log.Printf("Error caching article total: %v", err)
	}
	if err := cache.Set(CacheKeyViewsTotal, strconv.FormatInt(stats.TotalViews, 10), CacheExpiration); err != nil {
		log.Printf("Error caching view total: %v", err)
	}
}
