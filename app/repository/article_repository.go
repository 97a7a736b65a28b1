package repository

import (
	"gorm.io/gorm"

	"github.com/ManuelReschke/NewsFox/app/models"
)

// articleRepository implements the ArticleRepository interface
type articleRepository struct {
	db *gorm.DB
}

// NewArticleRepository creates a new article repository instance
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

// Create creates a new article in the database
func (r *articleRepository) Create(article *models.Article) error {
	return r.db.Create(article).Error
}

// GetByID retrieves an article by its ID
func (r *articleRepository) GetByID(id uint) (*models.Article, error) {
	var article models.Article
	err := r.db.Preload("Category").Preload("User").First(&article, id).Error
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// GetBySlug retrieves an article by its slug
func (r *articleRepository) GetBySlug(slug string) (*models.Article, error) {
	var article models.Article
	err := r.db.Preload("Category").Preload("User").Where("slug = ?", slug).First(&article).Error
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// List retrieves articles most recent first, applying the optional filters
func (r *articleRepository) List(filter ArticleFilter) ([]models.Article, error) {
	var articles []models.Article
	query := r.db.Preload("Category").Preload("User").Order("published_at DESC")
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Featured != nil {
		query = query.Where("featured = ?", *filter.Featured)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	err := query.Find(&articles).Error
	return articles, err
}

// GetPopular retrieves the most viewed articles, ties broken by recency
func (r *articleRepository) GetPopular(limit int) ([]models.Article, error) {
	var articles []models.Article
	err := r.db.Preload("Category").Preload("User").
		Order("view_count DESC, published_at DESC").Limit(limit).Find(&articles).Error
	return articles, err
}

// Update persists the mutable columns of an existing article. The view
// counter is excluded: it only moves through IncrementViewCount, so a
// concurrent read landing between load and save is never overwritten with a
// stale value.
func (r *articleRepository) Update(article *models.Article) error {
	return r.db.Model(article).Select("*").Omit("view_count").Updates(article).Error
}

// Delete hard-removes an article by its ID. Returns gorm.ErrRecordNotFound
// when no row was deleted, so a repeated delete of the same id fails the
// same way as deleting an unknown id.
func (r *articleRepository) Delete(id uint) error {
	result := r.db.Delete(&models.Article{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IncrementViewCount bumps the view counter by one as a single atomic SQL
// add. Concurrent readers must never lose increments, so this is not a
// read-modify-write on the struct.
func (r *articleRepository) IncrementViewCount(id uint) error {
	return r.db.Model(&models.Article{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error
}

// SlugExists checks if a slug already exists
func (r *articleRepository) SlugExists(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Article{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

// Count returns the total number of articles
func (r *articleRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Article{}).Count(&count).Error
	return count, err
}

// SumViews returns the sum of all article view counters
func (r *articleRepository) SumViews() (int64, error) {
	var total int64
	err := r.db.Model(&models.Article{}).
		Select("COALESCE(SUM(view_count), 0)").Scan(&total).Error
	return total, err
}
