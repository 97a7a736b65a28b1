package repository

import (
	"gorm.io/gorm"

	"github.com/ManuelReschke/NewsFox/app/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	EmailExists(email string) (bool, error)
	Update(user *models.User) error
	Count() (int64, error)
}

// CategoryRepository defines the interface for category-related operations.
// Categories are reference data: read paths only.
type CategoryRepository interface {
	GetAll() ([]models.Category, error)
	GetByID(id uint) (*models.Category, error)
	GetBySlug(slug string) (*models.Category, error)
	Count() (int64, error)
}

// ArticleFilter narrows an article listing. Nil pointer fields are ignored.
type ArticleFilter struct {
	CategoryID *uint
	Featured   *bool
	Limit      int
	Offset     int
}

// ArticleRepository defines the interface for article-related database operations
type ArticleRepository interface {
	Create(article *models.Article) error
	GetByID(id uint) (*models.Article, error)
	GetBySlug(slug string) (*models.Article, error)
	List(filter ArticleFilter) ([]models.Article, error)
	GetPopular(limit int) ([]models.Article, error)
	Update(article *models.Article) error
	Delete(id uint) error
	IncrementViewCount(id uint) error
	SlugExists(slug string) (bool, error)
	Count() (int64, error)
	SumViews() (int64, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	User     UserRepository
	Category CategoryRepository
	Article  ArticleRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:     NewUserRepository(db),
		Category: NewCategoryRepository(db),
		Article:  NewArticleRepository(db),
	}
}
