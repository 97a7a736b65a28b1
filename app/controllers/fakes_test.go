package controllers

import (
	"sort"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ManuelReschke/NewsFox/app/models"
	"github.com/ManuelReschke/NewsFox/app/repository"
	"github.com/ManuelReschke/NewsFox/internal/pkg/middleware"
)

// In-memory repository fakes so handler tests run without a database. They
// mimic the repository contract including gorm.ErrRecordNotFound and
// returning copies rather than shared pointers.

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[uint]models.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]models.User{}, nextID: 1}
}

func (r *fakeUserRepo) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &user, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) EmailExists(email string) (bool, error) {
	_, err := r.GetByEmail(email)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (r *fakeUserRepo) Update(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) Count() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

type fakeCategoryRepo struct {
	categories []models.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: []models.Category{
		{ID: 1, Name: "Política", Slug: "politica", SortOrder: 1},
		{ID: 2, Name: "Tecnologia", Slug: "tecnologia", SortOrder: 2},
	}}
}

func (r *fakeCategoryRepo) GetAll() ([]models.Category, error) {
	out := make([]models.Category, len(r.categories))
	copy(out, r.categories)
	return out, nil
}

func (r *fakeCategoryRepo) GetByID(id uint) (*models.Category, error) {
	for _, category := range r.categories {
		if category.ID == id {
			c := category
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCategoryRepo) GetBySlug(slug string) (*models.Category, error) {
	for _, category := range r.categories {
		if category.Slug == slug {
			c := category
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCategoryRepo) Count() (int64, error) {
	return int64(len(r.categories)), nil
}

type fakeArticleRepo struct {
	mu       sync.Mutex
	articles map[uint]models.Article
	nextID   uint
}

func newFakeArticleRepo() *fakeArticleRepo {
	return &fakeArticleRepo{articles: map[uint]models.Article{}, nextID: 1}
}

func (r *fakeArticleRepo) Create(article *models.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	article.ID = r.nextID
	r.nextID++
	r.articles[article.ID] = *article
	return nil
}

func (r *fakeArticleRepo) GetByID(id uint) (*models.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	article, ok := r.articles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &article, nil
}

func (r *fakeArticleRepo) GetBySlug(slug string) (*models.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, article := range r.articles {
		if article.Slug == slug {
			a := article
			return &a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeArticleRepo) List(filter repository.ArticleFilter) ([]models.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Article
	for _, article := range r.articles {
		if filter.CategoryID != nil && article.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.Featured != nil && article.Featured != *filter.Featured {
			continue
		}
		out = append(out, article)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PublishedAt.After(out[j].PublishedAt)
	})
	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *fakeArticleRepo) GetPopular(limit int) ([]models.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Article
	for _, article := range r.articles {
		out = append(out, article)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ViewCount != out[j].ViewCount {
			return out[i].ViewCount > out[j].ViewCount
		}
		return out[i].PublishedAt.After(out[j].PublishedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeArticleRepo) Update(article *models.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.articles[article.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	// the view counter only moves through IncrementViewCount
	updated := *article
	updated.ViewCount = stored.ViewCount
	r.articles[article.ID] = updated
	return nil
}

func (r *fakeArticleRepo) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.articles[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.articles, id)
	return nil
}

func (r *fakeArticleRepo) IncrementViewCount(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	article, ok := r.articles[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	article.ViewCount++
	r.articles[id] = article
	return nil
}

func (r *fakeArticleRepo) setPublishedAt(id uint, ts time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if article, ok := r.articles[id]; ok {
		article.PublishedAt = ts
		r.articles[id] = article
	}
}

func (r *fakeArticleRepo) SlugExists(slug string) (bool, error) {
	_, err := r.GetBySlug(slug)
	return err == nil, nil
}

func (r *fakeArticleRepo) Count() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.articles)), nil
}

func (r *fakeArticleRepo) SumViews() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total int64
	for _, article := range r.articles {
		total += int64(article.ViewCount)
	}
	return total, nil
}

// testEnv bundles the fakes behind a fiber app wired like the API router,
// minus the rate limiter.
type testEnv struct {
	app        *fiber.App
	users      *fakeUserRepo
	categories *fakeCategoryRepo
	articles   *fakeArticleRepo
}

func newTestEnv() *testEnv {
	users := newFakeUserRepo()
	categories := newFakeCategoryRepo()
	articles := newFakeArticleRepo()

	authController := NewAuthController(users)
	categoryController := NewCategoryController(categories)
	articleController := NewArticleController(articles, categories)
	statsController := NewStatsController(articles)

	app := fiber.New()
	api := app.Group("/api")
	requireAuth := middleware.RequireAuth(users)

	api.Post("/auth/register", authController.HandleRegister)
	api.Post("/auth/login", authController.HandleLogin)
	api.Get("/auth/me", requireAuth, authController.HandleMe)

	api.Get("/categories", categoryController.HandleList)
	api.Get("/categories/:slug", categoryController.HandleGetBySlug)
	api.Get("/articles", articleController.HandleList)
	api.Get("/articles/popular", articleController.HandlePopular)
	api.Get("/articles/slug/:slug", articleController.HandleGetBySlug)

	api.Post("/articles", requireAuth, articleController.HandleCreate)
	api.Put("/articles/:id", requireAuth, articleController.HandleUpdate)
	api.Delete("/articles/:id", requireAuth, articleController.HandleDelete)
	api.Get("/stats", requireAuth, statsController.HandleStats)

	return &testEnv{
		app:        app,
		users:      users,
		categories: categories,
		articles:   articles,
	}
}
