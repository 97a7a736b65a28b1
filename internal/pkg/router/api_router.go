package router

import (
	"net"
	"strconv"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	redisstorage "github.com/gofiber/storage/redis"

	"github.com/ManuelReschke/NewsFox/app/controllers"
	"github.com/ManuelReschke/NewsFox/app/repository"
	"github.com/ManuelReschke/NewsFox/internal/pkg/cache"
	"github.com/ManuelReschke/NewsFox/internal/pkg/constants"
	"github.com/ManuelReschke/NewsFox/internal/pkg/env"
	"github.com/ManuelReschke/NewsFox/internal/pkg/middleware"
	"github.com/ManuelReschke/NewsFox/internal/pkg/storage"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	repos := repository.GetGlobalRepositories()

	authController := controllers.NewAuthController(repos.User)
	categoryController := controllers.NewCategoryController(repos.Category)
	articleController := controllers.NewArticleController(repos.Article, repos.Category)
	statsController := controllers.NewStatsController(repos.Article)
	uploadController := controllers.NewUploadController(storage.NewLocalStore(), newMirrorOrNil())

	api := app.Group(constants.APIRoute, limiter.New(limiter.Config{Storage: limiterStorage()}))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "NewsFox API",
		})
	})

	requireAuth := middleware.RequireAuth(repos.User)

	// Auth
	api.Post("/auth/register", authController.HandleRegister)
	api.Post("/auth/login", authController.HandleLogin)
	api.Get("/auth/me", requireAuth, authController.HandleMe)

	// Public content
	api.Get("/categories", categoryController.HandleList)
	api.Get("/categories/:slug", categoryController.HandleGetBySlug)
	api.Get("/articles", articleController.HandleList)
	api.Get("/articles/popular", articleController.HandlePopular)
	api.Get("/articles/slug/:slug", articleController.HandleGetBySlug)

	// Authenticated content management
	api.Post("/articles", requireAuth, articleController.HandleCreate)
	api.Put("/articles/:id", requireAuth, articleController.HandleUpdate)
	api.Delete("/articles/:id", requireAuth, articleController.HandleDelete)
	api.Post("/upload-image", requireAuth, uploadController.HandleUploadImage)
	api.Get("/stats", requireAuth, statsController.HandleStats)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}

// limiterStorage backs the rate limiter with Redis so limits hold across
// instances. Uses database 1; the statistics cache uses database 0.
func limiterStorage() *redisstorage.Storage {
	host := "localhost"
	port := 6379
	password := env.GetEnv("CACHE_PASSWORD", "")
	if cacheClient := cache.GetClient(); cacheClient != nil {
		addr := cacheClient.Options().Addr
		if h, p, err := net.SplitHostPort(addr); err == nil {
			host = h
			if v, err := strconv.Atoi(p); err == nil {
				port = v
			}
		}
		if p := cacheClient.Options().Password; p != "" {
			password = p
		}
	}

	return redisstorage.New(redisstorage.Config{
		Host:     host,
		Port:     port,
		Password: password,
		Database: 1,
		Reset:    false,
	})
}

func newMirrorOrNil() *storage.Mirror {
	cfg, err := storage.LoadMirrorConfig()
	if err != nil {
		fiberlog.Errorf("S3 mirror misconfigured, continuing without it: %v", err)
		return nil
	}
	mirror, err := storage.NewMirror(cfg)
	if err != nil {
		fiberlog.Errorf("S3 mirror init failed, continuing without it: %v", err)
		return nil
	}
	return mirror
}
