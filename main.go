package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/ManuelReschke/NewsFox/app/repository"
	"github.com/ManuelReschke/NewsFox/internal/pkg/cache"
	"github.com/ManuelReschke/NewsFox/internal/pkg/constants"
	"github.com/ManuelReschke/NewsFox/internal/pkg/database"
	"github.com/ManuelReschke/NewsFox/internal/pkg/env"
	"github.com/ManuelReschke/NewsFox/internal/pkg/router"
	"github.com/ManuelReschke/NewsFox/internal/pkg/security"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	// refuse to boot with an empty signing key
	security.MustTokenSecret()
	database.SetupDatabase()
	cache.SetupCache()
	repository.InitializeFactory(database.GetDB())

	app := fiber.New(fiber.Config{
		BodyLimit: 26214400, // 25 MiB; per-file ceiling is enforced in the upload controller
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// CORS for the SPA frontend
	app.Use(cors.New(cors.Config{
		AllowOrigins: env.GetEnv("CORS_ORIGINS", "*"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// fiber metrics
	app.Get("/metrics", basicauth.New(basicauth.Config{
		Users: map[string]string{
			env.GetEnv("METRICS_USER", "admin"): env.GetEnv("METRICS_PASSWORD", "admin"),
		},
	}), monitor.New())

	// uploaded media
	app.Static(constants.UploadsRoute, env.GetEnv("UPLOAD_DIR", constants.UploadsPath), fiber.Static{
		Compress: false,
		MaxAge:   604800, // 7 days
	})

	// ROUTER
	router.InstallRouter(app)

	return app
}
