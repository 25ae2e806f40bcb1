package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"realtydesk/internal/config"
	"realtydesk/internal/http/handlers"
	applog "realtydesk/internal/log"
	"realtydesk/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	deps := handlers.NewDeps(db, cfg)
	defer deps.Close()

	engine := html.New("./web/templates", ".html")

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			if rerr := c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
				"Message": "Something went wrong. Please try again.",
			}); rerr != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("Something went wrong. Please try again.")
			}
			return nil
		},
	})
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))

	// ---------- Pages ----------
	app.Get("/", deps.PagesHandler.Listings)
	app.Get("/listing/:id", deps.PagesHandler.Detail)

	// ---------- Content-access surface ----------
	app.Get("/property", deps.PropertyHandler.List)
	app.Post("/property", deps.PropertyHandler.Create)
	app.Get("/property/:id", deps.PropertyHandler.Get)
	app.Put("/property/:id", deps.PropertyHandler.Update)
	app.Delete("/property/:id", deps.PropertyHandler.Delete)

	// ---------- Search ----------
	app.Get("/search", limiter.New(limiter.Config{Max: 20, Expiration: time.Minute}), deps.SearchHandler.Search)
	app.Get("/search/criteria", deps.SearchHandler.GetCriteria)
	app.Post("/search/criteria", deps.SearchHandler.SetCriteria)
	app.Delete("/search/criteria", deps.SearchHandler.ResetCriteria)
	app.Get("/search/stream", deps.SearchHandler.Stream)

	// ---------- Auxiliary ----------
	app.Get("/geocode", deps.GeoHandler.Resolve)
	app.Get("/tools/convert", deps.ToolsHandler.Convert)
	app.Get("/tools/loan", deps.ToolsHandler.SimulateLoan)

	// ---------- Admin ----------
	admin := app.Group("/admin", handlers.RequireAdmin(cfg.AdminPassHash))
	admin.Post("/reset", deps.AdminHandler.Reset)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Page not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
