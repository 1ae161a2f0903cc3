package handlers

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"appliancestore/internal/config"
	applog "appliancestore/internal/log"
)

// BodyLimit fits CSV price lists and image uploads.
const BodyLimit = 10 << 20

// NewApp builds the Fiber app with middleware and every route.
func NewApp(cfg config.Config, deps *Deps) *fiber.App {
	engine := html.New(cfg.TemplatesDir, ".html")

	app := fiber.New(fiber.Config{
		Views:        engine,
		BodyLimit:    BodyLimit,
		ErrorHandler: ErrorHandler,
	})

	// ---------- Middlewares ----------
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Output: applog.Writer(),
		Format: `{"level":"info","action":"http.access","time":"${time}","req_id":"${locals:requestid}","ip":"${ip}","method":"${method}","path":"${path}","status":${status},"latency":"${latency}"}` + "\n",
	}))
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := c.Path()
			return strings.HasPrefix(p, "/static/") || strings.HasPrefix(p, "/media/")
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.global.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).SendString("Too many requests")
		},
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   false, // set true behind HTTPS
		ContextKey:     "csrf",
		// the JSON API authenticates with bearer tokens instead
		Next: func(c *fiber.Ctx) bool { return strings.HasPrefix(c.Path(), "/api/") },
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", nil)
			return renderStatus(c, fiber.StatusForbidden, "notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok, ok := c.Locals("csrf").(string); ok {
			c.Locals("CSRFToken", tok)
		}
		return c.Next()
	})
	app.Use(OptionalAdmin(deps.Auth))
	app.Use(deps.CategoryHandler.Menu)

	// ---------- Static assets ----------
	mediaDir := cfg.MediaDir
	if !filepath.IsAbs(mediaDir) {
		if abs, err := filepath.Abs(mediaDir); err == nil {
			mediaDir = abs
		}
	}
	app.Static("/static", cfg.StaticDir)
	// Guarded media to avoid traversal
	app.Get("/media/*", func(c *fiber.Ctx) error {
		path := c.Params("*")
		rawLower := strings.ToLower(path)
		// Block encoded traversal attempts as well as raw .. or null bytes
		if strings.Contains(rawLower, "..") || strings.Contains(rawLower, "%2e") || strings.Contains(rawLower, "\x00") {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		clean := filepath.Clean(path)
		if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.SendFile(filepath.Join(mediaDir, clean), true)
	})

	loginLimiter := limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			if strings.HasPrefix(c.Path(), "/api/") {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many attempts. Please try again later."})
			}
			return renderStatus(c, fiber.StatusTooManyRequests, "login", fiber.Map{"Err": "Too many attempts. Please try again later."})
		},
	})

	// ---------- Public pages ----------
	app.Get("/", deps.CategoryHandler.Home)
	app.Get("/categories", deps.CategoryHandler.List)
	app.Get("/categories/:id", deps.CategoryHandler.Show)
	app.Get("/products/:id", deps.ProductHandler.Detail)
	app.Get("/search", limiter.New(limiter.Config{Max: 30, Expiration: time.Minute}), deps.SearchHandler.Page)
	for _, slug := range []string{"delivery", "credit", "service", "shops", "feedback"} {
		app.Get("/"+slug, Info(slug))
	}

	// ---------- Admin pages ----------
	// login/logout are registered ahead of the guarded group
	app.Get("/admin/login", deps.AuthHandler.LoginForm)
	app.Post("/admin/login", loginLimiter, deps.AuthHandler.Login)
	app.Post("/admin/logout", deps.AuthHandler.Logout)
	app.Get("/admin/logout", deps.AuthHandler.Logout)

	admin := app.Group("/admin", RequireAdmin(deps.Auth))
	admin.Get("/", deps.AdminHandler.Dashboard)

	admin.Get("/categories/new", deps.AdminHandler.CategoryNew)
	admin.Post("/categories/new", deps.AdminHandler.CategoryCreate)
	admin.Get("/categories/:id/edit", deps.AdminHandler.CategoryEdit)
	admin.Post("/categories/:id/edit", deps.AdminHandler.CategoryUpdate)
	admin.Get("/categories/:id/delete", deps.AdminHandler.CategoryDeleteConfirm)
	admin.Post("/categories/:id/delete", deps.AdminHandler.CategoryDelete)

	admin.Get("/categories/:id/filters", deps.FilterHandler.List)
	admin.Get("/categories/:id/filters/new", deps.FilterHandler.New)
	admin.Post("/categories/:id/filters/new", deps.FilterHandler.Create)
	admin.Post("/categories/:id/filters/:filterId/delete", deps.FilterHandler.DeleteForm)
	admin.Get("/categories/:id/filters/:filterId/options/new", deps.FilterHandler.OptionNew)
	admin.Post("/categories/:id/filters/:filterId/options/new", deps.FilterHandler.OptionCreate)

	admin.Get("/products/new", deps.AdminHandler.ProductNew)
	admin.Post("/products/new", deps.AdminHandler.ProductCreate)
	admin.Get("/products/:id/edit", deps.AdminHandler.ProductEdit)
	admin.Post("/products/:id/edit", deps.AdminHandler.ProductUpdate)
	admin.Get("/products/:id/delete", deps.AdminHandler.ProductDeleteConfirm)
	admin.Post("/products/:id/delete", deps.AdminHandler.ProductDelete)

	admin.Get("/sliders", deps.SliderHandler.Page)
	admin.Get("/sliders/new", deps.SliderHandler.New)
	admin.Post("/sliders/new", deps.SliderHandler.Create)
	admin.Get("/sliders/:id/edit", deps.SliderHandler.Edit)
	admin.Post("/sliders/:id/edit", deps.SliderHandler.Update)
	admin.Post("/sliders/:id/delete", deps.SliderHandler.Delete)

	admin.Get("/import", deps.ImportHandler.Page)
	admin.Post("/import", deps.ImportHandler.Upload)

	// ---------- JSON API ----------
	api := app.Group("/api", cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))
	requireAPI := RequireAdminAPI(deps.Auth)

	api.Post("/auth/login", loginLimiter, deps.AuthHandler.APILogin)
	api.Get("/auth/verify", deps.AuthHandler.APIVerify)

	api.Get("/search", limiter.New(limiter.Config{
		Max:        30,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|search"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.search.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	}), deps.SearchHandler.API)

	api.Post("/admin/import-products", requireAPI, limiter.New(limiter.Config{
		Max:        10,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|import"
		},
	}), deps.ImportHandler.API)

	api.Get("/sliders", deps.SliderHandler.APIList)
	api.Post("/sliders", requireAPI, deps.SliderHandler.APICreate)
	api.Get("/sliders/:id", deps.SliderHandler.APIGet)
	api.Put("/sliders/:id", requireAPI, deps.SliderHandler.APIUpdate)
	api.Delete("/sliders/:id", requireAPI, deps.SliderHandler.APIDelete)

	api.Delete("/filters/:id", requireAPI, deps.FilterHandler.APIDelete)
	api.Delete("/filters/:id/options/:optionId", requireAPI, deps.FilterHandler.APIDeleteOption)

	api.Get("/products/:id", deps.ProductHandler.APIGet)
	api.Delete("/products/:id", requireAPI, deps.ProductHandler.APIDelete)

	api.Post("/upload", requireAPI, deps.UploadHandler.API)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		if strings.HasPrefix(c.Path(), "/api/") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
		}
		return notFoundPage(c, "Page not found")
	})

	return app
}
