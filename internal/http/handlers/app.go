package handlers

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/jmoiron/sqlx"

	"petcare/internal/config"
	applog "petcare/internal/log"
	"petcare/internal/services"
	"petcare/web"
)

// formBodyLimit is the allowance for a request body without an upload.
const formBodyLimit = 1 << 20

// ErrorHandler logs unexpected errors and shows a generic page without internals.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if fe, ok := err.(*fiber.Error); ok && fe.Code < 500 {
		code = fe.Code
	}
	applog.Error(c, "server.error", err, nil)
	msg := "Something went wrong. Please try again."
	if code == fiber.StatusRequestEntityTooLarge {
		msg = "The upload is too large."
	}
	if rerr := c.Status(code).Render("notfound", fiber.Map{"Message": msg}); rerr != nil {
		return c.Status(code).SendString(msg)
	}
	return nil
}

// NewApp builds the fiber app with every middleware and route.
func NewApp(cfg config.Config, db *sqlx.DB, notify services.Dispatcher) *fiber.App {
	engine := html.NewFileSystem(http.FS(web.Templates()), ".html")

	app := fiber.New(fiber.Config{
		Views:        engine,
		ErrorHandler: ErrorHandler,
		BodyLimit:    formBodyLimit + int(cfg.MaxUploadBytes),
	})

	deps := NewDeps(db, cfg, notify)

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(AttachUser(deps.Auth))
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimitPerMin,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/media/")
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.global.hit", nil)
			return message(c, fiber.StatusTooManyRequests, "Too many requests. Please slow down.")
		},
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   cfg.CookieSecure,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", map[string]any{"err": err.Error()})
			return message(c, fiber.StatusForbidden, "Security check failed. Please refresh and try again.")
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok, ok := c.Locals("csrf").(string); ok {
			c.Locals("CSRFToken", tok)
		}
		return c.Next()
	})

	// ---------- Media ----------
	if abs, err := filepath.Abs(deps.Media.Dir); err == nil {
		deps.Media.Dir = abs
	}
	app.Get("/media/*", deps.Media.Serve)

	// ---------- Public pages ----------
	app.Get("/", Home)
	app.Get("/about", About)
	app.Get("/adoptions", deps.AdoptionHandler.List)
	app.Get("/products", deps.ShopHandler.List)
	app.Get("/services", deps.BookingHandler.Services)

	// API
	api := app.Group("/api/v1")
	availLimiter := limiter.New(limiter.Config{
		Max:        15,
		Expiration: 30 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|avail"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.availability.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	})
	api.Get("/availability", availLimiter, deps.InventoryHandler.Check)

	// ---------- Auth (login throttled) ----------
	authH := deps.AuthHandler
	app.Get("/signup", authH.SignupForm)
	app.Post("/signup", authH.Signup)
	app.Get("/login", authH.LoginForm)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        cfg.LoginLimit,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return render(c.Status(fiber.StatusTooManyRequests), "login", fiber.Map{"Err": "Too many attempts. Please try again later."})
		},
	}), authH.Login)
	app.Post("/logout", authH.Logout)

	// ---------- Workflows ----------
	user := RequireUser(deps.Auth)
	app.Get("/rescue", user, deps.RescueHandler.Form)
	app.Post("/rescue", user, deps.RescueHandler.Submit)
	app.Get("/adopt/:id", user, deps.AdoptionHandler.Form)
	app.Post("/adopt/:id", user, deps.AdoptionHandler.Submit)
	app.Get("/buy/:id", user, deps.ShopHandler.Confirm)
	app.Post("/buy/:id", user, deps.ShopHandler.Buy)
	app.Get("/book/:id", user, deps.BookingHandler.Form)
	app.Post("/book/:id", user, deps.BookingHandler.Submit)
	app.Get("/account", user, deps.AccountHandler.Overview)

	// ---------- Staff ----------
	adminH := deps.AdminHandler
	admin := app.Group("/admin", RequireAdmin(deps.Auth))
	admin.Get("/", adminH.Dashboard)
	admin.Post("/rescues/:id/status", adminH.RescueStatus())
	admin.Post("/adoptions/:id/status", adminH.AdoptionStatus())
	admin.Post("/bookings/:id/status", adminH.BookingStatus())
	admin.Post("/orders/:id/status", adminH.OrderStatus())
	admin.Post("/animals/:id/status", adminH.AnimalStatus())
	admin.Post("/products/:id/stock", adminH.UpdateStock)
	admin.Post("/products/:id/price", adminH.UpdatePrice)
	admin.Get("/users", adminH.UsersPage)
	admin.Post("/users/:id/delete", adminH.DeleteUser)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(NotFound)

	return app
}
