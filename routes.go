package board

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/goliatone/go-router"
)

// APIPrefix is where RegisterRoutes mounts the JSON API
const APIPrefix = "/api"

// ServerOptions tunes NewHTTPServer
type ServerOptions struct {
	AppName string
	Logger  Logger
	// LoginRateLimit caps login attempts per client IP per minute, zero disables it
	LoginRateLimit int
	// Middleware runs on the fiber app before any route, e.g. recover or cors
	Middleware []fiber.Handler
}

// HTTPServer is a go-router server backed by fiber
type HTTPServer struct {
	router.Server[*fiber.App]
	app *fiber.App
}

// App returns the fiber app serving the router
func (s *HTTPServer) App() *fiber.App {
	return s.app
}

// NewHTTPServer builds the router server. Errors returned by handlers and
// middleware are rendered by ErrorHandler.
func NewHTTPServer(opts ServerOptions) *HTTPServer {
	s := &HTTPServer{}

	s.Server = router.NewFiberAdapter(func(_ *fiber.App) *fiber.App {
		app := fiber.New(fiber.Config{
			AppName:       opts.AppName,
			StrictRouting: false,
			ErrorHandler:  ErrorHandler(opts.Logger),
		})

		for _, mw := range opts.Middleware {
			app.Use(mw)
		}

		if opts.LoginRateLimit > 0 {
			app.Use(APIPrefix+"/auth/login", limiter.New(limiter.Config{
				Max:        opts.LoginRateLimit,
				Expiration: time.Minute,
				LimitReached: func(c *fiber.Ctx) error {
					return fiber.NewError(fiber.StatusTooManyRequests, "too many login attempts")
				},
			}))
		}

		s.app = app
		return app
	})

	return s
}

// RouteOptions tunes RegisterRoutes
type RouteOptions struct {
	AppName string
	Debug   bool
	Logger  Logger
}

// RegisterRoutes mounts the JSON API under APIPrefix
func RegisterRoutes[T any](app router.Router[T], repo RepositoryManager, auther *Auther, httpAuth *RouteAuthenticator, opts RouteOptions) {
	logger := normalizeLogger(opts.Logger)

	authController := NewAuthController(auther, httpAuth,
		WithAuthControllerLogger(logger),
		WithAuthControllerDebug(opts.Debug),
	)
	users := NewUsersController(repo, auther, httpAuth)
	users.Logger = logger
	posts := NewPostsController(repo)
	posts.Logger = logger
	comments := NewCommentsController(repo)
	comments.Logger = logger

	requireUser := httpAuth.RequireUser()
	optionalUser := httpAuth.OptionalUser()
	requireAdmin := httpAuth.RequireAdmin()

	api := app.Group(APIPrefix)

	api.Get("/health", Health(opts.AppName))

	api.Post("/auth/register", authController.Register)
	api.Post("/auth/login", authController.Login)
	api.Post("/auth/logout", authController.Logout, requireUser)
	api.Get("/auth/me", authController.Me, requireUser)

	api.Get("/users", users.List, requireAdmin)
	api.Put("/users/me", users.UpdateMe, requireUser)
	api.Delete("/users/me", users.DeleteMe, requireUser)
	api.Get("/users/:id", users.Get)

	api.Get("/posts", posts.List)
	api.Post("/posts", posts.Create, requireUser)
	api.Get("/posts/:id", posts.Get, optionalUser)
	api.Put("/posts/:id", posts.Update, requireUser)
	api.Delete("/posts/:id", posts.Delete, requireUser)
	api.Post("/posts/:id/like", posts.Like, requireUser)

	api.Get("/posts/:id/comments", comments.List)
	api.Post("/posts/:id/comments", comments.Create, requireUser)
	api.Put("/posts/:id/comments/:cid", comments.Update, requireUser)
	api.Delete("/posts/:id/comments/:cid", comments.Delete, requireUser)
	api.Post("/posts/:id/comments/:cid/like", comments.Like, requireUser)
}
