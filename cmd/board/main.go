package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/goliatone/go-board"
	"github.com/goliatone/go-board/config"
	"github.com/goliatone/go-board/migrations"
	goerrors "github.com/goliatone/go-errors"
	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/goliatone/go-print"
	"github.com/uptrace/bun"
)

type App struct {
	cfg    *config.BaseConfig
	logger *board.SlogLogger
	client *persistence.Client
	db     *bun.DB
	repo   board.RepositoryManager
	auther *board.Auther
	http   *board.RouteAuthenticator
	srv    *board.HTTPServer
}

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.App.Debug {
		level = slog.LevelDebug
	}
	lgr := board.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))).
		With("app", cfg.App.Name)

	if cfg.App.Debug {
		fmt.Println("============")
		fmt.Println(print.MaybeSecureJSON(cfg))
		fmt.Println("============")
	}

	app := &App{cfg: cfg, logger: lgr}
	ctx := context.Background()

	if err := WithPersistence(ctx, app); err != nil {
		lgr.Error("persistence setup failed", "error", err)
		os.Exit(1)
	}
	defer app.db.Close()

	if err := WithAuth(ctx, app); err != nil {
		lgr.Error("auth setup failed", "error", err)
		os.Exit(1)
	}

	if err := BootstrapAdmin(ctx, app); err != nil {
		lgr.Error("admin bootstrap failed", "error", err)
		os.Exit(1)
	}

	WithHTTPServer(app)

	go func() {
		if err := app.srv.App().Listen(cfg.Server.Address); err != nil {
			lgr.Error("http server stopped", "error", err)
		}
	}()

	sig := WaitExitSignal()
	lgr.Info("shutting down", "signal", sig.String())

	if err := app.srv.App().ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
		lgr.Error("http shutdown failed", "error", err)
	}
}

func WithPersistence(ctx context.Context, app *App) error {
	client, err := board.NewPersistenceClient(board.PersistenceConfig{
		DSN:   app.cfg.Database.DSN,
		Debug: app.cfg.App.Debug,
	})
	if err != nil {
		return err
	}
	app.client = client
	app.db = client.DB()
	db := app.db

	if err := db.PingContext(ctx); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "database ping failed")
	}

	group, err := migrations.Migrate(ctx, db)
	if err != nil {
		return err
	}
	if group.IsZero() {
		app.logger.Info("database schema up to date")
	} else {
		app.logger.Info("database migrated", "group", group.String())
	}

	app.repo = board.NewRepositoryManager(db)
	app.repo.MustValidate()
	return nil
}

func WithAuth(_ context.Context, app *App) error {
	tokens, err := board.NewTokenService(board.TokenConfigFromConfig(app.cfg), app.logger)
	if err != nil {
		return err
	}

	app.auther = board.NewAuthenticator(app.repo, tokens).
		WithLogger(app.logger).
		WithActivitySink(board.LoggerActivitySink(app.logger.With("component", "activity")))

	httpAuth, err := board.NewHTTPAuthenticator(app.auther, app.cfg)
	if err != nil {
		return err
	}
	httpAuth.Logger = app.logger
	app.http = httpAuth
	return nil
}

// BootstrapAdmin creates the configured admin account once and promotes it
func BootstrapAdmin(ctx context.Context, app *App) error {
	b := app.cfg.Bootstrap
	if b.AdminUsername == "" || b.AdminPassword == "" {
		return nil
	}

	user, err := app.repo.Users().GetByUsername(ctx, b.AdminUsername)
	if err != nil {
		if !goerrors.Is(err, board.ErrIdentityNotFound) {
			return err
		}

		email := b.AdminEmail
		if email == "" {
			email = b.AdminUsername + "@localhost.localdomain"
		}

		user, err = board.NewRegisterUserHandler(app.repo).Register(ctx, board.RegisterUserMessage{
			Username: b.AdminUsername,
			Email:    email,
			Password: b.AdminPassword,
		})
		if err != nil {
			return err
		}
	}

	if user.IsAdmin {
		return nil
	}

	app.logger.Info("promoting bootstrap admin", "username", user.Username)
	return app.repo.Users().SetAdmin(ctx, user.ID, true)
}

func WithHTTPServer(app *App) {
	srv := board.NewHTTPServer(board.ServerOptions{
		AppName:        app.cfg.App.Name,
		Logger:         app.logger,
		LoginRateLimit: app.cfg.Auth.LoginRateLimit,
		Middleware: []fiber.Handler{
			recover.New(),
			requestid.New(),
			logger.New(logger.Config{
				Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
			}),
			cors.New(cors.Config{
				AllowOrigins:     app.cfg.Server.CORSOrigins,
				AllowCredentials: app.cfg.Server.CORSOrigins != "*" && strings.TrimSpace(app.cfg.Server.CORSOrigins) != "",
			}),
		},
	})

	board.RegisterRoutes(srv.Router(), app.repo, app.auther, app.http, board.RouteOptions{
		AppName: app.cfg.App.Name,
		Debug:   app.cfg.App.Debug,
		Logger:  app.logger,
	})

	app.srv = srv
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
