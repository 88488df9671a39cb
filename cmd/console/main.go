package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/om_console/internal/cache"
	"github.com/GTDGit/om_console/internal/config"
	"github.com/GTDGit/om_console/internal/handler"
	"github.com/GTDGit/om_console/internal/middleware"
	"github.com/GTDGit/om_console/internal/notify"
	"github.com/GTDGit/om_console/internal/preference"
	"github.com/GTDGit/om_console/internal/resource"
	"github.com/GTDGit/om_console/internal/session"
	"github.com/GTDGit/om_console/internal/shell"
	"github.com/GTDGit/om_console/internal/sse"
	"github.com/GTDGit/om_console/internal/view"
	"github.com/GTDGit/om_console/pkg/shopapi"
)

// main is the entrypoint of the Om Mobile shop management console.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Str("shop_api", cfg.ShopAPI.BaseURL).Msg("starting om console")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Persistent storage for token, theme and shop profile
	var (
		storage cache.Store
		pinger  handler.Pinger
	)
	if cfg.Storage.Driver == "redis" {
		redisClient, err := cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Error().Err(err).Msg("redis connection failed")
			fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		log.Info().Msg("redis connected successfully")
		storage = cache.NewRedisStore(redisClient, cfg.Storage.Prefix)
		pinger = redisClient
	} else {
		log.Warn().Msg("using in-memory storage, the session is lost on restart")
		storage = cache.NewMemoryStore()
	}

	// 4. Session and preferences
	sess := session.New(storage)
	if err := sess.Load(ctx); err != nil {
		log.Warn().Err(err).Msg("could not restore session, starting signed out")
	}
	profile := preference.NewProfileStore(storage)
	if err := profile.Load(ctx); err != nil {
		log.Warn().Err(err).Msg("could not load shop profile, using defaults")
	}
	theme := preference.NewThemeStore(storage)
	if err := theme.Load(ctx); err != nil {
		log.Warn().Err(err).Msg("could not load theme preference")
	}

	// 5. Toasts, pushed to browsers over SSE
	hub := sse.NewHub()
	publisher := sse.NewHubPublisher(hub)
	notifier := notify.New(cfg.Console.ToastDuration, publisher)

	// 6. Shop API client
	client := shopapi.NewClient(shopapi.Config{
		BaseURL:        cfg.ShopAPI.BaseURL,
		Timeout:        cfg.ShopAPI.Timeout,
		Tokens:         sess,
		OnUnauthorized: sess.ForceLogout,
		Debug:          cfg.Env == "development",
	})

	// 7. Pages, in sidebar order
	validate := resource.NewValidator()
	sh := shell.New(sess, publisher, theme,
		view.NewDashboardView(client),
		view.NewInventoryView(client, notifier, validate, cfg.Console.LowStockHighlight),
		view.NewMobileShopView(client, notifier, validate),
		view.NewRepairsView(client, notifier, validate),
		view.NewSalesView(client, notifier, profile, validate),
		view.NewReturnsView(client, notifier, validate),
	)
	sess.OnClear(sh.Reset)

	if sess.State() == session.Authenticated {
		if _, err := sh.Navigate(ctx, sh.Landing()); err != nil {
			log.Warn().Err(err).Msg("restored session could not load the landing page")
		}
	}

	// 8. Initialize handlers
	handlers := &Handlers{
		Health:   handler.NewHealthHandler(pinger, sess, cfg.ShopAPI.BaseURL),
		Auth:     handler.NewAuthHandler(client, sess, sh),
		Console:  handler.NewConsoleHandler(sh, notifier),
		Settings: handler.NewSettingsHandler(profile, theme, validate),
		Events:   handler.NewSSEHandler(hub, notifier),
	}

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.Console.AllowedOrigins))
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, middleware.NewSessionMiddleware(sess), middleware.NewLoginRateLimiter(ctx))

	// 10. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 11. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 12. Stop the rate limiter sweeper and unmount the open page
	cancel()
	if page, ok := sh.Current(); ok {
		page.Unmount()
	}
	notifier.Dismiss()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health   *handler.HealthHandler
	Auth     *handler.AuthHandler
	Console  *handler.ConsoleHandler
	Settings *handler.SettingsHandler
	Events   *handler.SSEHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, sessionMw *middleware.SessionMiddleware, loginLimiter *middleware.LoginRateLimiter) {
	router.GET("/v1/health", handlers.Health.GetHealth)

	auth := router.Group("/auth")
	{
		auth.POST("/login", loginLimiter.Handle(), handlers.Auth.Login)
		auth.POST("/refresh", handlers.Auth.Refresh)
		auth.POST("/logout", handlers.Auth.Logout)
		auth.GET("/session", handlers.Auth.Session)
	}

	gated := router.Group("/")
	gated.Use(sessionMw.Handle())
	{
		gated.GET("/v1/events", handlers.Events.Stream)

		// Shell
		gated.GET("/console", handlers.Console.Layout)
		gated.POST("/console/:page", handlers.Console.Navigate)
		gated.GET("/console/:page", handlers.Console.GetPage)
		gated.POST("/console/:page/refresh", handlers.Console.Refresh)

		// Record list
		gated.POST("/console/:page/search", handlers.Console.Search)
		gated.POST("/console/:page/sort", handlers.Console.Sort)
		gated.GET("/console/:page/export", handlers.Console.Export)
		gated.GET("/console/:page/records/:id/invoice", handlers.Console.Invoice)

		// Modal form
		gated.POST("/console/:page/modal", handlers.Console.OpenModal)
		gated.DELETE("/console/:page/modal", handlers.Console.CloseModal)
		gated.PATCH("/console/:page/form", handlers.Console.PatchForm)
		gated.POST("/console/:page/submit", handlers.Console.Submit)

		// Delete confirmation
		gated.POST("/console/:page/records/:id/delete", handlers.Console.RequestDelete)
		gated.POST("/console/:page/delete/confirm", handlers.Console.ConfirmDelete)
		gated.DELETE("/console/:page/delete", handlers.Console.CancelDelete)

		// Dashboard
		gated.POST("/console/:page/metric", handlers.Console.SelectMetric)
		gated.POST("/console/:page/low-stock/close", handlers.Console.CloseLowStock)
		gated.POST("/console/:page/low-stock/dismiss", handlers.Console.DismissLowStock)

		// Settings
		gated.GET("/settings", handlers.Settings.GetSettings)
		gated.PUT("/settings/profile", handlers.Settings.SaveProfile)
		gated.POST("/settings/theme/toggle", handlers.Settings.ToggleTheme)
	}
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
