package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"liveoverlay.app/hooks/common/crypto"
	"liveoverlay.app/hooks/common/id"
	"liveoverlay.app/hooks/common/logger"
	"liveoverlay.app/hooks/common/otel"
	"liveoverlay.app/hooks/core/config"
	"liveoverlay.app/hooks/core/db"
	"liveoverlay.app/hooks/internal/broadcast"
	"liveoverlay.app/hooks/internal/driver/builtin"
	"liveoverlay.app/hooks/internal/http/middleware"
	httprouter "liveoverlay.app/hooks/internal/http/router"
	"liveoverlay.app/hooks/internal/service"
	"liveoverlay.app/hooks/internal/store"
)

// devAppKey seals credentials in local development when APP_KEY is unset.
// Production refuses to start without a real key.
const devAppKey = "liveoverlay-development-key"

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeServer)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "hooks server starting", "env", cfg.Env, "service", cfg.OTel.ServiceName, "node_id", cfg.NodeID)
	if err := id.Init(cfg.NodeID); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.InfoContext(ctx, "database connected")

	if cfg.IsDevelopment() {
		if err := database.ApplySchema(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to apply schema", "error", err)
			os.Exit(1)
		}
	}

	publisher, err := broadcast.New(ctx, cfg.Broadcast)
	if err != nil {
		slog.ErrorContext(ctx, "failed to initialize broadcast publisher", "error", err, "driver", cfg.Broadcast.Driver)
		os.Exit(1)
	}
	defer publisher.Close()
	slog.InfoContext(ctx, "broadcast publisher ready", "driver", cfg.Broadcast.Driver)

	appKey := cfg.AppKey
	if appKey == "" {
		slog.WarnContext(ctx, "APP_KEY not set, using development key")
		appKey = devAppKey
	}
	box, err := crypto.NewBox([]byte(appKey))
	if err != nil {
		slog.ErrorContext(ctx, "failed to initialize credential box", "error", err)
		os.Exit(1)
	}

	registry := builtin.NewRegistry()
	slog.InfoContext(ctx, "drivers registered", "services", registry.Services())

	services := service.NewServices(service.ServicesConfig{
		Stores:         store.NewStores(database.Queries()),
		TxRunner:       service.NewTxRunner(database),
		Registry:       registry,
		Publisher:      publisher,
		Sealer:         box,
		WebhookBaseURL: cfg.Webhook.BaseURL,
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, services)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func setupRouter(cfg config.Config, services *service.Services) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	httprouter.SetupRoutes(router, services, httprouter.RouterConfig{
		MaxBodyBytes: cfg.Webhook.MaxBodyBytes,
	})

	return router
}

const banner = `
██╗  ██╗ ██████╗  ██████╗ ██╗  ██╗███████╗
██║  ██║██╔═══██╗██╔═══██╗██║ ██╔╝██╔════╝
███████║██║   ██║██║   ██║█████╔╝ ███████╗
██╔══██║██║   ██║██║   ██║██╔═██╗ ╚════██║
██║  ██║╚██████╔╝╚██████╔╝██║  ██╗███████║
╚═╝  ╚═╝ ╚═════╝  ╚═════╝ ╚═╝  ╚═╝╚══════╝
`
