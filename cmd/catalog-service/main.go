package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/aaravmahajanofficial/product-catalog-service/docs"
	"github.com/aaravmahajanofficial/product-catalog-service/internal/api/handlers"
	"github.com/aaravmahajanofficial/product-catalog-service/internal/api/middleware"
	"github.com/aaravmahajanofficial/product-catalog-service/internal/config"
	"github.com/aaravmahajanofficial/product-catalog-service/internal/health"
	"github.com/aaravmahajanofficial/product-catalog-service/internal/metrics"
	repository "github.com/aaravmahajanofficial/product-catalog-service/internal/repositories"
	"github.com/aaravmahajanofficial/product-catalog-service/internal/seed"
	service "github.com/aaravmahajanofficial/product-catalog-service/internal/services"
	"github.com/aaravmahajanofficial/product-catalog-service/internal/tracing"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/sync/errgroup"
)

//	@title			Product Catalog API
//	@version		1.0
//	@description	Products with embedded variants, addressed by id and by sku.
//	@BasePath		/api/v1

func main() {

	// Load config
	cfg := config.MustLoad()

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("❌ Service stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("✅ Server shut down gracefully. All connections closed.")
}

func run(ctx context.Context, cfg *config.Config) error {

	shutdownTracing, err := tracing.Init(ctx, &cfg.Otel, cfg.Env)
	if err != nil {
		return err
	}

	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			slog.Error("⚠️ Error flushing traces", slog.String("error", err.Error()))
		}
	}()

	// Catalog store setup
	repos, err := repository.New(ctx, cfg)
	if err != nil {
		slog.Error("❌ Error accessing the catalog store", slog.String("error", err.Error()))
		return err
	}

	defer func() {
		if err := repos.Close(context.Background()); err != nil {
			slog.Error("⚠️ Error closing catalog store connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Catalog store connection closed")
		}
	}()

	// Redis is optional; without it writes are limited per instance
	var rateLimitRepo repository.RateLimitRepository
	if cfg.RedisConnect.Enabled {
		redisClient, err := repository.NewRedisClient(cfg)
		if err != nil {
			slog.Error("❌ Error accessing the redis instance", slog.String("error", err.Error()))
			return err
		}
		defer redisClient.Close()

		rateLimitRepo = repository.NewRateLimitRepo(redisClient, &cfg.RateConfig)
	}

	productService := service.NewProductService(repos.Product)
	productHandler := handlers.NewProductHandler(productService)
	rateLimiter := middleware.NewRateLimiter(rateLimitRepo, &cfg.RateConfig)

	if cfg.Storage.Seed {
		if _, err := seed.Run(ctx, repos.Product, productService); err != nil {
			return err
		}
	}

	healthHandler, err := health.NewHealthHandler(cfg)
	if err != nil {
		return err
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("driver", cfg.Storage.Driver), slog.String("version", "1.0.0"))

	// Setup router
	routerMux := http.NewServeMux()
	productHandler.RegisterRoutes(routerMux, "/api/v1", rateLimiter.Limit)
	productHandler.RegisterRoutes(routerMux, "", rateLimiter.Limit)
	routerMux.Handle("GET /health", healthHandler.Handler())
	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// Middleware chaining; metrics and tracing sit next to the mux so they see the matched route
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = tracing.Middleware(handler)
	handler = middleware.Logging(handler)
	handler = middleware.Recovery(handler)

	// Setup http server
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

		// Graceful shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
