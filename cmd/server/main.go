package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skidqi-be/internal/category"
	"skidqi-be/internal/config"
	"skidqi-be/internal/db"
	"skidqi-be/internal/graph"
	"skidqi-be/internal/handler"
	"skidqi-be/internal/importer"
	"skidqi-be/internal/listing"
	"skidqi-be/internal/logger"
	"skidqi-be/internal/metrics"
	"skidqi-be/internal/middleware"
	"skidqi-be/internal/navigator"
	"skidqi-be/internal/notification"
	"skidqi-be/internal/profile"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	initDBFunc      = db.InitDB
	startServerFunc = startServer
)

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	database := initDBFunc(cfg)
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h, err := newServer(ctx, cfg, database)
	if err != nil {
		return err
	}

	logger.L().Info("HTTP server listening",
		zap.String("port", cfg.AppPort),
		zap.String("category_table", cfg.CategoryTable),
	)
	return startServerFunc(ctx, ":"+cfg.AppPort, h)
}

// newServer wires repositories, services and the middleware chain.
func newServer(ctx context.Context, cfg *config.Config, database *sql.DB) (http.Handler, error) {
	schema, err := category.SchemaFor(cfg.CategoryTable)
	if err != nil {
		return nil, err
	}

	reg := metrics.NewRegistry()

	categorySvc := category.NewService(category.NewRepository(db.Sqlx(database), schema))

	navigators, err := navigator.NewStore(cfg.NavSessionCapacity, func() *navigator.Navigator {
		return navigator.New(categorySvc, navigator.WithMetrics(reg))
	})
	if err != nil {
		return nil, err
	}

	listingRepo := listing.NewRepository(database)
	notificationSvc := notification.NewService(notification.NewRepository(database))
	listingSvc := listing.NewService(listingRepo, categorySvc, listing.WithNotifier(notificationSvc))
	profileSvc := profile.NewService(profile.NewRepository(database), listingSvc)

	router := handler.SetupRouter(&handler.Handlers{
		Categories:     categorySvc,
		Navigators:     navigators,
		Listings:       listingSvc,
		Importer:       importer.New(categorySvc, listingRepo, reg),
		Profiles:       profileSvc,
		Notifications:  notificationSvc,
		GraphQL:        graph.NewHandler(&graph.Resolver{Categories: categorySvc, Navigators: navigators}),
		Metrics:        reg,
		ImportMaxBytes: cfg.ImportMaxBytes,
	})

	limiter := middleware.NewRateLimiter(ctx)

	return middleware.Chain(router,
		logger.RequestIDMiddleware,
		middleware.CORS(cfg.CORSOrigin),
		middleware.Auth([]byte(cfg.SecretKey)),
		middleware.Logging,
		limiter.Middleware,
	), nil
}

// startServer serves until ctx is cancelled, then drains in-flight requests.
func startServer(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.L().Info("shutting down HTTP server")
		return srv.Shutdown(shutdownCtx)
	}
}
