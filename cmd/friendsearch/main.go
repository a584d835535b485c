package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/friendsearch/internal/config"
	"github.com/kailas-cloud/friendsearch/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/friendsearch/internal/db/redis"
	"github.com/kailas-cloud/friendsearch/internal/domain/search/facet"
	logpkg "github.com/kailas-cloud/friendsearch/internal/logger"
	"github.com/kailas-cloud/friendsearch/internal/metrics"
	recentrepo "github.com/kailas-cloud/friendsearch/internal/repository/recent"
	searchrepo "github.com/kailas-cloud/friendsearch/internal/repository/search"
	chiTransport "github.com/kailas-cloud/friendsearch/internal/transport/chi"
	healthuc "github.com/kailas-cloud/friendsearch/internal/usecase/health"
	recentuc "github.com/kailas-cloud/friendsearch/internal/usecase/recent"
	searchuc "github.com/kailas-cloud/friendsearch/internal/usecase/search"
	"github.com/kailas-cloud/friendsearch/internal/version"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting friendsearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("history_driver", cfg.History.Driver),
		zap.String("text_config", cfg.Search.TextConfig),
	)

	ctx := context.Background()
	readiness := time.Duration(cfg.Database.ReadinessTimeout) * time.Second

	store, err := postgres.NewStore(ctx, postgres.Config{
		URL:      cfg.Database.URL,
		MaxConns: cfg.Database.MaxConns,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	if err := store.WaitForReady(ctx, readiness); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	if cfg.Database.AutoMigrate {
		if err := store.Migrate(ctx); err != nil {
			logger.Fatal("Failed to migrate schema", zap.Error(err))
		}
		logger.Info("Schema migrated")
	}

	// Recent-search history: the main database or a Redis sorted set per user.
	var historyRepo recentuc.Repository
	var historyPinger healthuc.Pinger
	switch cfg.History.Driver {
	case config.HistoryRedis:
		redisStore, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.History.RedisAddrs,
			Password: cfg.History.RedisPassword,
		})
		if err != nil {
			logger.Fatal("Failed to create history store", zap.Error(err))
		}
		defer redisStore.Close()
		if err := redisStore.WaitForReady(ctx, readiness); err != nil {
			logger.Fatal("History store not ready", zap.Error(err))
		}
		historyRepo = recentrepo.NewRedis(redisStore, cfg.History.KeyPrefix)
		historyPinger = redisStore
	default:
		historyRepo = recentrepo.NewPostgres(store)
	}

	metrics.RegisterSearchMetrics()

	searchSvc := searchuc.New(
		searchrepo.New(store, searchrepo.Config{
			TextConfig:       cfg.Search.TextConfig,
			HeadlineMaxWords: cfg.Search.HeadlineMaxWords,
		}),
		searchuc.WithBrowseFacets(facet.Scope(cfg.Search.BrowseFacets)),
		searchuc.WithObserver(metrics.SearchObserver{}),
	)
	recentSvc := recentuc.New(historyRepo)
	healthSvc := healthuc.New(store, historyPinger)

	server := chiTransport.NewServer(searchSvc, recentSvc, healthSvc, logger)
	handler := server.Handler(
		jsonRecoverer(logger),
		chiMiddleware.RequestID,
		wideEventMiddleware(logger),
		cors.Handler(cors.Options{
			AllowedOrigins: cfg.HTTP.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", cfg.Auth.UserHeader},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}),
		chiTransport.IdentityMiddleware(cfg.Auth.Tokens, cfg.Auth.UserHeader),
		metrics.Middleware(),
	)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.String("path", r.URL.Path),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    "internal_error",
						Message: "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Search text stays out of the line; only its presence is logged.
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Bool("has_query", r.URL.Query().Get("q") != ""),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
