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

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/redwards/digitaltwin/internal/config"
	"github.com/redwards/digitaltwin/internal/db"
	dbRedis "github.com/redwards/digitaltwin/internal/db/redis"
	"github.com/redwards/digitaltwin/internal/domain"
	logpkg "github.com/redwards/digitaltwin/internal/logger"
	"github.com/redwards/digitaltwin/internal/metrics"
	"github.com/redwards/digitaltwin/internal/repository/chatlog"
	"github.com/redwards/digitaltwin/internal/repository/content"
	"github.com/redwards/digitaltwin/internal/repository/embcache"
	"github.com/redwards/digitaltwin/internal/repository/memkv"
	chiTransport "github.com/redwards/digitaltwin/internal/transport/chi"
	"github.com/redwards/digitaltwin/internal/transport/gemini"
	openaiTransport "github.com/redwards/digitaltwin/internal/transport/openai"
	chatuc "github.com/redwards/digitaltwin/internal/usecase/chat"
	healthuc "github.com/redwards/digitaltwin/internal/usecase/health"
	indexuc "github.com/redwards/digitaltwin/internal/usecase/index"
	"github.com/redwards/digitaltwin/internal/usecase/retrieval"
	"github.com/redwards/digitaltwin/internal/version"
)

func main() {
	// Local development convenience; a missing .env is not an error.
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting digital twin API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	ctx := context.Background()
	store := buildStore(ctx, cfg, logger)
	defer store.Close()

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterChatMetrics()

	embedder, embHealth := buildEmbedder(ctx, cfg, store, logger)
	completer := buildCompleter(ctx, cfg, logger)

	contentStore, err := content.Load(cfg.Content.Path, logger)
	if err != nil {
		logger.Fatal("Failed to load knowledge base", zap.Error(err))
	}

	var retrievalEmbedder retrieval.Embedder
	var indexEmbedder indexuc.Embedder
	if embedder != nil {
		retrievalEmbedder = embedder
		indexEmbedder = embedder
	}

	retriever := retrieval.New(
		retrievalEmbedder, contentStore, retrieval.DefaultWeights(),
		cfg.Retrieval.TopK, cfg.Owner.Name, logger,
	)
	chatSvc := chatuc.New(
		retriever, completer, contentStore, chatlog.New(store, logger),
		cfg.Completion.Provider, cfg.Completion.Model,
		cfg.Owner.Name, cfg.Owner.Email, logger,
	)
	indexSvc := indexuc.New(indexEmbedder, contentStore, logger)
	healthSvc := healthuc.New(store, embHealth, contentStore)

	// Embed the knowledge base in the background; keyword search serves
	// traffic until vectors land.
	go func() {
		reindexCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
		defer cancel()
		if _, err := indexSvc.Reindex(reindexCtx); err != nil {
			logger.Warn("Startup reindex aborted", zap.Error(err))
		}
	}()

	server := chiTransport.NewServer(chatSvc, indexSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Register(r, chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Handle("/metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
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

// buildStore connects to Redis when addresses are configured, otherwise
// falls back to the bounded in-memory store.
func buildStore(ctx context.Context, cfg config.Config, logger *zap.Logger) db.KV {
	if len(cfg.Database.Addrs) == 0 {
		logger.Info("No database configured, using in-memory store",
			zap.Int("max_entries", cfg.Database.CacheMaxEntries))
		return memkv.NewStore(cfg.Database.CacheMaxEntries)
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")
	return store
}

// buildEmbedder assembles the embedding chain: provider -> cache. A missing
// API key disables semantic search instead of failing startup.
func buildEmbedder(ctx context.Context, cfg config.Config, store db.KV, logger *zap.Logger) (*embcache.CachedEmbedder, healthuc.EmbeddingChecker) {
	if cfg.Embedding.APIKey == "" {
		logger.Warn("No embedding API key configured, semantic search disabled")
		return nil, nil
	}

	var base domain.Embedder
	switch cfg.Embedding.Provider {
	case "gemini":
		client, err := gemini.NewClient(ctx, &gemini.Config{
			APIKey:          cfg.Embedding.APIKey,
			EmbeddingModel:  cfg.Embedding.Model,
			CompletionModel: cfg.Completion.Model,
			Logger:          logger,
		})
		if err != nil {
			logger.Fatal("Failed to create gemini client", zap.Error(err))
		}
		base = client
	default:
		base = openaiTransport.NewEmbedder(&openaiTransport.Config{
			APIKey:     cfg.Embedding.APIKey,
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
			Provider:   cfg.Embedding.Provider,
			Logger:     logger,
		})
	}

	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
	)

	return embcache.New(base, store, metrics.EmbeddingCacheTotal, logger),
		newEmbeddingHealthChecker(base)
}

// buildCompleter creates the completion provider, or nil when unconfigured.
func buildCompleter(ctx context.Context, cfg config.Config, logger *zap.Logger) chatuc.Completer {
	if cfg.Completion.APIKey == "" {
		logger.Warn("No completion API key configured, chat will return an operator diagnostic")
		return nil
	}

	switch cfg.Completion.Provider {
	case "gemini":
		client, err := gemini.NewClient(ctx, &gemini.Config{
			APIKey:          cfg.Completion.APIKey,
			EmbeddingModel:  cfg.Embedding.Model,
			CompletionModel: cfg.Completion.Model,
			Logger:          logger,
		})
		if err != nil {
			logger.Fatal("Failed to create gemini client", zap.Error(err))
		}
		return client
	default:
		return openaiTransport.NewCompleter(&openaiTransport.Config{
			APIKey:  cfg.Completion.APIKey,
			BaseURL: cfg.Completion.BaseURL,
			Model:   cfg.Completion.Model,
			Logger:  logger,
		})
	}
}

// embeddingHealthChecker wraps domain.Embedder to implement health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
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

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
