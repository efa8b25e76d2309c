// Package bootstrap builds the collaborators selected by the configuration
// and runs the HTTP API.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	goredis "github.com/redis/go-redis/v9"

	httpadapter "github.com/PabloGalante/mandalart-agent/internal/adapters/http"
	"github.com/PabloGalante/mandalart-agent/internal/adapters/llm"
	firestorestore "github.com/PabloGalante/mandalart-agent/internal/adapters/storage/firestore"
	memstore "github.com/PabloGalante/mandalart-agent/internal/adapters/storage/memory"
	redisstore "github.com/PabloGalante/mandalart-agent/internal/adapters/storage/redis"
	"github.com/PabloGalante/mandalart-agent/internal/app/board"
	"github.com/PabloGalante/mandalart-agent/internal/app/planner"
	"github.com/PabloGalante/mandalart-agent/internal/config"
	"github.com/PabloGalante/mandalart-agent/internal/domain"
	"github.com/PabloGalante/mandalart-agent/internal/observability"
)

const shutdownTimeout = 10 * time.Second

// NewLLMClient returns the mock client or a Gemini client.
func NewLLMClient(ctx context.Context, cfg *config.Config) (domain.LLMClient, error) {
	log := observability.WithFields("component", "bootstrap")

	if cfg.UseMockLLM {
		log.Info("using mock LLM client")
		return llm.NewMockLLM(), nil
	}

	client, err := llm.NewGeminiClient(ctx, llm.GeminiConfig{
		Project:     cfg.GCPProjectID,
		Location:    cfg.GCPLocation,
		APIKey:      cfg.GeminiAPIKey,
		ModelName:   cfg.ModelName,
		Temperature: cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing Gemini client: %w", err)
	}
	log.Info("using Gemini LLM client", "model", cfg.ModelName, "vertex", cfg.GCPProjectID != "")
	return client, nil
}

// NewBoardStore opens the configured board store. The returned close
// function is never nil.
func NewBoardStore(ctx context.Context, cfg *config.Config) (domain.BoardStore, func() error, error) {
	log := observability.WithFields("component", "bootstrap")
	noop := func() error { return nil }

	switch cfg.StorageBackend {
	case config.StorageFirestore:
		log.Info("using Firestore storage", "project", cfg.GCPProjectID)
		fs, err := firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			return nil, noop, fmt.Errorf("initializing Firestore store: %w", err)
		}
		return fs, fs.Close, nil

	case config.StorageRedis:
		log.Info("using Redis storage", "addr", cfg.RedisAddr)
		rs := redisstore.NewStore(&goredis.Options{Addr: cfg.RedisAddr}, "")
		if err := rs.Ping(ctx); err != nil {
			_ = rs.Close()
			return nil, noop, fmt.Errorf("connecting to redis at %s: %w", cfg.RedisAddr, err)
		}
		return rs, rs.Close, nil

	default:
		log.Info("using in-memory storage")
		return memstore.NewBoardStore(), noop, nil
	}
}

// NewHandler wires the planner, the board registry and the HTTP adapter.
func NewHandler(client domain.LLMClient, store domain.BoardStore) http.Handler {
	svc := planner.NewService(client)
	return httpadapter.NewServer(board.NewRegistry(svc, store))
}

// Serve runs the HTTP API until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, cfg *config.Config) error {
	client, err := NewLLMClient(ctx, cfg)
	if err != nil {
		return err
	}

	store, closeStore, err := NewBoardStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			observability.Logger().Warn("closing board store", "error", err)
		}
	}()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           NewHandler(client, store),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log := observability.WithFields("component", "server", "addr", srv.Addr)

	errCh := make(chan error, 1)
	go func() {
		log.Info("mandalart API listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
