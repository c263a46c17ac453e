// Package main starts the threatscope HTTP API: diagram storage, validation,
// scoring, feedback and progress analytics over JSON.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/threatscope/core/cmd/api/middleware"
	"github.com/threatscope/core/internal/config"
	"github.com/threatscope/core/internal/handlers"
	"github.com/threatscope/core/internal/rules"
	"github.com/threatscope/core/internal/scenario"
	"github.com/threatscope/core/internal/service"
	"github.com/threatscope/core/internal/store"
	"github.com/threatscope/core/internal/validation"
)

func main() {
	if err := run(os.Getenv("THREATSCOPE_CONFIG")); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	keywords, err := rules.LoadKeywords(cfg.Rules.KeywordsFile)
	if err != nil {
		return err
	}
	scenarios, err := scenario.Load(cfg.Scenarios.File)
	if err != nil {
		return err
	}
	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	engine := validation.New(rules.NewCatalog(keywords), validation.WithLogger(logger))
	svc := service.NewScoring(st, scenarios, st, engine, service.WithLogger(logger))
	h := handlers.New(svc, scenarios, logger)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newRouter(h, cfg.Server.CORSAllowedOrigin, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr, "rules", len(engine.Rules()), "scenarios", scenarios.Len())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newRouter(h *handlers.Handler, allowedOrigin string, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	h.Register(mux)
	return middleware.Logging(logger)(middleware.Cors(allowedOrigin)(mux))
}
