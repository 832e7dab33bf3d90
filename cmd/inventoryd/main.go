// Package main boots the warehouse inventory query and edit HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fairyhunter13/warehouse-inventory-simulator/internal/config"
	"github.com/fairyhunter13/warehouse-inventory-simulator/internal/history"
	httpapi "github.com/fairyhunter13/warehouse-inventory-simulator/internal/http"
	"github.com/fairyhunter13/warehouse-inventory-simulator/internal/obs"
	"github.com/fairyhunter13/warehouse-inventory-simulator/internal/rag"
	"github.com/fairyhunter13/warehouse-inventory-simulator/internal/store"
)

func main() {
	cfg := config.Load()
	obs.InitLogger()
	obs.Logger.Info("service_starting")

	if cfg.GeminiAPIKey == "" {
		obs.Logger.Error("missing_api_key", "hint", "set GEMINI_API_KEY")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st := store.New(cfg.CSVPath, cfg.Sections)

	llm, err := rag.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		obs.Logger.Error("gemini_client_error", "error", err)
		os.Exit(1)
	}
	defer llm.Close()

	hist, err := history.Open(cfg.HistoryDBPath, cfg.HistoryLimit)
	if err != nil {
		obs.Logger.Error("history_open_error", "error", err)
		os.Exit(1)
	}
	defer hist.Close()

	svc := rag.NewService(st, llm, hist, cfg.RetrievalK)
	app := httpapi.NewApp(cfg, st, svc, hist)
	mux := httpapi.NewRouter(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		obs.Logger.Info("http_listen", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			obs.Logger.Error("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigc
	obs.Logger.Info("shutdown_signal", "signal", s.String())

	ctxSrv, cancelSrv := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelSrv()
	if err := srv.Shutdown(ctxSrv); err != nil {
		obs.Logger.Error("http_shutdown_error", "error", err)
	}
	obs.Logger.Info("service_stopped")
}
