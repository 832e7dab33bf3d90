// Package main runs the warehouse activity simulator: it seeds the
// inventory file when absent and applies random warehouse events on a
// fixed interval until stopped.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fairyhunter13/warehouse-inventory-simulator/internal/config"
	"github.com/fairyhunter13/warehouse-inventory-simulator/internal/generator"
	"github.com/fairyhunter13/warehouse-inventory-simulator/internal/obs"
	"github.com/fairyhunter13/warehouse-inventory-simulator/internal/store"
)

func main() {
	cfg := config.Load()
	obs.InitLogger()
	obs.Logger.Info("generator_starting", "csv_path", cfg.CSVPath, "tick_interval", cfg.TickInterval.String())

	st := store.New(cfg.CSVPath, cfg.Sections)
	gen := generator.New(cfg, st)

	if err := gen.Seed(); err != nil {
		obs.Logger.Error("seed_error", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		s := <-sigc
		obs.Logger.Info("shutdown_signal", "signal", s.String())
		cancel()
	}()

	gen.Run(ctx)

	ticks, applied, failures := gen.Metrics()
	obs.Logger.Info("generator_stopped", "ticks", ticks, "events_applied", applied, "failures", failures)
}
