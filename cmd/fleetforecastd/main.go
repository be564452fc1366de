package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	fleetforecast "github.com/IEncryptSaad/FLEET-UTILLIZATION-FORECASTING"
	"github.com/IEncryptSaad/FLEET-UTILLIZATION-FORECASTING/config"
	"github.com/IEncryptSaad/FLEET-UTILLIZATION-FORECASTING/logger"
	"github.com/IEncryptSaad/FLEET-UTILLIZATION-FORECASTING/server"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "", "config file path, defaults apply when empty")
	flag.Parse()

	// Load config
	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadWithEnv(*configPath)
	} else {
		cfg, err = config.Default()
	}
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	l, err := logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}

	l.Info("starting fleetforecastd",
		logger.String("env", cfg.Environment),
		logger.Int("port", cfg.Server.Port),
		logger.String("strategy", cfg.Forecast.Strategy),
	)

	var cache *fleetforecast.Cache
	if !cfg.Cache.Disabled {
		cache = fleetforecast.NewCache()
	}
	handler := server.NewForecastHandler(l, fleetforecast.New(nil), cache,
		server.WithRunDefaults(cfg.Params()),
		server.WithDatasetOptions(cfg.DatasetOptions()),
		server.WithMaxUpload(cfg.Server.MaxUploadBytes),
	)

	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}

	srv := server.NewServer(l, handler,
		server.WithPort(cfg.Server.Port),
		server.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		server.WithMetricsPath(metricsPath),
	)

	if err := srv.Start(); err != nil {
		log.Fatalf("http server start failed: %v", err)
	}

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	l.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), srv.ShutdownTimeout())
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		l.Error("http shutdown error", logger.Error(err))
		os.Exit(1)
	}

	l.Info("shutdown complete")
}
