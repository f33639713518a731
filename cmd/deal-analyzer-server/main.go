package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/deal-analyzer/internal/config"
	"github.com/iwvelando/deal-analyzer/internal/server"
	"github.com/iwvelando/deal-analyzer/pkg/constants"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	configLocation := flag.String("config", constants.DefaultServerConfigFile, "path to server configuration file")
	envFile := flag.String("env-file", ".env", "optional environment file loaded before configuration")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	maxUploadSize := flag.String("max-upload-size", "", "listing page upload limit override (e.g. 512K, 4M)")
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		return
	}

	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load env file %s\", \"error\": \"%v\"}\n", *envFile, err)
			os.Exit(1)
		}
	}

	cfg, err := server.LoadConfig(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	if *maxUploadSize != "" {
		size, err := server.ParseSize(*maxUploadSize)
		if err != nil {
			fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"invalid max upload size\", \"error\": \"%v\"}\n", err)
			os.Exit(1)
		}
		cfg.SetUploadSizeBytes(size)
	}

	analyzerConf := cfg.Analyzer()
	logger, err := config.NewLogger(cfg.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	tables, err := analyzerConf.ReferenceTables()
	if err != nil {
		logger.Fatal("failed to load reference tables",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	deps := server.Dependencies{
		Tables:  tables,
		Options: cfg.Analysis,
	}
	if cfg.Listings.DirectoryFile != "" {
		directory, err := analyzerConf.ListingDirectory(logger)
		if err != nil {
			logger.Fatal("failed to load listing directory",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		deps.Listings = directory
	}

	handler, err := server.NewHandler(logger, deps, cfg.UploadSizeBytes(), version)
	if err != nil {
		logger.Fatal("failed to build handler",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			zap.String("op", "main"),
			zap.String("address", cfg.Address),
			zap.String("tables_version", tables.TablesVersion()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("shutdown signal received", zap.String("op", "main"))
	case err := <-serverErr:
		logger.Fatal("server failed",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeoutDuration())
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
