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

	"github.com/iwvelando/ecoprice/internal/config"
	"github.com/iwvelando/ecoprice/internal/history"
	"github.com/iwvelando/ecoprice/internal/logging"
	"github.com/iwvelando/ecoprice/internal/report"
	"github.com/iwvelando/ecoprice/internal/server"
	"github.com/iwvelando/ecoprice/pkg/constants"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	serverConfigLocation := flag.String("server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to pricing configuration file (report and history settings)")
	address := flag.String("address", "", "listen address override")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	_ = godotenv.Load()

	serverConf, err := server.LoadConfig(*serverConfigLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", *serverConfigLocation, err)
		os.Exit(1)
	}
	if *address != "" {
		serverConf.Address = *address
	}

	logger, err := logging.New(serverConf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	deps, closeDeps := buildDependencies(logger, *configLocation)
	defer closeDeps()

	srv := &http.Server{
		Addr:              serverConf.Address,
		Handler:           server.NewHandler(logger, serverConf.UploadSizeBytes(), version, deps),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       serverConf.Timeout(),
		WriteTimeout:      serverConf.Timeout(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", zap.String("op", "main"), zap.Error(err))
		}
	}()

	logger.Info("starting ecoprice server",
		zap.String("op", "main"),
		zap.String("address", serverConf.Address),
		zap.Int64("maxUploadSize", serverConf.UploadSizeBytes()),
		zap.String("version", version),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server failed",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}

// buildDependencies wires the report generator and run history from the
// pricing configuration. A missing file leaves both disabled.
func buildDependencies(logger *zap.Logger, path string) (server.Dependencies, func()) {
	deps := server.Dependencies{}
	noop := func() {}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		logger.Info("no pricing configuration found, report and history disabled",
			zap.String("op", "main"),
			zap.String("path", path),
		)
		return deps, noop
	}

	conf, err := config.LoadConfiguration(path)
	if err != nil {
		logger.Fatal("failed to load pricing configuration",
			zap.String("op", "main"),
			zap.String("path", path),
			zap.Error(err),
		)
	}
	deps.CurrencySymbol = conf.Output.CurrencySymbol

	if conf.Report.Enabled {
		provider, err := report.NewProvider(conf.Report, &http.Client{})
		if err != nil {
			logger.Warn("report provider unavailable",
				zap.String("op", "main"),
				zap.Error(err),
			)
		} else {
			deps.Reports = report.NewGenerator(logger, provider, conf.Report.Timeout())
		}
	}

	recorder, err := history.Open(conf.History.Path)
	if err != nil {
		logger.Warn("failed to open run history",
			zap.String("op", "main"),
			zap.String("path", conf.History.Path),
			zap.Error(err),
		)
		return deps, noop
	}
	deps.History = recorder

	return deps, func() {
		if err := recorder.Close(); err != nil {
			logger.Warn("failed to close run history", zap.String("op", "main"), zap.Error(err))
		}
	}
}
