// Package main runs the ShortHub coordinator bridge: a loopback HTTP server
// that receives action messages from the browser extension and answers with
// result envelopes.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/shorthub/coordinator/internal/app"
	"github.com/shorthub/coordinator/internal/config"
	"github.com/shorthub/coordinator/internal/logger"
	"github.com/shorthub/coordinator/internal/server/handler/http"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run starts the bridge and blocks until it stops. It returns the process
// exit code so that deferred cleanup always runs before exit.
func run(args []string) int {
	// Parse command-line, environment and file configuration.
	options, err := config.Parse("coordinator", args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	zapLogger := log.Log

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Wire storage, session, gateway and router; restore the persisted session.
	coordinator, err := app.Build(ctx, options, zapLogger)
	if err != nil {
		zapLogger.Error("cannot build coordinator", zap.Error(err))
		return 1
	}
	defer func() { _ = coordinator.Close() }()

	// Build the HTTP bridge with middleware and routes.
	messageHandler := &http.MessageHandler{Router: coordinator.Router, Log: zapLogger}
	router := http.NewRouter(messageHandler, options.AllowedOrigins, zapLogger)

	server := &nethttp.Server{
		Addr:              options.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("shutdown", zap.Error(err))
		}
	}()

	zapLogger.Info("starting bridge", zap.String("addr", options.Address))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		zapLogger.Error("failed to start bridge", zap.Error(err))
		return 1
	}
	zapLogger.Info("bridge stopped")
	return 0
}
