// Command memoryd runs the memory core as an HTTP service, adapted from
// the teacher's cmd/api/main.go: load config, wire the container, start
// the chi router, wait for a signal, shut down gracefully. Exit codes
// follow spec §6 rather than the teacher's bare log.Fatalf calls.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"backend2/application/ports"
	"backend2/infrastructure/config"
	"backend2/infrastructure/di"
	"backend2/interfaces/http/rest"
)

const (
	exitOK               = 0
	exitConfigError      = 64 // EX_USAGE
	exitIOError          = 74 // EX_IOERR
	exitStoreUnavailable = 75 // EX_TEMPFAIL
	exitUnexpected       = 1
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("configuration error: %v", err)
		return exitConfigError
	}

	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		switch {
		case errors.Is(err, ports.ErrStoreUnavailable):
			log.Printf("store unavailable: %v", err)
			return exitStoreUnavailable
		default:
			log.Printf("failed to initialize: %v", err)
			return exitIOError
		}
	}
	defer func() {
		if closeErr := container.Close(context.Background()); closeErr != nil {
			container.Logger.Error("error closing container", zap.Error(closeErr))
		}
	}()

	router := rest.NewRouter(
		container.CommandBus,
		container.QueryBus,
		container.RateLimiter,
		container.Config,
		container.Logger,
	)

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      router.Setup(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		container.Logger.Info("starting server",
			zap.String("address", cfg.ServerAddress),
			zap.String("environment", cfg.Environment),
			zap.String("storeBackend", string(cfg.StoreBackend)),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
			return
		}
		serveErr <- nil
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		if err != nil {
			container.Logger.Error("server failed to start", zap.Error(err))
			return exitUnexpected
		}
	case <-sigChan:
		container.Logger.Info("shutting down server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		container.Logger.Error("server shutdown error", zap.Error(err))
		return exitUnexpected
	}

	return exitOK
}
