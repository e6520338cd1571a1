package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/net/netutil"
	"golang.org/x/sync/errgroup"

	"github.com/yegors/skytrack/internal/api"
	"github.com/yegors/skytrack/internal/config"
	"github.com/yegors/skytrack/internal/lookup"
	"github.com/yegors/skytrack/internal/render"
	"github.com/yegors/skytrack/internal/views"
	"github.com/yegors/skytrack/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "configs/config.toml", "path to the TOML config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "skytrack: %v\n", err)
		return 1
	}

	log, err := logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "skytrack: %v\n", err)
		return 1
	}
	defer func() { _ = log.Close() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := serve(ctx, cfg, log); err != nil {
		log.Error("Server stopped with error", logger.Error(err))
		return 1
	}
	return 0
}

func serve(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	if cfg.Reference.APIKey == "" {
		log.Warn("Reference API key is not configured; aircraft, helicopter and airline searches will fail")
	}
	if cfg.FlightTracking.APIKey == "" {
		log.Warn("Flight tracking API key is not configured; flight searches will fail")
	}

	registry := views.New(cfg.Reference, cfg.FlightTracking)
	fetchers := map[views.Provider]lookup.Fetcher{
		views.ProviderReference:      lookup.NewClient(cfg.Reference.RequestTimeout(), log),
		views.ProviderFlightTracking: lookup.NewClient(cfg.FlightTracking.RequestTimeout(), log),
	}

	sessions, err := api.NewSessionStore(cfg.Sessions.Capacity, registry, fetchers, log)
	if err != nil {
		return err
	}

	renderer, err := render.New()
	if err != nil {
		return err
	}

	handler := api.NewHandler(ctx, registry, sessions, fetchers, renderer, cfg, log)
	router := api.NewRouter(handler, registry, cfg, log)

	srv := &http.Server{
		Handler:      router.Routes(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	ln, err := net.Listen("tcp", cfg.Server.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Server.Addr(), err)
	}
	if cfg.Server.MaxConnections > 0 {
		ln = netutil.LimitListener(ln, cfg.Server.MaxConnections)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Starting HTTP server",
			logger.String("addr", ln.Addr().String()),
			logger.Int("max_connections", cfg.Server.MaxConnections),
		)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
