package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Glivan2903/minhagrana/internal/charts"
	"github.com/Glivan2903/minhagrana/internal/cli"
	apphttp "github.com/Glivan2903/minhagrana/internal/http"
	"github.com/Glivan2903/minhagrana/internal/log"
	"github.com/Glivan2903/minhagrana/internal/services"
)

func main() {
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)
	svc, _ := cli.BuildService(cfg, logger)
	processor := services.NewRecurringProcessor(svc, logger)

	srv := apphttp.NewServer(":"+cfg.Port, svc, charts.NewRenderer(), apphttp.Options{
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		CacheTTL:           cfg.CacheTTL,
		CacheSize:          cfg.CacheSize,
		TrustedProxies:     cfg.TrustedProxies,
	})
	srv.Handler = log.Middleware(logger)(srv.Handler)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(cfg.ProcessorInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case now := <-ticker.C:
				if _, err := processor.ProcessAll(ctx, now); err != nil {
					logger.Error("Due-entry sweep failed", "error", err)
				}
			}
		}
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
