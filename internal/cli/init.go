// Package cli consolidates the initialization shared by cmd/minhagrana and
// cmd/relatorio.
package cli

import (
	"os"

	"github.com/Glivan2903/minhagrana/internal/access"
	"github.com/Glivan2903/minhagrana/internal/config"
	"github.com/Glivan2903/minhagrana/internal/log"
	"github.com/Glivan2903/minhagrana/internal/notify"
	"github.com/Glivan2903/minhagrana/internal/services"
	"github.com/Glivan2903/minhagrana/internal/storage"
)

// SetupLogger initializes structured logging with default settings.
func SetupLogger() *log.Logger {
	return log.New(log.DefaultConfig())
}

// LoadAndValidateConfig loads configuration and validates it, exiting the
// process on failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// BuildService wires the repository, authenticator and finance service from
// the given configuration, exiting the process when Supabase is unreachable.
func BuildService(cfg *config.Config, logger *log.Logger) (*services.FinanceService, *storage.SupabaseRepository) {
	repo, err := storage.NewSupabaseRepository(cfg.SupabaseURL, cfg.SupabaseKey)
	if err != nil {
		logger.Error("Failed to initialize Supabase repository", "error", err)
		os.Exit(1)
	}
	auth := storage.NewAuthenticator(cfg.SupabaseURL, cfg.SupabaseKey)
	notifier := notify.NewWelcomeNotifier(cfg.WelcomeWebhookURL, logger)
	svc := services.NewFinanceService(repo, auth, access.NewGate(), notifier, logger)
	return svc, repo
}
