package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP Server
	Port string

	// Supabase project
	SupabaseURL string
	SupabaseKey string

	// Signup webhook (optional, empty disables delivery)
	WelcomeWebhookURL string

	// Dashboard cache
	CacheTTL  time.Duration
	CacheSize int

	// Due-entry processor
	ProcessorInterval time.Duration

	// Rate limiting (requests per minute per client IP on mutating routes)
	RateLimitPerMinute int

	// Extra proxy CIDRs whose forwarding headers are trusted, on top of the
	// private ranges trusted by default
	TrustedProxies []string
}

// Load reads configuration from the environment, after sourcing a local
// .env file when one exists.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port: getEnv("PORT", "8081"),

		SupabaseURL: getEnv("SUPABASE_URL", ""),
		SupabaseKey: getEnv("SUPABASE_KEY", ""),

		WelcomeWebhookURL: getEnv("WELCOME_WEBHOOK_URL", ""),

		CacheTTL:  getEnvDuration("CACHE_TTL", 5*time.Minute),
		CacheSize: getEnvInt("CACHE_SIZE", 256),

		ProcessorInterval: getEnvDuration("PROCESSOR_INTERVAL", time.Hour),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),

		TrustedProxies: getEnvList("TRUSTED_PROXIES"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate Supabase project settings
	if c.SupabaseURL == "" {
		errors = append(errors, "SUPABASE_URL is required")
	} else if parsedURL, err := url.Parse(c.SupabaseURL); err != nil {
		errors = append(errors, fmt.Sprintf("invalid Supabase URL '%s': %v", c.SupabaseURL, err))
	} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		errors = append(errors, fmt.Sprintf("invalid Supabase URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
	}
	if c.SupabaseKey == "" {
		errors = append(errors, "SUPABASE_KEY is required")
	}

	// Validate webhook URL if provided
	if c.WelcomeWebhookURL != "" {
		if parsedURL, err := url.Parse(c.WelcomeWebhookURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid webhook URL '%s': %v", c.WelcomeWebhookURL, err))
		} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid webhook URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
		}
	}

	// Validate cache configuration
	if c.CacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be at least 1 second", c.CacheTTL))
	} else if c.CacheTTL > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be at most 24 hours", c.CacheTTL))
	}
	if c.CacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid cache size %d: must be at least 1", c.CacheSize))
	} else if c.CacheSize > 100000 {
		errors = append(errors, fmt.Sprintf("invalid cache size %d: must be at most 100000", c.CacheSize))
	}

	// Validate processor interval
	if c.ProcessorInterval < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid processor interval %v: must be at least 1 minute", c.ProcessorInterval))
	} else if c.ProcessorInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid processor interval %v: must be at most 24 hours", c.ProcessorInterval))
	}

	// Validate rate limit
	if c.RateLimitPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1", c.RateLimitPerMinute))
	}

	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			errors = append(errors, fmt.Sprintf("invalid trusted proxy CIDR '%s': %v", cidr, err))
		}
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
