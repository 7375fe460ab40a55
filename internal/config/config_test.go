package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Port:               "8081",
		SupabaseURL:        "https://example.supabase.co",
		SupabaseKey:        "service-key",
		CacheTTL:           5 * time.Minute,
		CacheSize:          256,
		ProcessorInterval:  time.Hour,
		RateLimitPerMinute: 60,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "valid config with webhook",
			mutate:  func(c *Config) { c.WelcomeWebhookURL = "https://hooks.example.com/welcome" },
			wantErr: false,
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range low",
			mutate:      func(c *Config) { c.Port = "0" },
			wantErr:     true,
			errorString: "invalid port 0: must be between 1 and 65535",
		},
		{
			name:        "invalid port - out of range high",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "missing supabase url",
			mutate:      func(c *Config) { c.SupabaseURL = "" },
			wantErr:     true,
			errorString: "SUPABASE_URL is required",
		},
		{
			name:        "supabase url with bad scheme",
			mutate:      func(c *Config) { c.SupabaseURL = "ftp://example.supabase.co" },
			wantErr:     true,
			errorString: "must be 'http' or 'https'",
		},
		{
			name:        "missing supabase key",
			mutate:      func(c *Config) { c.SupabaseKey = "" },
			wantErr:     true,
			errorString: "SUPABASE_KEY is required",
		},
		{
			name:        "webhook url with bad scheme",
			mutate:      func(c *Config) { c.WelcomeWebhookURL = "gopher://hooks.example.com" },
			wantErr:     true,
			errorString: "must be 'http' or 'https'",
		},
		{
			name:        "cache ttl too small",
			mutate:      func(c *Config) { c.CacheTTL = 100 * time.Millisecond },
			wantErr:     true,
			errorString: "must be at least 1 second",
		},
		{
			name:        "cache size zero",
			mutate:      func(c *Config) { c.CacheSize = 0 },
			wantErr:     true,
			errorString: "invalid cache size 0",
		},
		{
			name:        "processor interval too small",
			mutate:      func(c *Config) { c.ProcessorInterval = time.Second },
			wantErr:     true,
			errorString: "must be at least 1 minute",
		},
		{
			name:        "rate limit zero",
			mutate:      func(c *Config) { c.RateLimitPerMinute = 0 },
			wantErr:     true,
			errorString: "invalid rate limit 0",
		},
		{
			name:    "valid trusted proxies",
			mutate:  func(c *Config) { c.TrustedProxies = []string{"203.0.113.0/24", "2001:db8::/32"} },
			wantErr: false,
		},
		{
			name:        "trusted proxy not a CIDR",
			mutate:      func(c *Config) { c.TrustedProxies = []string{"203.0.113.7"} },
			wantErr:     true,
			errorString: "invalid trusted proxy CIDR '203.0.113.7'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !strings.Contains(err.Error(), tt.errorString) {
				t.Errorf("Validate() error = %v, want it to contain %q", err, tt.errorString)
			}
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "abc"
	cfg.SupabaseURL = ""
	cfg.SupabaseKey = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, want := range []string{"invalid port", "SUPABASE_URL", "SUPABASE_KEY"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("combined error missing %q:\n%v", want, err)
		}
	}
}

func TestLoad(t *testing.T) {
	// Save original env vars
	originalVars := map[string]string{
		"PORT":                  os.Getenv("PORT"),
		"SUPABASE_URL":          os.Getenv("SUPABASE_URL"),
		"SUPABASE_KEY":          os.Getenv("SUPABASE_KEY"),
		"WELCOME_WEBHOOK_URL":   os.Getenv("WELCOME_WEBHOOK_URL"),
		"CACHE_TTL":             os.Getenv("CACHE_TTL"),
		"CACHE_SIZE":            os.Getenv("CACHE_SIZE"),
		"PROCESSOR_INTERVAL":    os.Getenv("PROCESSOR_INTERVAL"),
		"RATE_LIMIT_PER_MINUTE": os.Getenv("RATE_LIMIT_PER_MINUTE"),
		"TRUSTED_PROXIES":       os.Getenv("TRUSTED_PROXIES"),
	}

	// Clean environment
	for key := range originalVars {
		os.Unsetenv(key)
	}

	// Restore env vars at end of test
	defer func() {
		for key, value := range originalVars {
			if value != "" {
				os.Setenv(key, value)
			} else {
				os.Unsetenv(key)
			}
		}
	}()

	t.Run("default values", func(t *testing.T) {
		cfg := Load()

		if cfg.Port != "8081" {
			t.Errorf("Load() Port = %v, want 8081", cfg.Port)
		}
		if cfg.CacheTTL != 5*time.Minute {
			t.Errorf("Load() CacheTTL = %v, want 5m", cfg.CacheTTL)
		}
		if cfg.CacheSize != 256 {
			t.Errorf("Load() CacheSize = %v, want 256", cfg.CacheSize)
		}
		if cfg.ProcessorInterval != time.Hour {
			t.Errorf("Load() ProcessorInterval = %v, want 1h", cfg.ProcessorInterval)
		}
		if cfg.RateLimitPerMinute != 60 {
			t.Errorf("Load() RateLimitPerMinute = %v, want 60", cfg.RateLimitPerMinute)
		}
		if cfg.TrustedProxies != nil {
			t.Errorf("Load() TrustedProxies = %v, want nil", cfg.TrustedProxies)
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		os.Setenv("PORT", "9090")
		os.Setenv("SUPABASE_URL", "https://proj.supabase.co")
		os.Setenv("SUPABASE_KEY", "key")
		os.Setenv("WELCOME_WEBHOOK_URL", "https://hooks.example.com/x")
		os.Setenv("CACHE_TTL", "30s")
		os.Setenv("CACHE_SIZE", "64")
		os.Setenv("PROCESSOR_INTERVAL", "10m")
		os.Setenv("RATE_LIMIT_PER_MINUTE", "120")
		os.Setenv("TRUSTED_PROXIES", "203.0.113.0/24, 198.51.100.0/24")

		cfg := Load()

		if cfg.Port != "9090" {
			t.Errorf("Load() Port = %v, want 9090", cfg.Port)
		}
		if cfg.SupabaseURL != "https://proj.supabase.co" {
			t.Errorf("Load() SupabaseURL = %v", cfg.SupabaseURL)
		}
		if cfg.WelcomeWebhookURL != "https://hooks.example.com/x" {
			t.Errorf("Load() WelcomeWebhookURL = %v", cfg.WelcomeWebhookURL)
		}
		if cfg.CacheTTL != 30*time.Second {
			t.Errorf("Load() CacheTTL = %v, want 30s", cfg.CacheTTL)
		}
		if cfg.CacheSize != 64 {
			t.Errorf("Load() CacheSize = %v, want 64", cfg.CacheSize)
		}
		if cfg.ProcessorInterval != 10*time.Minute {
			t.Errorf("Load() ProcessorInterval = %v, want 10m", cfg.ProcessorInterval)
		}
		if cfg.RateLimitPerMinute != 120 {
			t.Errorf("Load() RateLimitPerMinute = %v, want 120", cfg.RateLimitPerMinute)
		}
		if len(cfg.TrustedProxies) != 2 || cfg.TrustedProxies[1] != "198.51.100.0/24" {
			t.Errorf("Load() TrustedProxies = %v, want two trimmed CIDRs", cfg.TrustedProxies)
		}
	})

	t.Run("invalid environment variables use defaults", func(t *testing.T) {
		os.Setenv("CACHE_TTL", "invalid")
		os.Setenv("CACHE_SIZE", "invalid")

		cfg := Load()

		if cfg.CacheTTL != 5*time.Minute {
			t.Errorf("Load() CacheTTL = %v, want 5m (default for invalid input)", cfg.CacheTTL)
		}
		if cfg.CacheSize != 256 {
			t.Errorf("Load() CacheSize = %v, want 256 (default for invalid input)", cfg.CacheSize)
		}
	})
}
