package config

import (
	"testing"
	"time"
)

func TestDefaultConfigWithRootIsValid(t *testing.T) {
	cfg := DefaultConfigWithRoot(t.TempDir())
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Risk.LeverageThreshold != 4.0 {
		t.Fatalf("expected leverage threshold 4.0, got %v", cfg.Risk.LeverageThreshold)
	}
	if cfg.Risk.MaxCycles != 2 || cfg.Risk.MaxRetries != 2 {
		t.Fatalf("expected cycle/retry budgets of 2, got %d/%d", cfg.Risk.MaxCycles, cfg.Risk.MaxRetries)
	}
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "openai_compat")
	t.Setenv("LLM_MODEL", "qwen-plus")
	t.Setenv("LLM_API_KEY", "key-from-env")
	t.Setenv("DATABASE_DSN", "user:pw@tcp(db:3306)/deals?parseTime=true")
	t.Setenv("POLL_INTERVAL", "250ms")
	t.Setenv("MAX_CYCLES", "3")

	cfg := DefaultConfigWithRoot(t.TempDir())
	cfg.loadFromEnv()

	if cfg.LLMProvider != "openai_compat" {
		t.Fatalf("provider not overridden: %s", cfg.LLMProvider)
	}
	if cfg.Model != "qwen-plus" {
		t.Fatalf("model not overridden: %s", cfg.Model)
	}
	if cfg.APIKey != "key-from-env" {
		t.Fatalf("api key not overridden")
	}
	if cfg.PollInterval != 250*time.Millisecond {
		t.Fatalf("poll interval not overridden: %v", cfg.PollInterval)
	}
	if cfg.Risk.MaxCycles != 3 {
		t.Fatalf("max cycles not overridden: %d", cfg.Risk.MaxCycles)
	}
}

func TestDeepSeekKeyIsFallbackOnly(t *testing.T) {
	t.Setenv("LLM_API_KEY", "primary")
	t.Setenv("DEEPSEEK_API_KEY", "fallback")

	cfg := DefaultConfigWithRoot(t.TempDir())
	cfg.loadFromEnv()
	if cfg.APIKey != "primary" {
		t.Fatalf("expected LLM_API_KEY to win, got %s", cfg.APIKey)
	}
}

func TestValidateRejectsNonsenseConfigs(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"inverted thresholds", func(c *Config) { c.Risk.InvestThreshold = -0.5 }},
		{"zero upside weight", func(c *Config) { c.Risk.UpsideWeight = 0 }},
		{"penalty below one", func(c *Config) { c.Risk.LeveragePenaltyMultiplier = 0.5 }},
		{"zero max cycles", func(c *Config) { c.Risk.MaxCycles = 0 }},
		{"zero max retries", func(c *Config) { c.Risk.MaxRetries = 0 }},
		{"zero poll interval", func(c *Config) { c.PollInterval = 0 }},
		{"unknown provider", func(c *Config) { c.LLMProvider = "bard" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfigWithRoot(t.TempDir())
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation failure")
			}
		})
	}
}
