package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Risk holds every scoring and control constant used by the decision engine,
// the conflict resolver and the review state machine. It is passed by value
// into those components so scoring stays independently testable with
// arbitrary configurations.
type Risk struct {
	// Leverage
	LeverageThreshold         float64 `json:"leverage_threshold"`
	LeveragePenaltyMultiplier float64 `json:"leverage_penalty_multiplier"`

	// Score weights
	UpsideWeight          float64 `json:"upside_weight"`
	DownsideWeightNormal  float64 `json:"downside_weight_normal"`
	DownsideWeightLevered float64 `json:"downside_weight_levered"`

	// Decision thresholds
	InvestThreshold float64 `json:"invest_threshold"`
	PassThreshold   float64 `json:"pass_threshold"`

	// Conflict classification
	ConfidenceGapThreshold float64 `json:"confidence_gap_threshold"`
	AmbiguousBand          float64 `json:"ambiguous_band"`
	StructuralPenalty      float64 `json:"structural_penalty"`

	// Control
	MaxCycles  int `json:"max_cycles"`
	MaxRetries int `json:"max_retries"`
}

// DefaultRisk returns the production scoring constants.
func DefaultRisk() Risk {
	return Risk{
		LeverageThreshold:         4.0,
		LeveragePenaltyMultiplier: 2.0,

		UpsideWeight:          1.2,
		DownsideWeightNormal:  1.0,
		DownsideWeightLevered: 1.3,

		InvestThreshold: 0.45,
		PassThreshold:   -0.15,

		ConfidenceGapThreshold: 0.40,
		AmbiguousBand:          0.20,
		StructuralPenalty:      0.15,

		MaxCycles:  2,
		MaxRetries: 2,
	}
}

type Config struct {
	ProjectDir string `json:"project_dir"`

	// Reviewer model
	LLMProvider string `json:"llm_provider"` // deepseek | openai | openai_compat
	Model       string `json:"model"`
	BaseURL     string `json:"base_url"`
	APIKey      string `json:"api_key"`
	MaxTokens   int    `json:"max_tokens"`

	// Deal queue (MySQL DSN)
	DatabaseDSN string `json:"database_dsn"`

	// Worker loop
	PollInterval     time.Duration `json:"poll_interval"`
	ProducerInterval time.Duration `json:"producer_interval"`

	LogLevel  string `json:"log_level"`  // debug | info | warn | error
	LogFormat string `json:"log_format"` // text | json
	Debug     bool   `json:"debug"`

	Risk Risk `json:"risk"`
}

func DefaultConfig() *Config {
	currentDir, _ := os.Getwd()
	cfg := DefaultConfigWithRoot(currentDir)

	// Load environment variables from .env file
	_ = godotenv.Load()
	cfg.loadFromEnv()

	return cfg
}

// DefaultConfigWithRoot builds defaults without touching the environment.
func DefaultConfigWithRoot(root string) *Config {
	return &Config{
		ProjectDir: root,

		LLMProvider: "deepseek",
		Model:       "deepseek-chat",
		BaseURL:     "https://api.deepseek.com/v1",
		MaxTokens:   2000,

		DatabaseDSN: "dealdesk:dealdesk@tcp(127.0.0.1:3306)/dealdesk?parseTime=true",

		PollInterval:     time.Second,
		ProducerInterval: 6 * time.Second,

		LogLevel:  "info",
		LogFormat: "text",

		Risk: DefaultRisk(),
	}
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("PROJECT_DIR"); val != "" {
		c.ProjectDir = val
	}
	if val := os.Getenv("LLM_PROVIDER"); val != "" {
		c.LLMProvider = val
	}
	if val := os.Getenv("LLM_MODEL"); val != "" {
		c.Model = val
	}
	if val := os.Getenv("LLM_BASE_URL"); val != "" {
		c.BaseURL = val
	}
	if val := os.Getenv("LLM_API_KEY"); val != "" {
		c.APIKey = val
	}
	if val := os.Getenv("DEEPSEEK_API_KEY"); val != "" && c.APIKey == "" {
		c.APIKey = val
	}
	if val := os.Getenv("LLM_MAX_TOKENS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.MaxTokens = v
		}
	}
	if val := os.Getenv("DATABASE_DSN"); val != "" {
		c.DatabaseDSN = val
	}
	if val := os.Getenv("POLL_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			c.PollInterval = d
		}
	}
	if val := os.Getenv("PRODUCER_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			c.ProducerInterval = d
		}
	}
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.LogLevel = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.LogFormat = val
	}
	if val := os.Getenv("DEALDESK_DEBUG"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Debug = enabled
		}
	}
	if val := os.Getenv("MAX_CYCLES"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.Risk.MaxCycles = v
		}
	}
	if val := os.Getenv("MAX_RETRIES"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.Risk.MaxRetries = v
		}
	}
}

// Validate fails fast on configurations that would make scoring or control
// flow nonsensical. Called before any stage executes.
func (c *Config) Validate() error {
	r := c.Risk
	if r.InvestThreshold <= r.PassThreshold {
		return fmt.Errorf("invest threshold %.2f must exceed pass threshold %.2f", r.InvestThreshold, r.PassThreshold)
	}
	if r.UpsideWeight <= 0 || r.DownsideWeightNormal <= 0 || r.DownsideWeightLevered <= 0 {
		return fmt.Errorf("score weights must be positive")
	}
	if r.LeveragePenaltyMultiplier < 1 {
		return fmt.Errorf("leverage penalty multiplier %.2f must be >= 1", r.LeveragePenaltyMultiplier)
	}
	if r.ConfidenceGapThreshold <= 0 || r.AmbiguousBand <= 0 {
		return fmt.Errorf("conflict thresholds must be positive")
	}
	if r.MaxCycles < 1 {
		return fmt.Errorf("max cycles %d must be >= 1", r.MaxCycles)
	}
	if r.MaxRetries < 1 {
		return fmt.Errorf("max retries %d must be >= 1", r.MaxRetries)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	switch c.LLMProvider {
	case "deepseek", "openai", "openai_compat":
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLMProvider)
	}
	return nil
}

func loadConfigFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", filepath.Base(path), err)
	}
	return nil
}
