// Package config handles configuration loading for ChipSight.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration. It is immutable
// after Load; every component receives it by injection at construction.
type Config struct {
	LLM       LLMConfig       `mapstructure:"llm"       yaml:"llm"`
	News      NewsConfig      `mapstructure:"news"      yaml:"news"`
	Monitor   MonitorConfig   `mapstructure:"monitor"   yaml:"monitor"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" yaml:"scheduler"`
	API       APIConfig       `mapstructure:"api"       yaml:"api"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"`
}

// LLMConfig holds LLM provider configuration.
type LLMConfig struct {
	Primary         string  `mapstructure:"primary"          yaml:"primary"` // "openai" or "anthropic"
	OpenAIKey       string  `mapstructure:"openai_key"       yaml:"openai_key"`
	OpenAIBaseURL   string  `mapstructure:"openai_base_url"  yaml:"openai_base_url"`
	AnthropicKey    string  `mapstructure:"anthropic_key"    yaml:"anthropic_key"`
	Model           string  `mapstructure:"model"            yaml:"model"`
	FallbackModel   string  `mapstructure:"fallback_model"   yaml:"fallback_model"`
	Temperature     float64 `mapstructure:"temperature"      yaml:"temperature"`
	NarrativeTokens int     `mapstructure:"narrative_tokens" yaml:"narrative_tokens"`
}

// NewsConfig holds news aggregation settings.
type NewsConfig struct {
	NewsAPIKey    string `mapstructure:"newsapi_key"     yaml:"newsapi_key"`
	PerQueryLimit int    `mapstructure:"per_query_limit" yaml:"per_query_limit"` // NewsAPI articles kept per search query
	HeadlineLimit int    `mapstructure:"headline_limit"  yaml:"headline_limit"`  // finance headline articles kept per call
	TimeoutSec    int    `mapstructure:"timeout_sec"     yaml:"timeout_sec"`
	MaxArticles   int    `mapstructure:"max_articles"    yaml:"max_articles"` // post-filter cap
}

// MonitorConfig holds volatility monitoring settings.
type MonitorConfig struct {
	Companies     []string `mapstructure:"companies"       yaml:"companies"`
	HighPct       float64  `mapstructure:"high_pct"        yaml:"high_pct"`
	ExtremePct    float64  `mapstructure:"extreme_pct"     yaml:"extreme_pct"`
	WindowMinutes int      `mapstructure:"window_minutes"  yaml:"window_minutes"`
}

// SchedulerConfig holds periodic task settings.
type SchedulerConfig struct {
	ReportIntervalMin int `mapstructure:"report_interval_min" yaml:"report_interval_min"`
	CheckIntervalMin  int `mapstructure:"check_interval_min"  yaml:"check_interval_min"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `mapstructure:"level" yaml:"level"` // "debug", "info", "warn", "error"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.chipsight/config.yaml (home directory)
//  3. /etc/chipsight/config.yaml (system)
//
// Environment variables override config file values.
// Format: CHIPSIGHT_<SECTION>_<KEY>, e.g., CHIPSIGHT_LLM_OPENAI_KEY
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".chipsight"))
	v.AddConfigPath("/etc/chipsight")

	v.SetEnvPrefix("CHIPSIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found — that's fine, use defaults + env vars.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("CHIPSIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// LLM defaults: the ASI:One endpoint speaks the OpenAI wire format.
	v.SetDefault("llm.primary", "openai")
	v.SetDefault("llm.openai_base_url", "https://api.asi1.ai/v1")
	v.SetDefault("llm.model", "asi1-mini")
	v.SetDefault("llm.temperature", 0.1)
	v.SetDefault("llm.narrative_tokens", 4096)

	// News defaults
	v.SetDefault("news.per_query_limit", 5)
	v.SetDefault("news.headline_limit", 3)
	v.SetDefault("news.timeout_sec", 10)
	v.SetDefault("news.max_articles", 15)

	// Monitor defaults
	v.SetDefault("monitor.companies", []string{
		"NVIDIA", "TSMC", "Intel", "AMD", "Qualcomm",
		"Broadcom", "Micron", "ASML", "Texas Instruments",
	})
	v.SetDefault("monitor.high_pct", 5.0)
	v.SetDefault("monitor.extreme_pct", 10.0)
	v.SetDefault("monitor.window_minutes", 5)

	// Scheduler defaults
	v.SetDefault("scheduler.report_interval_min", 60)
	v.SetDefault("scheduler.check_interval_min", 15)

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
}

// overrideFromEnv explicitly reads sensitive keys from environment variables.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv("CHIPSIGHT_LLM_OPENAI_KEY"); key != "" {
		cfg.LLM.OpenAIKey = key
	}
	if key := os.Getenv("CHIPSIGHT_LLM_ANTHROPIC_KEY"); key != "" {
		cfg.LLM.AnthropicKey = key
	}
	if key := os.Getenv("CHIPSIGHT_NEWS_NEWSAPI_KEY"); key != "" {
		cfg.News.NewsAPIKey = key
	}
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
