// Package config loads CLI configuration from file via viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete configuration structure.
type Config struct {
	UniProt UniProtConfig `mapstructure:"uniprot"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// UniProtConfig holds remote service connection details.
type UniProtConfig struct {
	// Contact identifies the caller per the UniProt fair-use policy.
	Contact              string `mapstructure:"contact"`
	ListURL              string `mapstructure:"list_url"`
	BatchURL             string `mapstructure:"batch_url"`
	TimeoutSeconds       int    `mapstructure:"timeout_seconds"`
	PollIntervalSeconds  int    `mapstructure:"poll_interval_seconds"`
	PollBudget           int    `mapstructure:"poll_budget"`
	MinRequestIntervalMS int    `mapstructure:"min_request_interval_ms"`
}

// RedisConfig holds the optional Redis backend for the page cache and the
// politeness gate.
type RedisConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	Addr            string `mapstructure:"addr"`
	Password        string `mapstructure:"password"`
	DB              int    `mapstructure:"db"`
	CacheTTLMinutes int    `mapstructure:"cache_ttl_minutes"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads the configuration from file.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		v.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".uniprot-fetch"))
		}

		v.AddConfigPath("/etc/uniprot-fetch/")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("uniprot.list_url", "https://www.uniprot.org/uniprot/")
	v.SetDefault("uniprot.batch_url", "https://www.uniprot.org/batch/")
	v.SetDefault("uniprot.timeout_seconds", 60)
	v.SetDefault("uniprot.poll_interval_seconds", 10)
	v.SetDefault("uniprot.poll_budget", 50)
	v.SetDefault("uniprot.min_request_interval_ms", 0)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.cache_ttl_minutes", 15)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// validate checks if the configuration is valid.
func validate(cfg *Config) error {
	if cfg.UniProt.Contact == "" || cfg.UniProt.Contact == "your-email-here" {
		return fmt.Errorf("uniprot.contact is required (fair-use policy)")
	}

	if cfg.UniProt.PollBudget <= 0 {
		return fmt.Errorf("uniprot.poll_budget must be positive")
	}

	if cfg.UniProt.MinRequestIntervalMS > 0 && !cfg.Redis.Enabled {
		return fmt.Errorf("uniprot.min_request_interval_ms requires redis.enabled")
	}

	return nil
}
