// Package config resolves runtime configuration from defaults, an optional
// atelier.yaml file, and ATELIER_* environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all runtime settings for the storefront.
type Config struct {
	Addr         string `mapstructure:"addr"`
	TemplatesDir string `mapstructure:"templates_dir"`
	PublicDir    string `mapstructure:"public_dir"`
	ContentDir   string `mapstructure:"content_dir"`
	DataFile     string `mapstructure:"data_file"`
	StorePath    string `mapstructure:"store_path"`
	CompareMax   int    `mapstructure:"compare_max"`
	DevMode      bool   `mapstructure:"dev_mode"`
}

// Load reads configuration, applying built-in defaults for anything not set
// by the config file or environment.
func Load() (Config, error) {
	viper.SetDefault("addr", ":8080")
	viper.SetDefault("templates_dir", "templates")
	viper.SetDefault("public_dir", "public")
	viper.SetDefault("content_dir", "content")
	viper.SetDefault("data_file", "data/catalog.json")
	viper.SetDefault("store_path", "atelier.db")
	viper.SetDefault("compare_max", 3)
	viper.SetDefault("dev_mode", false)

	viper.SetEnvPrefix("ATELIER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName("atelier")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		// the config file is optional; only a malformed one is an error
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("config: read file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate ensures the configuration is coherent.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("config: addr cannot be empty")
	}
	if c.DataFile == "" {
		return fmt.Errorf("config: data file cannot be empty")
	}
	if c.StorePath == "" {
		return fmt.Errorf("config: store path cannot be empty")
	}
	if c.CompareMax <= 0 {
		return fmt.Errorf("config: compare max must be positive, got %d", c.CompareMax)
	}
	return nil
}
