package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	// Server
	Port string `mapstructure:"PORT"`
	Env  string `mapstructure:"ENV"`

	// Logging
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Roster rules
	Budget          float64 `mapstructure:"BUDGET"`
	SquadSize       int     `mapstructure:"SQUAD_SIZE"`
	MaxPerTeam      int     `mapstructure:"MAX_PER_TEAM"`
	DistinctPlayers bool    `mapstructure:"DISTINCT_PLAYERS"`

	// Search
	SearchWorkers int `mapstructure:"SEARCH_WORKERS"`
	TopK          int `mapstructure:"TOP_K"`

	// Run store
	MaxStoredRuns int `mapstructure:"MAX_STORED_RUNS"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")

	// Set defaults
	viper.SetDefault("PORT", "8082")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("BUDGET", 100.0)
	viper.SetDefault("SQUAD_SIZE", 11)
	viper.SetDefault("MAX_PER_TEAM", 7)
	viper.SetDefault("DISTINCT_PLAYERS", false) // collapse value-identical players by default
	viper.SetDefault("SEARCH_WORKERS", 1)
	viper.SetDefault("TOP_K", 10)
	viper.SetDefault("MAX_STORED_RUNS", 32)

	// Read from environment
	viper.AutomaticEnv()

	// Read config file if exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) validate() error {
	if c.Budget <= 0 {
		return fmt.Errorf("BUDGET must be positive, got %v", c.Budget)
	}
	if c.SquadSize <= 0 {
		return fmt.Errorf("SQUAD_SIZE must be positive, got %d", c.SquadSize)
	}
	if c.MaxPerTeam <= 0 {
		return fmt.Errorf("MAX_PER_TEAM must be positive, got %d", c.MaxPerTeam)
	}
	if c.SearchWorkers < 1 {
		c.SearchWorkers = 1
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
