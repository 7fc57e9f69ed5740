package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

func Load(configFile string) (*Config, error) {
	viper.Reset()

	viper.SetConfigType("yaml")
	viper.SetConfigFile(configFile)

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	bindEnvVariables()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateStatic(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func bindEnvVariables() {
	viper.BindEnv("logging.level", "LOGGING_LEVEL")
	viper.BindEnv("logging.format", "LOGGING_FORMAT")

	viper.BindEnv("server.port", "SERVER_PORT")

	viper.BindEnv("runner.concurrency", "RUNNER_CONCURRENCY")

	viper.BindEnv("redis.enabled", "REDIS_ENABLED")
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")
	viper.BindEnv("redis.db", "REDIS_DB")

	viper.BindEnv("lookup.key_prefix", "LOOKUP_KEY_PREFIX")
	viper.BindEnv("lookup.rate_per_second", "LOOKUP_RATE_PER_SECOND")
}

func setDefaults() {
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("runner.concurrency", 4)
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("lookup.key_prefix", "lookup:")
	viper.SetDefault("lookup.rate_burst", 1)
	viper.SetDefault("pipeline.default_index", "docs")
	viper.SetDefault("pipeline.default_type", "_doc")
}
