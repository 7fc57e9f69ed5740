package config

import (
	"fmt"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

func ValidateStatic(cfg *Config) error {
	var errors []error

	if err := validateRunner(cfg.Runner); err != nil {
		errors = append(errors, err)
	}
	if err := validateRedis(cfg.Redis); err != nil {
		errors = append(errors, err)
	}
	if err := validatePipeline(cfg.Pipeline); err != nil {
		errors = append(errors, err)
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %v", errors)
	}
	return nil
}

func validateRunner(cfg RunnerConfig) error {
	if cfg.Concurrency < 1 {
		return &ValidationError{
			Field:   "runner.concurrency",
			Message: fmt.Sprintf("concurrency must be at least 1, got %d", cfg.Concurrency),
		}
	}
	return nil
}

func validateRedis(cfg RedisConfig) error {
	if !cfg.Enabled {
		return nil
	}
	if cfg.Host == "" {
		return &ValidationError{
			Field:   "redis.host",
			Message: "host is required when redis is enabled",
		}
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return &ValidationError{
			Field:   "redis.port",
			Message: fmt.Sprintf("port must be between 1 and 65535, got %d", cfg.Port),
		}
	}
	return nil
}

func validatePipeline(cfg PipelineConfig) error {
	if len(cfg.Processors) == 0 {
		return &ValidationError{
			Field:   "pipeline.processors",
			Message: "at least one processor must be configured",
		}
	}
	for i, p := range cfg.Processors {
		if p.Type == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("pipeline.processors[%d].type", i),
				Message: "processor type is required",
			}
		}
	}
	return nil
}
