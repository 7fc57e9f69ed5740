package config

type Config struct {
	Logging  LoggingConfig
	Server   ServerConfig
	Runner   RunnerConfig
	Redis    RedisConfig
	Lookup   LookupConfig
	Pipeline PipelineConfig
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig configures the metrics endpoint. Port 0 disables it.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// RunnerConfig bounds how many documents are processed concurrently. Each
// document still runs through its own exclusive pipeline pass.
type RunnerConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LookupConfig wires the lookup providers: the static in-memory tables and
// the decorators shared by every provider.
type LookupConfig struct {
	KeyPrefix      string                            `mapstructure:"key_prefix"`
	Table          map[string]map[string]interface{} `mapstructure:"table"`
	RatePerSecond  float64                           `mapstructure:"rate_per_second"`
	RateBurst      int                               `mapstructure:"rate_burst"`
	RetryAttempts  int                               `mapstructure:"retry_attempts"`
	CircuitBreaker bool                              `mapstructure:"circuit_breaker"`
}

type PipelineConfig struct {
	ID           string            `mapstructure:"id"`
	DefaultIndex string            `mapstructure:"default_index"`
	DefaultType  string            `mapstructure:"default_type"`
	Processors   []ProcessorConfig `mapstructure:"processors"`
}

type ProcessorConfig struct {
	Type   string                 `mapstructure:"type"`
	Config map[string]interface{} `mapstructure:"config"`
}
