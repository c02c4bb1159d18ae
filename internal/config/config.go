package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" validate:"required"`
	Log     LogConfig     `mapstructure:"log" validate:"required"`
	Storage StorageConfig `mapstructure:"storage" validate:"required"`
	LLM     LLMConfig     `mapstructure:"llm" validate:"required"`
	Review  ReviewConfig  `mapstructure:"review" validate:"required"`
	Task    TaskConfig    `mapstructure:"task" validate:"required"`
}

// ServerConfig contains the HTTP server settings used by `smartflash serve`.
type ServerConfig struct {
	Host string `mapstructure:"host" validate:"required"`
	Port int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	// APITokenHash is a bcrypt hash of the bearer token clients must present.
	// Empty disables authentication.
	APITokenHash    string `mapstructure:"api_token_hash"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout_seconds" validate:"gte=0"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
	// File enables rotating file output. Empty logs to stderr.
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"gte=0"`
}

// StorageConfig selects the backend holding the persisted deck collection.
type StorageConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=file sqlite postgres redis"`
	// Slot is the key under which the whole deck collection is stored.
	Slot          string `mapstructure:"slot" validate:"required"`
	Path          string `mapstructure:"path" validate:"required_if=Driver file,required_if=Driver sqlite"`
	DatabaseURL   string `mapstructure:"database_url" validate:"required_if=Driver postgres"`
	RedisAddr     string `mapstructure:"redis_addr" validate:"required_if=Driver redis"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db" validate:"gte=0"`
}

// LLMConfig contains all LLM integration related settings.
// The API key is checked by the extractor when it is built, so commands that
// never call the model work without one.
type LLMConfig struct {
	GeminiAPIKey       string `mapstructure:"gemini_api_key"`
	ModelName          string `mapstructure:"model_name" validate:"required"`
	PromptTemplatePath string `mapstructure:"prompt_template_path"`
	MaxRetries         int    `mapstructure:"max_retries" validate:"gte=0,lte=5"`
	RetryDelaySeconds  int    `mapstructure:"retry_delay_seconds" validate:"gte=0,lte=60"`
}

// ReviewConfig controls in-memory review sessions.
type ReviewConfig struct {
	// SessionTTLMinutes is how long an idle session is kept.
	SessionTTLMinutes int `mapstructure:"session_ttl_minutes" validate:"gt=0"`
}

// TaskConfig controls the background generation runner.
type TaskConfig struct {
	QueueSize   int `mapstructure:"queue_size" validate:"gt=0"`
	WorkerCount int `mapstructure:"worker_count" validate:"gt=0"`
}
