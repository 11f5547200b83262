package config

// Config holds all server configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth" validate:"required"`
	LLM       LLMConfig       `mapstructure:"llm" validate:"required"`
	Credits   CreditsConfig   `mapstructure:"credits" validate:"required"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// ShutdownTimeoutSeconds bounds graceful shutdown of in-flight requests.
	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds" validate:"gte=1"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL          string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"gte=0"`
}

// AuthConfig contains the admin API credentials.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
	// AdminPasswordHash is a bcrypt hash, see cmd/hash-generator.
	AdminPasswordHash    string `mapstructure:"admin_password_hash" validate:"required"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0,lt=1440"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	GeminiAPIKey      string `mapstructure:"gemini_api_key" validate:"required"`
	TextModel         string `mapstructure:"text_model" validate:"required"`
	ImageModel        string `mapstructure:"image_model" validate:"required"`
	MaxRetries        int    `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds" validate:"gte=1,lte=60"`
}

// CreditsConfig sets how many credits each generation costs.
type CreditsConfig struct {
	TextCost  int64 `mapstructure:"text_cost" validate:"gte=1"`
	ImageCost int64 `mapstructure:"image_cost" validate:"gte=1"`
}

// RateLimitConfig throttles /ai requests per license key. Zero RPS disables it.
// The defaults admit a full studio batch of ten workers sharing one key.
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"gte=0"`
	Burst             int     `mapstructure:"burst" validate:"gte=0"`
}

// ClientConfig holds the settings of the studio CLI.
type ClientConfig struct {
	// BackendURL is the base URL of the generation backend, e.g. https://api.example.com
	BackendURL string `mapstructure:"backend_url" validate:"required,url"`
	// LicenseKey is sent as the bearer token on every request.
	LicenseKey string `mapstructure:"license_key"`
	// Provider is the default AI provider name sent to the backend.
	Provider string `mapstructure:"provider" validate:"required"`
	// Concurrency is the default batch concurrency limit.
	Concurrency int `mapstructure:"concurrency" validate:"gte=1,lte=10"`
	// ChunkDelayMillis is the pause between sequential chunk calls.
	ChunkDelayMillis int `mapstructure:"chunk_delay_millis" validate:"gte=0"`
	// RequestTimeoutSeconds caps a single backend round trip. Zero means no cap.
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds" validate:"gte=0"`
	// StatePath is the SQLite file holding persisted module settings.
	StatePath string `mapstructure:"state_path" validate:"required"`
	LogLevel  string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
}
