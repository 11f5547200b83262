package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. CREATOR_SERVER_PORT.
const EnvPrefix = "CREATOR"

var serverDefaults = map[string]any{
	"server.port":                     8080,
	"server.log_level":                "info",
	"server.shutdown_timeout_seconds": 10,
	"database.url":                    "",
	"database.max_open_conns":         10,
	"database.max_idle_conns":         5,
	"auth.jwt_secret":                 "",
	"auth.admin_password_hash":        "",
	"auth.token_lifetime_minutes":     60,
	"llm.gemini_api_key":              "",
	"llm.text_model":                  "gemini-2.0-flash",
	"llm.image_model":                 "imagen-3.0-generate-002",
	"llm.max_retries":                 3,
	"llm.retry_delay_seconds":         2,
	"credits.text_cost":               1,
	"credits.image_cost":              5,
	"rate_limit.requests_per_second":  10.0,
	"rate_limit.burst":                20,
}

var clientDefaults = map[string]any{
	"backend_url":             "http://localhost:8080",
	"license_key":             "",
	"provider":                "gemini",
	"concurrency":             3,
	"chunk_delay_millis":      1000,
	"request_timeout_seconds": 0,
	"state_path":              defaultStatePath(),
	"log_level":               "info",
}

// Load reads the server configuration from environment variables and an
// optional config.yaml in the working directory. Environment variables take
// precedence over values from the config file.
func Load() (*Config, error) {
	v := newViper(serverDefaults)
	v.SetConfigName("config")
	v.AddConfigPath(".")

	if err := readOptionalConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadClient reads the studio CLI configuration. If file is non-empty it is
// read instead of searching for studio.yaml in the working directory and in
// the user config directory.
func LoadClient(file string) (*ClientConfig, error) {
	v := newViper(clientDefaults)
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("studio")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "creator-studio"))
		}
	}

	if err := readOptionalConfig(v); err != nil {
		return nil, err
	}

	var cfg ClientConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal client config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("client config validation failed: %w", err)
	}

	return &cfg, nil
}

func newViper(defaults map[string]any) *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func readOptionalConfig(v *viper.Viper) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return nil
	}
	return fmt.Errorf("failed to read config file: %w", err)
}

func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "studio-state.db"
	}
	return filepath.Join(dir, "creator-studio", "state.db")
}
