package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Environment names
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config represents the whisper configuration.
// Values come from .whisper/config.json, overridden by WHISPER_* environment variables.
type Config struct {
	Env               string   `json:"env" mapstructure:"env"`
	ListenAddr        string   `json:"listen_addr" mapstructure:"listen_addr"`
	DatabasePath      string   `json:"database_path,omitempty" mapstructure:"database_path"`
	JWTSecret         string   `json:"jwt_secret,omitempty" mapstructure:"jwt_secret"`
	TokenTTLHours     int      `json:"token_ttl_hours" mapstructure:"token_ttl_hours"`
	DefaultPageSize   int      `json:"default_page_size" mapstructure:"default_page_size"`
	MaxPageSize       int      `json:"max_page_size" mapstructure:"max_page_size"`
	SendRatePerMinute int      `json:"send_rate_per_minute" mapstructure:"send_rate_per_minute"`
	RedisAddr         string   `json:"redis_addr,omitempty" mapstructure:"redis_addr"`
	RedisPassword     string   `json:"redis_password,omitempty" mapstructure:"redis_password"`
	CORSOrigins       []string `json:"cors_origins,omitempty" mapstructure:"cors_origins"`
}

var defaults = map[string]any{
	"env":                  EnvDevelopment,
	"listen_addr":          ":8080",
	"database_path":        "",
	"jwt_secret":           "",
	"token_ttl_hours":      168,
	"default_page_size":    50,
	"max_page_size":        200,
	"send_rate_per_minute": 10,
	"redis_addr":           "",
	"redis_password":       "",
	"cors_origins":         []string{},
}

// LoadConfig reads .whisper/config.json from the specified directory.
// A missing file is not an error: defaults and environment variables still apply.
func LoadConfig(dir string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigFile(ConfigPath(dir))
	v.SetConfigType("json")
	v.SetEnvPrefix("WHISPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.DatabasePath == "" {
		path, err := DefaultDatabasePath()
		if err != nil {
			return nil, err
		}
		cfg.DatabasePath = path
	}

	return &cfg, nil
}

// SaveConfig writes config.json to directory
func SaveConfig(dir string, cfg *Config) error {
	whisperDir := filepath.Join(dir, ".whisper")
	if err := os.MkdirAll(whisperDir, 0755); err != nil {
		return fmt.Errorf("failed to create .whisper dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(dir), data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// ConfigPath returns the config file location for a directory.
func ConfigPath(dir string) string {
	return filepath.Join(dir, ".whisper", "config.json")
}

// DefaultDatabasePath returns ~/.whisper/whisper.db.
func DefaultDatabasePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".whisper", "whisper.db"), nil
}

// ValidateForServe checks the settings the HTTP server and token issuer cannot run without.
func (c *Config) ValidateForServe() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("jwt_secret is required (set it in .whisper/config.json or WHISPER_JWT_SECRET)")
	}
	if len(c.JWTSecret) < 16 {
		return fmt.Errorf("jwt_secret must be at least 16 characters")
	}
	if c.TokenTTLHours <= 0 {
		return fmt.Errorf("token_ttl_hours must be positive (got %d)", c.TokenTTLHours)
	}
	if c.DefaultPageSize <= 0 || c.MaxPageSize < c.DefaultPageSize {
		return fmt.Errorf("invalid page sizes: default %d, max %d", c.DefaultPageSize, c.MaxPageSize)
	}
	return nil
}

// IsProduction reports whether the config targets production.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}
