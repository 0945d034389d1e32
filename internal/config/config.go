package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Review   ReviewConfig   `mapstructure:"review"   validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0,lte=44640"`
	BcryptCost           int    `mapstructure:"bcrypt_cost"            validate:"gte=4,lte=31"`
}

// ReviewConfig contains settings for the review queue and layout resolution.
type ReviewConfig struct {
	// QueueLimit caps the number of flashcards returned by one queue request.
	QueueLimit int `mapstructure:"queue_limit" validate:"required,gt=0,lte=1000"`
	// ConflictRetryBaseMs is the first backoff step when a layout write
	// hits a serialization conflict.
	ConflictRetryBaseMs int `mapstructure:"conflict_retry_base_ms" validate:"required,gt=0"`
}

// TokenLifetime returns the access token lifetime as a duration.
func (c AuthConfig) TokenLifetime() time.Duration {
	return time.Duration(c.TokenLifetimeMinutes) * time.Minute
}

// ConflictRetryBase returns the layout conflict backoff base as a duration.
func (c ReviewConfig) ConflictRetryBase() time.Duration {
	return time.Duration(c.ConflictRetryBaseMs) * time.Millisecond
}
