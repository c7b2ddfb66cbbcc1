package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"     validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Auth       AuthConfig       `mapstructure:"auth"       validate:"required"`
	Pagination PaginationConfig `mapstructure:"pagination" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	// URL is a PostgreSQL connection string. When empty the server runs on the
	// in-memory backend.
	URL string `mapstructure:"url" validate:"omitempty,url"`
}

// AuthConfig contains all authentication and session settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0,lte=43200"`
	BCryptCost           int    `mapstructure:"bcrypt_cost"            validate:"required,gte=4,lte=31"`
	CookieName           string `mapstructure:"cookie_name"            validate:"required"`
	CookieSecure         bool   `mapstructure:"cookie_secure"`
}

// PaginationConfig bounds the page sizes accepted from clients.
type PaginationConfig struct {
	DefaultLimit int `mapstructure:"default_limit" validate:"required,gt=0,ltefield=MaxLimit"`
	MaxLimit     int `mapstructure:"max_limit"     validate:"required,gt=0,lte=100"`
}
