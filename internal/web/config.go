package web

import (
	"github.com/nicl-arrears/internal/config"
)

// Config represents the web server configuration
type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Features FeatureConfig
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port          int
	Host          string
	AllowedOrigin string
}

// AuthConfig contains authentication settings
type AuthConfig struct {
	APIKey string // empty disables the check
}

// FeatureConfig contains feature toggles
type FeatureConfig struct {
	ExportEnabled bool
}

// ConfigFromApp derives the server settings from the shared app config
func ConfigFromApp(app config.App) *Config {
	return &Config{
		Server: ServerConfig{
			Port:          app.WebPort,
			Host:          app.WebHost,
			AllowedOrigin: config.GetEnv("WEB_ALLOWED_ORIGIN", ""),
		},
		Auth: AuthConfig{
			APIKey: config.GetEnv("WEB_API_KEY", ""),
		},
		Features: FeatureConfig{
			ExportEnabled: config.GetEnvBool("WEB_EXPORT_ENABLED", true),
		},
	}
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Server:   ServerConfig{Port: 8080, Host: "localhost"},
		Features: FeatureConfig{ExportEnabled: true},
	}
}
