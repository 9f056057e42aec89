package config

import "fmt"

// App gathers the settings shared by the arrears binaries
type App struct {
	GazetteerPath string  // optional YAML lexicon replacing the built-in one
	MinArrears    float64 // rows below this amount get no letter
	Debug         bool

	Database DatabaseConfig

	WebHost string
	WebPort int
}

// DatabaseConfig holds Postgres connection settings
type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	Name           string
	SSLMode        string
	MaxConnections int
}

// DSN renders the lib/pq connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// FromEnv reads App from the environment, applying defaults
func FromEnv() App {
	return App{
		GazetteerPath: GetEnv("ARREARS_GAZETTEER", ""),
		MinArrears:    GetEnvFloat("ARREARS_MIN_AMOUNT", 100),
		Debug:         GetEnvBool("ARREARS_DEBUG", false),
		Database: DatabaseConfig{
			Host:           GetEnv("DB_HOST", "localhost"),
			Port:           GetEnv("DB_PORT", "5432"),
			User:           GetEnv("DB_USER", "postgres"),
			Password:       GetEnv("DB_PASSWORD", "postgres"),
			Name:           GetEnv("DB_NAME", "nicl_arrears"),
			SSLMode:        GetEnv("DB_SSLMODE", "disable"),
			MaxConnections: GetEnvInt("DB_MAX_CONNECTIONS", 10),
		},
		WebHost: GetEnv("WEB_HOST", "localhost"),
		WebPort: GetEnvInt("WEB_PORT", 8080),
	}
}
