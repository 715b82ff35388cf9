package utils

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Hold     HoldConfig
	CORS     CORSConfig
	Payment  PaymentConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

// HoldConfig governs the hold lifecycle: how long a cart hold pins a slot
// and how often the sweep reclaims lapsed holds. Lazy expiry on reads is the
// correctness backstop; the sweep only shortens how long a dead hold is
// visible.
type HoldConfig struct {
	ExpiryMinutes int
	SweepSeconds  int
}

func (c HoldConfig) Expiry() time.Duration {
	return time.Duration(c.ExpiryMinutes) * time.Minute
}

func (c HoldConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepSeconds) * time.Second
}

type CORSConfig struct {
	AllowedOrigins []string
}

// PaymentConfig points checkout at the external payment flow. An empty
// RedirectURL disables the handoff.
type PaymentConfig struct {
	RedirectURL string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("HOLD_EXPIRY_MINUTES", 15)
	viper.SetDefault("HOLD_SWEEP_SECONDS", 30)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.SetDefault("LOG_PATH", "logs/")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Hold: HoldConfig{
			ExpiryMinutes: viper.GetInt("HOLD_EXPIRY_MINUTES"),
			SweepSeconds:  viper.GetInt("HOLD_SWEEP_SECONDS"),
		},
		CORS: CORSConfig{
			AllowedOrigins: strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ","),
		},
		Payment: PaymentConfig{
			RedirectURL: viper.GetString("PAYMENT_REDIRECT_URL"),
		},
	}

	return config, nil
}
