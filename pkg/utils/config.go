package utils

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Booking   BookingConfig
	Reconcile ReconcileConfig
	Notifier  NotifierConfig
	Client    ClientConfig
	Admin     AdminConfig
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
	Migrate  bool
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type BookingConfig struct {
	// MaxAdvanceDays is the fallback when the settings table has no value.
	MaxAdvanceDays   int
	NoShowEnabled    bool
	UnlockCodeLength int
}

type ReconcileConfig struct {
	Schedule string
}

type NotifierConfig struct {
	Driver       string
	KafkaBrokers []string
	KafkaTopic   string
}

type ClientConfig struct {
	APIKey string
}

// AdminConfig seeds an administrator account at startup when both are set.
type AdminConfig struct {
	Username string
	Password string
}

// LoadConfig reads the .env file at path when it exists and lets
// environment variables override it.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("env")

	// Set defaults
	v.SetDefault("APP_NAME", "computer-booking")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIGRATE", true)
	v.SetDefault("JWT_EXPIRY_HOURS", 24)
	v.SetDefault("BOOKING_MAX_ADVANCE_DAYS", 7)
	v.SetDefault("BOOKING_NO_SHOW_ENABLED", true)
	v.SetDefault("UNLOCK_CODE_LENGTH", 8)
	v.SetDefault("RECONCILE_SCHEDULE", "0 * * * * *")
	v.SetDefault("NOTIFIER", "log")
	v.SetDefault("KAFKA_TOPIC", "booking.created")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    v.GetString("APP_NAME"),
			Port:    v.GetString("PORT"),
			Debug:   v.GetBool("DEBUG"),
			LogPath: v.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
			Migrate:  v.GetBool("DB_MIGRATE"),
		},
		JWT: JWTConfig{
			Secret:      v.GetString("JWT_SECRET"),
			ExpiryHours: v.GetInt("JWT_EXPIRY_HOURS"),
		},
		Booking: BookingConfig{
			MaxAdvanceDays:   v.GetInt("BOOKING_MAX_ADVANCE_DAYS"),
			NoShowEnabled:    v.GetBool("BOOKING_NO_SHOW_ENABLED"),
			UnlockCodeLength: v.GetInt("UNLOCK_CODE_LENGTH"),
		},
		Reconcile: ReconcileConfig{
			Schedule: v.GetString("RECONCILE_SCHEDULE"),
		},
		Notifier: NotifierConfig{
			Driver:       strings.ToLower(v.GetString("NOTIFIER")),
			KafkaBrokers: splitList(v.GetString("KAFKA_BROKERS")),
			KafkaTopic:   v.GetString("KAFKA_TOPIC"),
		},
		Client: ClientConfig{
			APIKey: v.GetString("CLIENT_API_KEY"),
		},
		Admin: AdminConfig{
			Username: v.GetString("ADMIN_USERNAME"),
			Password: v.GetString("ADMIN_PASSWORD"),
		},
	}

	if config.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if config.Booking.MaxAdvanceDays <= 0 {
		config.Booking.MaxAdvanceDays = 7
	}
	if config.Booking.UnlockCodeLength < MinUnlockCodeLength {
		config.Booking.UnlockCodeLength = MinUnlockCodeLength
	}

	return config, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
