package config

import (
	"log"
	"os"
)

// Config holds all runtime settings, loaded from the environment.
type Config struct {
	MongoURI      string
	MongoDatabase string
	RedisAddr     string
	Port          string

	// Voice provider (Retell)
	RetellAPIBase       string
	RetellAPIKey        string
	RetellWebhookSecret string

	// SMS gateway (Twilio) for ops alerts
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string
	OpsAlertNumber   string

	// Ops dashboard auth
	OpsUsername string
	OpsPassword string
	JWTSecret   string
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	cfg := &Config{
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "callpulse"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Port:          getEnv("PORT", "8080"),

		RetellAPIBase:       getEnv("RETELL_API_BASE", "https://api.retellai.com"),
		RetellAPIKey:        os.Getenv("RETELL_API_KEY"),
		RetellWebhookSecret: os.Getenv("RETELL_WEBHOOK_SECRET"),

		TwilioAccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromNumber: os.Getenv("TWILIO_FROM_NUMBER"),
		OpsAlertNumber:   os.Getenv("OPS_ALERT_NUMBER"),

		OpsUsername: getEnv("OPS_USERNAME", "ops"),
		OpsPassword: getEnv("OPS_PASSWORD", "change-me"),
		JWTSecret:   getEnv("JWT_SECRET", "super-secret-key-change-in-production"),
	}

	// Running without a webhook secret means every delivery is trusted.
	// Allowed for backward compatibility, but never silently.
	if cfg.RetellWebhookSecret == "" {
		log.Println("WARNING: RETELL_WEBHOOK_SECRET not set - webhook signature verification is DISABLED")
	}

	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
