package config

import (
	"errors"
	"os"
	"strconv"
)

// BridgeConfig holds the voice bridge configuration
type BridgeConfig struct {
	Port string

	// Twilio configuration
	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioPhoneNumber string

	// Next-AGI chat API configuration
	NextAGIBaseURL       string
	DefaultAssistantName string
	APIKeys              APIKeyRing

	// Orchestration tuning
	ProcessingPauseSeconds int
	ChatTimeoutSeconds     int
	TaskWorkers            int

	// Optional Redis-backed task bus
	RedisHost     string
	RedisPort     string
	RedisPassword string

	// Optional Twilio webhook signature validation
	ValidateWebhooks bool
	PublicBaseURL    string
}

// LoadFromEnv loads the bridge configuration from environment variables.
// Note: .env file is loaded in main.go for local development using godotenv.Load()
func LoadFromEnv() *BridgeConfig {
	return &BridgeConfig{
		Port: getEnvOrDefault("PORT", "3000"),

		TwilioAccountSID:  getEnvOrDefault("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:   getEnvOrDefault("TWILIO_AUTH_TOKEN", ""),
		TwilioPhoneNumber: getEnvOrDefault("TWILIO_PHONE_NUMBER", ""),

		NextAGIBaseURL:       getEnvOrDefault("NEXT_AGI_API_BASE_URL", "https://api.next-agi.com/v1"),
		DefaultAssistantName: getEnvOrDefault("DEFAULT_ASSISTANT_NAME", "Xpectrum Assistant"),
		APIKeys:              LoadAPIKeyRingFromEnv(),

		ProcessingPauseSeconds: getEnvAsIntOrDefault("PROCESSING_PAUSE_SECONDS", 45),
		ChatTimeoutSeconds:     getEnvAsIntOrDefault("CHAT_API_TIMEOUT_SECONDS", 60),
		TaskWorkers:            getEnvAsIntOrDefault("TASK_WORKERS", 4),

		RedisHost:     getEnvOrDefault("REDIS_HOST", ""),
		RedisPort:     getEnvOrDefault("REDIS_PORT", "6379"),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),

		ValidateWebhooks: getEnvAsBoolOrDefault("TWILIO_VALIDATE_WEBHOOKS", false),
		PublicBaseURL:    getEnvOrDefault("PUBLIC_BASE_URL", ""),
	}
}

// Validate checks the configuration that must be present at startup.
// Missing Twilio credentials are fatal: without them the live call update
// channel does not exist and no caller could ever hear an answer.
func (c *BridgeConfig) Validate() error {
	if c.TwilioAccountSID == "" || c.TwilioAuthToken == "" {
		return errors.New("twilio credentials (TWILIO_ACCOUNT_SID and TWILIO_AUTH_TOKEN) are missing")
	}
	return nil
}

// getEnvOrDefault gets environment variable or returns default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault gets environment variable as int or returns default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBoolOrDefault gets environment variable as bool or returns default
func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
