package config

import "strings"

// APIKeyRing holds the per-assistant Next-AGI API keys plus a default key.
// The assistant display name is matched against a fixed substring table.
type APIKeyRing struct {
	HRMS        string
	Hospitality string
	Default     string
}

// LoadAPIKeyRingFromEnv loads the API key ring from environment variables
func LoadAPIKeyRingFromEnv() APIKeyRing {
	return APIKeyRing{
		HRMS:        getEnvOrDefault("NEXT_AGI_API_KEY_HRMS", ""),
		Hospitality: getEnvOrDefault("NEXT_AGI_API_KEY_HOSPITALITY", ""),
		Default:     getEnvOrDefault("NEXT_AGI_API_KEY_DEFAULT", ""),
	}
}

// Resolve returns the API key for the given assistant display name.
// Unknown names fall back to the default key; an empty result means no
// usable key is configured for that assistant.
func (r APIKeyRing) Resolve(assistantName string) string {
	if strings.Contains(assistantName, "HRMS") {
		return r.HRMS
	}
	if strings.Contains(assistantName, "Hospitality") {
		return r.Hospitality
	}
	return r.Default
}
