package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	FeedWSURL   string
	FeedAPIKey  string
	Underlyings []string

	// Database configuration
	DatabaseHost     string
	DatabasePort     string
	DatabaseName     string
	DatabaseUser     string
	DatabasePassword string

	// Redis configuration
	RedisHost     string
	RedisPassword string
	RedisPort     string

	// Analytics configuration
	Analytics AnalyticsConfig
}

// AnalyticsConfig holds detection thresholds and analyzer parameters
type AnalyticsConfig struct {
	// Detection thresholds
	OIChangeThreshold  float64
	OIBuildupThreshold float64
	OISupportThreshold float64
	PremiumChangePct   float64
	PremiumSpikePct    float64
	VolumeThreshold    float64
	ATMWindowPct       float64
	PriceProximityPct  float64
	MaxPainDistancePct float64
	GammaSqueezeOI     float64

	// Analyzer behavior
	MinPersistConfidence float64
	AnalyzeIntervalSec   int
	SignalRetentionHours int
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		FeedWSURL:   getEnvOrDefault("FEED_WS_URL", "wss://feed.chainpulse.dev/ws"),
		FeedAPIKey:  os.Getenv("FEED_API_KEY"),
		Underlyings: splitList(getEnvOrDefault("UNDERLYINGS", "NIFTY,BANKNIFTY")),

		// Database configuration
		DatabaseHost:     getEnvOrDefault("DB_HOST", "localhost"),
		DatabasePort:     getEnvOrDefault("DB_PORT", "5432"),
		DatabaseName:     getEnvOrDefault("DB_NAME", "chainpulse"),
		DatabaseUser:     getEnvOrDefault("DB_USER", "chainpulse"),
		DatabasePassword: getEnvOrDefault("DB_PASSWORD", "chainpulse123"),

		// Redis configuration
		RedisHost:     getEnvOrDefault("REDIS_HOST", "localhost"),
		RedisPort:     getEnvOrDefault("REDIS_PORT", "6379"),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),

		// Analytics configuration
		Analytics: AnalyticsConfig{
			OIChangeThreshold:  getEnvFloat("ANALYTICS_OI_CHANGE_THRESHOLD", 5000),
			OIBuildupThreshold: getEnvFloat("ANALYTICS_OI_BUILDUP_THRESHOLD", 10000),
			OISupportThreshold: getEnvFloat("ANALYTICS_OI_SUPPORT_THRESHOLD", 50000),
			PremiumChangePct:   getEnvFloat("ANALYTICS_PREMIUM_CHANGE_PCT", 5),
			PremiumSpikePct:    getEnvFloat("ANALYTICS_PREMIUM_SPIKE_PCT", 15),
			VolumeThreshold:    getEnvFloat("ANALYTICS_VOLUME_THRESHOLD", 10000),
			ATMWindowPct:       getEnvFloat("ANALYTICS_ATM_WINDOW_PCT", 0.05),
			PriceProximityPct:  getEnvFloat("ANALYTICS_PRICE_PROXIMITY_PCT", 0.02),
			MaxPainDistancePct: getEnvFloat("ANALYTICS_MAX_PAIN_DISTANCE_PCT", 0.02),
			GammaSqueezeOI:     getEnvFloat("ANALYTICS_GAMMA_SQUEEZE_OI", 100000),

			MinPersistConfidence: getEnvFloat("ANALYTICS_MIN_PERSIST_CONFIDENCE", 0.6),
			AnalyzeIntervalSec:   getEnvInt("ANALYTICS_ANALYZE_INTERVAL_SEC", 60),
			SignalRetentionHours: getEnvInt("ANALYTICS_SIGNAL_RETENTION_HOURS", 24*30),
		},
	}
}

// getEnvInt gets environment variable as int or returns default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var intValue int
	if _, err := fmt.Sscanf(value, "%d", &intValue); err != nil {
		return defaultValue
	}
	return intValue
}

// getEnvFloat gets environment variable as float64 or returns default value
func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var floatValue float64
	if _, err := fmt.Sscanf(value, "%f", &floatValue); err != nil {
		return defaultValue
	}
	return floatValue
}

// getEnvOrDefault gets environment variable or returns default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// splitList parses a comma-separated env value into trimmed entries
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
