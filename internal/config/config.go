package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// ScoringWeights holds the fixed weights of the six quality sub-scores.
type ScoringWeights struct {
	Relevance       float64
	Personalization float64
	Completeness    float64
	Readability     float64
	Safety          float64
	Engagement      float64
}

// RoutingThresholds are the ordered score cutoffs of the routing table.
// A score equal to a threshold satisfies it.
type RoutingThresholds struct {
	AutoApprove    float64
	FastTrack      float64
	StandardReview float64
	DetailedReview float64
}

type Config struct {
	Port        string
	JWTSecret   string
	MongoURI    string
	DBName      string
	SkipAuth    bool
	Environment string
	AppId       string

	// Workflow flags
	RequireDualApproval    bool
	AutoPublishApproved    bool
	EscalationTimeoutHours int // default timeout for standard_review
	BulkOperationLimit     int
	SweepIntervalMinutes   int

	// External collaborators
	CMSPublishDSN     string // optional Postgres DSN of the host CMS
	SafetyRulesScript string // optional path to a tengo safety-rule script

	Weights    ScoringWeights
	Thresholds RoutingThresholds
}

// LoadConfig loads configuration from environment variables. The returned
// value is immutable for the process lifetime; every component receives it
// by injection rather than reading globals.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		JWTSecret:   getEnv("JWT_SECRET", "secret"),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:      getEnv("DB_NAME", "content-review"),
		SkipAuth:    getEnv("SKIP_AUTH", "false") == "true",
		Environment: getEnv("ENVIRONMENT", "development"),
		AppId:       getEnv("APP_ID", "content-review"),

		RequireDualApproval:    getEnv("REQUIRE_DUAL_APPROVAL", "false") == "true",
		AutoPublishApproved:    getEnv("AUTO_PUBLISH_APPROVED", "false") == "true",
		EscalationTimeoutHours: getEnvInt("ESCALATION_TIMEOUT_HOURS", 48),
		BulkOperationLimit:     getEnvInt("BULK_OPERATION_LIMIT", 50),
		SweepIntervalMinutes:   getEnvInt("SWEEP_INTERVAL_MINUTES", 15),

		CMSPublishDSN:     getEnv("CMS_PUBLISH_DSN", ""),
		SafetyRulesScript: getEnv("SAFETY_RULES_SCRIPT", ""),

		Weights: ScoringWeights{
			Relevance:       getEnvFloat("WEIGHT_RELEVANCE", 0.25),
			Personalization: getEnvFloat("WEIGHT_PERSONALIZATION", 0.20),
			Completeness:    getEnvFloat("WEIGHT_COMPLETENESS", 0.20),
			Readability:     getEnvFloat("WEIGHT_READABILITY", 0.15),
			Safety:          getEnvFloat("WEIGHT_SAFETY", 0.10),
			Engagement:      getEnvFloat("WEIGHT_ENGAGEMENT", 0.10),
		},
		Thresholds: RoutingThresholds{
			AutoApprove:    getEnvFloat("THRESHOLD_AUTO_APPROVE", 0.85),
			FastTrack:      getEnvFloat("THRESHOLD_FAST_TRACK", 0.75),
			StandardReview: getEnvFloat("THRESHOLD_STANDARD_REVIEW", 0.60),
			DetailedReview: getEnvFloat("THRESHOLD_DETAILED_REVIEW", 0.40),
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}
