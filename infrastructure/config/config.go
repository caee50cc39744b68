package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// AWS configuration
	AWSRegion     string
	DynamoDBTable string
	GSI1Name      string // GSI1 - lookup records by their own id

	// Object storage
	VideosBucket      string
	TranscriptsBucket string
	PresignExpiry     time.Duration

	// Identity provider
	CognitoUserPoolID string
	CognitoClientID   string
	JWKSCacheTTL      time.Duration

	// Inference
	BedrockModelID     string
	InferenceMaxTokens int32

	// Messaging and metrics
	EventBusName     string
	MetricsNamespace string

	// Logging and features
	LogLevel   string
	EnableCORS bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		AWSRegion:     getEnv("AWS_REGION", "us-east-1"),
		DynamoDBTable: getEnv("TABLE_NAME", "content-forge"),
		GSI1Name:      getEnv("GSI1_INDEX_NAME", "GSI1"),

		VideosBucket:      getEnv("VIDEOS_BUCKET", "content-forge-videos"),
		TranscriptsBucket: getEnv("TRANSCRIPTS_BUCKET", "content-forge-transcripts"),
		PresignExpiry:     getEnvDuration("PRESIGN_EXPIRY", time.Hour),

		CognitoUserPoolID: getEnv("COGNITO_USER_POOL_ID", ""),
		CognitoClientID:   getEnv("COGNITO_CLIENT_ID", ""),
		JWKSCacheTTL:      getEnvDuration("JWKS_CACHE_TTL", 6*time.Hour),

		BedrockModelID:     getEnv("BEDROCK_MODEL_ID", "anthropic.claude-3-sonnet-20240229-v1:0"),
		InferenceMaxTokens: int32(getEnvInt("INFERENCE_MAX_TOKENS", 2000)),

		EventBusName:     getEnv("EVENT_BUS_NAME", "content-forge-events"),
		MetricsNamespace: getEnv("METRICS_NAMESPACE", "ContentForge"),

		LogLevel:   getEnv("LOG_LEVEL", "info"),
		EnableCORS: getEnvBool("ENABLE_CORS", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.Environment == "production" {
		if c.DynamoDBTable == "" {
			return fmt.Errorf("TABLE_NAME is required")
		}
		if c.CognitoUserPoolID == "" {
			return fmt.Errorf("COGNITO_USER_POOL_ID is required in production")
		}
		if c.CognitoClientID == "" {
			return fmt.Errorf("COGNITO_CLIENT_ID is required in production")
		}
		if c.VideosBucket == "" {
			return fmt.Errorf("VIDEOS_BUCKET is required")
		}
	}

	return nil
}

// IssuerURL is the identity provider issuer for this user pool
func (c *Config) IssuerURL() string {
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", c.AWSRegion, c.CognitoUserPoolID)
}

// JWKSURL is the published signing key set for this user pool
func (c *Config) JWKSURL() string {
	return c.IssuerURL() + "/.well-known/jwks.json"
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration gets a duration environment variable with a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
