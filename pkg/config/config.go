package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Auth modes accepted in AUTH_MODE
const (
	AuthModeFirebase = "firebase"
	AuthModeJWT      = "jwt"
)

type Config struct {
	Port                    string
	Env                     string
	PostgresConnStr         string
	MongoURI                string
	MongoDatabase           string
	RedisURL                string // optional, events are dropped when empty
	EventChannelPrefix      string
	AuthMode                string
	FirebaseCredentialsPath string
	FirebaseProjectID       string // optional, defaults to the credentials' project
	FirebaseCheckRevoked    bool
	JWTSecret               string
	AWSRegion               string
	S3BucketName            string // optional, uploads are disabled when empty
	UploadPublicBaseURL     string
}

// Load reads the environment, loading a .env file first when one exists.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "skill_exchange"),
		RedisURL:                getEnv("REDIS_URL", ""),
		EventChannelPrefix:      getEnv("EVENT_CHANNEL_PREFIX", "skillx"),
		AuthMode:                strings.ToLower(getEnv("AUTH_MODE", AuthModeFirebase)),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", "./firebase_credentials.json"),
		FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseCheckRevoked:    getEnvBool("FIREBASE_CHECK_REVOKED", false),
		JWTSecret:               getEnv("JWT_SECRET", ""),
		AWSRegion:               getEnv("AWS_REGION", "us-east-1"),
		S3BucketName:            getEnv("S3_BUCKET_NAME", ""),
		UploadPublicBaseURL:     strings.TrimRight(getEnv("UPLOAD_PUBLIC_BASE_URL", ""), "/"),
	}
}

// Validate fails fast on settings the server cannot start without.
func (c *Config) Validate() error {
	if c.PostgresConnStr == "" {
		return fmt.Errorf("POSTGRES_CONN_STR is required")
	}
	if c.MongoURI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	switch c.AuthMode {
	case AuthModeFirebase:
		if c.FirebaseCredentialsPath == "" {
			return fmt.Errorf("FIREBASE_CREDENTIALS_PATH is required when AUTH_MODE=firebase")
		}
	case AuthModeJWT:
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required when AUTH_MODE=jwt")
		}
	default:
		return fmt.Errorf("AUTH_MODE must be %q or %q, got %q", AuthModeFirebase, AuthModeJWT, c.AuthMode)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Ignoring %s=%q: not a boolean", key, value)
		return defaultValue
	}
	return b
}
