package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port   string
	JWTKey string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	ClerkSecretKey     string // Clerk Backend API key, used for user read-repair
	ClerkWebhookSecret string // Svix signing secret for /clerk
	ClerkAPIBaseURL    string

	StripeSecretKey     string
	StripeWebhookSecret string
	Currency            string // lowercase ISO code passed to checkout sessions

	// When true, a course progress record is flagged completed on the first
	// lecture completion (upstream behaviour). When false, completed means
	// every lecture in the course content is done.
	CompleteOnAnyLecture bool

	EmailSender   string
	EmailPassword string // SMTP app password

	// Processed webhook rows older than this many days are pruned by the
	// retention sweep.
	WebhookRetentionDays int
}

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	cfg := &Config{
		Port:   getEnv("PORT", "4000"),
		JWTKey: getEnv("JWT_SECRET_KEY", "defaultSecret"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "edemy"),

		ClerkSecretKey:     getEnv("CLERK_SECRET_KEY", ""),
		ClerkWebhookSecret: getEnv("CLERK_WEBHOOK_SECRET", ""),
		ClerkAPIBaseURL:    getEnv("CLERK_API_BASE_URL", "https://api.clerk.com/v1"),

		StripeSecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		Currency:            getEnv("CURRENCY", "usd"),

		CompleteOnAnyLecture: getEnvBool("PROGRESS_COMPLETE_ON_ANY", false),

		EmailSender:   getEnv("EMAIL_SENDER", ""),
		EmailPassword: getEnv("EMAIL_PASSWORD", ""),

		WebhookRetentionDays: getEnvInt("WEBHOOK_RETENTION_DAYS", 30),
	}

	// Validate critical configuration
	if cfg.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if cfg.ClerkWebhookSecret == "" {
		log.Println("Warning: CLERK_WEBHOOK_SECRET is empty. Identity webhooks will be rejected.")
	}
	if cfg.StripeWebhookSecret == "" {
		log.Println("Warning: STRIPE_WEBHOOK_SECRET is empty. Payment webhooks will be rejected.")
	}

	return cfg
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

// getEnvBool retrieves an environment variable as a boolean or returns the default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to bool: %v", key, err)
		return defaultValue
	}
	return boolValue
}
