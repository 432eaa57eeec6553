package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. Required variables are enforced by must() at
// startup; optional subsystems (object storage, message broker) stay
// disabled when their variables are absent.
type Config struct {
	Env          string // application environment (e.g. "dev", "prod")
	Port         string // HTTP port to listen on
	DBUser       string // database username
	DBPass       string // database password (optional)
	DBHost       string // database host address
	DBPort       string // database port number
	DBName       string // database name
	BcryptCost   int    // bcrypt cost for password hashing
	TokenTTLDays int    // access token time-to-live in days

	// Object storage for post images. Uploads are disabled when S3Bucket
	// is empty.
	S3Bucket       string // bucket name for post images
	S3Region       string // bucket region
	S3AccessKey    string // static access key (MinIO root user in dev)
	S3SecretKey    string // static secret key
	S3BaseEndpoint string // custom endpoint for S3-compatible stores
	S3PublicBase   string // public base URL prepended to object keys

	// Message broker for feed activity events. Publishing is disabled
	// when AMQPURL is empty.
	AMQPURL string // broker connection URL
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),                 // environment (dev/test/prod)
		Port:           must("APP_PORT"),                // port to bind the HTTP server
		DBUser:         must("DB_USER"),                 // database user
		DBPass:         os.Getenv("DB_PASS"),            // database password (empty allowed)
		DBHost:         must("DB_HOST"),                 // database host
		DBPort:         must("DB_PORT"),                 // database port
		DBName:         must("DB_NAME"),                 // database name
		BcryptCost:     intOr("BCRYPT_COST", 10),        // bcrypt cost factor
		TokenTTLDays:   intOr("TOKEN_TTL_DAYS", 30),     // TTL for access tokens in days
		S3Bucket:       os.Getenv("S3_BUCKET"),          // image bucket (empty disables uploads)
		S3Region:       getenv("S3_REGION", "us-east-1"),
		S3AccessKey:    os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:    os.Getenv("S3_SECRET_KEY"),
		S3BaseEndpoint: os.Getenv("S3_BASE_ENDPOINT"),   // MinIO or other S3-compatible endpoint
		S3PublicBase:   os.Getenv("S3_PUBLIC_BASE_URL"), // public URL base for stored images
		AMQPURL:        os.Getenv("RABBITMQ_URL"),       // broker URL (empty disables events)
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// intOr converts an optional environment variable into an integer, falling
// back to def when the variable is unset. A malformed value is fatal.
func intOr(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
