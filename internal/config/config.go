package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. Session TTLs are split between the normal
// short-lived session and the long-lived "remember me" variant.
type Config struct {
	Env             string // application environment (e.g. "dev", "prod")
	Port            string // HTTP port to listen on
	DBUser          string // database username
	DBPass          string // database password (optional)
	DBHost          string // database host address
	DBPort          string // database port number
	DBName          string // database name
	SessionSecret   string // secret used to sign session tokens
	SessionTTLMin   int    // session time-to-live in minutes
	RememberTTLDays int    // "remember me" session time-to-live in days
	BcryptCost      int    // bcrypt cost for password hashing
	UploadDir       string // directory for stored vehicle photos
}

// Load reads configuration values from environment variables and
// returns a Config. Required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:             must("APP_ENV"),                        // environment (dev/test/prod)
		Port:            must("APP_PORT"),                       // port to bind the HTTP server
		DBUser:          must("DB_USER"),                        // database user
		DBPass:          os.Getenv("DB_PASS"),                   // database password (empty allowed)
		DBHost:          must("DB_HOST"),                        // database host
		DBPort:          must("DB_PORT"),                        // database port
		DBName:          must("DB_NAME"),                        // database name
		SessionSecret:   must("SESSION_SECRET"),                 // secret for signing session tokens
		SessionTTLMin:   intOr("SESSION_TTL_MIN", 120),          // default two-hour session
		RememberTTLDays: intOr("SESSION_REMEMBER_TTL_DAYS", 30), // "remember me" lasts 30 days
		BcryptCost:      mustInt("BCRYPT_COST"),                 // bcrypt cost factor
		UploadDir:       getenv("UPLOAD_DIR", "uploads"),        // photo storage directory
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

// mustInt is like must() but converts the retrieved string into an
// integer. If conversion fails, the application exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// intOr reads an optional integer variable, falling back to def when it
// is unset or malformed.
func intOr(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
