package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"strings" // strings normalizes enum-like values
	"time"    // time expresses the lock durations
)

// Config holds all runtime configuration values.  Each field
// corresponds to an environment variable.  Required variables are
// enforced by must(); tunables default to the production values the
// booking engine was deployed with.
type Config struct {
	Env             string        // application environment (e.g. "dev", "prod")
	Port            string        // HTTP port to listen on
	DBUser          string        // database username
	DBPass          string        // database password (optional)
	DBHost          string        // database host address
	DBPort          string        // database port number
	DBName          string        // database name
	JWTSecret       string        // secret used to verify JWTs
	AdmissionPolicy string        // "immediate" or "deferred" booking admission
	AllowOverbook   bool          // whether owners may force-assign a busy table
	LockTTL         time.Duration // booking lease time-to-live
	LockRetry       time.Duration // delay between lease acquisition attempts
	LockMaxAttempts int           // total lease acquisition attempts
}

// Load reads configuration values from environment variables and
// returns a Config.  Missing required variables cause the program to
// exit with a fatal log message.
func Load() Config {
	return Config{
		Env:             must("APP_ENV"),
		Port:            must("APP_PORT"),
		DBUser:          must("DB_USER"),
		DBPass:          os.Getenv("DB_PASS"), // empty allowed
		DBHost:          must("DB_HOST"),
		DBPort:          must("DB_PORT"),
		DBName:          must("DB_NAME"),
		JWTSecret:       must("JWT_SECRET"),
		AdmissionPolicy: strings.ToLower(getenv("ADMISSION_POLICY", "deferred")),
		AllowOverbook:   getenv("ALLOW_OVERBOOK", "false") == "true",
		LockTTL:         time.Duration(atoi(getenv("LOCK_TTL_MS", "10000"))) * time.Millisecond,
		LockRetry:       time.Duration(atoi(getenv("LOCK_RETRY_MS", "100"))) * time.Millisecond,
		LockMaxAttempts: atoi(getenv("LOCK_MAX_ATTEMPTS", "20")),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// getenv returns the value of an optional variable or a default.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// atoi converts, falling back to zero on malformed input; callers pass
// defaults that are themselves valid integers.
func atoi(s string) int {
	i, _ := strconv.Atoi(s)
	return i
}
