// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration values.  Each field corresponds
// to one environment variable.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	DBUser         string // database username
	DBPass         string // database password (optional)
	DBHost         string // database host address
	DBPort         string // database port number
	DBName         string // database name
	JWTSecret      string // secret used to sign JWTs
	AccessTTLMin   int    // access token lifetime in minutes
	RefreshTTLDays int    // refresh token lifetime in days
	BcryptCost     int    // bcrypt cost for password hashing
}

// Load reads configuration from the environment.  Missing required
// variables are fatal.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"),
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),
	}
}

func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
