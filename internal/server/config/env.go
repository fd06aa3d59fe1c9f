package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from environment variables. A .env file in
// the working directory is loaded first if present; real environment
// variables win over .env entries (godotenv.Load does not override).
//
// Recognized variables:
//
//	SERVER_ADDR, DATABASE_DSN, REDIS_ADDR, JWT_SIGNING_KEY,
//	JWT_ACCESS_TOKEN_LIFETIME, JWT_REFRESH_TOKEN_LIFETIME ("5m", "720h"),
//	SIGNIN_RATE_LIMIT, SIGNIN_RATE_WINDOW, ENVIRONMENT
func parseEnv(config *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("SERVER_ADDR"); v != "" {
		config.EndpointAddr = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		config.DatabaseDSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		config.RedisAddr = v
	}
	if v := os.Getenv("JWT_SIGNING_KEY"); v != "" {
		config.SecretKey = v
	}
	if v := os.Getenv("JWT_ACCESS_TOKEN_LIFETIME"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.AccessTokenValidityDuration = d
		}
	}
	if v := os.Getenv("JWT_REFRESH_TOKEN_LIFETIME"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.RefreshTokenValidityDuration = d
		}
	}
	if v := os.Getenv("SIGNIN_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.SignInRateLimit = n
		}
	}
	if v := os.Getenv("SIGNIN_RATE_WINDOW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.SignInRateWindow = d
		}
	}
	if v := os.Getenv("ENVIRONMENT"); v != "" {
		config.Environment = v
	}
}
