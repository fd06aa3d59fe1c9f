package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/RTHeLL/mg-test/internal/flagx"
	"github.com/RTHeLL/mg-test/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. It uses timex.Duration for lifetime fields, which accepts both
// string values such as "5m" and integer nanoseconds. After unmarshalling,
// non-zero fields are copied into the runtime Config.
type JsonConfig struct {
	EndpointAddr                 string         `json:"endpoint_addr"`
	DatabaseDSN                  string         `json:"database_dsn"`
	RedisAddr                    string         `json:"redis_addr"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	SignInRateLimit              int            `json:"signin_rate_limit"`
	SignInRateWindow             timex.Duration `json:"signin_rate_window"`
	Environment                  string         `json:"environment"`
}

// parseJson loads configuration values from the JSON file pointed to by the
// -c/-config flags. When no file is given, nothing happens. An unreadable or
// invalid file panics: a half-applied config is worse than a crash at start.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.RedisAddr != "" {
		config.RedisAddr = c.RedisAddr
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityDuration.Duration)
	}
	if c.RefreshTokenValidityDuration.Duration != 0 {
		config.RefreshTokenValidityDuration = time.Duration(c.RefreshTokenValidityDuration.Duration)
	}
	if c.SignInRateLimit != 0 {
		config.SignInRateLimit = c.SignInRateLimit
	}
	if c.SignInRateWindow.Duration != 0 {
		config.SignInRateWindow = time.Duration(c.SignInRateWindow.Duration)
	}
	if c.Environment != "" {
		config.Environment = c.Environment
	}
}
