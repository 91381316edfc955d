package config

import (
	"errors"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

// Environment variable names for the store credentials
const (
	EnvRedisURL   = "REDIS_URL"
	EnvRedisToken = "REDIS_TOKEN"
)

// RedisCredentials are the two values that must both be present for the store to count as configured.
type RedisCredentials struct {
	// URL is either host:port or a redis:// / rediss:// URL.
	URL string `env:"REDIS_URL"`
	// Token is the access credential, sent as the AUTH password.
	Token string `env:"REDIS_TOKEN"`
}

// IsComplete reports whether both the address and the credential are set.
func (c RedisCredentials) IsComplete() bool {
	return strings.TrimSpace(c.URL) != "" && strings.TrimSpace(c.Token) != ""
}

// RedisConfig holds the store credentials plus client tuning.
type RedisConfig struct {
	Credentials RedisCredentials

	Database        int           `env:"REDIS_DB" envDefault:"0"`
	MaxRetries      int           `env:"REDIS_MAX_RETRIES" envDefault:"3"`
	PoolSize        int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns    int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	EnableTLS       bool          `env:"REDIS_TLS" envDefault:"false"`
	ConnMaxIdleTime time.Duration `env:"REDIS_CONN_MAX_IDLE_TIME" envDefault:"30m"`
	ConnMaxLifetime time.Duration `env:"REDIS_CONN_MAX_LIFETIME" envDefault:"1h"`
}

// LoadRedisCredentials reads only the two credential variables. It cannot fail.
func LoadRedisCredentials() RedisCredentials {
	creds := RedisCredentials{}
	_ = env.Parse(&creds)
	return creds
}

// LoadRedisConfig reads the full Redis configuration from the environment.
func LoadRedisConfig() (*RedisConfig, error) {
	cfg := &RedisConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load redis configuration from environment: " + err.Error())
	}

	// Load nested credentials explicitly, mirroring LoadRedisCredentials
	cfg.Credentials = LoadRedisCredentials()
	return cfg, nil
}
