package config

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrRedisNotConfigured is returned when a client is requested without credentials
	ErrRedisNotConfigured = errors.New("redis credentials are not configured")
	// ErrUnsupportedRedisScheme is returned for URLs that are not redis:// or rediss://
	ErrUnsupportedRedisScheme = errors.New("unsupported redis url scheme")
	// ErrRedisClientUnavailable is returned when credentials exist but no client could be built
	ErrRedisClientUnavailable = errors.New("redis client unavailable")
)

// NewRedisClient creates a new Redis client using the provided configuration.
// Construction does not dial; the first command establishes the connection.
func NewRedisClient(cfg *RedisConfig) (*redis.Client, error) {
	if cfg == nil || !cfg.Credentials.IsComplete() {
		return nil, ErrRedisNotConfigured
	}

	options, err := cfg.clientOptions()
	if err != nil {
		return nil, err
	}

	return redis.NewClient(options), nil
}

func (c *RedisConfig) clientOptions() (*redis.Options, error) {
	address := strings.TrimSpace(c.Credentials.URL)

	var options *redis.Options
	switch {
	case strings.HasPrefix(address, "redis://"), strings.HasPrefix(address, "rediss://"):
		parsed, err := redis.ParseURL(address)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		options = parsed
	case strings.Contains(address, "://"):
		scheme, _, _ := strings.Cut(address, "://")
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedRedisScheme, scheme)
	default:
		options = &redis.Options{Addr: address, DB: c.Database}
	}

	options.Password = strings.TrimSpace(c.Credentials.Token)
	options.MaxRetries = c.MaxRetries
	options.PoolSize = c.PoolSize
	options.MinIdleConns = c.MinIdleConns

	// Connection timeouts
	options.DialTimeout = 5 * time.Second
	options.ReadTimeout = 3 * time.Second
	options.WriteTimeout = 3 * time.Second
	options.PoolTimeout = 4 * time.Second

	// Connection lifecycle management
	options.ConnMaxIdleTime = c.ConnMaxIdleTime
	if options.ConnMaxIdleTime == 0 {
		options.ConnMaxIdleTime = 30 * time.Minute
	}
	options.ConnMaxLifetime = c.ConnMaxLifetime
	if options.ConnMaxLifetime == 0 {
		options.ConnMaxLifetime = time.Hour
	}

	if c.EnableTLS && options.TLSConfig == nil {
		host, _, err := net.SplitHostPort(options.Addr)
		if err != nil {
			host = options.Addr
		}
		options.TLSConfig = &tls.Config{
			ServerName: host,
			MinVersion: tls.VersionTLS12,
		}
	}

	return options, nil
}
