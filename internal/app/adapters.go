package app

import (
	"crypto/tls"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	iauth "github.com/avelines/gradeboard/internal/auth"
	"github.com/avelines/gradeboard/internal/services"
)

// RedisOptions converts the cache configuration into go-redis client options.
func (c CacheConfig) RedisOptions() *redis.Options {
	opts := &redis.Options{
		Addr:     strings.TrimSpace(c.Redis.Address),
		Username: strings.TrimSpace(c.Redis.Username),
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
	}
	if c.Redis.TLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return opts
}

// ListingTTL returns the configured cache TTL with the default applied.
func (c CacheConfig) ListingTTL() time.Duration {
	if c.TTL <= 0 {
		return services.DefaultCacheTTL
	}
	return c.TTL
}

// JWTServiceConfig converts the auth configuration into the auth package representation.
func (a AuthConfig) JWTServiceConfig() iauth.JWTConfig {
	ttl := a.JWT.TTL
	if ttl <= 0 {
		ttl = iauth.DefaultAccessTokenTTL
	}
	return iauth.JWTConfig{
		Secret:         strings.TrimSpace(a.JWT.Secret),
		Issuer:         strings.TrimSpace(a.JWT.Issuer),
		AccessTokenTTL: ttl,
	}
}
