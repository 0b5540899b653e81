package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/farmstand/backend/pkg/logger"
)

// CacheConfig holds response cache configuration
type CacheConfig struct {
	DefaultTTL       time.Duration
	CacheableMethods []string
	CacheableStatus  []int
}

// DefaultCacheConfig returns default cache configuration
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		DefaultTTL:       time.Minute,
		CacheableMethods: []string{"GET", "HEAD"},
		CacheableStatus:  []int{200, 203, 300, 301, 404},
	}
}

// ResponseCache caches read responses in Redis. A nil client disables
// caching entirely.
func ResponseCache(redisClient *redis.Client, config CacheConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if redisClient == nil {
			return c.Next()
		}
		if !contains(config.CacheableMethods, c.Method()) {
			return c.Next()
		}

		cacheKey := cacheKeyFor(c)
		ctx := context.Background()

		cached, err := redisClient.Get(ctx, cacheKey).Bytes()
		if err == nil && len(cached) > 0 {
			c.Set("X-Cache", "HIT")
			c.Set("Content-Type", "application/json")
			return c.Send(cached)
		}

		err = c.Next()

		statusCode := c.Response().StatusCode()
		if containsInt(config.CacheableStatus, statusCode) {
			body := c.Response().Body()
			if cacheErr := redisClient.Set(ctx, cacheKey, body, config.DefaultTTL).Err(); cacheErr != nil {
				logger.Logger.Warn().
					Err(cacheErr).
					Str("cache_key", cacheKey).
					Msg("Failed to cache response")
			}
			c.Set("X-Cache", "MISS")
		}

		return err
	}
}

// CacheInvalidation drops cached reads for a resource after any
// successful mutation of it, keyed off the first resource segment of the
// path so admin writes clear the public read cache too.
func CacheInvalidation(redisClient *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if redisClient == nil {
			return err
		}
		switch c.Method() {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
			return err
		}
		status := c.Response().StatusCode()
		if status < 200 || status >= 300 {
			return err
		}

		noun := resourceNoun(c.Path())
		if noun == "" {
			return err
		}
		if invErr := InvalidateCache(redisClient, "cache:*/"+noun+"*"); invErr != nil {
			logger.Logger.Warn().
				Err(invErr).
				Str("resource", noun).
				Msg("Failed to invalidate cache")
		}
		return err
	}
}

// resourceNoun extracts the resource segment of an API path:
// /api/v1/admin/products/123 yields "products".
func resourceNoun(path string) string {
	for _, segment := range strings.Split(strings.Trim(path, "/"), "/") {
		switch segment {
		case "", "api", "v1", "admin":
			continue
		}
		return segment
	}
	return ""
}

// InvalidateCache deletes every cached response matching the pattern.
func InvalidateCache(redisClient *redis.Client, pattern string) error {
	if redisClient == nil {
		return nil
	}
	ctx := context.Background()

	iter := redisClient.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) > 0 {
		if err := redisClient.Del(ctx, keys...).Err(); err != nil {
			return err
		}
		logger.Logger.Info().
			Int("count", len(keys)).
			Str("pattern", pattern).
			Msg("Cache invalidated")
	}
	return nil
}

// cacheKeyFor keeps the request path readable in the key so invalidation
// can match by resource; the variable parts are hashed.
func cacheKeyFor(c *fiber.Ctx) string {
	rest := fmt.Sprintf("%s:%s:%s",
		c.Method(),
		string(c.Request().URI().QueryString()),
		c.Get("Authorization"),
	)
	hash := sha256.Sum256([]byte(rest))
	return "cache:" + c.Path() + ":" + hex.EncodeToString(hash[:])
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}

func containsInt(values []int, v int) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
