// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"mediquery/config"

	"github.com/go-redis/redis/v8"
)

// CacheClient is the shared read-cache client. Nil when redis is disabled;
// callers treat a nil client as "no cache".
var CacheClient *redis.Client

// InitCache initializes the Redis cache client when REDIS_ENABLED is set.
func InitCache() {
	if !config.AppConfig.RedisEnabled {
		return
	}
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := CacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Cache): %v", err)
	}
}

// GetCacheClient returns the cache client, which may be nil.
func GetCacheClient() *redis.Client {
	return CacheClient
}
