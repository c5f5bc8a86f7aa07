package utils

import (
	"context"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/emmiamia/nourishsteps/config"
)

var (
	redisClient *redis.Client
	redisMu     sync.RWMutex
)

// InitRedis creates the shared client when the cache is enabled. A failed
// ping is logged and the client kept; cache calls degrade to misses.
func InitRedis(cfg config.AppConfig) *redis.Client {
	redisMu.Lock()
	defer redisMu.Unlock()

	if !cfg.RedisEnabled {
		redisClient = nil
		return nil
	}
	redisClient = redis.NewClient(&redis.Options{
		Addr:         net.JoinHostPort(cfg.RedisHost, strconv.Itoa(cfg.RedisPort)),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		Sugar.Warnf("redis ping failed addr=%s err=%v", redisClient.Options().Addr, err)
	}
	return redisClient
}

// GetRedis returns the shared client, or nil when caching is off.
func GetRedis() *redis.Client {
	redisMu.RLock()
	defer redisMu.RUnlock()
	return redisClient
}

// CloseRedis releases the shared client.
func CloseRedis() {
	redisMu.Lock()
	defer redisMu.Unlock()
	if redisClient != nil {
		_ = redisClient.Close()
		redisClient = nil
	}
}
