package utils

import (
	"context"
	"log"
	"time"

	"arcadehub/config"

	"github.com/go-redis/redis/v8"
)

var (
	// LockClient is the dedicated client for reservation advisory locks.
	LockClient *redis.Client
	// EventClient is the dedicated client for event channel publishing.
	EventClient *redis.Client
)

// InitLockClient initializes the Redis client used for per-(device,date) locks.
func InitLockClient() {
	LockClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisLockDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := LockClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Locks): %v", err)
	}
}

// GetLockClient returns the reservation lock client.
func GetLockClient() *redis.Client {
	if LockClient == nil {
		InitLockClient()
	}
	return LockClient
}

// InitEventClient initializes the Redis client used for publishing engine events.
func InitEventClient() {
	EventClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisEventDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := EventClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Events): %v", err)
	}
}

// GetEventClient returns the event publishing client.
func GetEventClient() *redis.Client {
	if EventClient == nil {
		InitEventClient()
	}
	return EventClient
}
