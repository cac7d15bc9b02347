// Package cache wraps the redis client used for cached reads and for the
// sync event channel clients subscribe to for live refresh.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/jassimshanavas/time-management-sub000/internal/domain/events"
	"github.com/jassimshanavas/time-management-sub000/pkg/config"
	"github.com/jassimshanavas/time-management-sub000/pkg/logger"
)

var (
	ErrCacheNotFound   = errors.New("cache: key not found")
	ErrCacheConnection = errors.New("cache: connection error")
)

// SyncEventChannel is the redis channel sync events are published on.
const SyncEventChannel = "sync:events"

// Config holds the redis client configuration.
type Config struct {
	Addr             string
	Password         string
	DB               int
	PoolSize         int
	MinIdleConns     int
	OperationTimeout time.Duration
	DefaultTTL       time.Duration
	KeyPrefix        string
}

// NewConfigFromEnv derives the redis config from project configuration.
func NewConfigFromEnv(cfg *config.Config) *Config {
	return &Config{
		Addr:             fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password:         cfg.Redis.Password,
		DB:               cfg.Redis.DB,
		PoolSize:         50,
		MinIdleConns:     5,
		OperationTimeout: 2 * time.Second,
		DefaultTTL:       30 * time.Minute,
		KeyPrefix:        "tms:",
	}
}

// RedisClient wraps the redis connection with JSON helpers and the sync
// event channel.
type RedisClient struct {
	client *redis.Client
	config *Config
	logger *logger.Logger
}

// NewRedisClient connects and verifies the connection with a ping.
func NewRedisClient(cfg *Config, log *logger.Logger) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheConnection, err)
	}

	return &RedisClient{
		client: client,
		config: cfg,
		logger: log,
	}, nil
}

func (r *RedisClient) key(k string) string {
	return r.config.KeyPrefix + k
}

// Set stores a JSON-encoded value under the prefixed key.
func (r *RedisClient) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = r.config.DefaultTTL
	}
	ctx, cancel := context.WithTimeout(ctx, r.config.OperationTimeout)
	defer cancel()
	return r.client.Set(ctx, r.key(key), data, ttl).Err()
}

// Get reads a JSON-encoded value into dest. Missing keys return
// ErrCacheNotFound.
func (r *RedisClient) Get(ctx context.Context, key string, dest interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, r.config.OperationTimeout)
	defer cancel()
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheNotFound
		}
		return err
	}
	return json.Unmarshal(data, dest)
}

// Delete removes a key. Deleting a missing key is not an error.
func (r *RedisClient) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, r.config.OperationTimeout)
	defer cancel()
	return r.client.Del(ctx, r.key(key)).Err()
}

// PublishSyncEvent pushes a sync event onto the shared channel.
func (r *RedisClient) PublishSyncEvent(ctx context.Context, event *events.SyncEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, r.config.OperationTimeout)
	defer cancel()
	return r.client.Publish(ctx, SyncEventChannel, payload).Err()
}

// SubscribeSyncEvents delivers decoded sync events to the handler until the
// context is cancelled. Malformed payloads are logged and skipped.
func (r *RedisClient) SubscribeSyncEvents(ctx context.Context, handler func(*events.SyncEvent)) error {
	sub := r.client.Subscribe(ctx, SyncEventChannel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return err
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event events.SyncEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					r.logger.Error("failed to decode sync event", zap.Error(err))
					continue
				}
				handler(&event)
			}
		}
	}()
	return nil
}

// Health pings the server.
func (r *RedisClient) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.config.OperationTimeout)
	defer cancel()
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheConnection, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (r *RedisClient) Close() error {
	return r.client.Close()
}
