package productcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/dmitrijs2005/scalehub/internal/common"
	"github.com/dmitrijs2005/scalehub/internal/scaleapi"
)

// connectTimeout bounds the initial ping when the store is constructed.
const connectTimeout = 5 * time.Second

// RedisStore keeps each device's catalog as a JSON blob under
// "device:{id}:products". Entries have no TTL; a catalog lives until the
// next fetch replaces it or the device is deleted.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis at addr and verifies the connection
// with a ping.
func NewRedisStore(addr string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connect: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func key(deviceID int64) string {
	return fmt.Sprintf("device:%d:products", deviceID)
}

func (s *RedisStore) Get(ctx context.Context, deviceID int64) ([]scaleapi.Product, error) {
	data, err := s.client.Get(ctx, key(deviceID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("cache error: %w", err)
	}

	var products []scaleapi.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("cache error: %w", err)
	}
	return products, nil
}

func (s *RedisStore) Set(ctx context.Context, deviceID int64, products []scaleapi.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("cache error: %w", err)
	}
	if err := s.client.Set(ctx, key(deviceID), data, 0).Err(); err != nil {
		return fmt.Errorf("cache error: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, deviceID int64) error {
	if err := s.client.Del(ctx, key(deviceID)).Err(); err != nil {
		return fmt.Errorf("cache error: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
