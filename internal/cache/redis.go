package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"announceslider/internal/model"
)

// RedisKeyPrefix 公告缓存键前缀
const RedisKeyPrefix = "announcements:cache:"

// Redis 基于 Redis 的缓存，过期由键 TTL 保证
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis 创建 Redis 缓存，ttl 非正数时使用 DefaultTTL
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, key string) ([]model.AnnouncementItem, bool, error) {
	data, err := r.client.Get(ctx, RedisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	var items []model.AnnouncementItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false, fmt.Errorf("decode cached page %s: %w", key, err)
	}
	return items, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, items []model.AnnouncementItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode page %s: %w", key, err)
	}
	if err := r.client.Set(ctx, RedisKeyPrefix+key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Clear 删除 RedisKeyPrefix 下的全部键
func (r *Redis) Clear(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, RedisKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
