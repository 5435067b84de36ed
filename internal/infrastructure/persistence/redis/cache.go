package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/bookoutlet/pkg/errors"
)

// Cache JSON缓存
// 目录统计等读多写少的数据,写入时删除对应key
type Cache struct {
	client *redis.Client
}

// NewCache 创建缓存
func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// GetJSON 读取并反序列化,未命中返回false
func (c *Cache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.Wrap(err, "读取缓存失败")
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, apperrors.Wrap(err, "解析缓存失败")
	}
	return true, nil
}

// SetJSON 序列化写入
func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return apperrors.Wrap(err, "序列化缓存失败")
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return apperrors.Wrap(err, "写入缓存失败")
	}
	return nil
}

// Delete 删除key
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return apperrors.Wrap(err, "删除缓存失败")
	}
	return nil
}
