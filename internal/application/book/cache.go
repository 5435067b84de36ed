package book

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookoutlet/pkg/logger"
)

// StatsCacheKey 目录统计缓存key
const StatsCacheKey = "stats:catalog"

// Cache JSON缓存接口,由redis.Cache或memory.Cache实现
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// InvalidateStats 删除目录统计缓存
// 缓存删除失败只记录日志,TTL到期后自然恢复
func InvalidateStats(ctx context.Context, cache Cache) {
	if cache == nil {
		return
	}
	if err := cache.Delete(ctx, StatsCacheKey); err != nil {
		logger.FromContext(ctx).Warn("删除统计缓存失败", zap.Error(err))
	}
}
