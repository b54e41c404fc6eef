// Package cache 公告分页的短期缓存
package cache

import (
	"context"
	"fmt"
	"time"

	"announceslider/internal/model"
)

// DefaultTTL 缓存有效期
const DefaultTTL = 60 * time.Second

// Cache 按组合键存储公告分页
type Cache interface {
	// Get 返回未过期的缓存页
	Get(ctx context.Context, key string) ([]model.AnnouncementItem, bool, error)
	Set(ctx context.Context, key string, items []model.AnnouncementItem) error
	// Clear 清空全部条目，不区分组织和页码
	Clear(ctx context.Context) error
}

// Key 生成 "{organizationId}-{page}-{limit}" 缓存键
func Key(organizationID string, page, limit int) string {
	return fmt.Sprintf("%s-%d-%d", organizationID, page, limit)
}
