package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// webhookKeyPrefix 去重键前缀
const webhookKeyPrefix = "webhook_id:"

// DedupStore Webhook 去重存储
// 键存在表示"已受理"（不代表已对账完成），按保留窗口过期
type DedupStore struct {
	client *redis.Client
}

// NewDedupStore 创建去重存储实例
func NewDedupStore(client *redis.Client) *DedupStore {
	return &DedupStore{client: client}
}

// Exists 判断 webhook_id 是否已受理
func (s *DedupStore) Exists(ctx context.Context, webhookID string) (bool, error) {
	n, err := s.client.Exists(ctx, webhookKeyPrefix+webhookID).Result()
	if err != nil {
		return false, fmt.Errorf("dedup exists failed: %w", err)
	}
	return n == 1, nil
}

// MarkReceived 标记 webhook_id 已受理（SETNX + 过期时间）
// 返回 false 表示键已存在（并发请求抢先标记）
func (s *DedupStore) MarkReceived(ctx context.Context, webhookID string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, webhookKeyPrefix+webhookID, "received", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("dedup mark failed: %w", err)
	}
	return ok, nil
}
