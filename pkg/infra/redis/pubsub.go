package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"fincart/ordersync/internal/model"
)

// PubSub Redis 发布/订阅客户端
type PubSub struct {
	client *redis.Client
}

// NewPubSub 创建 PubSub 实例
func NewPubSub(client *redis.Client) *PubSub {
	return &PubSub{client: client}
}

// PublishOrderSynced 发布订单同步完成通知
// 发布失败由调用方记录日志，不阻塞对账流程
func (p *PubSub) PublishOrderSynced(ctx context.Context, notification *model.OrderSyncedNotification) error {
	msgJSON, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	if err := p.client.Publish(ctx, model.ChannelOrderSynced, msgJSON).Err(); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	return nil
}

// Subscribe 订阅 Redis 频道（用于测试与前端网关）
func (p *PubSub) Subscribe(ctx context.Context, channel string) *redis.PubSub {
	return p.client.Subscribe(ctx, channel)
}
