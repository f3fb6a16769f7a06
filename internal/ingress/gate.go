package ingress

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fincart/ordersync/internal/entity"
	"fincart/ordersync/internal/model"
	"fincart/ordersync/pkg/logger"
)

// Result 受理结果
type Result string

const (
	// ResultAccepted 已受理，进入异步对账
	ResultAccepted Result = "accepted"
	// ResultDuplicate 重复投递，幂等丢弃
	ResultDuplicate Result = "duplicate"
)

// DedupStore 去重存储契约
type DedupStore interface {
	Exists(ctx context.Context, webhookID string) (bool, error)
	MarkReceived(ctx context.Context, webhookID string, ttl time.Duration) (bool, error)
}

// AuditCreator 审计创建契约
type AuditCreator interface {
	Create(ctx context.Context, webhookID, eventType string, payload []byte) (*entity.AuditLog, error)
}

// JobQueue 任务队列契约
type JobQueue interface {
	Publish(queue string, data []byte, ttl uint32, tries uint16, delay uint32) error
}

// Gate Webhook 受理网关
// 流程：去重检查 → 标记受理（24h 窗口）→ 审计 RECEIVED → 入队
// 标记先于入队：标记后崩溃最坏丢一次投递（上游会重发），绝不会重复处理
type Gate struct {
	dedup     DedupStore
	audit     AuditCreator
	queue     JobQueue
	queueName string
	attempts  uint16
	dedupTTL  time.Duration
	logger    logger.Logger
}

// NewGate 创建受理网关实例
func NewGate(
	dedup DedupStore,
	audit AuditCreator,
	queue JobQueue,
	queueName string,
	attempts uint16,
	dedupTTL time.Duration,
	log logger.Logger,
) *Gate {
	return &Gate{
		dedup:     dedup,
		audit:     audit,
		queue:     queue,
		queueName: queueName,
		attempts:  attempts,
		dedupTTL:  dedupTTL,
		logger:    log,
	}
}

// Accept 受理一次 Webhook 投递
// raw 为未经改写的原始报文，原样写入审计
func (g *Gate) Accept(ctx context.Context, webhookID, eventType string, payload *model.ShopifyOrderPayload, raw []byte) (Result, error) {
	// 1. 去重检查：已受理的投递不做任何副作用（原始 RECEIVED 审计已存在）
	exists, err := g.dedup.Exists(ctx, webhookID)
	if err != nil {
		return "", fmt.Errorf("dedup check failed: %w", err)
	}
	if exists {
		g.logger.Infof(ctx, "[Gate] Duplicate webhook detected: %s", webhookID)
		return ResultDuplicate, nil
	}

	// 2. 标记受理（SETNX 防并发双发）
	marked, err := g.dedup.MarkReceived(ctx, webhookID, g.dedupTTL)
	if err != nil {
		return "", fmt.Errorf("dedup mark failed: %w", err)
	}
	if !marked {
		g.logger.Infof(ctx, "[Gate] Duplicate webhook detected (race): %s", webhookID)
		return ResultDuplicate, nil
	}

	// 3. 审计 RECEIVED
	if _, err := g.audit.Create(ctx, webhookID, eventType, raw); err != nil {
		return "", fmt.Errorf("create audit log failed: %w", err)
	}

	// 4. 构造标准化任务消息并入队
	job := model.OrderSyncJob{
		Payload: model.OrderSyncPayload{
			Data: model.OrderSyncData{
				RequestID:  uuid.New().String(),
				OrgID:      "0",
				ActionType: model.ActionTypeOrderSync,
				ID:         webhookID,
				Data: model.OrderSyncBusinessData{
					WebhookID: webhookID,
					EventType: eventType,
					Payload:   *payload,
				},
			},
		},
	}

	jobJSON, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("marshal job failed: %w", err)
	}

	ttl := uint32(g.dedupTTL.Seconds())
	if err := g.queue.Publish(g.queueName, jobJSON, ttl, g.attempts, 0); err != nil {
		return "", fmt.Errorf("enqueue failed: %w", err)
	}

	g.logger.Infof(ctx, "[Gate] Webhook queued for processing: %s", webhookID)
	return ResultAccepted, nil
}
