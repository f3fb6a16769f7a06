package business

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"fincart/ordersync/internal/entity"
	"fincart/ordersync/internal/model"
	"fincart/ordersync/pkg/errorutil"
	"fincart/ordersync/pkg/infra/mysql"
	"fincart/ordersync/pkg/logger"
)

// OrderStore 订单存储契约
type OrderStore interface {
	FindByShopifyID(ctx context.Context, shopifyOrderID string) (*entity.Order, error)
	SaveWithVersion(ctx context.Context, order *entity.Order, expectedVersion int64) error
}

// AuditTrail 审计记录契约
type AuditTrail interface {
	SetStatus(ctx context.Context, webhookID, status, detail string) error
}

// ChangeNotifier 变更通知契约（尽力而为，不阻塞对账）
type ChangeNotifier interface {
	PublishOrderSynced(ctx context.Context, notification *model.OrderSyncedNotification) error
}

// Reconciler 订单对账引擎
// 每次调用都是（当前订单快照，本次报文）的纯函数加落库/通知副作用，
// 自身不保留任何跨调用状态，不实现重试循环（重试由队列驱动）
type Reconciler struct {
	orders   OrderStore
	audit    AuditTrail
	notifier ChangeNotifier
	logger   logger.Logger
}

// NewReconciler 创建对账引擎实例
func NewReconciler(orders OrderStore, audit AuditTrail, notifier ChangeNotifier, log logger.Logger) *Reconciler {
	return &Reconciler{
		orders:   orders,
		audit:    audit,
		notifier: notifier,
		logger:   log,
	}
}

// Execute 对账单次投递
// 返回 nil 表示本次投递已到终态（PROCESSED 或 DISCARDED）；
// 返回可重试错误则由队列按 TTR/tries 重投，不可重试错误直接终止
func (r *Reconciler) Execute(ctx context.Context, webhookID string, payload *model.ShopifyOrderPayload) error {
	// 0. 解析上游事件时间戳
	payloadTime, err := time.Parse(time.RFC3339, payload.UpdatedAt)
	if err != nil {
		detail := "invalid updated_at: " + payload.UpdatedAt
		r.markFailed(ctx, webhookID, detail)
		return errorutil.NonRetriableWithDetails("invalid payload timestamp", err.Error())
	}

	// 1. 加载当前订单快照（不存在表示新建）
	existing, err := r.orders.FindByShopifyID(ctx, payload.ID)
	if err != nil {
		r.markFailed(ctx, webhookID, err.Error())
		return errorutil.RetriableWithDetails("load order failed", err.Error())
	}

	// 2. 过期检查：报文时间戳 <= 已落库时间戳的更新直接丢弃
	// 时间戳相等视为过期，保证 last_external_updated_at 单调不减
	if existing != nil && existing.LastExternalUpdatedAt != nil {
		if !payloadTime.After(*existing.LastExternalUpdatedAt) {
			r.logger.Warnf(ctx, "[Reconciler] Discarding stale update for order %s: payload=%s, db=%s",
				payload.ID, payloadTime.Format(time.RFC3339), existing.LastExternalUpdatedAt.Format(time.RFC3339))
			if auditErr := r.audit.SetStatus(ctx, webhookID, entity.AuditStatusDiscarded, "stale data - out of order update"); auditErr != nil {
				r.logger.Errorf(ctx, "[Reconciler] Mark discarded failed for %s: %v", webhookID, auditErr)
			}
			return nil
		}
	}

	// 3. 派生目标状态与运费（无状态映射，只看本次报文）
	status := DeriveStatus(payload.FinancialStatus, payload.FulfillmentStatus)
	fee := CalculateTieredShippingFee(ParseOrderTotal(payload.TotalPrice))

	// 4. 组装写入快照
	var order *entity.Order
	var expectedVersion int64
	if existing == nil {
		order = &entity.Order{
			ID:             uuid.New().String(),
			ShopifyOrderID: payload.ID,
		}
		expectedVersion = 0
	} else {
		order = existing
		expectedVersion = existing.Version
	}
	order.Status = status
	order.ShippingFee = fee
	order.LastExternalUpdatedAt = &payloadTime

	// 5. 乐观写入（版本 CAS）
	if err := r.orders.SaveWithVersion(ctx, order, expectedVersion); err != nil {
		if errors.Is(err, mysql.ErrVersionConflict) {
			// 冲突：另一个写入者已替换该版本，整个对账由队列重投后从头重跑
			r.logger.Warnf(ctx, "[Reconciler] Version conflict for order %s (webhook %s), will retry",
				payload.ID, webhookID)
			r.markFailed(ctx, webhookID, "version conflict - will retry")
			return errorutil.Retriable("order version conflict")
		}

		// 其他存储故障：记审计后交给队列重试策略
		r.logger.Errorf(ctx, "[Reconciler] Save order %s failed: %v", payload.ID, err)
		r.markFailed(ctx, webhookID, err.Error())
		return errorutil.RetriableWithDetails("save order failed", err.Error())
	}

	r.logger.Infof(ctx, "[Reconciler] Order %s saved: status=%s, shipping_fee=%s, version=%d",
		order.ShopifyOrderID, order.Status, order.ShippingFee.StringFixed(2), order.Version)

	// 6. 广播变更通知（尽力而为，失败只记日志）
	notification := &model.OrderSyncedNotification{
		ID:             order.ID,
		ShopifyOrderID: order.ShopifyOrderID,
		Status:         order.Status,
		ShippingFee:    order.ShippingFee.StringFixed(2),
		UpdatedAt:      order.UpdatedAt,
		Version:        order.Version,
	}
	if err := r.notifier.PublishOrderSynced(ctx, notification); err != nil {
		r.logger.Warnf(ctx, "[Reconciler] Publish notification failed for order %s: %v",
			order.ShopifyOrderID, err)
	}

	// 7. 审计终态 PROCESSED
	// 此处失败只记日志：订单已落库，重跑只会被过期检查丢弃并把终态改写为 DISCARDED
	if err := r.audit.SetStatus(ctx, webhookID, entity.AuditStatusProcessed, ""); err != nil {
		r.logger.Errorf(ctx, "[Reconciler] Mark processed failed for %s: %v", webhookID, err)
	}

	return nil
}

// markFailed 记录失败审计，审计本身失败只记日志
func (r *Reconciler) markFailed(ctx context.Context, webhookID, detail string) {
	if err := r.audit.SetStatus(ctx, webhookID, entity.AuditStatusFailed, detail); err != nil {
		r.logger.Errorf(ctx, "[Reconciler] Mark failed failed for %s: %v", webhookID, err)
	}
}
