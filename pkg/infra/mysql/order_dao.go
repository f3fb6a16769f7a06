package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"fincart/ordersync/internal/entity"
)

// ErrVersionConflict 乐观锁冲突：期望版本已被其他写入者替换
var ErrVersionConflict = errors.New("order version conflict")

// OrderDAO 订单数据访问对象
type OrderDAO struct {
	db *gorm.DB
}

// NewOrderDAO 创建 OrderDAO 实例
func NewOrderDAO(db *gorm.DB) *OrderDAO {
	return &OrderDAO{db: db}
}

// FindByShopifyID 根据 Shopify 订单号查询（不存在返回 nil）
func (dao *OrderDAO) FindByShopifyID(ctx context.Context, shopifyOrderID string) (*entity.Order, error) {
	var order entity.Order
	err := dao.db.WithContext(ctx).
		Where("shopify_order_id = ?", shopifyOrderID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find order by shopify id: %w", err)
	}
	return &order, nil
}

// FindByID 根据内部 ID 查询（不存在返回 nil）
func (dao *OrderDAO) FindByID(ctx context.Context, orderID string) (*entity.Order, error) {
	var order entity.Order
	err := dao.db.WithContext(ctx).Where("id = ?", orderID).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find order by id: %w", err)
	}
	return &order, nil
}

// SaveWithVersion 带版本校验的写入（Compare-And-Swap）
// expectedVersion == 0 表示新建（version 落库为 1）；
// 否则执行 UPDATE ... WHERE version = expectedVersion，
// RowsAffected == 0 视为冲突返回 ErrVersionConflict。
// 写入成功后 order 的 Version/UpdatedAt 为落库后的值。
func (dao *OrderDAO) SaveWithVersion(ctx context.Context, order *entity.Order, expectedVersion int64) error {
	now := time.Now()

	if expectedVersion == 0 {
		order.Version = 1
		order.CreatedAt = now
		order.UpdatedAt = now
		if err := dao.db.WithContext(ctx).Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		return nil
	}

	result := dao.db.WithContext(ctx).
		Model(&entity.Order{}).
		Where("id = ? AND version = ?", order.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":                   order.Status,
			"shipping_fee":             order.ShippingFee,
			"last_external_updated_at": order.LastExternalUpdatedAt,
			"version":                  expectedVersion + 1,
			"updated_at":               now,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update order: %w", result.Error)
	}

	// 零行更新：版本已被并发写入者替换
	if result.RowsAffected == 0 {
		return ErrVersionConflict
	}

	order.Version = expectedVersion + 1
	order.UpdatedAt = now
	return nil
}
