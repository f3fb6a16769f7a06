package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order 订单实体（Shopify 订单的权威记录）
// 每个 shopify_order_id 只存在一行，version 字段用于乐观锁
type Order struct {
	// 基础字段
	ID             string `gorm:"column:id;primaryKey;type:varchar(64)"`
	ShopifyOrderID string `gorm:"column:shopify_order_id;type:varchar(128);not null;uniqueIndex:uk_shopify_order_id"`

	// 同步状态与运费
	Status      string          `gorm:"column:status;type:varchar(16);not null;default:'PENDING'"`
	ShippingFee decimal.Decimal `gorm:"column:shipping_fee;type:decimal(10,2);not null;default:0"`

	// 上游事件时间戳（首次同步前为 NULL，之后单调不减）
	LastExternalUpdatedAt *time.Time `gorm:"column:last_external_updated_at"`

	// 乐观锁版本号，每次成功写入 +1
	Version int64 `gorm:"column:version;not null;default:1"`

	// 时间戳
	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// 订单状态常量
const (
	OrderStatusPending   = "PENDING"
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusShipped   = "SHIPPED"
	OrderStatusCancelled = "CANCELLED"
)
