package model

import "time"

// ChannelOrderSynced 订单同步完成通知频道
const ChannelOrderSynced = "order:synced"

// OrderSyncedNotification 订单同步完成通知消息
// 每次成功写入后广播一条，订阅方尽力接收（无重放、无确认）
type OrderSyncedNotification struct {
	ID             string    `json:"id"`
	ShopifyOrderID string    `json:"shopify_order_id"`
	Status         string    `json:"status"`
	ShippingFee    string    `json:"shipping_fee"`
	UpdatedAt      time.Time `json:"updated_at"`
	Version        int64     `json:"version"`
}
