package model

// ActionTypeOrderSync 订单同步任务的 action_type
const ActionTypeOrderSync = "order_sync"

// OrderSyncJob 订单同步任务消息（标准化）
// 用于 apiserver → worker 的消息传递
type OrderSyncJob struct {
	Payload OrderSyncPayload `json:"payload"`
}

// OrderSyncPayload Job 负载
type OrderSyncPayload struct {
	Data OrderSyncData `json:"data"`
}

// OrderSyncData Job 数据层
type OrderSyncData struct {
	// 元信息
	RequestID  string `json:"request_id"`  // 请求 ID（全链路追踪）
	OrgID      string `json:"org_id"`      // 组织 ID（MVP 固定为 "0"）
	ActionType string `json:"action_type"` // 动作类型，固定值 "order_sync"
	ID         string `json:"id"`          // Webhook 投递 ID

	// 业务数据
	Data OrderSyncBusinessData `json:"data"`
}

// OrderSyncBusinessData 订单同步业务数据
// 携带 worker 执行对账所需的全部数据（避免回查 DB）
type OrderSyncBusinessData struct {
	WebhookID string              `json:"webhook_id"` // Webhook 投递 ID
	EventType string              `json:"event_type"` // 事件类型（X-Shopify-Topic）
	Payload   ShopifyOrderPayload `json:"payload"`    // Shopify 原始订单报文
}
