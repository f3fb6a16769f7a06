package model

// ShopifyOrderPayload Shopify 订单 Webhook 报文（仅消费用到的字段）
type ShopifyOrderPayload struct {
	ID                string         `json:"id" binding:"required"`
	UpdatedAt         string         `json:"updated_at" binding:"required"`
	FinancialStatus   string         `json:"financial_status"`
	FulfillmentStatus string         `json:"fulfillment_status"`
	TotalPrice        string         `json:"total_price"`
	ShippingLines     []ShippingLine `json:"shipping_lines"`
}

// ShippingLine Shopify 报文中的物流行
type ShippingLine struct {
	Title string `json:"title"`
	Price string `json:"price"`
}

// Shopify Webhook 请求头约定
const (
	HeaderShopifyWebhookID  = "X-Shopify-Webhook-Id"
	HeaderShopifyHmacSha256 = "X-Shopify-Hmac-Sha256"
	HeaderShopifyTopic      = "X-Shopify-Topic"
)
