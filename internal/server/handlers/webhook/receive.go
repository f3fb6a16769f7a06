package webhook

import (
	"github.com/gin-gonic/gin"

	"fincart/ordersync/internal/ingress"
	"fincart/ordersync/internal/model"
	"fincart/ordersync/internal/server/middlewares"
	"fincart/ordersync/pkg/ginx"
)

// ReceiptResponse Webhook 受理响应
type ReceiptResponse struct {
	Status    string `json:"status" example:"accepted"`
	WebhookID string `json:"webhookId" example:"wh-12345"`
	Message   string `json:"message,omitempty"`
}

// Receive 接收 Shopify 订单 Webhook
// 同步侧只做去重、审计和入队，对账在 Worker 异步完成
func (h *WebhookHandler) Receive(c *gin.Context) {
	ctx := c.Request.Context()

	webhookID := c.GetHeader(model.HeaderShopifyWebhookID)
	if webhookID == "" {
		ginx.BadRequest(c, "missing webhook id header")
		return
	}
	eventType := c.GetHeader(model.HeaderShopifyTopic)

	var payload model.ShopifyOrderPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.logger.Warnf(ctx, "[Webhook] invalid payload: webhook_id=%s, err=%v", webhookID, err)
		ginx.BadRequestWithValidation(c, err)
		return
	}

	// 原始报文由签名中间件缓存，原样入审计
	raw, _ := c.Get(middlewares.RawBodyKey)
	rawBody, _ := raw.([]byte)

	result, err := h.gate.Accept(ctx, webhookID, eventType, &payload, rawBody)
	if err != nil {
		h.logger.Errorf(ctx, "[Webhook] accept failed: webhook_id=%s, err=%v", webhookID, err)
		ginx.InternalError(c, "failed to accept webhook")
		return
	}

	if result == ingress.ResultDuplicate {
		ginx.Success(c, ReceiptResponse{
			Status:    string(ingress.ResultDuplicate),
			WebhookID: webhookID,
			Message:   "webhook already processed",
		})
		return
	}

	ginx.Success(c, ReceiptResponse{
		Status:    string(ingress.ResultAccepted),
		WebhookID: webhookID,
	})
}
