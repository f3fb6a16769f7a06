package webhook

import (
	"fincart/ordersync/internal/ingress"
	"fincart/ordersync/pkg/logger"
)

// WebhookHandler Webhook HTTP 处理器
type WebhookHandler struct {
	gate   *ingress.Gate
	logger logger.Logger
}

// NewWebhookHandler 创建 Webhook 处理器实例
func NewWebhookHandler(gate *ingress.Gate, log logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		gate:   gate,
		logger: log,
	}
}
