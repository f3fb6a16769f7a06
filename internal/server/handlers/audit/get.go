package audit

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"

	"fincart/ordersync/internal/entity"
	"fincart/ordersync/pkg/ginx"
)

// AuditResponse 审计记录查询响应
type AuditResponse struct {
	ID           string          `json:"id"`
	WebhookID    string          `json:"webhookId"`
	EventType    string          `json:"eventType"`
	Payload      json.RawMessage `json:"payload,omitempty"`
	Status       string          `json:"status"`
	ErrorMessage string          `json:"errorMessage,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	ProcessedAt  *time.Time      `json:"processedAt,omitempty"`
}

// fromAuditEntity 实体转响应
func fromAuditEntity(a *entity.AuditLog) *AuditResponse {
	return &AuditResponse{
		ID:           a.ID,
		WebhookID:    a.WebhookID,
		EventType:    a.EventType,
		Payload:      json.RawMessage(a.Payload),
		Status:       a.Status,
		ErrorMessage: a.ErrorMessage,
		CreatedAt:    a.CreatedAt,
		ProcessedAt:  a.ProcessedAt,
	}
}

// Get 根据 webhook_id 查询审计记录（投递处理全过程追溯）
func (h *AuditHandler) Get(c *gin.Context) {
	webhookID := c.Param("webhookId")
	if webhookID == "" {
		ginx.BadRequest(c, "webhook_id required")
		return
	}

	record, err := h.auditDAO.FindByWebhookID(c.Request.Context(), webhookID)
	if err != nil {
		h.logger.Errorf(c.Request.Context(), "[Audit] get audit log failed: %v", err)
		ginx.InternalError(c, "failed to query audit log")
		return
	}
	if record == nil {
		ginx.NotFound(c, "audit log not found")
		return
	}

	ginx.Success(c, fromAuditEntity(record))
}
