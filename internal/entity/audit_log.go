package entity

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog Webhook 审计记录
// 每个 webhook_id 只允许一行；状态从 RECEIVED 流转到唯一的终态
type AuditLog struct {
	// 基础字段
	ID        string `gorm:"column:id;primaryKey;type:varchar(64)"`
	WebhookID string `gorm:"column:webhook_id;type:varchar(128);not null;uniqueIndex:uk_audit_logs_webhook_id"`
	EventType string `gorm:"column:event_type;type:varchar(64)"`

	// 原始报文（原样存储，用于排查与重放）
	Payload datatypes.JSON `gorm:"column:payload;type:json;not null"`

	// 生命周期状态
	Status       string `gorm:"column:status;type:varchar(16);not null;default:'RECEIVED'"`
	ErrorMessage string `gorm:"column:error_message;type:text"`

	// 时间戳（processed_at 在进入终态时写入）
	CreatedAt   time.Time  `gorm:"column:created_at;not null;index:idx_audit_logs_created_at"`
	ProcessedAt *time.Time `gorm:"column:processed_at"`
}

// TableName 指定表名
func (AuditLog) TableName() string {
	return "audit_logs"
}

// 审计状态常量
const (
	AuditStatusReceived  = "RECEIVED"
	AuditStatusProcessed = "PROCESSED"
	AuditStatusDiscarded = "DISCARDED"
	AuditStatusFailed    = "FAILED"
)
