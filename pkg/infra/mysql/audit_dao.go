package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"fincart/ordersync/internal/entity"
)

// AuditDAO 审计记录数据访问对象
type AuditDAO struct {
	db *gorm.DB
}

// NewAuditDAO 创建 AuditDAO 实例
func NewAuditDAO(db *gorm.DB) *AuditDAO {
	return &AuditDAO{db: db}
}

// Create 创建审计记录（初始状态 RECEIVED，原始报文原样落库）
func (dao *AuditDAO) Create(ctx context.Context, webhookID, eventType string, payload []byte) (*entity.AuditLog, error) {
	record := &entity.AuditLog{
		ID:        uuid.New().String(),
		WebhookID: webhookID,
		EventType: eventType,
		Payload:   datatypes.JSON(payload),
		Status:    entity.AuditStatusReceived,
		CreatedAt: time.Now(),
	}

	if err := dao.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, fmt.Errorf("failed to create audit log: %w", err)
	}
	return record, nil
}

// SetStatus 更新审计记录状态
// 终态（PROCESSED/DISCARDED/FAILED）同时写入 processed_at
func (dao *AuditDAO) SetStatus(ctx context.Context, webhookID, status, detail string) error {
	updates := map[string]interface{}{
		"status": status,
	}

	if detail != "" {
		updates["error_message"] = detail
	}

	switch status {
	case entity.AuditStatusProcessed, entity.AuditStatusDiscarded, entity.AuditStatusFailed:
		updates["processed_at"] = time.Now()
	}

	result := dao.db.WithContext(ctx).
		Model(&entity.AuditLog{}).
		Where("webhook_id = ?", webhookID).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update audit log: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("audit log not found: %s", webhookID)
	}
	return nil
}

// FindByWebhookID 根据 webhook_id 查询审计记录（不存在返回 nil）
func (dao *AuditDAO) FindByWebhookID(ctx context.Context, webhookID string) (*entity.AuditLog, error) {
	var record entity.AuditLog
	err := dao.db.WithContext(ctx).Where("webhook_id = ?", webhookID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find audit log: %w", err)
	}
	return &record, nil
}
