package audit

import (
	"fincart/ordersync/pkg/infra/mysql"
	"fincart/ordersync/pkg/logger"
)

// AuditHandler 审计查询 HTTP 处理器
type AuditHandler struct {
	auditDAO *mysql.AuditDAO
	logger   logger.Logger
}

// NewAuditHandler 创建审计处理器实例
func NewAuditHandler(auditDAO *mysql.AuditDAO, log logger.Logger) *AuditHandler {
	return &AuditHandler{
		auditDAO: auditDAO,
		logger:   log,
	}
}
