package sync

import (
	"context"
	"encoding/json"
	"fmt"

	"fincart/ordersync/internal/business"
	"fincart/ordersync/internal/domains/common"
	"fincart/ordersync/internal/domains/common/job"
	"fincart/ordersync/internal/domains/common/response"
	"fincart/ordersync/internal/model"
)

// SyncHandler 订单同步 Handler
type SyncHandler struct {
	ctx        context.Context
	meta       *job.Meta
	bizData    *model.OrderSyncBusinessData
	reconciler *business.Reconciler
}

// NewSyncHandler 创建同步 Handler
// 解析标准化 Job 消息并校验必填字段
func NewSyncHandler(ctx context.Context, meta *job.Meta, payload interface{}, reconciler *business.Reconciler) (common.HandlerServ, error) {
	// 解析 payload（业务数据）
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload failed: %w", err)
	}

	var bizData model.OrderSyncBusinessData
	if err := json.Unmarshal(payloadBytes, &bizData); err != nil {
		return nil, fmt.Errorf("unmarshal business data failed: %w", err)
	}

	// 校验必填字段
	if bizData.WebhookID == "" {
		return nil, fmt.Errorf("webhook_id is required")
	}
	if bizData.Payload.ID == "" {
		return nil, fmt.Errorf("payload.id is required")
	}

	return &SyncHandler{
		ctx:        ctx,
		meta:       meta,
		bizData:    &bizData,
		reconciler: reconciler,
	}, nil
}

// GetProcess 处理同步请求
func (h *SyncHandler) GetProcess() *response.Response {
	result := response.NewSyncResult()

	// 执行对账
	err := h.reconciler.Execute(h.ctx, h.bizData.WebhookID, &h.bizData.Payload)

	// 包装响应
	resp := &response.Response{}
	resp.WrapResponse(result, h.meta, err)

	return resp
}
