package response

import (
	"fincart/ordersync/internal/domains/common/job"
	"fincart/ordersync/pkg/errorutil"
)

// SyncResult 订单同步结果（实现 ResultI 接口）
type SyncResult struct {
	ID     string           `json:"id"`
	Status string           `json:"status"`
	Error  *errorutil.Error `json:"error,omitempty"`
}

const (
	SyncStatusSuccess = "SUCCESS"
	SyncStatusFailed  = "FAILED"
)

// NewSyncResult 创建同步结果
func NewSyncResult() *SyncResult {
	return &SyncResult{}
}

// Set 实现 ResultI 接口
func (r *SyncResult) Set(meta *job.Meta, err error) {
	r.ID = meta.ID
	if err != nil {
		r.Status = SyncStatusFailed
		r.Error = errorutil.Wrap(err)
	} else {
		r.Status = SyncStatusSuccess
	}
}

// GetStatus 实现 ResultI 接口
func (r *SyncResult) GetStatus() string {
	return r.Status
}
