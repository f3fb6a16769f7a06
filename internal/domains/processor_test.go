package domains

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/bitleak/lmstfy/client"

	"fincart/ordersync/internal/business"
	"fincart/ordersync/internal/entity"
	"fincart/ordersync/internal/model"
	"fincart/ordersync/pkg/infra/mysql"
	"fincart/ordersync/pkg/lmstfyx"
	"fincart/ordersync/pkg/logger"
)

// memOrderStore 内存订单存储
type memOrderStore struct {
	mu        sync.Mutex
	orders    map[string]*entity.Order
	conflicts int // 前 N 次写入强制版本冲突
}

func (s *memOrderStore) FindByShopifyID(ctx context.Context, shopifyOrderID string) (*entity.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if order, ok := s.orders[shopifyOrderID]; ok {
		cp := *order
		return &cp, nil
	}
	return nil, nil
}

func (s *memOrderStore) SaveWithVersion(ctx context.Context, order *entity.Order, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conflicts > 0 {
		s.conflicts--
		return mysql.ErrVersionConflict
	}
	if expectedVersion == 0 {
		order.Version = 1
	} else {
		order.Version = expectedVersion + 1
	}
	order.UpdatedAt = time.Now()
	cp := *order
	s.orders[order.ShopifyOrderID] = &cp
	return nil
}

// memAudit 内存审计
type memAudit struct {
	mu       sync.Mutex
	statuses map[string]string
}

func (a *memAudit) SetStatus(ctx context.Context, webhookID, status, detail string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.statuses[webhookID] = status
	return nil
}

// memNotifier 丢弃通知
type memNotifier struct{}

func (n *memNotifier) PublishOrderSynced(ctx context.Context, notification *model.OrderSyncedNotification) error {
	return nil
}

func newTestProc(store *memOrderStore, audit *memAudit) lmstfyx.Proc {
	rec := business.NewReconciler(store, audit, &memNotifier{}, logger.NewNopLogger())
	return GetProcess(logger.NewNopLogger(), rec)
}

func makeJob(t *testing.T, webhookID string, payload model.ShopifyOrderPayload) *client.Job {
	t.Helper()
	job := model.OrderSyncJob{
		Payload: model.OrderSyncPayload{
			Data: model.OrderSyncData{
				RequestID:  "req-1",
				OrgID:      "0",
				ActionType: model.ActionTypeOrderSync,
				ID:         webhookID,
				Data: model.OrderSyncBusinessData{
					WebhookID: webhookID,
					EventType: "orders/updated",
					Payload:   payload,
				},
			},
		},
	}
	data, err := json.Marshal(job)
	if err != nil {
		t.Fatalf("marshal job failed: %v", err)
	}
	return &client.Job{ID: "job-1", Queue: "order_sync", Data: data}
}

func TestGetProcessSuccess(t *testing.T) {
	store := &memOrderStore{orders: make(map[string]*entity.Order)}
	audit := &memAudit{statuses: make(map[string]string)}
	proc := newTestProc(store, audit)

	lmstfyJob := makeJob(t, "wh-1", model.ShopifyOrderPayload{
		ID:              "1001",
		UpdatedAt:       "2026-01-15T10:00:00Z",
		FinancialStatus: "paid",
		TotalPrice:      "30.00",
	})

	resp := proc(context.Background(), lmstfyJob)
	if resp.Action != lmstfyx.JobRespStatusSuccess {
		t.Errorf("action = %d, want Success", resp.Action)
	}
	if audit.statuses["wh-1"] != entity.AuditStatusProcessed {
		t.Errorf("audit = %s, want PROCESSED", audit.statuses["wh-1"])
	}
	if store.orders["1001"] == nil {
		t.Error("order not saved")
	}
}

// TestGetProcessVersionConflictReleases 版本冲突不 ACK，等待 TTR 重投
func TestGetProcessVersionConflictReleases(t *testing.T) {
	store := &memOrderStore{orders: make(map[string]*entity.Order), conflicts: 1}
	audit := &memAudit{statuses: make(map[string]string)}
	proc := newTestProc(store, audit)

	lmstfyJob := makeJob(t, "wh-2", model.ShopifyOrderPayload{
		ID:              "1002",
		UpdatedAt:       "2026-01-15T10:00:00Z",
		FinancialStatus: "paid",
	})

	resp := proc(context.Background(), lmstfyJob)
	if resp.Action != lmstfyx.JobRespStatusRelease {
		t.Errorf("action = %d, want Release", resp.Action)
	}
	if audit.statuses["wh-2"] != entity.AuditStatusFailed {
		t.Errorf("audit = %s, want FAILED", audit.statuses["wh-2"])
	}

	// 重投后成功
	resp = proc(context.Background(), lmstfyJob)
	if resp.Action != lmstfyx.JobRespStatusSuccess {
		t.Errorf("retry action = %d, want Success", resp.Action)
	}
	if audit.statuses["wh-2"] != entity.AuditStatusProcessed {
		t.Errorf("audit = %s, want PROCESSED", audit.statuses["wh-2"])
	}
}

// TestGetProcessBadPayloadBuries 不可解析的消息直接终止，不再重投
func TestGetProcessBadPayloadBuries(t *testing.T) {
	store := &memOrderStore{orders: make(map[string]*entity.Order)}
	audit := &memAudit{statuses: make(map[string]string)}
	proc := newTestProc(store, audit)

	cases := []struct {
		name string
		data []byte
	}{
		{"not json", []byte("not-json")},
		{"missing payload", []byte(`{"payload":null}`)},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			resp := proc(context.Background(), &client.Job{ID: "job-x", Queue: "order_sync", Data: c.data})
			if resp.Action != lmstfyx.JobRespStatusBury {
				t.Errorf("action = %d, want Bury", resp.Action)
			}
		})
	}
}

func TestGetProcessUnknownActionBuries(t *testing.T) {
	store := &memOrderStore{orders: make(map[string]*entity.Order)}
	audit := &memAudit{statuses: make(map[string]string)}
	proc := newTestProc(store, audit)

	data := []byte(`{"payload":{"data":{"request_id":"r1","action_type":"unknown_action","id":"wh-9","data":{}}}}`)
	resp := proc(context.Background(), &client.Job{ID: "job-y", Queue: "order_sync", Data: data})
	if resp.Action != lmstfyx.JobRespStatusBury {
		t.Errorf("action = %d, want Bury", resp.Action)
	}
}
