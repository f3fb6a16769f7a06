package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"fincart/ordersync/internal/entity"
	"fincart/ordersync/internal/ingress"
	"fincart/ordersync/internal/model"
	"fincart/ordersync/internal/server/middlewares"
	"fincart/ordersync/pkg/logger"
)

// stubDedup 内存去重
type stubDedup struct {
	mu   sync.Mutex
	keys map[string]bool
}

func (d *stubDedup) Exists(ctx context.Context, webhookID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.keys[webhookID], nil
}

func (d *stubDedup) MarkReceived(ctx context.Context, webhookID string, ttl time.Duration) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.keys[webhookID] {
		return false, nil
	}
	d.keys[webhookID] = true
	return true, nil
}

// stubAudit 记录审计的原始报文
type stubAudit struct {
	mu       sync.Mutex
	payloads map[string][]byte
}

func (a *stubAudit) Create(ctx context.Context, webhookID, eventType string, payload []byte) (*entity.AuditLog, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.payloads[webhookID] = payload
	return &entity.AuditLog{WebhookID: webhookID}, nil
}

// stubQueue 记录入队数据
type stubQueue struct {
	mu        sync.Mutex
	published [][]byte
}

func (q *stubQueue) Publish(queue string, data []byte, ttl uint32, tries uint16, delay uint32) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.published = append(q.published, data)
	return nil
}

const testSecret = "test-secret"

func newTestServer(audit *stubAudit, queue *stubQueue) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logger.NewNopLogger()
	gate := ingress.NewGate(
		&stubDedup{keys: make(map[string]bool)},
		audit,
		queue,
		"order_sync",
		3,
		24*time.Hour,
		log,
	)
	handler := NewWebhookHandler(gate, log)

	r := gin.New()
	r.POST("/webhooks/shopify", middlewares.ShopifyAuth(testSecret), handler.Receive)
	return r
}

func signedRequest(t *testing.T, webhookID string, body []byte) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/shopify", bytes.NewReader(body))
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write(body)
	req.Header.Set(model.HeaderShopifyHmacSha256, base64.StdEncoding.EncodeToString(mac.Sum(nil)))
	if webhookID != "" {
		req.Header.Set(model.HeaderShopifyWebhookID, webhookID)
	}
	req.Header.Set(model.HeaderShopifyTopic, "orders/updated")
	return req
}

func TestWebhookReceiveAccepted(t *testing.T) {
	audit := &stubAudit{payloads: make(map[string][]byte)}
	queue := &stubQueue{}
	r := newTestServer(audit, queue)

	body := []byte(`{"id":"1001","updated_at":"2026-01-15T10:00:00Z","financial_status":"paid","total_price":"80.00"}`)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, signedRequest(t, "wh-1", body))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data ReceiptResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.Data.Status != string(ingress.ResultAccepted) {
		t.Errorf("status = %s, want accepted", resp.Data.Status)
	}
	if resp.Data.WebhookID != "wh-1" {
		t.Errorf("webhookId = %s", resp.Data.WebhookID)
	}

	// 审计记录的是原始报文字节
	if got := audit.payloads["wh-1"]; !bytes.Equal(got, body) {
		t.Errorf("audit payload = %s, want raw body", got)
	}
	if len(queue.published) != 1 {
		t.Errorf("enqueues = %d, want 1", len(queue.published))
	}
}

func TestWebhookReceiveDuplicate(t *testing.T) {
	audit := &stubAudit{payloads: make(map[string][]byte)}
	queue := &stubQueue{}
	r := newTestServer(audit, queue)

	body := []byte(`{"id":"1001","updated_at":"2026-01-15T10:00:00Z"}`)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, signedRequest(t, "wh-dup", body))
		if w.Code != http.StatusOK {
			t.Fatalf("request #%d status = %d", i, w.Code)
		}

		var resp struct {
			Data ReceiptResponse `json:"data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal response failed: %v", err)
		}

		want := string(ingress.ResultAccepted)
		if i > 0 {
			want = string(ingress.ResultDuplicate)
		}
		if resp.Data.Status != want {
			t.Errorf("request #%d status = %s, want %s", i, resp.Data.Status, want)
		}
	}

	if len(queue.published) != 1 {
		t.Errorf("enqueues = %d, want 1", len(queue.published))
	}
}

func TestWebhookReceiveMissingWebhookID(t *testing.T) {
	r := newTestServer(&stubAudit{payloads: make(map[string][]byte)}, &stubQueue{})

	body := []byte(`{"id":"1001","updated_at":"2026-01-15T10:00:00Z"}`)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, signedRequest(t, "", body))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestWebhookReceiveInvalidPayload(t *testing.T) {
	queue := &stubQueue{}
	r := newTestServer(&stubAudit{payloads: make(map[string][]byte)}, queue)

	// 缺少必填字段 updated_at
	body := []byte(`{"id":"1001"}`)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, signedRequest(t, "wh-bad", body))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if len(queue.published) != 0 {
		t.Errorf("invalid payload must not enqueue, got %d", len(queue.published))
	}
}
