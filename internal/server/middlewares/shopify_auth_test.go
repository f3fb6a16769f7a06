package middlewares

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"fincart/ordersync/internal/model"
)

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func newAuthTestRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/webhooks/shopify", ShopifyAuth(secret), func(c *gin.Context) {
		// 中间件必须缓存原始报文且还原 Body
		raw, ok := c.Get(RawBodyKey)
		if !ok || len(raw.([]byte)) == 0 {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "raw body missing"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

func TestShopifyAuthValidSignature(t *testing.T) {
	secret := "test-secret"
	body := []byte(`{"id":"1001","total_price":"80.00"}`)
	r := newAuthTestRouter(secret)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/shopify", bytes.NewReader(body))
	req.Header.Set(model.HeaderShopifyHmacSha256, signBody(secret, body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200, body: %s", w.Code, w.Body.String())
	}
}

func TestShopifyAuthInvalidSignature(t *testing.T) {
	secret := "test-secret"
	body := []byte(`{"id":"1001"}`)
	r := newAuthTestRouter(secret)

	cases := []struct {
		name      string
		signature string
	}{
		{"wrong secret", signBody("other-secret", body)},
		{"tampered body", signBody(secret, []byte(`{"id":"9999"}`))},
		{"garbage", "not-a-signature"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/webhooks/shopify", bytes.NewReader(body))
			req.Header.Set(model.HeaderShopifyHmacSha256, c.signature)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", w.Code)
			}
		})
	}
}

func TestShopifyAuthMissingSignature(t *testing.T) {
	r := newAuthTestRouter("test-secret")

	req := httptest.NewRequest(http.MethodPost, "/webhooks/shopify", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestShopifyAuthSecretNotConfigured(t *testing.T) {
	body := []byte(`{}`)
	r := newAuthTestRouter("")

	req := httptest.NewRequest(http.MethodPost, "/webhooks/shopify", bytes.NewReader(body))
	req.Header.Set(model.HeaderShopifyHmacSha256, signBody("", body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// 未配置密钥时拒绝一切投递
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}
