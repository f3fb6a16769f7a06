package middlewares

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"io"

	"github.com/gin-gonic/gin"

	"fincart/ordersync/internal/model"
	"fincart/ordersync/pkg/ginx"
)

// RawBodyKey 原始请求体在 gin.Context 中的 key
// HMAC 校验必须基于原始字节，JSON 重序列化会破坏签名
const RawBodyKey = "raw_body"

// ShopifyAuth Shopify Webhook 签名校验中间件
// 对原始请求体计算 HMAC-SHA256（base64 编码），与 X-Shopify-Hmac-Sha256 头比对
func ShopifyAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			ginx.Unauthorized(c, "webhook secret not configured")
			c.Abort()
			return
		}

		signature := c.GetHeader(model.HeaderShopifyHmacSha256)
		if signature == "" {
			ginx.Unauthorized(c, "missing hmac signature")
			c.Abort()
			return
		}

		rawBody, err := io.ReadAll(c.Request.Body)
		if err != nil {
			ginx.BadRequest(c, "failed to read request body")
			c.Abort()
			return
		}
		// 还原 Body，供后续 ShouldBindJSON 使用
		c.Request.Body = io.NopCloser(bytes.NewReader(rawBody))

		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write(rawBody)
		expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

		// 常量时间比较，防时序攻击
		if !hmac.Equal([]byte(expected), []byte(signature)) {
			ginx.Unauthorized(c, "invalid webhook signature")
			c.Abort()
			return
		}

		c.Set(RawBodyKey, rawBody)
		c.Next()
	}
}
