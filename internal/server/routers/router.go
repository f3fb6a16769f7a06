package routers

import (
	"github.com/gin-gonic/gin"

	"fincart/ordersync/internal/server/handlers/audit"
	"fincart/ordersync/internal/server/handlers/order"
	"fincart/ordersync/internal/server/handlers/webhook"
	"fincart/ordersync/internal/server/middlewares"
	"fincart/ordersync/pkg/logger"
)

// SetupRoutes 配置所有路由，使用 Route Group 分类
// Webhook 入口单独挂签名校验中间件，查询接口不需要
func SetupRoutes(
	webhookHandler *webhook.WebhookHandler,
	orderHandler *order.OrderHandler,
	auditHandler *audit.AuditHandler,
	webhookSecret string,
	log logger.Logger,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middlewares.CORS())
	r.Use(middlewares.Logger(log))
	r.Use(middlewares.ErrorHandler())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "ordersync",
			"message": "Service is running",
		})
	})

	webhooks := r.Group("/webhooks")
	webhooks.Use(middlewares.ShopifyAuth(webhookSecret))
	{
		webhooks.POST("/shopify", webhookHandler.Receive)
	}

	v1 := r.Group("/api/v1")
	{
		orders := v1.Group("/orders")
		{
			orders.GET("/:shopifyOrderId", orderHandler.Get)
		}

		audits := v1.Group("/audit")
		{
			audits.GET("/:webhookId", auditHandler.Get)
		}
	}

	return r
}
