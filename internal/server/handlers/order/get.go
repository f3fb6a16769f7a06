package order

import (
	"time"

	"github.com/gin-gonic/gin"

	"fincart/ordersync/internal/entity"
	"fincart/ordersync/pkg/ginx"
)

// OrderResponse 订单查询响应
type OrderResponse struct {
	ID             string     `json:"id"`
	ShopifyOrderID string     `json:"shopifyOrderId"`
	Status         string     `json:"status"`
	ShippingFee    string     `json:"shippingFee"`
	LastExternalAt *time.Time `json:"lastExternalUpdatedAt,omitempty"`
	Version        int64      `json:"version"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// fromOrderEntity 实体转响应
func fromOrderEntity(o *entity.Order) *OrderResponse {
	return &OrderResponse{
		ID:             o.ID,
		ShopifyOrderID: o.ShopifyOrderID,
		Status:         o.Status,
		ShippingFee:    o.ShippingFee.StringFixed(2),
		LastExternalAt: o.LastExternalUpdatedAt,
		Version:        o.Version,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

// Get 根据 Shopify 订单号查询订单当前状态
func (h *OrderHandler) Get(c *gin.Context) {
	shopifyOrderID := c.Param("shopifyOrderId")
	if shopifyOrderID == "" {
		ginx.BadRequest(c, "shopify_order_id required")
		return
	}

	order, err := h.orderDAO.FindByShopifyID(c.Request.Context(), shopifyOrderID)
	if err != nil {
		h.logger.Errorf(c.Request.Context(), "[Order] get order failed: %v", err)
		ginx.InternalError(c, "failed to query order")
		return
	}
	if order == nil {
		ginx.NotFound(c, "order not found")
		return
	}

	ginx.Success(c, fromOrderEntity(order))
}
