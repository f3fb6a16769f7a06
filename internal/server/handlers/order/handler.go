package order

import (
	"fincart/ordersync/pkg/infra/mysql"
	"fincart/ordersync/pkg/logger"
)

// OrderHandler 订单查询 HTTP 处理器
type OrderHandler struct {
	orderDAO *mysql.OrderDAO
	logger   logger.Logger
}

// NewOrderHandler 创建订单处理器实例
func NewOrderHandler(orderDAO *mysql.OrderDAO, log logger.Logger) *OrderHandler {
	return &OrderHandler{
		orderDAO: orderDAO,
		logger:   log,
	}
}
