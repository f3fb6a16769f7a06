package business

import (
	"strings"

	"fincart/ordersync/internal/entity"
)

// financialStatusMap Shopify financial_status → 订单状态映射
// 未识别的取值回落到 PENDING
var financialStatusMap = map[string]string{
	"pending":            entity.OrderStatusPending,
	"authorized":         entity.OrderStatusPending,
	"paid":               entity.OrderStatusConfirmed,
	"partially_paid":     entity.OrderStatusConfirmed,
	"partially_refunded": entity.OrderStatusConfirmed,
	"refunded":           entity.OrderStatusCancelled,
	"voided":             entity.OrderStatusCancelled,
}

// fulfillmentStatusMap Shopify fulfillment_status → 订单状态覆盖映射
// 未识别或为空表示不覆盖
var fulfillmentStatusMap = map[string]string{
	"fulfilled": entity.OrderStatusShipped,
	"partial":   entity.OrderStatusConfirmed,
	"restocked": entity.OrderStatusCancelled,
}

// MapFinancialStatus 映射支付状态，未识别回落 PENDING
func MapFinancialStatus(financialStatus string) string {
	if status, ok := financialStatusMap[strings.ToLower(financialStatus)]; ok {
		return status
	}
	return entity.OrderStatusPending
}

// MapFulfillmentStatus 映射履约状态
// 第二个返回值为 false 表示无覆盖（为空或未识别）
func MapFulfillmentStatus(fulfillmentStatus string) (string, bool) {
	if fulfillmentStatus == "" {
		return "", false
	}
	if status, ok := fulfillmentStatusMap[strings.ToLower(fulfillmentStatus)]; ok {
		return status, true
	}
	return "", false
}

// DeriveStatus 派生目标状态：履约状态优先于支付状态
// 派生只依赖本次报文的两个字段，与订单当前状态无关
func DeriveStatus(financialStatus, fulfillmentStatus string) string {
	if status, ok := MapFulfillmentStatus(fulfillmentStatus); ok {
		return status
	}
	return MapFinancialStatus(financialStatus)
}
