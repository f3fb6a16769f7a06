package domains

import (
	"context"

	"fincart/ordersync/internal/business"
	"fincart/ordersync/internal/domains/common"
	"fincart/ordersync/internal/domains/common/job"
	"fincart/ordersync/internal/domains/handlers/order/sync"
	"fincart/ordersync/internal/model"
)

// HandlerFactory Handler 构造函数类型
// 依赖通过参数显式传入，不走隐式注入
type HandlerFactory func(
	ctx context.Context,
	meta *job.Meta,
	payload interface{},
	reconciler *business.Reconciler,
) (common.HandlerServ, error)

// HandlerMap 路由表（ActionType → Handler 映射）
var HandlerMap = map[string]HandlerFactory{
	model.ActionTypeOrderSync: sync.NewSyncHandler,

	// 未来扩展示例：
	// "order_refund_sync": refund.NewRefundSyncHandler,
}
