package common

import (
	"fincart/ordersync/internal/domains/common/response"
)

// HandlerServ Handler 接口
type HandlerServ interface {
	GetProcess() *response.Response
}
