package errorutil

import (
	"errors"
	"fmt"
)

// Error 错误结构（包含可重试标记）
// Retryable 决定队列侧动作：可重试 → 不 ACK 等待重投，不可重试 → 终止
type Error struct {
	Code       int    `json:"code"`
	Message    string `json:"message"`
	Retryable  bool   `json:"retryable"`
	DevDetails string `json:"dev_details,omitempty"`
}

// Error 实现 error 接口
func (e *Error) Error() string {
	return e.Message
}

// Retriable 创建可重试错误（版本冲突、网络错误、临时故障等）
func Retriable(message string) *Error {
	return &Error{
		Code:      500,
		Message:   message,
		Retryable: true,
	}
}

// RetriableWithDetails 创建可重试错误（带详细信息）
func RetriableWithDetails(message string, details string) *Error {
	return &Error{
		Code:       500,
		Message:    message,
		Retryable:  true,
		DevDetails: details,
	}
}

// NonRetriable 创建不可重试错误（报文错误、业务规则错误等）
func NonRetriable(message string) *Error {
	return &Error{
		Code:      400,
		Message:   message,
		Retryable: false,
	}
}

// NonRetriableWithDetails 创建不可重试错误（带详细信息）
func NonRetriableWithDetails(message string, details string) *Error {
	return &Error{
		Code:       400,
		Message:    message,
		Retryable:  false,
		DevDetails: details,
	}
}

// Wrap 包装错误（保留已有的重试标记）
func Wrap(err error) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}

	// 默认为不可重试错误
	return &Error{
		Code:       500,
		Message:    err.Error(),
		Retryable:  false,
		DevDetails: fmt.Sprintf("%+v", err),
	}
}

// UnWrapResponse 解包错误（用于 Response）
func UnWrapResponse(err error) *Error {
	if err == nil {
		return nil
	}
	return Wrap(err)
}

// IsRetryable 判断错误是否可重试
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable
	}
	return false
}
