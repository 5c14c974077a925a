// Package apperr 定义接口层统一的错误分类，每种分类对应一个 HTTP 状态码。
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

// Kind 错误分类
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindRateLimited
	KindUnavailable
)

// 认证失败原因
const (
	ReasonMissing = "missing"
	ReasonInvalid = "invalid"
	ReasonExpired = "expired"
)

// Status 返回分类对应的 HTTP 状态码
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// FieldError 字段级校验错误
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error 应用错误
type Error struct {
	Kind    Kind
	Message string
	Reason  string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Validation 参数校验失败
func Validation(message string, fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// Unauthenticated 未认证，reason 为 missing / invalid / expired
func Unauthenticated(reason, message string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message, Reason: reason}
}

// Forbidden 权限不足
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// NotFound 记录不存在（包括不属于当前用户、已删除）
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Conflict 唯一性冲突
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// RateLimited 请求过于频繁
func RateLimited(message string) *Error {
	return &Error{Kind: KindRateLimited, Message: message}
}

// Unavailable 可选服务未启用
func Unavailable(message string) *Error {
	return &Error{Kind: KindUnavailable, Message: message}
}

// Internal 包装未预期的错误
func Internal(err error, message string) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// As 提取 *Error
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf 返回错误分类，非 *Error 视为内部错误
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindInternal
}

// IsNotFound 是否为记录不存在
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound || errors.Is(err, gorm.ErrRecordNotFound)
}

// FromDB 将 gorm 的 ErrRecordNotFound 转换为 NotFound，其他错误附加上下文
func FromDB(err error, notFound string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(notFound)
	}
	return fmt.Errorf("数据库操作失败: %w", err)
}
