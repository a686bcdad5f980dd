package errors

import (
	"errors"
	"fmt"
)

// AppError 自定义应用错误
// Code用于客户端判断错误类别，Message是可以直接展示的提示，Err是内部原因（只写日志，不返回给客户端）
type AppError struct {
	Code    int    `json:"code"`    // 业务错误码
	Message string `json:"message"` // 用户友好的错误提示
	Err     error  `json:"-"`       // 内部错误（不序列化）
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 错误码和提示都相同即视为同一个错误
// 这样 ErrXxx.WithCause(err) 得到的副本仍然满足 errors.Is(err, ErrXxx)
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// WithCause 基于预定义错误附加内部原因，返回新的副本（不修改包级变量）
func (e *AppError) WithCause(err error) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Err:     err,
	}
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装系统错误（如数据库错误、网络错误）
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// =========================================
// 错误码定义
// =========================================
// - 4xxxx: 客户端错误（参数错误、业务规则校验失败）
// - 5xxxx: 服务端错误（数据库异常、外部服务调用失败）

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal       = 50000 // 内部错误
	ErrCodeDatabaseError  = 50001 // 数据库错误
	ErrCodeRedisError     = 50002 // Redis错误
	ErrCodeGatewayError   = 50003 // 支付网关调用失败
	ErrCodePartialFailure = 50004 // 部分成功（主流程已提交，后续步骤失败）

	// 认证授权错误（40100-40199）
	ErrCodeUnauthorized    = 40100 // 未登录
	ErrCodeInvalidToken    = 40101 // Token无效
	ErrCodeTokenExpired    = 40102 // Token过期
	ErrCodeInvalidPassword = 40103 // 密码错误
	ErrCodeTokenRevoked    = 40104 // Token已注销

	// 权限错误
	ErrCodeForbidden = 40300 // 无权限

	// 资源错误（40400-40499）
	ErrCodeNotFound          = 40400 // 资源不存在(通用)
	ErrCodeUserNotFound      = 40407 // 用户不存在
	ErrCodeBookNotFound      = 40402 // 图书不存在
	ErrCodeBorrowingNotFound = 40405 // 借阅记录不存在
	ErrCodePaymentNotFound   = 40406 // 支付记录不存在

	// 业务规则错误（40000-40099）
	ErrCodeBusinessError       = 40000 // 业务错误(通用)
	ErrCodeNotAvailable        = 40001 // 库存不足，无可借副本
	ErrCodeInvalidStatus       = 40002 // 状态流转非法
	ErrCodeEmailDuplicate      = 40003 // 邮箱已存在
	ErrCodeHasActiveBorrowings = 40004 // 存在未归还的借阅
	ErrCodeWeakPassword        = 40005 // 密码强度不足
	ErrCodeBlocked             = 40006 // 存在未结清的支付
	ErrCodeAlreadyReturned     = 40007 // 重复归还
	ErrCodeAlreadyPaid         = 40008 // 重复确认支付
	ErrCodeDuplicateEntry      = 40009 // 重复记录(通用)
	ErrCodePaymentNotCompleted = 40011 // 网关未确认支付成功

	// 参数错误（40900-40999）
	ErrCodeInvalidParams = 40900 // 参数错误
	ErrCodeBindError     = 40901 // 参数绑定失败
)

// =========================================
// 预定义错误（避免每次都New）
// =========================================

var (
	// 系统错误
	ErrInternal      = New(ErrCodeInternal, "系统内部错误")
	ErrDatabaseError = New(ErrCodeDatabaseError, "数据库错误")
	ErrRedisError    = New(ErrCodeRedisError, "缓存服务错误")

	// 认证授权
	ErrUnauthorized    = New(ErrCodeUnauthorized, "请先登录")
	ErrInvalidToken    = New(ErrCodeInvalidToken, "无效的Token")
	ErrTokenExpired    = New(ErrCodeTokenExpired, "Token已过期")
	ErrTokenRevoked    = New(ErrCodeTokenRevoked, "Token已注销，请重新登录")
	ErrInvalidPassword = New(ErrCodeInvalidPassword, "密码错误")
	ErrForbidden       = New(ErrCodeForbidden, "无权限访问")

	// 参数错误
	ErrInvalidParams = New(ErrCodeInvalidParams, "参数错误")
	ErrBindError     = New(ErrCodeBindError, "参数格式错误")
	ErrDuplicate     = New(ErrCodeDuplicateEntry, "记录已存在")
)

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "系统内部错误")
}

// HasCode 判断错误链中是否存在指定错误码
func HasCode(err error, code int) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
