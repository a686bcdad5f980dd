package payment

import (
	apperrors "github.com/xiebiao/bookrental/pkg/errors"
)

// 支付领域错误定义
var (
	// ErrPaymentNotFound 支付记录不存在
	ErrPaymentNotFound = apperrors.New(apperrors.ErrCodePaymentNotFound, "支付记录不存在")

	// ErrAlreadyPaid 重复确认
	ErrAlreadyPaid = apperrors.New(apperrors.ErrCodeAlreadyPaid, "该支付已完成")

	// ErrNotCompleted 网关未确认付款
	ErrNotCompleted = apperrors.New(apperrors.ErrCodePaymentNotCompleted, "支付尚未完成")

	// ErrInvalidStatusTransition 非法的状态转换
	ErrInvalidStatusTransition = apperrors.New(apperrors.ErrCodeInvalidStatus, "支付状态不允许此操作")

	// ErrInvalidAmount 金额为负
	ErrInvalidAmount = apperrors.New(apperrors.ErrCodeInvalidParams, "支付金额不能为负数")

	// ErrFractionalAmount 网关只接受整数金额
	ErrFractionalAmount = apperrors.New(apperrors.ErrCodeInvalidParams, "支付网关不支持带小数的金额")

	// ErrInvalidSession 网关没有返回会话
	ErrInvalidSession = apperrors.New(apperrors.ErrCodeGatewayError, "支付网关返回的会话无效")

	// ErrGatewayFailure 网关调用失败
	ErrGatewayFailure = apperrors.New(apperrors.ErrCodeGatewayError, "支付网关调用失败,请稍后重试")

	// ErrSessionNotFound 网关上不存在该会话
	ErrSessionNotFound = apperrors.New(apperrors.ErrCodeGatewayError, "支付会话不存在")

	// ErrForbidden 无权查看他人的支付
	ErrForbidden = apperrors.New(apperrors.ErrCodeForbidden, "无权查看该支付")
)
