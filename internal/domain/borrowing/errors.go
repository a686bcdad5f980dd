package borrowing

import (
	apperrors "github.com/xiebiao/bookrental/pkg/errors"
)

// 借阅领域错误定义
var (
	// ErrBorrowingNotFound 借阅记录不存在
	ErrBorrowingNotFound = apperrors.New(apperrors.ErrCodeBorrowingNotFound, "借阅记录不存在")

	// ErrReturnDateInPast 预计归还日期早于今天
	ErrReturnDateInPast = apperrors.New(apperrors.ErrCodeInvalidParams, "预计归还日期不能早于今天")

	// ErrInvalidReturnDate 预计归还日期早于借出日期
	ErrInvalidReturnDate = apperrors.New(apperrors.ErrCodeInvalidParams, "预计归还日期不能早于借出日期")

	// ErrAlreadyReturned 重复归还
	ErrAlreadyReturned = apperrors.New(apperrors.ErrCodeAlreadyReturned, "该借阅已归还")

	// ErrBlockedByOutstandingPayment 存在待支付或已过期的支付
	ErrBlockedByOutstandingPayment = apperrors.New(apperrors.ErrCodeBlocked, "存在未完成的支付,请先完成支付后再借阅")

	// ErrFineSessionFailed 归还成功但罚款支付会话创建失败
	ErrFineSessionFailed = apperrors.New(apperrors.ErrCodePartialFailure, "图书已归还,但罚款支付会话创建失败,请联系管理员")

	// ErrForbidden 无权操作他人的借阅
	ErrForbidden = apperrors.New(apperrors.ErrCodeForbidden, "无权操作该借阅")
)
