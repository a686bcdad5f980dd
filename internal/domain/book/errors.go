package book

import (
	apperrors "github.com/xiebiao/bookrental/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrNotAvailable 没有可借的副本
	ErrNotAvailable = apperrors.New(apperrors.ErrCodeNotAvailable, "该图书暂无可借库存")

	// ErrInvalidBookInfo 书名或作者为空
	ErrInvalidBookInfo = apperrors.New(apperrors.ErrCodeInvalidParams, "书名和作者不能为空")

	// ErrInvalidCover 封面类型不合法
	ErrInvalidCover = apperrors.New(apperrors.ErrCodeInvalidParams, "封面类型只能是HARD或SOFT")

	// ErrInvalidInventory 库存为负
	ErrInvalidInventory = apperrors.New(apperrors.ErrCodeInvalidParams, "库存不能为负数")

	// ErrInvalidDailyFee 日租金不合法
	ErrInvalidDailyFee = apperrors.New(apperrors.ErrCodeInvalidParams, "日租金必须在0到999.99之间且最多两位小数")

	// ErrHasActiveBorrowings 存在未归还的借阅,不能删除
	ErrHasActiveBorrowings = apperrors.New(apperrors.ErrCodeHasActiveBorrowings, "该图书仍有未归还的借阅,不能删除")
)
