package user

import (
	apperrors "github.com/xiebiao/bookrental/pkg/errors"
)

// 用户领域错误定义
var (
	ErrUserNotFound    = apperrors.New(apperrors.ErrCodeUserNotFound, "用户不存在")
	ErrEmailDuplicate  = apperrors.New(apperrors.ErrCodeEmailDuplicate, "邮箱已被注册")
	ErrInvalidEmail    = apperrors.New(apperrors.ErrCodeInvalidParams, "邮箱格式不正确")
	ErrInvalidNickname = apperrors.New(apperrors.ErrCodeInvalidParams, "昵称长度应为2-50个字符")
	ErrWeakPassword    = apperrors.New(apperrors.ErrCodeWeakPassword, "密码强度不足（需8-20位，包含字母和数字）")
)
