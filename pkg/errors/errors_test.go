package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_WithCauseKeepsIdentity(t *testing.T) {
	sentinel := New(ErrCodeGatewayError, "支付网关调用失败")
	cause := errors.New("connection refused")

	err := fmt.Errorf("create session: %w", sentinel.WithCause(cause))

	assert.True(t, errors.Is(err, sentinel))
	assert.True(t, errors.Is(err, cause))
	assert.Nil(t, sentinel.Err, "WithCause不应修改原错误")
}

func TestAppError_IsDistinguishesMessages(t *testing.T) {
	a := New(ErrCodeInvalidParams, "日期不能早于今天")
	b := New(ErrCodeInvalidParams, "日费用不能为负")

	assert.False(t, errors.Is(a, b))
	assert.True(t, HasCode(a, ErrCodeInvalidParams))
	assert.True(t, HasCode(b, ErrCodeInvalidParams))
}

func TestGetAppError(t *testing.T) {
	t.Run("AppError原样返回", func(t *testing.T) {
		got := GetAppError(fmt.Errorf("wrap: %w", ErrForbidden))
		assert.Equal(t, ErrCodeForbidden, got.Code)
	})

	t.Run("普通错误包装为内部错误", func(t *testing.T) {
		got := GetAppError(errors.New("boom"))
		assert.Equal(t, ErrCodeInternal, got.Code)
		assert.EqualError(t, got.Err, "boom")
	})
}

func TestAppError_Error(t *testing.T) {
	assert.Equal(t, "[40300] 无权限访问", ErrForbidden.Error())
	assert.Equal(t, "[50000] 查询失败: boom", Wrap(errors.New("boom"), "查询失败").Error())
}
