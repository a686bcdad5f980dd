package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/bookrental/pkg/errors"
	"github.com/xiebiao/bookrental/pkg/response"
)

// bindError 参数绑定或校验失败
func bindError(c *gin.Context, err error) {
	response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
}

// pathID 解析路径中的:id,失败时已写入响应
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "ID格式错误")
		return 0, false
	}
	return uint(id), true
}
