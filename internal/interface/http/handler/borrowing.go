package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	appborrowing "github.com/xiebiao/bookrental/internal/application/borrowing"
	"github.com/xiebiao/bookrental/internal/domain/borrowing"
	"github.com/xiebiao/bookrental/internal/interface/http/dto"
	"github.com/xiebiao/bookrental/internal/interface/http/middleware"
	"github.com/xiebiao/bookrental/pkg/response"
)

// BorrowingHandler 借阅HTTP处理器
type BorrowingHandler struct {
	createUseCase  *appborrowing.CreateBorrowingUseCase
	returnUseCase  *appborrowing.ReturnBorrowingUseCase
	previewUseCase *appborrowing.PreviewReturnUseCase
	listUseCase    *appborrowing.ListBorrowingsUseCase
	getUseCase     *appborrowing.GetBorrowingUseCase
}

// NewBorrowingHandler 创建借阅处理器
func NewBorrowingHandler(
	createUseCase *appborrowing.CreateBorrowingUseCase,
	returnUseCase *appborrowing.ReturnBorrowingUseCase,
	previewUseCase *appborrowing.PreviewReturnUseCase,
	listUseCase *appborrowing.ListBorrowingsUseCase,
	getUseCase *appborrowing.GetBorrowingUseCase,
) *BorrowingHandler {
	return &BorrowingHandler{
		createUseCase:  createUseCase,
		returnUseCase:  returnUseCase,
		previewUseCase: previewUseCase,
		listUseCase:    listUseCase,
		getUseCase:     getUseCase,
	}
}

// CreateBorrowing 借书
// @Summary      借书
// @Description  扣减库存并创建支付会话,成功后返回303跳转到支付页面
// @Tags         借阅
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateBorrowingRequest true "借阅信息"
// @Success      303 {object} response.Response{data=appborrowing.CreateBorrowingResponse}
// @Failure      200 {object} response.Response "库存不足/存在未支付记录/网关失败"
// @Router       /api/v1/borrowings [post]
func (h *BorrowingHandler) CreateBorrowing(c *gin.Context) {
	var req dto.CreateBorrowingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	expected, err := dto.ParseDate(req.ExpectedReturnDate)
	if err != nil {
		bindError(c, err)
		return
	}

	result, err := h.createUseCase.Execute(c.Request.Context(), appborrowing.CreateBorrowingRequest{
		Principal:          middleware.GetPrincipal(c),
		BookID:             req.BookID,
		ExpectedReturnDate: expected,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Redirect(c, result.CheckoutURL, result)
}

// ListBorrowings 借阅列表
// @Summary      借阅列表
// @Description  普通用户只能看到自己的借阅,管理员可按user_id过滤
// @Tags         借阅
// @Produce      json
// @Security     BearerAuth
// @Param        is_active query bool false "是否借阅中"
// @Param        user_id   query int  false "用户ID(管理员)"
// @Param        page      query int  false "页码"
// @Param        page_size query int  false "每页数量"
// @Success      200 {object} response.Response{data=response.PageData}
// @Router       /api/v1/borrowings [get]
func (h *BorrowingHandler) ListBorrowings(c *gin.Context) {
	var req dto.ListBorrowingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.listUseCase.Execute(c.Request.Context(), appborrowing.ListBorrowingsRequest{
		Principal: middleware.GetPrincipal(c),
		UserID:    req.UserID,
		IsActive:  req.IsActive,
		Page:      req.Page,
		PageSize:  req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, result.List, result.Total, result.Page, result.PageSize)
}

// GetBorrowing 借阅详情
// @Summary      借阅详情
// @Tags         借阅
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "借阅ID"
// @Success      200 {object} response.Response{data=appborrowing.BorrowingDetail}
// @Router       /api/v1/borrowings/{id} [get]
func (h *BorrowingHandler) GetBorrowing(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	result, err := h.getUseCase.Execute(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// PreviewReturn 还书预览
// @Summary      还书预览
// @Description  按今天归还计算逾期天数和罚款,不修改数据
// @Tags         借阅
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "借阅ID"
// @Success      200 {object} response.Response{data=appborrowing.PreviewReturnResponse}
// @Router       /api/v1/borrowings/{id}/return [get]
func (h *BorrowingHandler) PreviewReturn(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	result, err := h.previewUseCase.Execute(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ReturnBorrowing 还书
// @Summary      还书
// @Description  逾期时返回303跳转到罚款支付页面;罚款会话创建失败时返回50004并附带归还结果
// @Tags         借阅
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "借阅ID"
// @Success      200 {object} response.Response{data=appborrowing.ReturnBorrowingResponse}
// @Success      303 {object} response.Response{data=appborrowing.ReturnBorrowingResponse}
// @Router       /api/v1/borrowings/{id}/return [post]
func (h *BorrowingHandler) ReturnBorrowing(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.returnUseCase.Execute(c.Request.Context(), appborrowing.ReturnBorrowingRequest{
		Principal:   middleware.GetPrincipal(c),
		BorrowingID: id,
	})
	switch {
	case errors.Is(err, borrowing.ErrFineSessionFailed):
		// 归还已提交,只是罚款会话失败
		response.ErrorWithData(c, err, result)
	case err != nil:
		response.Error(c, err)
	case result.CheckoutURL != "":
		response.Redirect(c, result.CheckoutURL, result)
	default:
		response.Success(c, result)
	}
}
