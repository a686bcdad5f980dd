package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	apppayment "github.com/xiebiao/bookrental/internal/application/payment"
	"github.com/xiebiao/bookrental/internal/domain/payment"
	"github.com/xiebiao/bookrental/internal/interface/http/dto"
	"github.com/xiebiao/bookrental/internal/interface/http/middleware"
	"github.com/xiebiao/bookrental/pkg/response"
)

// PaymentHandler 支付HTTP处理器
type PaymentHandler struct {
	confirmUseCase *apppayment.ConfirmPaymentUseCase
	listUseCase    *apppayment.ListPaymentsUseCase
	getUseCase     *apppayment.GetPaymentUseCase
}

// NewPaymentHandler 创建支付处理器
func NewPaymentHandler(
	confirmUseCase *apppayment.ConfirmPaymentUseCase,
	listUseCase *apppayment.ListPaymentsUseCase,
	getUseCase *apppayment.GetPaymentUseCase,
) *PaymentHandler {
	return &PaymentHandler{
		confirmUseCase: confirmUseCase,
		listUseCase:    listUseCase,
		getUseCase:     getUseCase,
	}
}

// ListPayments 支付列表
// @Summary      支付列表
// @Description  管理员查看全部,普通用户查看自己借阅下的支付
// @Tags         支付
// @Produce      json
// @Security     BearerAuth
// @Param        page      query int false "页码"
// @Param        page_size query int false "每页数量"
// @Success      200 {object} response.Response{data=response.PageData}
// @Router       /api/v1/payments [get]
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	var req dto.ListPaymentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.listUseCase.Execute(c.Request.Context(), apppayment.ListPaymentsRequest{
		Principal: middleware.GetPrincipal(c),
		Page:      req.Page,
		PageSize:  req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, result.List, result.Total, result.Page, result.PageSize)
}

// GetPayment 支付详情
// @Summary      支付详情
// @Tags         支付
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "支付ID"
// @Success      200 {object} response.Response{data=apppayment.PaymentDTO}
// @Router       /api/v1/payments/{id} [get]
func (h *PaymentHandler) GetPayment(c *gin.Context) {
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

// Success 网关支付成功回跳
// @Summary      支付成功回调
// @Description  向网关查询会话状态,确认付款后标记为已支付
// @Tags         支付
// @Produce      json
// @Param        session_id query string true "会话ID"
// @Success      200 {object} response.Response{data=apppayment.PaymentDTO}
// @Router       /api/v1/payments/success [get]
func (h *PaymentHandler) Success(c *gin.Context) {
	var req dto.SessionCallbackRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.confirmUseCase.Execute(c.Request.Context(), req.SessionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Cancel 用户取消支付
// @Summary      支付取消回调
// @Tags         支付
// @Produce      json
// @Success      200 {object} response.Response
// @Router       /api/v1/payments/cancel [get]
func (h *PaymentHandler) Cancel(c *gin.Context) {
	response.Success(c, gin.H{
		"message": fmt.Sprintf("支付已取消,会话在%d小时内仍可继续支付", int(payment.SessionTTL.Hours())),
	})
}

// CheckoutSimulator 模拟网关的收银台
type CheckoutSimulator interface {
	Complete(sessionID string) (string, error)
	Cancel(sessionID string) (string, error)
}

// MockCheckout 本地开发用的收银台:action=pay模拟付款,action=cancel模拟取消,然后跳转回回调地址
func MockCheckout(sim CheckoutSimulator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.SessionCallbackRequest
		if err := c.ShouldBindQuery(&req); err != nil {
			bindError(c, err)
			return
		}

		settle := sim.Complete
		if c.DefaultQuery("action", "pay") == "cancel" {
			settle = sim.Cancel
		}
		target, err := settle(req.SessionID)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Redirect(http.StatusFound, target)
	}
}
