package payment

import (
	"context"

	"github.com/xiebiao/bookrental/internal/domain/payment"
	"github.com/xiebiao/bookrental/internal/domain/user"
)

// ListPaymentsUseCase 支付列表
// 管理员查看全部,普通用户只能看到自己借阅下的支付
type ListPaymentsUseCase struct {
	payments payment.Repository
}

// NewListPaymentsUseCase 创建支付列表用例
func NewListPaymentsUseCase(payments payment.Repository) *ListPaymentsUseCase {
	return &ListPaymentsUseCase{payments: payments}
}

// ListPaymentsRequest 列表请求
type ListPaymentsRequest struct {
	Principal user.Principal
	Page      int
	PageSize  int
}

// ListPaymentsResponse 列表响应
type ListPaymentsResponse struct {
	List     []PaymentDTO
	Total    int64
	Page     int
	PageSize int
}

func (uc *ListPaymentsUseCase) Execute(ctx context.Context, req ListPaymentsRequest) (*ListPaymentsResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 || req.PageSize > 100 {
		req.PageSize = 20
	}

	params := payment.ListParams{Page: req.Page, PageSize: req.PageSize}
	if !req.Principal.IsStaff {
		id := req.Principal.ID
		params.UserID = &id
	}

	list, total, err := uc.payments.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return &ListPaymentsResponse{
		List:     ToDTOs(list),
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}

// GetPaymentUseCase 支付详情
type GetPaymentUseCase struct {
	payments payment.Repository
}

// NewGetPaymentUseCase 创建支付详情用例
func NewGetPaymentUseCase(payments payment.Repository) *GetPaymentUseCase {
	return &GetPaymentUseCase{payments: payments}
}

func (uc *GetPaymentUseCase) Execute(ctx context.Context, principal user.Principal, id uint) (*PaymentDTO, error) {
	p, err := uc.payments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	owner, err := uc.payments.OwnerOf(ctx, id)
	if err != nil {
		return nil, err
	}
	if !principal.CanAccess(owner) {
		return nil, payment.ErrForbidden
	}

	dto := ToDTO(p)
	return &dto, nil
}
