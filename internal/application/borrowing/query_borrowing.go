package borrowing

import (
	"context"

	apppayment "github.com/xiebiao/bookrental/internal/application/payment"
	"github.com/xiebiao/bookrental/internal/domain/borrowing"
	"github.com/xiebiao/bookrental/internal/domain/payment"
	"github.com/xiebiao/bookrental/internal/domain/user"
)

// ListBorrowingsUseCase 借阅列表
// 普通用户只能看到自己的借阅(忽略UserID参数),管理员可以按用户过滤
type ListBorrowingsUseCase struct {
	borrowings borrowing.Repository
}

// NewListBorrowingsUseCase 创建借阅列表用例
func NewListBorrowingsUseCase(borrowings borrowing.Repository) *ListBorrowingsUseCase {
	return &ListBorrowingsUseCase{borrowings: borrowings}
}

// ListBorrowingsRequest 列表请求
type ListBorrowingsRequest struct {
	Principal user.Principal
	UserID    *uint
	IsActive  *bool
	Page      int
	PageSize  int
}

// ListBorrowingsResponse 列表响应
type ListBorrowingsResponse struct {
	List     []BorrowingDTO
	Total    int64
	Page     int
	PageSize int
}

func (uc *ListBorrowingsUseCase) Execute(ctx context.Context, req ListBorrowingsRequest) (*ListBorrowingsResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 || req.PageSize > 100 {
		req.PageSize = 20
	}

	params := borrowing.ListParams{
		UserID:   req.UserID,
		IsActive: req.IsActive,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if !req.Principal.IsStaff {
		id := req.Principal.ID
		params.UserID = &id
	}

	list, total, err := uc.borrowings.List(ctx, params)
	if err != nil {
		return nil, err
	}

	dtos := make([]BorrowingDTO, 0, len(list))
	for _, b := range list {
		dtos = append(dtos, ToDTO(b))
	}
	return &ListBorrowingsResponse{List: dtos, Total: total, Page: req.Page, PageSize: req.PageSize}, nil
}

// GetBorrowingUseCase 借阅详情(包含支付记录)
type GetBorrowingUseCase struct {
	borrowings borrowing.Repository
	payments   payment.Repository
}

// NewGetBorrowingUseCase 创建借阅详情用例
func NewGetBorrowingUseCase(borrowings borrowing.Repository, payments payment.Repository) *GetBorrowingUseCase {
	return &GetBorrowingUseCase{borrowings: borrowings, payments: payments}
}

// BorrowingDetail 借阅详情
type BorrowingDetail struct {
	BorrowingDTO
	Payments []apppayment.PaymentDTO `json:"payments"`
}

func (uc *GetBorrowingUseCase) Execute(ctx context.Context, principal user.Principal, id uint) (*BorrowingDetail, error) {
	b, err := uc.borrowings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !principal.CanAccess(b.UserID) {
		return nil, borrowing.ErrForbidden
	}

	payments, err := uc.payments.ListByBorrowing(ctx, id)
	if err != nil {
		return nil, err
	}
	return &BorrowingDetail{
		BorrowingDTO: ToDTO(b),
		Payments:     apppayment.ToDTOs(payments),
	}, nil
}
