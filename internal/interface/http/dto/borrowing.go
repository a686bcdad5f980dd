package dto

// CreateBorrowingRequest 借书请求
type CreateBorrowingRequest struct {
	BookID             uint   `json:"book_id" binding:"required" example:"1"`
	ExpectedReturnDate string `json:"expected_return_date" binding:"required,isodate" example:"2026-03-08"`
}

// ListBorrowingsRequest 借阅列表请求
// user_id只对管理员生效
type ListBorrowingsRequest struct {
	Page     int   `form:"page" binding:"omitempty,min=1"`
	PageSize int   `form:"page_size" binding:"omitempty,min=1,max=100"`
	IsActive *bool `form:"is_active"`
	UserID   *uint `form:"user_id"`
}
