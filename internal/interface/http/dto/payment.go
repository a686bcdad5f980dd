package dto

// ListPaymentsRequest 支付列表请求
type ListPaymentsRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// SessionCallbackRequest 网关回跳参数
type SessionCallbackRequest struct {
	SessionID string `form:"session_id" binding:"required,max=64"`
}
