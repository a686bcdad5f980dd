package dto

// PublishBookRequest HTTP上架请求
// daily_fee使用字符串传递,避免浮点误差
type PublishBookRequest struct {
	Title     string `json:"title" binding:"required,max=255" example:"三体"`
	Author    string `json:"author" binding:"required,max=255" example:"刘慈欣"`
	Cover     string `json:"cover" binding:"required,oneof=HARD SOFT" example:"SOFT"`
	Inventory *int   `json:"inventory" binding:"required,min=0" example:"3"`
	DailyFee  string `json:"daily_fee" binding:"required,money" example:"1.50"`
}

// ListBooksRequest HTTP图书列表请求
type ListBooksRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
	Keyword  string `form:"keyword" binding:"omitempty,max=100" example:"刘慈欣"`
}
