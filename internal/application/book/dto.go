package book

import (
	"github.com/xiebiao/bookrental/internal/domain/book"
)

// BookDTO 图书信息
type BookDTO struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Cover     string `json:"cover"`
	Inventory int    `json:"inventory"`
	DailyFee  string `json:"daily_fee"` // 两位小数,例如 "1.50"
	CreatedAt string `json:"created_at"`
}

func toDTO(b *book.Book) BookDTO {
	return BookDTO{
		ID:        b.ID,
		Title:     b.Title,
		Author:    b.Author,
		Cover:     string(b.Cover),
		Inventory: b.Inventory,
		DailyFee:  b.DailyFee.StringFixed(2),
		CreatedAt: b.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
