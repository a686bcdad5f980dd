package book

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/bookrental/internal/domain/book"
)

// PublishBookUseCase 图书上架用例(仅管理员)
// 业务规则校验由领域层负责(封面类型、库存非负、日租金范围)
type PublishBookUseCase struct {
	bookService book.Service
}

// NewPublishBookUseCase 创建上架用例
func NewPublishBookUseCase(bookService book.Service) *PublishBookUseCase {
	return &PublishBookUseCase{
		bookService: bookService,
	}
}

// PublishBookRequest 上架请求
type PublishBookRequest struct {
	Title     string
	Author    string
	Cover     string
	Inventory int
	DailyFee  decimal.Decimal
}

// Execute 执行上架用例
func (uc *PublishBookUseCase) Execute(ctx context.Context, req PublishBookRequest) (*BookDTO, error) {
	b, err := uc.bookService.PublishBook(ctx,
		req.Title,
		req.Author,
		book.Cover(req.Cover),
		req.Inventory,
		req.DailyFee,
	)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "图书上架", "book_id", b.ID, "title", b.Title)
	dto := toDTO(b)
	return &dto, nil
}
