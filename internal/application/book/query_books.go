package book

import (
	"context"
	"log/slog"

	"github.com/xiebiao/bookrental/internal/domain/book"
)

// ListBooksUseCase 图书列表查询用例
type ListBooksUseCase struct {
	bookService book.Service
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(bookService book.Service) *ListBooksUseCase {
	return &ListBooksUseCase{
		bookService: bookService,
	}
}

// ListBooksRequest 列表查询请求
type ListBooksRequest struct {
	Page     int    // 页码(从1开始)
	PageSize int    // 每页数量
	Keyword  string // 搜索关键词(标题、作者)
}

// ListBooksResponse 列表查询响应
type ListBooksResponse struct {
	List     []BookDTO
	Total    int64
	Page     int
	PageSize int
}

// Execute 执行列表查询用例
// page默认1,pageSize默认20,最大100
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (*ListBooksResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	books, total, err := uc.bookService.ListBooks(ctx, book.ListParams{
		Page:     req.Page,
		PageSize: req.PageSize,
		Keyword:  req.Keyword,
	})
	if err != nil {
		return nil, err
	}

	list := make([]BookDTO, len(books))
	for i, b := range books {
		list[i] = toDTO(b)
	}
	return &ListBooksResponse{
		List:     list,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}

// GetBookUseCase 图书详情
type GetBookUseCase struct {
	bookService book.Service
}

// NewGetBookUseCase 创建详情用例
func NewGetBookUseCase(bookService book.Service) *GetBookUseCase {
	return &GetBookUseCase{bookService: bookService}
}

func (uc *GetBookUseCase) Execute(ctx context.Context, id uint) (*BookDTO, error) {
	b, err := uc.bookService.GetBookByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toDTO(b)
	return &dto, nil
}

// DeleteBookUseCase 删除图书(仅管理员),仍有在借副本时拒绝
type DeleteBookUseCase struct {
	bookService book.Service
}

// NewDeleteBookUseCase 创建删除用例
func NewDeleteBookUseCase(bookService book.Service) *DeleteBookUseCase {
	return &DeleteBookUseCase{bookService: bookService}
}

func (uc *DeleteBookUseCase) Execute(ctx context.Context, id uint) error {
	if err := uc.bookService.DeleteBook(ctx, id); err != nil {
		return err
	}
	slog.InfoContext(ctx, "图书已删除", "book_id", id)
	return nil
}
