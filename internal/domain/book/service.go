package book

import (
	"context"

	"github.com/shopspring/decimal"
)

// Service 图书领域服务接口
type Service interface {
	// PublishBook 上架图书
	PublishBook(ctx context.Context, title, author string, cover Cover, inventory int, dailyFee decimal.Decimal) (*Book, error)

	// GetBookByID 根据ID获取图书详情
	GetBookByID(ctx context.Context, id uint) (*Book, error)

	// DeleteBook 删除图书
	// 业务规则:存在未归还的借阅时不允许删除
	DeleteBook(ctx context.Context, id uint) error

	// ListBooks 分页查询图书列表
	ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error)
}

type service struct {
	repo     Repository
	counters ActiveBorrowingCounter
}

// NewService 创建图书领域服务
func NewService(repo Repository, counters ActiveBorrowingCounter) Service {
	return &service{
		repo:     repo,
		counters: counters,
	}
}

func (s *service) PublishBook(ctx context.Context, title, author string, cover Cover, inventory int, dailyFee decimal.Decimal) (*Book, error) {
	book, err := NewBook(title, author, cover, inventory, dailyFee)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *service) GetBookByID(ctx context.Context, id uint) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) DeleteBook(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	active, err := s.counters.CountActiveByBook(ctx, id)
	if err != nil {
		return err
	}
	if active > 0 {
		return ErrHasActiveBorrowings
	}

	return s.repo.Delete(ctx, id)
}

func (s *service) ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 20
	}
	return s.repo.List(ctx, params)
}
