package borrowing

import (
	"context"
	"time"
)

// Repository 借阅仓储接口
type Repository interface {
	// Create 创建借阅(回填ID)
	Create(ctx context.Context, b *Borrowing) error

	// FindByID 根据ID查询
	FindByID(ctx context.Context, id uint) (*Borrowing, error)

	// LockByID 悲观锁查询(归还时使用,必须在事务中调用)
	LockByID(ctx context.Context, id uint) (*Borrowing, error)

	// MarkReturned 条件更新归还日期
	// 只更新actual_return_date为空的记录,影响行数为0时返回ErrAlreadyReturned
	MarkReturned(ctx context.Context, id uint, returnDate time.Time) error

	// List 分页查询
	List(ctx context.Context, params ListParams) ([]*Borrowing, int64, error)

	// ListActiveDueBy 查询预计归还日期<=due的借阅中记录(到期提醒)
	ListActiveDueBy(ctx context.Context, due time.Time) ([]*Borrowing, error)

	// CountActiveByBook 统计某本书的在借数量
	CountActiveByBook(ctx context.Context, bookID uint) (int64, error)
}

// ListParams 列表查询参数
type ListParams struct {
	UserID   *uint // 为nil时不过滤
	IsActive *bool // 为nil时不过滤
	Page     int
	PageSize int
}
