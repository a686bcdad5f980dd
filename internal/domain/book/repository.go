package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 由domain层定义接口,infrastructure层实现(MySQL / 内存)
type Repository interface {
	// Create 创建图书
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书
	FindByID(ctx context.Context, id uint) (*Book, error)

	// Delete 删除图书
	Delete(ctx context.Context, id uint) error

	// List 分页查询图书列表
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// LockByID 悲观锁查询图书(借阅时锁定库存行)
	// 必须在事务中调用,使用SELECT FOR UPDATE防止最后一本被同时借出
	LockByID(ctx context.Context, id uint) (*Book, error)

	// UpdateInventory 原子调整库存
	// delta为正数表示归还,负数表示借出; 调整后库存<0时返回ErrNotAvailable且不做修改
	UpdateInventory(ctx context.Context, id uint, delta int) error
}

// ListParams 列表查询参数
type ListParams struct {
	Page     int    // 页码(从1开始)
	PageSize int    // 每页数量
	Keyword  string // 搜索关键词(标题、作者)
}

// ActiveBorrowingCounter 查询图书的在借数量
// 由借阅仓储实现,用于删除前的校验
type ActiveBorrowingCounter interface {
	CountActiveByBook(ctx context.Context, bookID uint) (int64, error)
}
