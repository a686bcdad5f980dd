package payment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Repository 支付仓储接口
type Repository interface {
	// Create 创建支付记录
	Create(ctx context.Context, p *Payment) error

	// FindByID 根据ID查询
	FindByID(ctx context.Context, id uint) (*Payment, error)

	// FindBySessionID 根据网关会话ID查询
	FindBySessionID(ctx context.Context, sessionID string) (*Payment, error)

	// MarkPaid 条件更新为PAID
	// 只更新PENDING或EXPIRED的记录;影响行数为0时返回ErrAlreadyPaid或ErrPaymentNotFound
	MarkPaid(ctx context.Context, sessionID string, paidAt time.Time) error

	// ExpireStale 批量把session_expiry < now的PENDING记录标记为EXPIRED,返回更新条数
	ExpireStale(ctx context.Context, now time.Time) (int64, error)

	// HasOutstanding 用户是否存在PENDING或EXPIRED的支付(借阅前的拦截查询)
	HasOutstanding(ctx context.Context, userID uint) (bool, error)

	// ListByBorrowing 查询某次借阅的全部支付
	ListByBorrowing(ctx context.Context, borrowingID uint) ([]*Payment, error)

	// List 分页查询
	List(ctx context.Context, params ListParams) ([]*Payment, int64, error)

	// SumPaid 统计[from, to)内完成的支付金额与笔数
	SumPaid(ctx context.Context, from, to time.Time) (decimal.Decimal, int64, error)

	// OwnerOf 查询支付所属借阅的用户ID
	OwnerOf(ctx context.Context, paymentID uint) (uint, error)
}

// ListParams 列表查询参数
type ListParams struct {
	UserID   *uint // 为nil时查询全部(管理员)
	Page     int
	PageSize int
}
