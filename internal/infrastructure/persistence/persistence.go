// Package persistence 根据database.driver组装仓储和协调组件
//   - mysql: MySQL仓储 + Redis会话/黑名单/任务锁
//   - memory: 全部使用进程内实现,无需外部依赖
package persistence

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xiebiao/bookrental/internal/domain/book"
	"github.com/xiebiao/bookrental/internal/domain/borrowing"
	"github.com/xiebiao/bookrental/internal/domain/payment"
	"github.com/xiebiao/bookrental/internal/domain/transaction"
	"github.com/xiebiao/bookrental/internal/domain/user"
	"github.com/xiebiao/bookrental/internal/infrastructure/config"
	"github.com/xiebiao/bookrental/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/bookrental/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookrental/internal/infrastructure/persistence/redis"
)

// SessionStore 登录会话与Token黑名单
type SessionStore interface {
	SaveSession(ctx context.Context, userID uint, sessionData map[string]interface{}, ttl time.Duration) error
	GetSession(ctx context.Context, userID uint) (map[string]string, error)
	DeleteSession(ctx context.Context, userID uint) error
	AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error
	IsInBlacklist(ctx context.Context, token string) (bool, error)
}

// JobLocker 定时任务互斥锁,多实例部署时保证同一时刻只有一个实例执行
type JobLocker interface {
	TryLock(ctx context.Context, name string, ttl time.Duration) (bool, func(), error)
}

// Repositories 仓储集合
type Repositories struct {
	Books      book.Repository
	Borrowings borrowing.Repository
	Payments   payment.Repository
	Users      user.Repository
	Tx         transaction.Manager
	Sessions   SessionStore
	Locker     JobLocker

	closers []func() error
}

// New 按配置创建仓储
func New(cfg *config.Config) (*Repositories, error) {
	switch cfg.Database.Driver {
	case "", "mysql":
		return newMySQL(cfg)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("不支持的数据库驱动 %q", cfg.Database.Driver)
	}
}

// NewMemory 进程内仓储
func NewMemory() *Repositories {
	store := memory.NewStore()
	return &Repositories{
		Books:      store.Books(),
		Borrowings: store.Borrowings(),
		Payments:   store.Payments(),
		Users:      store.Users(),
		Tx:         store,
		Sessions:   memory.NewSessionStore(),
		Locker:     memory.NewJobLock(),
	}
}

func newMySQL(cfg *config.Config) (*Repositories, error) {
	db, err := mysql.NewDB(cfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	rdb, err := redis.NewClient(cfg)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return &Repositories{
		Books:      mysql.NewBookRepository(db),
		Borrowings: mysql.NewBorrowingRepository(db),
		Payments:   mysql.NewPaymentRepository(db),
		Users:      mysql.NewUserRepository(db),
		Tx:         mysql.NewTxManager(db),
		Sessions:   redis.NewSessionStore(rdb),
		Locker:     redis.NewJobLock(rdb),
		closers:    []func() error{rdb.Close, sqlDB.Close},
	}, nil
}

// Close 关闭数据库和Redis连接
func (r *Repositories) Close() {
	for _, c := range r.closers {
		if err := c(); err != nil {
			slog.Warn("关闭连接失败", "error", err)
		}
	}
}
