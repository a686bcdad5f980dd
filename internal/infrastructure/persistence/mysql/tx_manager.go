package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/bookrental/internal/domain/transaction"
)

type txKey struct{}

// TxManager 事务管理器
// 通过context传递事务DB,fn内的所有Repository操作在同一事务中执行
type TxManager struct {
	db *gorm.DB
}

var _ transaction.Manager = (*TxManager)(nil)

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction 执行事务
// fn返回error时自动ROLLBACK,返回nil时自动COMMIT;嵌套调用时GORM使用Savepoint
//
//	err := txManager.Transaction(ctx, func(ctx context.Context) error {
//	    b, err := bookRepo.LockByID(ctx, bookID)
//	    if err != nil {
//	        return err
//	    }
//	    return bookRepo.UpdateInventory(ctx, b.ID, -1)
//	})
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return dbFrom(ctx, m.db).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// dbFrom 从context获取事务DB,如果没有则使用默认DB
func dbFrom(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}
