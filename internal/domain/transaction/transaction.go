// Package transaction 定义工作单元(unit of work)接口
package transaction

import "context"

// Manager 事务管理器
// fn返回error时回滚,返回nil时提交;fn内部通过传入的ctx访问同一个事务
type Manager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
