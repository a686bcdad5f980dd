package user

import "context"

// Repository 用户仓储接口
type Repository interface {
	// Create 邮箱已存在时返回ErrEmailDuplicate
	Create(ctx context.Context, user *User) error

	// FindByID 不存在返回ErrUserNotFound
	FindByID(ctx context.Context, id uint) (*User, error)

	// FindByEmail 不存在返回ErrUserNotFound
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByIDs 批量查询,不存在的ID不出现在结果里
	FindByIDs(ctx context.Context, ids []uint) (map[uint]*User, error)
}
