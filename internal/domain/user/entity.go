package user

import (
	"time"
)

// User 用户实体（聚合根）
// 密码只保存bcrypt哈希;IsStaff由管理员在库中设置,注册接口不能修改
type User struct {
	ID        uint
	Email     string
	Password  string // bcrypt哈希值
	Nickname  string
	IsStaff   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 创建新用户（工厂方法）
// hashedPassword必须是bcrypt加密后的密码
func NewUser(email, hashedPassword, nickname string) *User {
	now := time.Now()
	return &User{
		Email:     email,
		Password:  hashedPassword,
		Nickname:  nickname,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Principal 已认证的调用者
type Principal struct {
	ID      uint
	Email   string
	IsStaff bool
}

// PrincipalOf 从用户实体生成调用者身份
func PrincipalOf(u *User) Principal {
	return Principal{ID: u.ID, Email: u.Email, IsStaff: u.IsStaff}
}

// CanAccess 管理员可以访问任何资源,普通用户只能访问自己的
func (p Principal) CanAccess(ownerID uint) bool {
	return p.IsStaff || p.ID == ownerID
}
