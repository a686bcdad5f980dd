package user

import (
	"context"
	"log/slog"

	"github.com/xiebiao/bookrental/internal/domain/user"
)

// RegisterUseCase 用户注册用例
// 注册的用户都是普通读者,管理员标记只能在库中设置
type RegisterUseCase struct {
	userService user.Service
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(userService user.Service) *RegisterUseCase {
	return &RegisterUseCase{
		userService: userService,
	}
}

// Execute 执行注册
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*UserInfo, error) {
	u, err := uc.userService.Register(ctx, req.Email, req.Password, req.Nickname)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "用户注册成功", "user_id", u.ID)
	info := toUserInfo(u)
	return &info, nil
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string
	Password string
	Nickname string
}

// UserInfo 用户信息(不含密码)
type UserInfo struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	IsStaff  bool   `json:"is_staff"`
}

func toUserInfo(u *user.User) UserInfo {
	return UserInfo{
		ID:       u.ID,
		Email:    u.Email,
		Nickname: u.Nickname,
		IsStaff:  u.IsStaff,
	}
}
