package user

import (
	"context"

	"github.com/xiebiao/bookrental/internal/domain/user"
	"github.com/xiebiao/bookrental/pkg/jwt"
)

// GetProfileUseCase 当前用户信息
type GetProfileUseCase struct {
	users user.Repository
}

// NewGetProfileUseCase 创建用户信息用例
func NewGetProfileUseCase(users user.Repository) *GetProfileUseCase {
	return &GetProfileUseCase{users: users}
}

func (uc *GetProfileUseCase) Execute(ctx context.Context, userID uint) (*UserInfo, error) {
	u, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	info := toUserInfo(u)
	return &info, nil
}

// RefreshTokenUseCase 用Refresh Token换取新的Access Token
// 重新查询用户,使管理员标记的变更在刷新后生效
type RefreshTokenUseCase struct {
	users      user.Repository
	jwtManager *jwt.Manager
}

// NewRefreshTokenUseCase 创建刷新用例
func NewRefreshTokenUseCase(users user.Repository, jwtManager *jwt.Manager) *RefreshTokenUseCase {
	return &RefreshTokenUseCase{users: users, jwtManager: jwtManager}
}

// RefreshTokenResponse 刷新结果
type RefreshTokenResponse struct {
	AccessToken string `json:"access_token"`
}

func (uc *RefreshTokenUseCase) Execute(ctx context.Context, refreshToken string) (*RefreshTokenResponse, error) {
	claims, err := uc.jwtManager.ParseToken(refreshToken)
	if err != nil {
		return nil, err
	}
	userID, err := jwt.SubjectID(claims)
	if err != nil {
		return nil, err
	}

	u, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	token, err := uc.jwtManager.RefreshAccessToken(refreshToken, u.Email, u.IsStaff)
	if err != nil {
		return nil, err
	}
	return &RefreshTokenResponse{AccessToken: token}, nil
}
