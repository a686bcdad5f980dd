package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookrental/internal/domain/user"
	apperrors "github.com/xiebiao/bookrental/pkg/errors"
	"github.com/xiebiao/bookrental/pkg/jwt"
	"github.com/xiebiao/bookrental/pkg/response"
)

const (
	ctxUserID  = "user_id"
	ctxEmail   = "email"
	ctxIsStaff = "is_staff"
	ctxToken   = "access_token"
)

// TokenBlacklist 已注销的Token
type TokenBlacklist interface {
	IsInBlacklist(ctx context.Context, token string) (bool, error)
}

// AuthMiddleware JWT认证中间件
// 1. 从Header提取Token
// 2. 检查Token黑名单
// 3. 验证Token有效性
// 4. 将用户信息注入Context
type AuthMiddleware struct {
	jwtManager *jwt.Manager
	blacklist  TokenBlacklist
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(jwtManager *jwt.Manager, blacklist TokenBlacklist) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		blacklist:  blacklist,
	}
}

// RequireAuth 要求登录
// 格式：Authorization: Bearer <token>
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.ErrorWithCode(c, apperrors.ErrCodeInvalidToken, "Token格式错误")
			c.Abort()
			return
		}
		tokenString := parts[1]

		// 用户已登出或Token被强制失效
		revoked, err := m.blacklist.IsInBlacklist(c.Request.Context(), tokenString)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if revoked {
			response.Error(c, apperrors.ErrTokenRevoked)
			c.Abort()
			return
		}

		claims, err := m.jwtManager.ParseAccessToken(tokenString)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxEmail, claims.Email)
		c.Set(ctxIsStaff, claims.IsStaff)
		c.Set(ctxToken, tokenString)
		c.Next()
	}
}

// RequireStaff 只允许管理员,必须放在RequireAuth之后
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetPrincipal(c).IsStaff {
			response.Error(c, apperrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetPrincipal 当前调用者,未登录时ID为0
func GetPrincipal(c *gin.Context) user.Principal {
	return user.Principal{
		ID:      c.GetUint(ctxUserID),
		Email:   c.GetString(ctxEmail),
		IsStaff: c.GetBool(ctxIsStaff),
	}
}

// GetUserID 从Context获取当前登录用户ID
func GetUserID(c *gin.Context) uint {
	return c.GetUint(ctxUserID)
}

// GetToken 当前请求的Access Token(登出时加入黑名单)
func GetToken(c *gin.Context) string {
	return c.GetString(ctxToken)
}
