// Package jwt 访问令牌的签发与校验
// Access Token携带用户ID、邮箱和是否管理员;Refresh Token只携带用户ID,用于换取新的Access Token
package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/xiebiao/bookrental/pkg/errors"
)

const issuer = "bookrental"

// TokenType 令牌类型
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

// Manager JWT管理器
type Manager struct {
	secret             []byte
	accessTokenExpire  time.Duration
	refreshTokenExpire time.Duration
}

// NewManager 创建JWT管理器
func NewManager(secret string, accessTokenExpire, refreshTokenExpire time.Duration) *Manager {
	return &Manager{
		secret:             []byte(secret),
		accessTokenExpire:  accessTokenExpire,
		refreshTokenExpire: refreshTokenExpire,
	}
}

// RefreshTokenExpire Refresh Token有效期(登录会话的保存时长)
func (m *Manager) RefreshTokenExpire() time.Duration {
	return m.refreshTokenExpire
}

// Claims 自定义声明
type Claims struct {
	UserID  uint      `json:"user_id"`
	Email   string    `json:"email,omitempty"`
	IsStaff bool      `json:"is_staff,omitempty"`
	Type    TokenType `json:"typ"`
	jwt.RegisteredClaims
}

// TTL 距离过期还剩多久(注销时作为黑名单的过期时间)
func (c *Claims) TTL(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Sub(now)
}

// TokenPair 登录返回的令牌
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // Access Token有效期(秒)
}

// GenerateToken 签发一对令牌
func (m *Manager) GenerateToken(userID uint, email string, isStaff bool) (*TokenPair, error) {
	now := time.Now()

	access, err := m.sign(Claims{
		UserID:           userID,
		Email:            email,
		IsStaff:          isStaff,
		Type:             TokenAccess,
		RegisteredClaims: m.registered(userID, now, m.accessTokenExpire),
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "生成Access Token失败")
	}

	refresh, err := m.sign(Claims{
		UserID:           userID,
		Type:             TokenRefresh,
		RegisteredClaims: m.registered(userID, now, m.refreshTokenExpire),
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "生成Refresh Token失败")
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(m.accessTokenExpire.Seconds()),
	}, nil
}

// ParseToken 校验签名和有效期
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("非法的签名算法: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken.WithCause(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}

// ParseAccessToken 只接受Access Token
func (m *Manager) ParseAccessToken(tokenString string) (*Claims, error) {
	claims, err := m.ParseToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Type != TokenAccess {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}

// RefreshAccessToken 用Refresh Token换取新的Access Token
// 管理员标记可能已经变化,所以由调用方重新查询用户后传入
func (m *Manager) RefreshAccessToken(refreshToken string, email string, isStaff bool) (string, error) {
	claims, err := m.ParseToken(refreshToken)
	if err != nil {
		return "", err
	}
	if claims.Type != TokenRefresh {
		return "", apperrors.ErrInvalidToken
	}

	token, err := m.sign(Claims{
		UserID:           claims.UserID,
		Email:            email,
		IsStaff:          isStaff,
		Type:             TokenAccess,
		RegisteredClaims: m.registered(claims.UserID, time.Now(), m.accessTokenExpire),
	})
	if err != nil {
		return "", apperrors.Wrap(err, "刷新Token失败")
	}
	return token, nil
}

func (m *Manager) registered(userID uint, now time.Time, ttl time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		Issuer:    issuer,
		Subject:   strconv.FormatUint(uint64(userID), 10),
	}
}

func (m *Manager) sign(claims Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// SubjectID 从Claims的Subject解析用户ID(Refresh Token场景)
func SubjectID(claims *Claims) (uint, error) {
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, apperrors.ErrInvalidToken
	}
	return uint(id), nil
}
