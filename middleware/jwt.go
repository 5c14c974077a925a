package middleware

import (
	"errors"
	"fmt"
	"time"

	"daily/apperr"
	"daily/config"
	"daily/models"

	"github.com/golang-jwt/jwt/v5"
)

// Claims JWT 载荷
type Claims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager 签发与校验令牌
type TokenManager struct {
	secret     []byte
	ttl        time.Duration
	cookieName string
	now        func() time.Time
}

// NewTokenManager 创建令牌管理器
func NewTokenManager(cfg config.JWTConfig) *TokenManager {
	return &TokenManager{
		secret:     []byte(cfg.Secret),
		ttl:        cfg.ExpireTime,
		cookieName: cfg.CookieName,
		now:        time.Now,
	}
}

// CookieName 令牌 Cookie 名称
func (m *TokenManager) CookieName() string {
	return m.cookieName
}

// TTL 令牌有效期
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Generate 为用户签发令牌
func (m *TokenManager) Generate(user *models.User) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("签发令牌失败: %w", err)
	}
	return token, expiresAt, nil
}

// Parse 校验令牌，过期与无效分别返回不同的原因
func (m *TokenManager) Parse(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, apperr.Unauthenticated(apperr.ReasonMissing, "请先登录")
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, apperr.Unauthenticated(apperr.ReasonExpired, "登录已过期，请重新登录")
	case err != nil:
		return nil, apperr.Unauthenticated(apperr.ReasonInvalid, "无效的令牌")
	case claims.UserID == "":
		return nil, apperr.Unauthenticated(apperr.ReasonInvalid, "无效的令牌")
	}
	return claims, nil
}
