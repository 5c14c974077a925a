package middleware

import (
	"context"
	"strings"

	"daily/apperr"
	"daily/models"

	"github.com/gin-gonic/gin"
)

// 上下文键
const (
	ContextUserKey   = "currentUser"
	ContextUserIDKey = "userID"
)

// IdentityLoader 按用户 ID 加载用户
type IdentityLoader interface {
	LoadIdentity(ctx context.Context, id string) (*models.User, error)
}

// ExtractToken 依次从 Authorization: Bearer、Cookie、x-auth-token 头读取令牌
func ExtractToken(c *gin.Context, cookieName string) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			if token := strings.TrimSpace(parts[1]); token != "" {
				return token
			}
		}
	}
	if cookieName != "" {
		if token, err := c.Cookie(cookieName); err == nil && token != "" {
			return token
		}
	}
	return strings.TrimSpace(c.GetHeader("x-auth-token"))
}

func authenticate(c *gin.Context, tokens *TokenManager, users IdentityLoader) (*models.User, error) {
	claims, err := tokens.Parse(ExtractToken(c, tokens.CookieName()))
	if err != nil {
		return nil, err
	}
	user, err := users.LoadIdentity(c.Request.Context(), claims.UserID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthenticated(apperr.ReasonInvalid, "用户不存在")
		}
		return nil, err
	}
	if !user.IsActive() {
		return nil, apperr.Unauthenticated(apperr.ReasonInvalid, "账号已被锁定，请联系管理员")
	}
	return user, nil
}

func setCurrentUser(c *gin.Context, user *models.User) {
	c.Set(ContextUserKey, user)
	c.Set(ContextUserIDKey, user.ID)
}

// Auth 要求登录，每次请求都重新加载用户以反映角色和状态的变化
func Auth(tokens *TokenManager, users IdentityLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := authenticate(c, tokens, users)
		if err != nil {
			c.Error(err)
			c.Abort()
			return
		}
		setCurrentUser(c, user)
		c.Next()
	}
}

// OptionalAuth 有合法令牌时设置当前用户，否则匿名继续
func OptionalAuth(tokens *TokenManager, users IdentityLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, err := authenticate(c, tokens, users); err == nil {
			setCurrentUser(c, user)
		}
		c.Next()
	}
}

// RequireRole 要求当前用户具有指定角色，需放在 Auth 之后
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.Error(apperr.Unauthenticated(apperr.ReasonMissing, "请先登录"))
			c.Abort()
			return
		}
		if user.Role != role {
			c.Error(apperr.Forbidden("没有权限执行此操作"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser 获取当前登录用户，未登录返回 nil
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(ContextUserKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// CurrentUserID 获取当前登录用户 ID
func CurrentUserID(c *gin.Context) string {
	return c.GetString(ContextUserIDKey)
}
