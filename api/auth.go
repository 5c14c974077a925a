package api

import (
	"time"

	"daily/middleware"
	"daily/models"
	"daily/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	users  *service.UserService
	tokens *middleware.TokenManager
	cookie tokenCookie
}

// NewAuthHandler 创建认证处理器；secureCookie 为 true 时令牌 Cookie 仅通过 HTTPS 传输
func NewAuthHandler(users *service.UserService, tokens *middleware.TokenManager, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		users:  users,
		tokens: tokens,
		cookie: tokenCookie{name: tokens.CookieName(), secure: secureCookie},
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required,username" example:"testuser"`
	Email    string `json:"email" binding:"required,email,max=100" example:"test@example.com"`
	Password string `json:"password" binding:"required,password" example:"password123"`
	Nickname string `json:"nickname" binding:"max=50" example:"小明"`
}

// LoginRequest 登录请求（支持用户名或邮箱）
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"testuser"` // 可为用户名或邮箱
	Password string `json:"password" binding:"required" example:"password123"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

// ProfileRequest 修改个人资料请求
type ProfileRequest struct {
	Nickname *string `json:"nickname" binding:"omitempty,max=50"`
	Avatar   *string `json:"avatar" binding:"omitempty,max=500"`
	Phone    *string `json:"phone" binding:"omitempty,max=30"`
	Bio      *string `json:"bio" binding:"omitempty,max=500"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required" example:"oldpassword123"`
	NewPassword string `json:"newPassword" binding:"required,password" example:"newpassword123"`
}

// Register 用户注册
// @Summary 用户注册
// @Description 用户名 3-30 位字母、数字或下划线；密码至少 6 位且包含字母和数字。注册成功即登录。
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "注册信息"
// @Success 201 {object} Response{data=LoginResponse} "注册成功"
// @Failure 400 {object} ErrorResponse "请求参数错误"
// @Failure 409 {object} ErrorResponse "用户名或邮箱已存在"
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := bind(c, &req); err != nil {
		Fail(c, err)
		return
	}
	user, err := h.users.Register(c.Request.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Nickname: req.Nickname,
	})
	if err != nil {
		Fail(c, err)
		return
	}
	resp, err := h.issue(c, user)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, resp)
}

// Login 用户登录
// @Summary 用户登录
// @Description 返回 JWT，同时写入 HttpOnly Cookie；同一 IP 登录请求受限流保护
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body LoginRequest true "登录信息"
// @Success 200 {object} Response{data=LoginResponse} "登录成功"
// @Failure 400 {object} ErrorResponse "请求参数错误"
// @Failure 401 {object} ErrorResponse "用户名或密码错误"
// @Failure 403 {object} ErrorResponse "账号已锁定"
// @Failure 429 {object} ErrorResponse "登录尝试过于频繁"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := bind(c, &req); err != nil {
		Fail(c, err)
		return
	}
	user, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		Fail(c, err)
		return
	}
	resp, err := h.issue(c, user)
	if err != nil {
		Fail(c, err)
		return
	}
	SuccessWithMessage(c, "登录成功", resp)
}

func (h *AuthHandler) issue(c *gin.Context, user *models.User) (*LoginResponse, error) {
	token, expiresAt, err := h.tokens.Generate(user)
	if err != nil {
		return nil, err
	}
	h.cookie.set(c, token, expiresAt)
	return &LoginResponse{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Logout 退出登录
// @Summary 退出登录
// @Description 清除令牌 Cookie；客户端应同时丢弃本地保存的令牌
// @Tags 认证
// @Produce json
// @Success 200 {object} Response "已退出登录"
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.cookie.clear(c)
	SuccessWithMessage(c, "已退出登录", nil)
}

// GetProfile 获取当前用户信息
// @Summary 获取当前用户信息
// @Tags 认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.User} "获取成功"
// @Failure 401 {object} ErrorResponse "未登录"
// @Router /api/auth/profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	Success(c, middleware.CurrentUser(c))
}

// UpdateProfile 修改个人资料
// @Summary 修改个人资料
// @Tags 认证
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProfileRequest true "要修改的字段"
// @Success 200 {object} Response{data=models.User} "更新成功"
// @Failure 400 {object} ErrorResponse "请求参数错误"
// @Router /api/auth/profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req ProfileRequest
	if err := bind(c, &req); err != nil {
		Fail(c, err)
		return
	}
	user, err := h.users.UpdateProfile(c.Request.Context(), middleware.CurrentUserID(c), service.ProfileInput{
		Nickname: req.Nickname,
		Avatar:   req.Avatar,
		Phone:    req.Phone,
		Bio:      req.Bio,
	})
	if err != nil {
		Fail(c, err)
		return
	}
	SuccessWithMessage(c, "更新成功", user)
}

// ChangePassword 修改密码
// @Summary 修改密码
// @Description 校验原密码后修改；已签发的令牌在过期前仍然有效
// @Tags 认证
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "密码信息"
// @Success 200 {object} Response "修改成功"
// @Failure 400 {object} ErrorResponse "请求参数错误或原密码错误"
// @Router /api/auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := bind(c, &req); err != nil {
		Fail(c, err)
		return
	}
	if err := h.users.ChangePassword(c.Request.Context(), middleware.CurrentUserID(c), req.OldPassword, req.NewPassword); err != nil {
		Fail(c, err)
		return
	}
	SuccessWithMessage(c, "密码修改成功", nil)
}
