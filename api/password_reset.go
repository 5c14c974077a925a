package api

import (
	"daily/service"

	"github.com/gin-gonic/gin"
)

// PasswordResetHandler 邮件找回密码
type PasswordResetHandler struct {
	resets *service.PasswordResetService
}

// NewPasswordResetHandler 创建找回密码处理器
func NewPasswordResetHandler(resets *service.PasswordResetService) *PasswordResetHandler {
	return &PasswordResetHandler{resets: resets}
}

// RequestResetRequest 申请重置密码
type RequestResetRequest struct {
	Email string `json:"email" binding:"required,email" example:"test@example.com"`
}

// ResetPasswordRequest 使用令牌重置密码
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required" example:"b3f1..."`
	NewPassword string `json:"newPassword" binding:"required,password" example:"newpassword123"`
}

// RequestReset 申请重置密码
// @Summary 申请重置密码
// @Description 向注册邮箱发送重置链接，30 分钟内有效；无论邮箱是否注册都返回相同结果
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body RequestResetRequest true "注册邮箱"
// @Success 200 {object} Response "已发送"
// @Failure 400 {object} ErrorResponse "请求参数错误"
// @Failure 429 {object} ErrorResponse "请求过于频繁"
// @Failure 503 {object} ErrorResponse "邮件服务未启用"
// @Router /api/auth/password/request-reset [post]
func (h *PasswordResetHandler) RequestReset(c *gin.Context) {
	var req RequestResetRequest
	if err := bind(c, &req); err != nil {
		Fail(c, err)
		return
	}
	if err := h.resets.RequestReset(c.Request.Context(), req.Email); err != nil {
		Fail(c, err)
		return
	}
	SuccessWithMessage(c, "如果该邮箱已注册，重置链接已发送，请查收邮件", nil)
}

// ResetPassword 重置密码
// @Summary 重置密码
// @Description 令牌只能使用一次
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body ResetPasswordRequest true "令牌与新密码"
// @Success 200 {object} Response "重置成功"
// @Failure 400 {object} ErrorResponse "令牌无效或已过期"
// @Router /api/auth/password/reset [post]
func (h *PasswordResetHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := bind(c, &req); err != nil {
		Fail(c, err)
		return
	}
	if err := h.resets.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		Fail(c, err)
		return
	}
	SuccessWithMessage(c, "密码重置成功，请使用新密码登录", nil)
}
