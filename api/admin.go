package api

import (
	"daily/middleware"
	"daily/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler 用户管理（管理员）
type AdminHandler struct {
	users *service.UserService
}

// NewAdminHandler 创建用户管理处理器
func NewAdminHandler(users *service.UserService) *AdminHandler {
	return &AdminHandler{users: users}
}

// SetRoleRequest 设置角色
type SetRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=user admin" example:"admin"`
}

// SetStatusRequest 锁定/解锁
type SetStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active locked" example:"locked"`
}

// ListUsers 用户列表
// @Summary 用户列表
// @Description 按注册时间降序，search 匹配用户名、邮箱与昵称
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Param search query string false "关键词"
// @Success 200 {object} Response{data=[]models.User} "获取成功"
// @Failure 403 {object} ErrorResponse "需要管理员权限"
// @Router /api/admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	q, err := listQuery(c)
	if err != nil {
		Fail(c, err)
		return
	}
	users, page, err := h.users.List(c.Request.Context(), q)
	if err != nil {
		Fail(c, err)
		return
	}
	Paged(c, users, page)
}

// SetRole 设置用户角色
// @Summary 设置用户角色
// @Description 管理员不能取消自己的管理员权限
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "用户 ID"
// @Param request body SetRoleRequest true "角色"
// @Success 200 {object} Response{data=models.User} "更新成功"
// @Failure 400 {object} ErrorResponse "请求参数错误"
// @Failure 404 {object} ErrorResponse "用户不存在"
// @Router /api/admin/users/{id}/role [put]
func (h *AdminHandler) SetRole(c *gin.Context) {
	var req SetRoleRequest
	if err := bind(c, &req); err != nil {
		Fail(c, err)
		return
	}
	user, err := h.users.SetRole(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), req.Role)
	if err != nil {
		Fail(c, err)
		return
	}
	SuccessWithMessage(c, "更新成功", user)
}

// SetStatus 锁定或解锁用户
// @Summary 锁定或解锁用户
// @Description 被锁定的用户无法登录，已签发的令牌也会在下一次请求时被拒绝
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "用户 ID"
// @Param request body SetStatusRequest true "状态"
// @Success 200 {object} Response{data=models.User} "更新成功"
// @Failure 400 {object} ErrorResponse "请求参数错误"
// @Failure 404 {object} ErrorResponse "用户不存在"
// @Router /api/admin/users/{id}/status [put]
func (h *AdminHandler) SetStatus(c *gin.Context) {
	var req SetStatusRequest
	if err := bind(c, &req); err != nil {
		Fail(c, err)
		return
	}
	user, err := h.users.SetStatus(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), req.Status)
	if err != nil {
		Fail(c, err)
		return
	}
	SuccessWithMessage(c, "更新成功", user)
}
