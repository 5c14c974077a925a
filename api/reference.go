package api

import (
	"daily/service"

	"github.com/gin-gonic/gin"
)

// ReferenceHandler 账单类别、笔记类型、食物类别共用的处理器
type ReferenceHandler[T any, PT interface {
	*T
	service.Referential
}] struct {
	refs *service.ReferenceService[T, PT]
}

// NewReferenceHandler 创建类别处理器
func NewReferenceHandler[T any, PT interface {
	*T
	service.Referential
}](refs *service.ReferenceService[T, PT]) *ReferenceHandler[T, PT] {
	return &ReferenceHandler[T, PT]{refs: refs}
}

// ReferenceRequest 创建/更新类别请求；parentId 仅账单类别支持，传空字符串表示清除
type ReferenceRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=50" example:"餐饮"`
	Icon     *string `json:"icon" binding:"omitempty,max=50" example:"🍽️"`
	Color    *string `json:"color" binding:"omitempty,hexcolor" example:"#ef4444"`
	Sort     *int    `json:"sort" binding:"omitempty,gte=0"`
	ParentID *string `json:"parentId"`
}

func (r ReferenceRequest) input() service.ReferenceInput {
	return service.ReferenceInput{Name: r.Name, Icon: r.Icon, Color: r.Color, Sort: r.Sort, ParentID: r.ParentID}
}

// List 获取类别列表
// @Summary 获取类别列表
// @Description 仅返回启用中的类别，按排序值、名称升序
// @Tags 类别
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response "获取成功"
// @Router /api/bills/categories [get]
// @Router /api/foods/categories [get]
// @Router /api/notes/types [get]
func (h *ReferenceHandler[T, PT]) List(c *gin.Context) {
	items, err := h.refs.List(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, items)
}

// Get 获取类别详情
// @Summary 获取类别详情
// @Tags 类别
// @Produce json
// @Security BearerAuth
// @Param id path string true "类别 ID"
// @Success 200 {object} Response "获取成功"
// @Failure 404 {object} ErrorResponse "类别不存在"
// @Router /api/bills/categories/{id} [get]
// @Router /api/foods/categories/{id} [get]
// @Router /api/notes/types/{id} [get]
func (h *ReferenceHandler[T, PT]) Get(c *gin.Context) {
	item, err := h.refs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, item)
}

// Create 创建类别
// @Summary 创建类别
// @Description 名称全局唯一，重复返回 409
// @Tags 类别
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ReferenceRequest true "类别信息"
// @Success 201 {object} Response "创建成功"
// @Failure 400 {object} ErrorResponse "请求参数错误"
// @Failure 409 {object} ErrorResponse "名称已存在"
// @Router /api/bills/categories [post]
// @Router /api/foods/categories [post]
// @Router /api/notes/types [post]
func (h *ReferenceHandler[T, PT]) Create(c *gin.Context) {
	var req ReferenceRequest
	if err := bind(c, &req); err != nil {
		Fail(c, err)
		return
	}
	item, err := h.refs.Create(c.Request.Context(), req.input())
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, item)
}

// Update 更新类别（管理员）
// @Summary 更新类别
// @Tags 类别
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "类别 ID"
// @Param request body ReferenceRequest true "要修改的字段"
// @Success 200 {object} Response "更新成功"
// @Failure 400 {object} ErrorResponse "请求参数错误"
// @Failure 403 {object} ErrorResponse "需要管理员权限"
// @Failure 404 {object} ErrorResponse "类别不存在"
// @Failure 409 {object} ErrorResponse "名称已存在"
// @Router /api/bills/categories/{id} [put]
// @Router /api/foods/categories/{id} [put]
// @Router /api/notes/types/{id} [put]
func (h *ReferenceHandler[T, PT]) Update(c *gin.Context) {
	var req ReferenceRequest
	if err := bind(c, &req); err != nil {
		Fail(c, err)
		return
	}
	item, err := h.refs.Update(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		Fail(c, err)
		return
	}
	SuccessWithMessage(c, "更新成功", item)
}

// Deactivate 停用类别（管理员），已引用的记录不受影响
// @Summary 停用类别
// @Tags 类别
// @Produce json
// @Security BearerAuth
// @Param id path string true "类别 ID"
// @Success 200 {object} Response "删除成功"
// @Failure 403 {object} ErrorResponse "需要管理员权限"
// @Failure 404 {object} ErrorResponse "类别不存在"
// @Router /api/bills/categories/{id} [delete]
// @Router /api/foods/categories/{id} [delete]
// @Router /api/notes/types/{id} [delete]
func (h *ReferenceHandler[T, PT]) Deactivate(c *gin.Context) {
	if err := h.refs.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}
