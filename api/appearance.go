package api

import (
	"time"

	"daily/middleware"
	"daily/models"
	"daily/service"

	"github.com/gin-gonic/gin"
)

// AppearanceHandler 外貌记录处理器
type AppearanceHandler struct {
	appearances *service.AppearanceService
	now         func() time.Time
}

// NewAppearanceHandler 创建外貌记录处理器
func NewAppearanceHandler(appearances *service.AppearanceService) *AppearanceHandler {
	return &AppearanceHandler{appearances: appearances, now: time.Now}
}

// CreateAppearanceRequest 创建外貌记录请求
type CreateAppearanceRequest struct {
	Photo       string   `json:"photo" binding:"required,max=500" example:"https://cdn.example.com/appearance/u1/a.jpg"`
	RecordDate  string   `json:"recordDate" example:"2024-01-15"`
	Description string   `json:"description" binding:"max=500"`
	Weight      *float64 `json:"weight" binding:"omitempty,gte=0" example:"62.5"`
	Height      *float64 `json:"height" binding:"omitempty,gte=0" example:"172"`
	BodyFatRate *float64 `json:"bodyFatRate" binding:"omitempty,gte=0,lte=100" example:"18.5"`
	Notes       string   `json:"notes" binding:"max=1000"`
}

// UpdateAppearanceRequest 更新外貌记录请求
type UpdateAppearanceRequest struct {
	Photo       *string  `json:"photo" binding:"omitempty,min=1,max=500"`
	RecordDate  *string  `json:"recordDate"`
	Description *string  `json:"description" binding:"omitempty,max=500"`
	Weight      *float64 `json:"weight" binding:"omitempty,gte=0"`
	Height      *float64 `json:"height" binding:"omitempty,gte=0"`
	BodyFatRate *float64 `json:"bodyFatRate" binding:"omitempty,gte=0,lte=100"`
	Notes       *string  `json:"notes" binding:"omitempty,max=1000"`
}

// List 获取外貌记录列表
// @Summary 获取外貌记录列表
// @Tags 外貌
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Param startDate query string false "开始日期"
// @Param endDate query string false "结束日期"
// @Param search query string false "描述或备注关键词"
// @Success 200 {object} Response{data=[]models.Appearance} "获取成功"
// @Failure 400 {object} ErrorResponse "请求参数错误"
// @Router /api/appearances [get]
func (h *AppearanceHandler) List(c *gin.Context) {
	listResource(c, h.appearances.Engine)
}

// Get 获取外貌记录详情
// @Summary 获取外貌记录详情
// @Tags 外貌
// @Produce json
// @Security BearerAuth
// @Param id path string true "记录 ID"
// @Success 200 {object} Response{data=models.Appearance} "获取成功"
// @Failure 404 {object} ErrorResponse "记录不存在"
// @Router /api/appearances/{id} [get]
func (h *AppearanceHandler) Get(c *gin.Context) {
	getResource(c, h.appearances.Engine)
}

// Create 创建外貌记录
// @Summary 创建外貌记录
// @Description 照片必填，可先通过 /api/uploads/presign 直传对象存储；记录日期默认当前时间
// @Tags 外貌
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateAppearanceRequest true "外貌记录"
// @Success 201 {object} Response{data=models.Appearance} "创建成功"
// @Failure 400 {object} ErrorResponse "请求参数错误"
// @Router /api/appearances [post]
func (h *AppearanceHandler) Create(c *gin.Context) {
	var req CreateAppearanceRequest
	if err := bind(c, &req); err != nil {
		Fail(c, err)
		return
	}
	tf, err := newTimeFields(c)
	if err != nil {
		Fail(c, err)
		return
	}
	record := &models.Appearance{
		Photo:       req.Photo,
		RecordDate:  tf.parse("recordDate", req.RecordDate, h.now()),
		Description: req.Description,
		Weight:      req.Weight,
		Height:      req.Height,
		BodyFatRate: req.BodyFatRate,
		Notes:       req.Notes,
	}
	if err := tf.err(); err != nil {
		Fail(c, err)
		return
	}
	createResource(c, h.appearances.Engine, record)
}

// Update 更新外貌记录
// @Summary 更新外貌记录
// @Tags 外貌
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "记录 ID"
// @Param request body UpdateAppearanceRequest true "要修改的字段"
// @Success 200 {object} Response{data=models.Appearance} "更新成功"
// @Failure 400 {object} ErrorResponse "请求参数错误"
// @Failure 404 {object} ErrorResponse "记录不存在"
// @Router /api/appearances/{id} [put]
func (h *AppearanceHandler) Update(c *gin.Context) {
	var req UpdateAppearanceRequest
	if err := bind(c, &req); err != nil {
		Fail(c, err)
		return
	}
	tf, err := newTimeFields(c)
	if err != nil {
		Fail(c, err)
		return
	}
	recordDate := tf.optional("recordDate", req.RecordDate)
	if err := tf.err(); err != nil {
		Fail(c, err)
		return
	}
	updateResource(c, h.appearances.Engine, func(a *models.Appearance) error {
		if req.Photo != nil {
			a.Photo = *req.Photo
		}
		if recordDate != nil {
			a.RecordDate = *recordDate
		}
		if req.Description != nil {
			a.Description = *req.Description
		}
		if req.Weight != nil {
			a.Weight = req.Weight
		}
		if req.Height != nil {
			a.Height = req.Height
		}
		if req.BodyFatRate != nil {
			a.BodyFatRate = req.BodyFatRate
		}
		if req.Notes != nil {
			a.Notes = *req.Notes
		}
		return nil
	})
}

// Delete 删除外貌记录
// @Summary 删除外貌记录
// @Tags 外貌
// @Produce json
// @Security BearerAuth
// @Param id path string true "记录 ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} ErrorResponse "记录不存在"
// @Router /api/appearances/{id} [delete]
func (h *AppearanceHandler) Delete(c *gin.Context) {
	deleteResource(c, h.appearances.Engine)
}

// Stats 外貌统计
// @Summary 外貌统计
// @Description 记录总数、最新一条与最近 10 次体重趋势
// @Tags 外貌
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=service.AppearanceStats} "获取成功"
// @Router /api/appearances/stats [get]
func (h *AppearanceHandler) Stats(c *gin.Context) {
	stats, err := h.appearances.Stats(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, stats)
}
