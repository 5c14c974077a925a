package api

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"daily/apperr"
	"daily/middleware"
	"daily/models"
	"daily/service"

	"github.com/gin-gonic/gin"
)

// BillHandler 账单处理器
type BillHandler struct {
	bills *service.BillService
	now   func() time.Time
}

// NewBillHandler 创建账单处理器
func NewBillHandler(bills *service.BillService) *BillHandler {
	return &BillHandler{bills: bills, now: time.Now}
}

// CreateBillRequest 创建账单请求
type CreateBillRequest struct {
	CategoryID   string   `json:"categoryId" binding:"required" example:"4f1c2a9e-8a43-4c55-9a71-1d9b2c0e5f10"`
	Amount       *float64 `json:"amount" binding:"required,gte=0" example:"32.5"`
	OrderName    string   `json:"orderName" binding:"required,max=200" example:"午餐"`
	Description  string   `json:"description" binding:"max=500" example:"牛肉面"`
	SpendingTime string   `json:"spendingTime" binding:"required" example:"2024-01-15 12:30:00"`
	Tags         []string `json:"tags" binding:"omitempty,max=20,dive,max=30"`
}

// UpdateBillRequest 更新账单请求，未出现的字段不修改
type UpdateBillRequest struct {
	CategoryID   *string   `json:"categoryId" binding:"omitempty,min=1"`
	Amount       *float64  `json:"amount" binding:"omitempty,gte=0"`
	OrderName    *string   `json:"orderName" binding:"omitempty,min=1,max=200"`
	Description  *string   `json:"description" binding:"omitempty,max=500"`
	SpendingTime *string   `json:"spendingTime"`
	Tags         *[]string `json:"tags" binding:"omitempty,max=20"`
}

func (h *BillHandler) filter(c *gin.Context) ([]service.Scope, error) {
	minAmount, err := queryFloat(c, "minAmount")
	if err != nil {
		return nil, err
	}
	maxAmount, err := queryFloat(c, "maxAmount")
	if err != nil {
		return nil, err
	}
	return service.BillFilter{CategoryID: c.Query("categoryId"), MinAmount: minAmount, MaxAmount: maxAmount}.Scopes(), nil
}

// List 获取账单列表
// @Summary 获取账单列表
// @Description 获取当前用户的账单，支持分页、类别、金额、时间范围与关键词筛选
// @Tags 账单
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量（最大 100）" default(10)
// @Param categoryId query string false "类别 ID"
// @Param minAmount query number false "最小金额"
// @Param maxAmount query number false "最大金额"
// @Param startDate query string false "开始日期 (2024-01-01)"
// @Param endDate query string false "结束日期 (2024-12-31)"
// @Param search query string false "名称或描述关键词"
// @Param populate query string false "关联字段，如 category"
// @Success 200 {object} Response{data=[]models.Bill} "获取成功"
// @Failure 400 {object} ErrorResponse "请求参数错误"
// @Failure 401 {object} ErrorResponse "未授权"
// @Router /api/bills [get]
func (h *BillHandler) List(c *gin.Context) {
	scopes, err := h.filter(c)
	if err != nil {
		Fail(c, err)
		return
	}
	listResource(c, h.bills.Engine, scopes...)
}

// Get 获取账单详情
// @Summary 获取账单详情
// @Tags 账单
// @Produce json
// @Security BearerAuth
// @Param id path string true "账单 ID"
// @Param populate query string false "关联字段，如 category"
// @Success 200 {object} Response{data=models.Bill} "获取成功"
// @Failure 404 {object} ErrorResponse "账单不存在"
// @Router /api/bills/{id} [get]
func (h *BillHandler) Get(c *gin.Context) {
	getResource(c, h.bills.Engine)
}

// Create 创建账单
// @Summary 创建账单
// @Tags 账单
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateBillRequest true "账单信息"
// @Success 201 {object} Response{data=models.Bill} "创建成功"
// @Failure 400 {object} ErrorResponse "请求参数错误或类别无效"
// @Failure 401 {object} ErrorResponse "未授权"
// @Router /api/bills [post]
func (h *BillHandler) Create(c *gin.Context) {
	var req CreateBillRequest
	if err := bind(c, &req); err != nil {
		Fail(c, err)
		return
	}
	tf, err := newTimeFields(c)
	if err != nil {
		Fail(c, err)
		return
	}
	bill := &models.Bill{
		CategoryID:   req.CategoryID,
		Amount:       *req.Amount,
		OrderName:    req.OrderName,
		Description:  req.Description,
		SpendingTime: tf.parse("spendingTime", req.SpendingTime, time.Time{}),
		Tags:         models.StringList(req.Tags),
	}
	if err := tf.err(); err != nil {
		Fail(c, err)
		return
	}
	createResource(c, h.bills.Engine, bill)
}

// Update 更新账单
// @Summary 更新账单
// @Description 部分更新，只修改请求中出现的字段
// @Tags 账单
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "账单 ID"
// @Param request body UpdateBillRequest true "要修改的字段"
// @Success 200 {object} Response{data=models.Bill} "更新成功"
// @Failure 400 {object} ErrorResponse "请求参数错误"
// @Failure 404 {object} ErrorResponse "账单不存在"
// @Router /api/bills/{id} [put]
func (h *BillHandler) Update(c *gin.Context) {
	var req UpdateBillRequest
	if err := bind(c, &req); err != nil {
		Fail(c, err)
		return
	}
	tf, err := newTimeFields(c)
	if err != nil {
		Fail(c, err)
		return
	}
	spendingTime := tf.optional("spendingTime", req.SpendingTime)
	if err := tf.err(); err != nil {
		Fail(c, err)
		return
	}
	updateResource(c, h.bills.Engine, func(b *models.Bill) error {
		if req.CategoryID != nil {
			b.CategoryID = *req.CategoryID
		}
		if req.Amount != nil {
			b.Amount = *req.Amount
		}
		if req.OrderName != nil {
			b.OrderName = *req.OrderName
		}
		if req.Description != nil {
			b.Description = *req.Description
		}
		if spendingTime != nil {
			b.SpendingTime = *spendingTime
		}
		if req.Tags != nil {
			b.Tags = models.StringList(*req.Tags)
		}
		return nil
	})
}

// Delete 删除账单
// @Summary 删除账单
// @Tags 账单
// @Produce json
// @Security BearerAuth
// @Param id path string true "账单 ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} ErrorResponse "账单不存在"
// @Router /api/bills/{id} [delete]
func (h *BillHandler) Delete(c *gin.Context) {
	deleteResource(c, h.bills.Engine)
}

// Stats 账单统计
// @Summary 账单统计
// @Description 按类别汇总周期内的金额，按总额降序；周期按调用方时区计算，一周从周日开始
// @Tags 账单
// @Produce json
// @Security BearerAuth
// @Param period query string false "统计周期" Enums(week, month, year) default(month)
// @Param startDate query string false "开始日期，覆盖周期起点"
// @Param endDate query string false "结束日期，覆盖周期终点"
// @Param tz query string false "IANA 时区，如 Asia/Shanghai"
// @Success 200 {object} Response{data=service.BillStats} "获取成功"
// @Failure 400 {object} ErrorResponse "请求参数错误"
// @Router /api/bills/stats [get]
func (h *BillHandler) Stats(c *gin.Context) {
	w, err := statsWindow(c, h.now())
	if err != nil {
		Fail(c, err)
		return
	}
	stats, err := h.bills.Stats(c.Request.Context(), middleware.CurrentUserID(c), w)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, stats)
}

// Export 导出账单
// @Summary 导出账单
// @Description 导出周期内的账单为 Excel 或 CSV 文件
// @Tags 账单
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce text/csv
// @Security BearerAuth
// @Param format query string false "文件格式" Enums(xlsx, csv) default(xlsx)
// @Param period query string false "统计周期" Enums(week, month, year) default(month)
// @Param startDate query string false "开始日期"
// @Param endDate query string false "结束日期"
// @Param tz query string false "IANA 时区"
// @Success 200 {file} file "导出文件"
// @Failure 400 {object} ErrorResponse "请求参数错误"
// @Router /api/bills/export [get]
func (h *BillHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", service.ExportXLSX)
	if format != service.ExportXLSX && format != service.ExportCSV {
		Fail(c, apperr.Validation("参数错误", apperr.FieldError{Field: "format", Message: "只能是 xlsx 或 csv"}))
		return
	}
	w, err := statsWindow(c, h.now())
	if err != nil {
		Fail(c, err)
		return
	}
	bills, err := h.bills.ListForExport(c.Request.Context(), middleware.CurrentUserID(c), w)
	if err != nil {
		Fail(c, err)
		return
	}

	buf := new(bytes.Buffer)
	contentType := "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	if format == service.ExportCSV {
		contentType = "text/csv; charset=utf-8"
		err = service.WriteBillsCSV(buf, bills)
	} else {
		err = service.WriteBillsXLSX(buf, bills)
	}
	if err != nil {
		Fail(c, fmt.Errorf("生成导出文件失败: %w", err))
		return
	}

	filename := fmt.Sprintf("bills_%s_%s.%s", w.Start.Format(dateLayout), w.End.Format(dateLayout), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
