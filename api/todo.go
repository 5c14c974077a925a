package api

import (
	"time"

	"daily/middleware"
	"daily/models"
	"daily/service"

	"github.com/gin-gonic/gin"
)

// TodoHandler 待办处理器
type TodoHandler struct {
	todos *service.TodoService
	now   func() time.Time
}

// NewTodoHandler 创建待办处理器
func NewTodoHandler(todos *service.TodoService) *TodoHandler {
	return &TodoHandler{todos: todos, now: time.Now}
}

// TodoDetailRequest 子项
type TodoDetailRequest struct {
	ID      string `json:"id"`
	Content string `json:"content" binding:"required,max=500"`
	Status  int    `json:"status" binding:"oneof=0 1"`
}

// CreateTodoRequest 创建待办请求
type CreateTodoRequest struct {
	Title     string              `json:"title" binding:"required,max=200" example:"准备周会材料"`
	Content   string              `json:"content" binding:"max=2000"`
	StartTime *string             `json:"startTime" example:"2024-01-15 09:00:00"`
	EndTime   *string             `json:"endTime" example:"2024-01-15 18:00:00"`
	Status    int                 `json:"status" binding:"oneof=0 1"`
	Priority  int                 `json:"priority" binding:"oneof=0 1 2"`
	Tags      []string            `json:"tags" binding:"omitempty,max=20,dive,max=30"`
	Details   []TodoDetailRequest `json:"details" binding:"omitempty,max=100,dive"`
}

// UpdateTodoRequest 更新待办请求，未出现的字段不修改
type UpdateTodoRequest struct {
	Title     *string              `json:"title" binding:"omitempty,min=1,max=200"`
	Content   *string              `json:"content" binding:"omitempty,max=2000"`
	StartTime *string              `json:"startTime"`
	EndTime   *string              `json:"endTime"`
	Status    *int                 `json:"status" binding:"omitempty,oneof=0 1"`
	Priority  *int                 `json:"priority" binding:"omitempty,oneof=0 1 2"`
	Tags      *[]string            `json:"tags"`
	Details   *[]TodoDetailRequest `json:"details" binding:"omitempty,max=100,dive"`
}

func toTodoDetails(in []TodoDetailRequest) []models.TodoDetail {
	out := make([]models.TodoDetail, 0, len(in))
	for _, d := range in {
		out = append(out, models.TodoDetail{ID: d.ID, Content: d.Content, Status: d.Status})
	}
	return out
}

// List 获取待办列表
// @Summary 获取待办列表
// @Description 默认按优先级降序、创建时间降序
// @Tags 待办
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Param status query int false "状态" Enums(0, 1)
// @Param priority query int false "优先级" Enums(0, 1, 2)
// @Param startDate query string false "开始时间下限"
// @Param endDate query string false "开始时间上限"
// @Param search query string false "标题或内容关键词"
// @Success 200 {object} Response{data=[]models.Todo} "获取成功"
// @Failure 400 {object} ErrorResponse "请求参数错误"
// @Router /api/todos [get]
func (h *TodoHandler) List(c *gin.Context) {
	status, err := queryInt(c, "status")
	if err != nil {
		Fail(c, err)
		return
	}
	priority, err := queryInt(c, "priority")
	if err != nil {
		Fail(c, err)
		return
	}
	listResource(c, h.todos.Engine, service.TodoFilter{Status: status, Priority: priority}.Scopes()...)
}

// Get 获取待办详情
// @Summary 获取待办详情
// @Tags 待办
// @Produce json
// @Security BearerAuth
// @Param id path string true "待办 ID"
// @Success 200 {object} Response{data=models.Todo} "获取成功"
// @Failure 404 {object} ErrorResponse "待办不存在"
// @Router /api/todos/{id} [get]
func (h *TodoHandler) Get(c *gin.Context) {
	getResource(c, h.todos.Engine)
}

// Create 创建待办
// @Summary 创建待办
// @Description 进度由子项完成比例计算，没有子项时由状态决定
// @Tags 待办
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTodoRequest true "待办信息"
// @Success 201 {object} Response{data=models.Todo} "创建成功"
// @Failure 400 {object} ErrorResponse "请求参数错误"
// @Router /api/todos [post]
func (h *TodoHandler) Create(c *gin.Context) {
	var req CreateTodoRequest
	if err := bind(c, &req); err != nil {
		Fail(c, err)
		return
	}
	tf, err := newTimeFields(c)
	if err != nil {
		Fail(c, err)
		return
	}
	now := h.now()
	todo := &models.Todo{
		Title:     req.Title,
		Content:   req.Content,
		StartTime: tf.optional("startTime", req.StartTime),
		EndTime:   tf.optional("endTime", req.EndTime),
		Priority:  req.Priority,
		Tags:      models.StringList(req.Tags),
	}
	if err := tf.err(); err != nil {
		Fail(c, err)
		return
	}
	todo.SetDetails(toTodoDetails(req.Details), now)
	if req.Status == models.TodoCompleted {
		todo.MarkCompleted(now)
	}
	createResource(c, h.todos.Engine, todo)
}

// Update 更新待办
// @Summary 更新待办
// @Tags 待办
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "待办 ID"
// @Param request body UpdateTodoRequest true "要修改的字段"
// @Success 200 {object} Response{data=models.Todo} "更新成功"
// @Failure 400 {object} ErrorResponse "请求参数错误"
// @Failure 404 {object} ErrorResponse "待办不存在"
// @Router /api/todos/{id} [put]
func (h *TodoHandler) Update(c *gin.Context) {
	var req UpdateTodoRequest
	if err := bind(c, &req); err != nil {
		Fail(c, err)
		return
	}
	tf, err := newTimeFields(c)
	if err != nil {
		Fail(c, err)
		return
	}
	startTime := tf.optional("startTime", req.StartTime)
	endTime := tf.optional("endTime", req.EndTime)
	if err := tf.err(); err != nil {
		Fail(c, err)
		return
	}
	now := h.now()
	updateResource(c, h.todos.Engine, func(t *models.Todo) error {
		if req.Title != nil {
			t.Title = *req.Title
		}
		if req.Content != nil {
			t.Content = *req.Content
		}
		if req.StartTime != nil {
			t.StartTime = startTime
		}
		if req.EndTime != nil {
			t.EndTime = endTime
		}
		if req.Priority != nil {
			t.Priority = *req.Priority
		}
		if req.Tags != nil {
			t.Tags = models.StringList(*req.Tags)
		}
		if req.Details != nil {
			t.SetDetails(toTodoDetails(*req.Details), now)
		}
		if req.Status != nil && *req.Status != t.Status {
			if *req.Status == models.TodoCompleted {
				t.MarkCompleted(now)
			} else {
				t.MarkIncomplete()
			}
		}
		return nil
	})
}

// Delete 删除待办
// @Summary 删除待办
// @Tags 待办
// @Produce json
// @Security BearerAuth
// @Param id path string true "待办 ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} ErrorResponse "待办不存在"
// @Router /api/todos/{id} [delete]
func (h *TodoHandler) Delete(c *gin.Context) {
	deleteResource(c, h.todos.Engine)
}

// Toggle 切换完成状态
// @Summary 切换待办完成状态
// @Tags 待办
// @Produce json
// @Security BearerAuth
// @Param id path string true "待办 ID"
// @Success 200 {object} Response{data=models.Todo} "切换成功"
// @Failure 404 {object} ErrorResponse "待办不存在"
// @Router /api/todos/{id}/toggle [patch]
func (h *TodoHandler) Toggle(c *gin.Context) {
	todo, err := h.todos.Toggle(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, todo)
}

// ToggleDetail 切换子项完成状态
// @Summary 切换待办子项完成状态
// @Tags 待办
// @Produce json
// @Security BearerAuth
// @Param id path string true "待办 ID"
// @Param detailId path string true "子项 ID"
// @Success 200 {object} Response{data=models.Todo} "切换成功"
// @Failure 404 {object} ErrorResponse "待办或子项不存在"
// @Router /api/todos/{id}/details/{detailId}/toggle [patch]
func (h *TodoHandler) ToggleDetail(c *gin.Context) {
	todo, err := h.todos.ToggleDetail(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), c.Param("detailId"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, todo)
}

// Stats 待办统计
// @Summary 待办统计
// @Tags 待办
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=service.TodoStats} "获取成功"
// @Router /api/todos/stats [get]
func (h *TodoHandler) Stats(c *gin.Context) {
	stats, err := h.todos.Stats(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, stats)
}
