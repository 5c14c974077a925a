package service

import (
	"context"
	"fmt"
	"time"

	"daily/apperr"
	"daily/models"

	"gorm.io/gorm"
)

var todoDescriptor = Descriptor[models.Todo]{
	Name:          "待办",
	Order:         "priority DESC, created_at DESC",
	DateColumn:    "start_time",
	SearchColumns: []string{"title", "content"},
}

// TodoService 待办
type TodoService struct {
	*Engine[models.Todo, *models.Todo]
	now func() time.Time
}

// NewTodoService 创建待办服务
func NewTodoService(db *gorm.DB) *TodoService {
	return &TodoService{Engine: NewEngine[models.Todo](db, todoDescriptor), now: time.Now}
}

// TodoFilter 待办过滤条件
type TodoFilter struct {
	Status   *int
	Priority *int
}

// Scopes 转换为查询条件
func (f TodoFilter) Scopes() []Scope {
	var scopes []Scope
	if f.Status != nil {
		scopes = append(scopes, Eq("status", *f.Status))
	}
	if f.Priority != nil {
		scopes = append(scopes, Eq("priority", *f.Priority))
	}
	return scopes
}

// Toggle 切换完成状态
func (s *TodoService) Toggle(ctx context.Context, ownerID, id string) (*models.Todo, error) {
	return s.Update(ctx, ownerID, id, func(t *models.Todo) error {
		t.Toggle(s.now())
		return nil
	})
}

// ToggleDetail 切换子项完成状态
func (s *TodoService) ToggleDetail(ctx context.Context, ownerID, id, detailID string) (*models.Todo, error) {
	return s.Update(ctx, ownerID, id, func(t *models.Todo) error {
		if !t.ToggleDetail(detailID, s.now()) {
			return apperr.NotFound("子任务不存在")
		}
		return nil
	})
}

// TodoStats 待办统计
type TodoStats struct {
	Total       int64   `json:"total"`
	Completed   int64   `json:"completed"`
	Pending     int64   `json:"pending"`
	Urgent      int64   `json:"urgent"`
	Important   int64   `json:"important"`
	AvgProgress float64 `json:"avgProgress"`
}

// Stats 统计完成情况与未完成的紧急/重要待办数量
func (s *TodoService) Stats(ctx context.Context, ownerID string) (*TodoStats, error) {
	var stats TodoStats
	err := s.scoped(ctx, ownerID).
		Select("COUNT(*) AS total, "+
			"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS completed, "+
			"COALESCE(SUM(CASE WHEN status = ? AND priority = ? THEN 1 ELSE 0 END), 0) AS urgent, "+
			"COALESCE(SUM(CASE WHEN status = ? AND priority = ? THEN 1 ELSE 0 END), 0) AS important, "+
			"COALESCE(AVG(progress), 0) AS avg_progress",
			models.TodoCompleted,
			models.TodoPending, models.PriorityUrgent,
			models.TodoPending, models.PriorityImportant).
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("统计待办失败: %w", err)
	}
	stats.Pending = stats.Total - stats.Completed
	stats.AvgProgress = round2(stats.AvgProgress)
	return &stats, nil
}
