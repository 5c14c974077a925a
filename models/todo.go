package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// 待办状态
const (
	TodoPending   = 0
	TodoCompleted = 1
)

// 待办优先级
const (
	PriorityNormal    = 0
	PriorityImportant = 1
	PriorityUrgent    = 2
)

// TodoDetail 待办子项
type TodoDetail struct {
	ID          string     `json:"id"`
	Content     string     `json:"content"`
	Status      int        `json:"status"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Todo 待办事项
type Todo struct {
	Record
	Title       string       `json:"title" gorm:"size:200;not null"`
	Content     string       `json:"content" gorm:"type:text"`
	StartTime   *time.Time   `json:"startTime" gorm:"index"`
	EndTime     *time.Time   `json:"endTime"`
	Status      int          `json:"status" gorm:"not null;default:0;index"`
	Priority    int          `json:"priority" gorm:"not null;default:0;index"`
	Tags        []string     `json:"tags" gorm:"serializer:json;type:text"`
	Details     []TodoDetail `json:"details" gorm:"serializer:json;type:text"`
	CompletedAt *time.Time   `json:"completedAt"`
	Progress    int          `json:"progress" gorm:"not null;default:0"`
}

func (Todo) TableName() string {
	return "todos"
}

// CalculateProgress 有子项时按子项完成比例计算；无子项时已完成为 100，否则为 0
// 进度只由下面的状态变更方法维护，MarkCompleted 会直接置为 100
func (t *Todo) CalculateProgress() int {
	if len(t.Details) == 0 {
		if t.Status == TodoCompleted {
			return 100
		}
		return 0
	}
	done := 0
	for _, d := range t.Details {
		if d.Status == TodoCompleted {
			done++
		}
	}
	return int(math.Round(float64(done) / float64(len(t.Details)) * 100))
}

// MarkCompleted 标记完成
func (t *Todo) MarkCompleted(now time.Time) {
	t.Status = TodoCompleted
	t.CompletedAt = &now
	t.Progress = 100
}

// MarkIncomplete 标记未完成，清除完成时间并重新计算进度
func (t *Todo) MarkIncomplete() {
	t.Status = TodoPending
	t.CompletedAt = nil
	t.Progress = t.CalculateProgress()
}

// Toggle 切换完成状态
func (t *Todo) Toggle(now time.Time) {
	if t.Status == TodoCompleted {
		t.MarkIncomplete()
		return
	}
	t.MarkCompleted(now)
}

// SetDetails 替换子项，补齐 ID 与完成时间
func (t *Todo) SetDetails(details []TodoDetail, now time.Time) {
	out := make([]TodoDetail, 0, len(details))
	for _, d := range details {
		if d.ID == "" {
			d.ID = uuid.NewString()
		}
		switch {
		case d.Status == TodoCompleted && d.CompletedAt == nil:
			ts := now
			d.CompletedAt = &ts
		case d.Status != TodoCompleted:
			d.CompletedAt = nil
		}
		out = append(out, d)
	}
	t.Details = out
	t.Progress = t.CalculateProgress()
}

// ToggleDetail 切换子项状态，子项不存在时返回 false
func (t *Todo) ToggleDetail(id string, now time.Time) bool {
	for i := range t.Details {
		d := &t.Details[i]
		if d.ID != id {
			continue
		}
		if d.Status == TodoCompleted {
			d.Status = TodoPending
			d.CompletedAt = nil
		} else {
			ts := now
			d.Status = TodoCompleted
			d.CompletedAt = &ts
		}
		t.Progress = t.CalculateProgress()
		return true
	}
	return false
}
