package service

import (
	"context"
	"fmt"

	"daily/models"

	"gorm.io/gorm"
)

// UncategorizedName 未分类笔记的类型名
const UncategorizedName = "Uncategorized"

var noteDescriptor = Descriptor[models.Note]{
	Name:          "笔记",
	Order:         "updated_at DESC",
	SearchColumns: []string{"title", "content"},
	Joins:         []string{"Type"},
	Refs: []RefCheck[models.Note]{{
		Field: "typeId",
		Model: &models.NoteType{},
		Value: func(n *models.Note) *string { return n.TypeID },
	}},
}

// NoteService 笔记
type NoteService struct {
	*Engine[models.Note, *models.Note]
}

// NewNoteService 创建笔记服务
func NewNoteService(db *gorm.DB) *NoteService {
	return &NoteService{Engine: NewEngine[models.Note](db, noteDescriptor)}
}

// NoteFilter 笔记过滤条件
type NoteFilter struct {
	TypeID    string
	IsPrivate *bool
}

// Scopes 转换为查询条件
func (f NoteFilter) Scopes() []Scope {
	var scopes []Scope
	if f.TypeID != "" {
		scopes = append(scopes, Eq("type_id", f.TypeID))
	}
	if f.IsPrivate != nil {
		scopes = append(scopes, Eq("is_private", *f.IsPrivate))
	}
	return scopes
}

// NoteTypeStat 按类型汇总
type NoteTypeStat struct {
	TypeID   *string `json:"typeId"`
	TypeName string  `json:"typeName"`
	Color    string  `json:"color"`
	Count    int64   `json:"count"`
}

// NoteStats 笔记统计
type NoteStats struct {
	ByType []NoteTypeStat `json:"byType"`
	Total  int64          `json:"total"`
}

// Stats 按类型统计笔记数量，按数量降序
func (s *NoteService) Stats(ctx context.Context, ownerID string) (*NoteStats, error) {
	byType := make([]NoteTypeStat, 0)
	err := s.db.WithContext(ctx).Model(&models.Note{}).
		Select("notes.type_id AS type_id, "+
			"COALESCE(note_types.name, ?) AS type_name, "+
			"COALESCE(note_types.color, ?) AS color, COUNT(*) AS count",
			UncategorizedName, models.DefaultColor).
		Joins("LEFT JOIN note_types ON note_types.id = notes.type_id").
		Where("notes.user_id = ?", ownerID).
		Group("notes.type_id, note_types.name, note_types.color").
		Order("count DESC").
		Scan(&byType).Error
	if err != nil {
		return nil, fmt.Errorf("统计笔记失败: %w", err)
	}
	stats := &NoteStats{ByType: byType}
	for _, t := range byType {
		stats.Total += t.Count
	}
	return stats, nil
}
