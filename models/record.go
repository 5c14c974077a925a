package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Record 资源记录的公共字段
//
// DeletedAt 即生命周期状态：NULL 为正常，非 NULL 为已删除。通过模型发起的查询
// 会自动追加 deleted_at IS NULL，已删除记录不会出现在列表、详情和统计中，也不会被物理删除。
type Record struct {
	ID        string         `json:"id" gorm:"primaryKey;size:36"`
	UserID    string         `json:"userId" gorm:"<-:create;size:36;not null;index"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
	Deleted   bool           `json:"isDeleted" gorm:"-"`
}

// BeforeCreate 生成记录 ID
func (r *Record) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// SetOwner 设置所属用户，仅在创建时生效
func (r *Record) SetOwner(userID string) {
	r.UserID = userID
}

// AfterFind 同步删除标记
func (r *Record) AfterFind(tx *gorm.DB) error {
	r.Deleted = r.DeletedAt.Valid
	return nil
}

// Reference 类别/类型等引用表的公共字段，名称全局唯一，停用而不删除
type Reference struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Name      string    `json:"name" gorm:"size:50;not null;uniqueIndex"`
	Icon      string    `json:"icon" gorm:"size:50"`
	Color     string    `json:"color" gorm:"size:20;default:#409EFF"`
	Sort      int       `json:"sort" gorm:"default:0;index"`
	IsActive  bool      `json:"isActive" gorm:"default:true;index"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate 生成 ID
func (r *Reference) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// Ref 返回公共字段，供泛型引用服务读写
func (r *Reference) Ref() *Reference {
	return r
}

// DefaultColor 未指定颜色时使用
const DefaultColor = "#409EFF"

// StringList JSON 序列化的字符串数组，nil 输出为 []
func StringList(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
