package service

import (
	"context"
	"fmt"

	"daily/apperr"
	"daily/models"

	"gorm.io/gorm"
)

// Referential 类别/类型模型
type Referential interface {
	Ref() *models.Reference
}

type parented interface {
	SetParentID(id *string)
}

// ReferenceInput 创建/更新类别的输入，nil 字段表示不修改
type ReferenceInput struct {
	Name     *string
	Icon     *string
	Color    *string
	Sort     *int
	ParentID *string
}

// ReferenceService 类别/类型的通用服务，名称在全局范围内唯一
type ReferenceService[T any, PT interface {
	*T
	Referential
}] struct {
	db   *gorm.DB
	name string
}

// NewReferenceService 创建引用表服务
func NewReferenceService[T any, PT interface {
	*T
	Referential
}](db *gorm.DB, name string) *ReferenceService[T, PT] {
	return &ReferenceService[T, PT]{db: db, name: name}
}

// NewBillCategoryService 账单类别
func NewBillCategoryService(db *gorm.DB) *ReferenceService[models.BillCategory, *models.BillCategory] {
	return NewReferenceService[models.BillCategory](db, "账单类别")
}

// NewNoteTypeService 笔记类型
func NewNoteTypeService(db *gorm.DB) *ReferenceService[models.NoteType, *models.NoteType] {
	return NewReferenceService[models.NoteType](db, "笔记类型")
}

// NewFoodCategoryService 食物类别
func NewFoodCategoryService(db *gorm.DB) *ReferenceService[models.FoodCategory, *models.FoodCategory] {
	return NewReferenceService[models.FoodCategory](db, "食物类别")
}

// List 启用中的类别，按排序值、名称升序
func (s *ReferenceService[T, PT]) List(ctx context.Context) ([]T, error) {
	items := make([]T, 0)
	err := s.db.WithContext(ctx).Model(new(T)).
		Where("is_active = ?", true).
		Order("sort ASC, name ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("查询%s失败: %w", s.name, err)
	}
	return items, nil
}

// Get 按 ID 获取（含已停用）
func (s *ReferenceService[T, PT]) Get(ctx context.Context, id string) (*T, error) {
	var item T
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, apperr.FromDB(err, s.name+"不存在")
	}
	return &item, nil
}

// Create 创建类别
func (s *ReferenceService[T, PT]) Create(ctx context.Context, in ReferenceInput) (*T, error) {
	if in.Name == nil || *in.Name == "" {
		return nil, apperr.Validation("名称不能为空", apperr.FieldError{Field: "name", Message: "不能为空"})
	}
	if err := s.ensureUniqueName(ctx, *in.Name, ""); err != nil {
		return nil, err
	}
	var item T
	ref := PT(&item).Ref()
	ref.IsActive = true
	ref.Color = models.DefaultColor
	if err := s.apply(ctx, &item, in); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, fmt.Errorf("创建%s失败: %w", s.name, err)
	}
	return &item, nil
}

// Update 更新类别
func (s *ReferenceService[T, PT]) Update(ctx context.Context, id string, in ReferenceInput) (*T, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	ref := PT(item).Ref()
	if in.Name != nil && *in.Name != ref.Name {
		if err := s.ensureUniqueName(ctx, *in.Name, id); err != nil {
			return nil, err
		}
	}
	if in.ParentID != nil && *in.ParentID == id {
		return nil, apperr.Validation("父类别不能是自身", apperr.FieldError{Field: "parentId", Message: "不能是自身"})
	}
	if err := s.apply(ctx, item, in); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, fmt.Errorf("更新%s失败: %w", s.name, err)
	}
	return item, nil
}

// Deactivate 停用类别，已引用的记录不受影响
func (s *ReferenceService[T, PT]) Deactivate(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Model(new(T)).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	if res.Error != nil {
		return fmt.Errorf("停用%s失败: %w", s.name, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(s.name + "不存在")
	}
	return nil
}

func (s *ReferenceService[T, PT]) apply(ctx context.Context, item *T, in ReferenceInput) error {
	ref := PT(item).Ref()
	if in.Name != nil {
		ref.Name = *in.Name
	}
	if in.Icon != nil {
		ref.Icon = *in.Icon
	}
	if in.Color != nil && *in.Color != "" {
		ref.Color = *in.Color
	}
	if in.Sort != nil {
		ref.Sort = *in.Sort
	}
	if in.ParentID == nil {
		return nil
	}
	p, ok := any(item).(parented)
	if !ok {
		return apperr.Validation("该类别不支持父类别", apperr.FieldError{Field: "parentId", Message: "不支持"})
	}
	if *in.ParentID == "" {
		p.SetParentID(nil)
		return nil
	}
	if err := CheckActiveReference(ctx, s.db, new(T), *in.ParentID); err != nil {
		if apperr.IsNotFound(err) {
			return apperr.Validation("父类别不存在或已停用", apperr.FieldError{Field: "parentId", Message: "无效的父类别"})
		}
		return err
	}
	parent := *in.ParentID
	p.SetParentID(&parent)
	return nil
}

func (s *ReferenceService[T, PT]) ensureUniqueName(ctx context.Context, name, excludeID string) error {
	var n int64
	q := s.db.WithContext(ctx).Model(new(T)).Where("name = ?", name)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&n).Error; err != nil {
		return fmt.Errorf("校验%s名称失败: %w", s.name, err)
	}
	if n > 0 {
		return apperr.Conflict(s.name + "名称已存在")
	}
	return nil
}
