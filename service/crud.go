package service

import (
	"context"
	"fmt"
	"slices"

	"daily/apperr"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Owned 归属于某个用户的记录
type Owned interface {
	SetOwner(userID string)
}

// Scope gorm 查询条件
type Scope = func(*gorm.DB) *gorm.DB

// RefCheck 外键引用校验：引用的类别/类型必须存在且处于启用状态
type RefCheck[T any] struct {
	// Field 校验失败时返回的字段名（JSON）
	Field string
	// Model 被引用的表，如 &models.BillCategory{}
	Model any
	// Value 取出引用值，nil 或空串表示未设置
	Value func(*T) *string
}

// Descriptor 资源描述：一个泛型引擎 + 每种资源一份描述数据
type Descriptor[T any] struct {
	// Name 资源名称，用于错误信息
	Name string
	// Order 默认排序
	Order string
	// DateColumn 日期范围过滤使用的列
	DateColumn string
	// SearchColumns 关键词搜索（不区分大小写，任一列匹配）
	SearchColumns []string
	// Joins 允许按需关联的字段，如 "Category"
	Joins []string
	// ListOmit 列表中不返回的列
	ListOmit []string
	// Refs 外键引用校验
	Refs []RefCheck[T]
}

// Engine 通用 CRUD 引擎，所有查询都限定在 user_id = 当前用户 且未删除的记录内
type Engine[T any, PT interface {
	*T
	Owned
}] struct {
	db   *gorm.DB
	desc Descriptor[T]
}

// NewEngine 创建引擎
func NewEngine[T any, PT interface {
	*T
	Owned
}](db *gorm.DB, desc Descriptor[T]) *Engine[T, PT] {
	return &Engine[T, PT]{db: db, desc: desc}
}

// Descriptor 返回资源描述
func (e *Engine[T, PT]) Descriptor() Descriptor[T] {
	return e.desc
}

// scoped 返回限定所属用户的查询
func (e *Engine[T, PT]) scoped(ctx context.Context, ownerID string) *gorm.DB {
	return e.db.WithContext(ctx).Model(new(T)).Where("user_id = ?", ownerID)
}

func (e *Engine[T, PT]) notFound() *apperr.Error {
	return apperr.NotFound(e.desc.Name + "不存在")
}

// ValidateJoins 校验按需关联参数
func (e *Engine[T, PT]) ValidateJoins(joins []string) error {
	for _, j := range joins {
		if !slices.Contains(e.desc.Joins, j) {
			return apperr.Validation("不支持的关联字段", apperr.FieldError{Field: "populate", Message: "不支持关联 " + j})
		}
	}
	return nil
}

func (e *Engine[T, PT]) preload(tx *gorm.DB, joins []string) *gorm.DB {
	for _, j := range joins {
		tx = tx.Preload(j)
	}
	return tx
}

// List 分页查询
func (e *Engine[T, PT]) List(ctx context.Context, ownerID string, q ListQuery, scopes ...Scope) ([]T, Pagination, error) {
	q = q.Normalize()
	if err := e.ValidateJoins(q.Joins); err != nil {
		return nil, Pagination{}, err
	}

	tx := e.scoped(ctx, ownerID).Scopes(scopes...)
	if q.Search != "" && len(e.desc.SearchColumns) > 0 {
		tx = tx.Scopes(Search(q.Search, e.desc.SearchColumns...))
	}
	if e.desc.DateColumn != "" {
		tx = tx.Scopes(Between(e.desc.DateColumn, q.From, q.To))
	}
	tx = tx.Session(&gorm.Session{})

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, Pagination{}, fmt.Errorf("统计%s数量失败: %w", e.desc.Name, err)
	}

	items := make([]T, 0, q.Limit)
	find := tx.Order(e.desc.Order).Offset(q.Offset()).Limit(q.Limit)
	if len(e.desc.ListOmit) > 0 {
		find = find.Omit(e.desc.ListOmit...)
	}
	if err := e.preload(find, q.Joins).Find(&items).Error; err != nil {
		return nil, Pagination{}, fmt.Errorf("查询%s列表失败: %w", e.desc.Name, err)
	}
	return items, NewPagination(q.Page, q.Limit, total), nil
}

// Get 获取单条记录；他人的记录与不存在的记录一样返回 NotFound
func (e *Engine[T, PT]) Get(ctx context.Context, ownerID, id string, joins ...string) (*T, error) {
	if err := e.ValidateJoins(joins); err != nil {
		return nil, err
	}
	var item T
	err := e.preload(e.scoped(ctx, ownerID), joins).Where("id = ?", id).First(&item).Error
	if err != nil {
		return nil, apperr.FromDB(err, e.desc.Name+"不存在")
	}
	return &item, nil
}

// Create 校验外键后写入，记录归属当前用户
func (e *Engine[T, PT]) Create(ctx context.Context, ownerID string, item *T) error {
	if err := e.checkRefs(ctx, item, nil); err != nil {
		return err
	}
	PT(item).SetOwner(ownerID)
	if err := e.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error; err != nil {
		return fmt.Errorf("创建%s失败: %w", e.desc.Name, err)
	}
	return nil
}

// Update 部分更新：apply 只修改请求中出现的字段；变化了的外键重新校验
func (e *Engine[T, PT]) Update(ctx context.Context, ownerID, id string, apply func(*T) error) (*T, error) {
	item, err := e.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	before := *item
	if err := apply(item); err != nil {
		return nil, err
	}
	if err := e.checkRefs(ctx, item, &before); err != nil {
		return nil, err
	}
	// 按主键 + 所属用户整行更新；软删除条件由 gorm 追加，记录在读取后被删除时影响 0 行
	res := e.db.WithContext(ctx).Model(item).
		Where("user_id = ?", ownerID).
		Select("*").Omit(clause.Associations, "created_at", "deleted_at").
		Updates(item)
	if res.Error != nil {
		return nil, fmt.Errorf("更新%s失败: %w", e.desc.Name, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, e.notFound()
	}
	return item, nil
}

// Delete 软删除；记录已删除或不属于当前用户时返回 NotFound
func (e *Engine[T, PT]) Delete(ctx context.Context, ownerID, id string) error {
	res := e.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, ownerID).Delete(new(T))
	if res.Error != nil {
		return fmt.Errorf("删除%s失败: %w", e.desc.Name, res.Error)
	}
	if res.RowsAffected == 0 {
		return e.notFound()
	}
	return nil
}

func (e *Engine[T, PT]) checkRefs(ctx context.Context, item, before *T) error {
	for _, ref := range e.desc.Refs {
		v := ref.Value(item)
		if v == nil || *v == "" {
			continue
		}
		if before != nil {
			if prev := ref.Value(before); prev != nil && *prev == *v {
				continue
			}
		}
		if err := CheckActiveReference(ctx, e.db, ref.Model, *v); err != nil {
			if apperr.IsNotFound(err) {
				return apperr.Validation("引用的类别不存在或已停用", apperr.FieldError{Field: ref.Field, Message: "无效的类别"})
			}
			return err
		}
	}
	return nil
}

// CheckActiveReference 检查引用表中存在启用状态的记录
func CheckActiveReference(ctx context.Context, db *gorm.DB, model any, id string) error {
	var n int64
	if err := db.WithContext(ctx).Model(model).Where("id = ? AND is_active = ?", id, true).Count(&n).Error; err != nil {
		return fmt.Errorf("校验引用失败: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("引用记录不存在")
	}
	return nil
}
