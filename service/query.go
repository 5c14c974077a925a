package service

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// 分页参数
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// ListQuery 列表查询参数
type ListQuery struct {
	Page   int
	Limit  int
	Search string
	From   *time.Time
	To     *time.Time
	Joins  []string
}

// Normalize 补齐默认值并限制每页条数
func (q ListQuery) Normalize() ListQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	q.Search = strings.TrimSpace(q.Search)
	return q
}

// Offset 跳过的条数
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// Pagination 分页信息
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// NewPagination pages = ceil(total / limit)
func NewPagination(page, limit int, total int64) Pagination {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// Eq 等值过滤
func Eq(column string, value any) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" = ?", value)
	}
}

// Between 闭区间时间过滤，任一端为 nil 时不限制该端
func Between(column string, from, to *time.Time) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if from != nil {
			db = db.Where(column+" >= ?", *from)
		}
		if to != nil {
			db = db.Where(column+" <= ?", *to)
		}
		return db
	}
}

// Range 数值区间过滤
func Range(column string, min, max *float64) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if min != nil {
			db = db.Where(column+" >= ?", *min)
		}
		if max != nil {
			db = db.Where(column+" <= ?", *max)
		}
		return db
	}
}

// Search 不区分大小写的子串搜索，任一列匹配即可
func Search(term string, columns ...string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if term == "" || len(columns) == 0 {
			return db
		}
		pattern := "%" + EscapeLike(strings.ToLower(term)) + "%"
		conds := make([]string, len(columns))
		args := make([]any, len(columns))
		for i, col := range columns {
			conds[i] = "LOWER(" + col + ") LIKE ?"
			args[i] = pattern
		}
		return db.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
}

// EscapeLike 转义 LIKE 通配符
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
