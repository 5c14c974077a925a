package models

// BillCategory 账单类别，支持一级父类别
type BillCategory struct {
	Reference
	ParentID *string `json:"parentId" gorm:"size:36;index"`
}

func (BillCategory) TableName() string {
	return "bill_categories"
}

// SetParentID 设置父类别
func (c *BillCategory) SetParentID(id *string) {
	c.ParentID = id
}

// NoteType 笔记类型
type NoteType struct {
	Reference
}

func (NoteType) TableName() string {
	return "note_types"
}

// FoodCategory 食物类别
type FoodCategory struct {
	Reference
}

func (FoodCategory) TableName() string {
	return "food_categories"
}

// SeedCategory 初始化数据
type SeedCategory struct {
	Name  string
	Icon  string
	Color string
}

// DefaultBillCategories 默认账单类别
func DefaultBillCategories() []SeedCategory {
	return []SeedCategory{
		{"餐饮", "🍽️", "#ef4444"},
		{"交通", "🚗", "#3b82f6"},
		{"购物", "🛍️", "#a855f7"},
		{"娱乐", "🎮", "#ec4899"},
		{"医疗", "💊", "#10b981"},
		{"教育", "📚", "#f59e0b"},
		{"住房", "🏠", "#14b8a6"},
		{"通讯", "📱", "#6366f1"},
		{"其他", "📦", "#64748b"},
	}
}

// DefaultNoteTypes 默认笔记类型
func DefaultNoteTypes() []SeedCategory {
	return []SeedCategory{
		{"工作笔记", "💼", "#409EFF"},
		{"学习笔记", "📖", "#67C23A"},
		{"生活记录", "🌱", "#E6A23C"},
		{"旅行日记", "✈️", "#F56C6C"},
		{"想法灵感", "💡", "#909399"},
		{"健康记录", "❤️", "#ff7875"},
		{"财务记录", "💰", "#36cfc9"},
		{"其他", "📝", "#64748b"},
	}
}

// DefaultFoodCategories 默认食物类别
func DefaultFoodCategories() []SeedCategory {
	return []SeedCategory{
		{"主食", "🍚", "#f59e0b"},
		{"荤菜", "🍖", "#ef4444"},
		{"素菜", "🥬", "#10b981"},
		{"汤品", "🍲", "#f97316"},
		{"小食", "🍢", "#a855f7"},
		{"饮品", "🧋", "#3b82f6"},
		{"水果", "🍎", "#ec4899"},
		{"甜品", "🍰", "#f472b6"},
		{"快餐", "🍔", "#eab308"},
		{"其他", "🍴", "#64748b"},
	}
}
