package service

import (
	"context"
	"fmt"

	"daily/models"

	"gorm.io/gorm"
)

var billDescriptor = Descriptor[models.Bill]{
	Name:          "账单",
	Order:         "spending_time DESC",
	DateColumn:    "spending_time",
	SearchColumns: []string{"order_name", "description"},
	Joins:         []string{"Category"},
	Refs: []RefCheck[models.Bill]{{
		Field: "categoryId",
		Model: &models.BillCategory{},
		Value: func(b *models.Bill) *string { return &b.CategoryID },
	}},
}

// BillService 账单
type BillService struct {
	*Engine[models.Bill, *models.Bill]
}

// NewBillService 创建账单服务
func NewBillService(db *gorm.DB) *BillService {
	return &BillService{Engine: NewEngine[models.Bill](db, billDescriptor)}
}

// BillFilter 账单列表过滤条件
type BillFilter struct {
	CategoryID string
	MinAmount  *float64
	MaxAmount  *float64
}

// Scopes 转换为查询条件
func (f BillFilter) Scopes() []Scope {
	var scopes []Scope
	if f.CategoryID != "" {
		scopes = append(scopes, Eq("category_id", f.CategoryID))
	}
	if f.MinAmount != nil || f.MaxAmount != nil {
		scopes = append(scopes, Range("amount", f.MinAmount, f.MaxAmount))
	}
	return scopes
}

// BillCategoryStat 按类别汇总
type BillCategoryStat struct {
	CategoryID  string  `json:"categoryId"`
	Name        string  `json:"name"`
	Icon        string  `json:"icon"`
	Color       string  `json:"color"`
	TotalAmount float64 `json:"totalAmount"`
	Count       int64   `json:"count"`
	AvgAmount   float64 `json:"avgAmount"`
}

// BillTotal 总计
type BillTotal struct {
	Total float64 `json:"total"`
	Count int64   `json:"count"`
	Avg   float64 `json:"avg"`
}

// BillStats 账单统计
type BillStats struct {
	Window        Window             `json:"window"`
	CategoryStats []BillCategoryStat `json:"categoryStats"`
	Total         BillTotal          `json:"total"`
}

// Stats 统计时间窗口内各类别的金额，按总额降序
func (s *BillService) Stats(ctx context.Context, ownerID string, w Window) (*BillStats, error) {
	stats := make([]BillCategoryStat, 0)
	err := s.db.WithContext(ctx).Model(&models.Bill{}).
		Select("bills.category_id AS category_id, "+
			"COALESCE(bill_categories.name, '') AS name, "+
			"COALESCE(bill_categories.icon, '') AS icon, "+
			"COALESCE(bill_categories.color, '') AS color, "+
			"SUM(bills.amount) AS total_amount, COUNT(*) AS count, AVG(bills.amount) AS avg_amount").
		Joins("LEFT JOIN bill_categories ON bill_categories.id = bills.category_id").
		Where("bills.user_id = ? AND bills.spending_time >= ? AND bills.spending_time <= ?", ownerID, w.Start, w.End).
		Group("bills.category_id, bill_categories.name, bill_categories.icon, bill_categories.color").
		Order("total_amount DESC").
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("统计账单失败: %w", err)
	}

	var total BillTotal
	for i := range stats {
		stats[i].TotalAmount = round2(stats[i].TotalAmount)
		stats[i].AvgAmount = round2(stats[i].AvgAmount)
		total.Total += stats[i].TotalAmount
		total.Count += stats[i].Count
	}
	total.Total = round2(total.Total)
	if total.Count > 0 {
		total.Avg = round2(total.Total / float64(total.Count))
	}
	return &BillStats{Window: w, CategoryStats: stats, Total: total}, nil
}

// ListForExport 导出时间窗口内的全部账单（含类别）
func (s *BillService) ListForExport(ctx context.Context, ownerID string, w Window) ([]models.Bill, error) {
	bills := make([]models.Bill, 0)
	err := s.scoped(ctx, ownerID).
		Preload("Category").
		Scopes(Between("spending_time", &w.Start, &w.End)).
		Order("spending_time ASC").
		Find(&bills).Error
	if err != nil {
		return nil, fmt.Errorf("查询导出账单失败: %w", err)
	}
	return bills, nil
}
