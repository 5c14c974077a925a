package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"daily/models"

	"gorm.io/gorm"
)

var appearanceDescriptor = Descriptor[models.Appearance]{
	Name:          "外貌记录",
	Order:         "record_date DESC",
	DateColumn:    "record_date",
	SearchColumns: []string{"description", "notes"},
}

// AppearanceService 外貌记录
type AppearanceService struct {
	*Engine[models.Appearance, *models.Appearance]
}

// NewAppearanceService 创建外貌记录服务
func NewAppearanceService(db *gorm.DB) *AppearanceService {
	return &AppearanceService{Engine: NewEngine[models.Appearance](db, appearanceDescriptor)}
}

// WeightPoint 体重趋势点
type WeightPoint struct {
	Date        time.Time `json:"date"`
	Weight      float64   `json:"weight"`
	BodyFatRate *float64  `json:"bodyFatRate"`
}

// AppearanceStats 外貌统计
type AppearanceStats struct {
	TotalRecords int64              `json:"totalRecords"`
	LatestRecord *models.Appearance `json:"latestRecord"`
	WeightTrend  []WeightPoint      `json:"weightTrend"`
}

// Stats 总数、最新一条与最近 10 次体重（按时间正序）
func (s *AppearanceService) Stats(ctx context.Context, ownerID string) (*AppearanceStats, error) {
	stats := &AppearanceStats{WeightTrend: make([]WeightPoint, 0)}
	if err := s.scoped(ctx, ownerID).Count(&stats.TotalRecords).Error; err != nil {
		return nil, fmt.Errorf("统计外貌记录失败: %w", err)
	}
	if stats.TotalRecords == 0 {
		return stats, nil
	}

	var latest models.Appearance
	err := s.scoped(ctx, ownerID).Order("record_date DESC").First(&latest).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("查询最新记录失败: %w", err)
	}
	if err == nil {
		stats.LatestRecord = &latest
	}

	var recent []models.Appearance
	err = s.scoped(ctx, ownerID).
		Where("weight IS NOT NULL").
		Order("record_date DESC").
		Limit(10).
		Find(&recent).Error
	if err != nil {
		return nil, fmt.Errorf("查询体重趋势失败: %w", err)
	}
	stats.WeightTrend = WeightTrend(recent)
	return stats, nil
}

// WeightTrend 将按时间倒序的记录转换为正序的体重点
func WeightTrend(desc []models.Appearance) []WeightPoint {
	points := make([]WeightPoint, 0, len(desc))
	for _, a := range desc {
		if a.Weight == nil {
			continue
		}
		points = append(points, WeightPoint{Date: a.RecordDate, Weight: *a.Weight, BodyFatRate: a.BodyFatRate})
	}
	slices.Reverse(points)
	return points
}
