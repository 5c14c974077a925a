package service

import (
	"context"
	"fmt"
	"time"

	"daily/apperr"
	"daily/models"

	"gorm.io/gorm"
)

var friendDescriptor = Descriptor[models.Friend]{
	Name:          "朋友",
	Order:         "importance DESC, name ASC",
	SearchColumns: []string{"name", "nickname", "contacts"},
}

// FriendService 朋友
type FriendService struct {
	*Engine[models.Friend, *models.Friend]
	now func() time.Time
}

// NewFriendService 创建朋友服务
func NewFriendService(db *gorm.DB) *FriendService {
	return &FriendService{Engine: NewEngine[models.Friend](db, friendDescriptor), now: time.Now}
}

// FriendFilter 朋友过滤条件
type FriendFilter struct {
	Relationship string
	Importance   *int
}

// Scopes 转换为查询条件
func (f FriendFilter) Scopes() []Scope {
	var scopes []Scope
	if f.Relationship != "" {
		scopes = append(scopes, Eq("relationship", f.Relationship))
	}
	if f.Importance != nil {
		scopes = append(scopes, Eq("importance", *f.Importance))
	}
	return scopes
}

// AddContact 添加联系方式
func (s *FriendService) AddContact(ctx context.Context, ownerID, id string, c models.Contact) (*models.Friend, error) {
	return s.Update(ctx, ownerID, id, func(f *models.Friend) error {
		c.ID = ""
		f.AddContact(c)
		return nil
	})
}

// RemoveContact 删除联系方式
func (s *FriendService) RemoveContact(ctx context.Context, ownerID, id, contactID string) (*models.Friend, error) {
	return s.Update(ctx, ownerID, id, func(f *models.Friend) error {
		if !f.RemoveContact(contactID) {
			return apperr.NotFound("联系方式不存在")
		}
		return nil
	})
}

// TouchContact 记录最近一次联系时间为当前时间
func (s *FriendService) TouchContact(ctx context.Context, ownerID, id string) (*models.Friend, error) {
	return s.Update(ctx, ownerID, id, func(f *models.Friend) error {
		now := s.now()
		f.LastContactDate = &now
		return nil
	})
}

// Birthdays days 天内（含今天）的生日，按日期升序；now 决定所用日历的时区
func (s *FriendService) Birthdays(ctx context.Context, ownerID string, now time.Time, days int) ([]models.UpcomingBirthday, error) {
	if days <= 0 {
		days = 30
	}
	friends := make([]models.Friend, 0)
	if err := s.scoped(ctx, ownerID).Where("birth_date IS NOT NULL").Find(&friends).Error; err != nil {
		return nil, fmt.Errorf("查询生日失败: %w", err)
	}
	return models.UpcomingBirthdays(friends, now, days), nil
}

// RelationshipStat 按关系汇总
type RelationshipStat struct {
	Relationship  string  `json:"relationship"`
	Count         int64   `json:"count"`
	AvgImportance float64 `json:"avgImportance"`
}

// FriendStats 朋友统计
type FriendStats struct {
	Total          int64              `json:"total"`
	ByRelationship []RelationshipStat `json:"byRelationship"`
}

// Stats 按关系统计人数与平均重要程度，按人数降序
func (s *FriendService) Stats(ctx context.Context, ownerID string) (*FriendStats, error) {
	rows := make([]RelationshipStat, 0)
	err := s.scoped(ctx, ownerID).
		Select("relationship, COUNT(*) AS count, COALESCE(AVG(importance), 0) AS avg_importance").
		Group("relationship").
		Order("count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("统计朋友失败: %w", err)
	}
	stats := &FriendStats{ByRelationship: rows}
	for i := range rows {
		rows[i].AvgImportance = round2(rows[i].AvgImportance)
		stats.Total += rows[i].Count
	}
	return stats, nil
}
