package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"daily/models"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var diaryDescriptor = Descriptor[models.Diary]{
	Name:          "日记",
	Order:         "date DESC",
	DateColumn:    "date",
	SearchColumns: []string{"title", "content", "tags"},
	ListOmit:      []string{"content"},
}

// DiaryService 日记
type DiaryService struct {
	*Engine[models.Diary, *models.Diary]
}

// NewDiaryService 创建日记服务
func NewDiaryService(db *gorm.DB) *DiaryService {
	return &DiaryService{Engine: NewEngine[models.Diary](db, diaryDescriptor)}
}

// DiaryFilter 日记过滤条件
type DiaryFilter struct {
	Mood string
}

// Scopes 转换为查询条件
func (f DiaryFilter) Scopes() []Scope {
	if f.Mood == "" {
		return nil
	}
	return []Scope{Eq("mood", f.Mood)}
}

// MoodStat 心情分布
type MoodStat struct {
	Mood  string `json:"mood"`
	Count int64  `json:"count"`
}

// TagStat 标签使用次数
type TagStat struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// DiaryStats 日记统计
type DiaryStats struct {
	TotalDiaries   int64         `json:"totalDiaries"`
	MonthlyDiaries int64         `json:"monthlyDiaries"`
	MoodStats      []MoodStat    `json:"moodStats"`
	TagStats       []TagStat     `json:"tagStats"`
	RecentDiary    *models.Diary `json:"recentDiary"`
}

// Stats 总数、本月数量、心情分布、前 10 标签与最近一篇；各查询并发执行
func (s *DiaryService) Stats(ctx context.Context, ownerID string, now time.Time) (*DiaryStats, error) {
	month, err := PeriodWindow(PeriodMonth, now)
	if err != nil {
		return nil, err
	}
	stats := &DiaryStats{MoodStats: make([]MoodStat, 0)}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.scoped(gctx, ownerID).Count(&stats.TotalDiaries).Error
	})
	g.Go(func() error {
		return s.scoped(gctx, ownerID).Scopes(Between("date", &month.Start, &month.End)).Count(&stats.MonthlyDiaries).Error
	})
	g.Go(func() error {
		return s.scoped(gctx, ownerID).Select("mood, COUNT(*) AS count").Group("mood").Order("count DESC").Scan(&stats.MoodStats).Error
	})
	g.Go(func() error {
		var tagLists []models.Diary
		if err := s.scoped(gctx, ownerID).Select("tags").Find(&tagLists).Error; err != nil {
			return err
		}
		all := make([][]string, len(tagLists))
		for i, d := range tagLists {
			all[i] = d.Tags
		}
		stats.TagStats = TopTags(all, 10)
		return nil
	})
	g.Go(func() error {
		var recent models.Diary
		err := s.scoped(gctx, ownerID).Omit("content").Order("date DESC").First(&recent).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil
		case err != nil:
			return err
		}
		stats.RecentDiary = &recent
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("统计日记失败: %w", err)
	}
	return stats, nil
}

// TopTags 统计标签出现次数，取前 n 个；次数相同按标签名排序
func TopTags(lists [][]string, n int) []TagStat {
	counts := make(map[string]int)
	for _, tags := range lists {
		for _, t := range tags {
			if t != "" {
				counts[t]++
			}
		}
	}
	out := make([]TagStat, 0, len(counts))
	for tag, c := range counts {
		out = append(out, TagStat{Tag: tag, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
