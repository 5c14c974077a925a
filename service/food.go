package service

import (
	"context"
	"fmt"
	"time"

	"daily/models"

	"gorm.io/gorm"
)

var foodDescriptor = Descriptor[models.Food]{
	Name:          "饮食记录",
	Order:         "meal_time DESC",
	DateColumn:    "meal_time",
	SearchColumns: []string{"name", "location", "remark"},
	Joins:         []string{"Category"},
	Refs: []RefCheck[models.Food]{{
		Field: "categoryId",
		Model: &models.FoodCategory{},
		Value: func(f *models.Food) *string { return f.CategoryID },
	}},
}

// 按份数加权的营养汇总列
const nutritionSums = "COALESCE(SUM(nutrition_calories * quantity), 0) AS calories, " +
	"COALESCE(SUM(nutrition_protein * quantity), 0) AS protein, " +
	"COALESCE(SUM(nutrition_carbs * quantity), 0) AS carbs, " +
	"COALESCE(SUM(nutrition_fat * quantity), 0) AS fat, " +
	"COALESCE(SUM(nutrition_fiber * quantity), 0) AS fiber, " +
	"COALESCE(SUM(nutrition_sugar * quantity), 0) AS sugar, " +
	"COALESCE(SUM(nutrition_sodium * quantity), 0) AS sodium"

// FoodService 饮食记录
type FoodService struct {
	*Engine[models.Food, *models.Food]
}

// NewFoodService 创建饮食服务
func NewFoodService(db *gorm.DB) *FoodService {
	return &FoodService{Engine: NewEngine[models.Food](db, foodDescriptor)}
}

// FoodFilter 饮食过滤条件
type FoodFilter struct {
	MealType   string
	CategoryID string
}

// Scopes 转换为查询条件
func (f FoodFilter) Scopes() []Scope {
	var scopes []Scope
	if f.MealType != "" {
		scopes = append(scopes, Eq("meal_type", f.MealType))
	}
	if f.CategoryID != "" {
		scopes = append(scopes, Eq("category_id", f.CategoryID))
	}
	return scopes
}

// FoodCategoryStat 按类别汇总
type FoodCategoryStat struct {
	CategoryID    *string `json:"categoryId"`
	Name          string  `json:"name"`
	Count         int64   `json:"count"`
	TotalCalories float64 `json:"totalCalories"`
	AvgRating     float64 `json:"avgRating"`
}

// FoodStats 饮食统计
type FoodStats struct {
	ByCategory []FoodCategoryStat `json:"byCategory"`
	Total      int64              `json:"total"`
}

// Stats 按类别统计次数、总热量与平均评分，按总热量降序
func (s *FoodService) Stats(ctx context.Context, ownerID string) (*FoodStats, error) {
	rows := make([]FoodCategoryStat, 0)
	err := s.db.WithContext(ctx).Model(&models.Food{}).
		Select("foods.category_id AS category_id, "+
			"COALESCE(food_categories.name, ?) AS name, COUNT(*) AS count, "+
			"COALESCE(SUM(foods.nutrition_calories * foods.quantity), 0) AS total_calories, "+
			"COALESCE(AVG(foods.rating), 0) AS avg_rating", UncategorizedName).
		Joins("LEFT JOIN food_categories ON food_categories.id = foods.category_id").
		Where("foods.user_id = ?", ownerID).
		Group("foods.category_id, food_categories.name").
		Order("total_calories DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("统计饮食失败: %w", err)
	}
	stats := &FoodStats{ByCategory: rows}
	for i := range rows {
		rows[i].TotalCalories = round2(rows[i].TotalCalories)
		rows[i].AvgRating = round2(rows[i].AvgRating)
		stats.Total += rows[i].Count
	}
	return stats, nil
}

// DailyNutrition 某一天的营养摄入
type DailyNutrition struct {
	Date      string           `json:"date"`
	Nutrition models.Nutrition `json:"nutrition"`
	MealCount int64            `json:"mealCount"`
}

type nutritionRow struct {
	models.Nutrition
	MealCount int64
}

// DailyNutrition 汇总一天内的营养（单份 × 份数）
func (s *FoodService) DailyNutrition(ctx context.Context, ownerID string, day time.Time) (*DailyNutrition, error) {
	w := DayWindow(day)
	var row nutritionRow
	err := s.scoped(ctx, ownerID).
		Select(nutritionSums+", COUNT(*) AS meal_count").
		Where("meal_time >= ? AND meal_time <= ?", w.Start, w.End).
		Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("统计每日营养失败: %w", err)
	}
	return &DailyNutrition{
		Date:      w.Start.Format(time.DateOnly),
		Nutrition: roundNutrition(row.Nutrition),
		MealCount: row.MealCount,
	}, nil
}

// MealNutrition 按餐次汇总
type MealNutrition struct {
	MealType      string  `json:"mealType"`
	Count         int64   `json:"count"`
	TotalCalories float64 `json:"totalCalories"`
	Protein       float64 `json:"protein"`
	Carbs         float64 `json:"carbs"`
	Fat           float64 `json:"fat"`
	AvgRating     float64 `json:"avgRating"`
}

// NutritionByMeal 按餐次统计窗口内的营养，按总热量降序
func (s *FoodService) NutritionByMeal(ctx context.Context, ownerID string, w Window) ([]MealNutrition, error) {
	rows := make([]MealNutrition, 0)
	err := s.scoped(ctx, ownerID).
		Select("meal_type, COUNT(*) AS count, "+
			"COALESCE(SUM(nutrition_calories * quantity), 0) AS total_calories, "+
			"COALESCE(SUM(nutrition_protein * quantity), 0) AS protein, "+
			"COALESCE(SUM(nutrition_carbs * quantity), 0) AS carbs, "+
			"COALESCE(SUM(nutrition_fat * quantity), 0) AS fat, "+
			"COALESCE(AVG(rating), 0) AS avg_rating").
		Where("meal_time >= ? AND meal_time <= ?", w.Start, w.End).
		Group("meal_type").
		Order("total_calories DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("按餐次统计失败: %w", err)
	}
	for i := range rows {
		r := &rows[i]
		r.TotalCalories, r.Protein, r.Carbs, r.Fat = round2(r.TotalCalories), round2(r.Protein), round2(r.Carbs), round2(r.Fat)
		r.AvgRating = round2(r.AvgRating)
	}
	return rows, nil
}

// FavoriteQuery 最爱食物筛选条件
type FavoriteQuery struct {
	Limit    int
	MinCount int
	// MinRating 为 nil 时取 4；0 表示所有评过分的食物
	MinRating *float64
}

// Normalize 默认 10 条、至少吃过 2 次、平均评分不低于 4
func (q FavoriteQuery) Normalize() FavoriteQuery {
	if q.Limit <= 0 {
		q.Limit = 10
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if q.MinCount <= 0 {
		q.MinCount = 2
	}
	rating := 4.0
	if q.MinRating != nil {
		rating = min(max(*q.MinRating, 0), 5)
	}
	q.MinRating = &rating
	return q
}

// FavoriteFood 最爱食物
type FavoriteFood struct {
	Name          string    `json:"name"`
	Count         int64     `json:"count"`
	AvgRating     float64   `json:"avgRating"`
	LastEaten     time.Time `json:"lastEaten"`
	TotalCalories float64   `json:"totalCalories"`
}

// Favorites 按名称分组，过滤次数与平均评分，按评分再按次数降序
func (s *FoodService) Favorites(ctx context.Context, ownerID string, q FavoriteQuery) ([]FavoriteFood, error) {
	q = q.Normalize()
	rows := make([]FavoriteFood, 0)
	err := s.scoped(ctx, ownerID).
		Select("name, COUNT(*) AS count, AVG(rating) AS avg_rating, MAX(meal_time) AS last_eaten, "+
			"COALESCE(SUM(nutrition_calories * quantity), 0) AS total_calories").
		Where("rating IS NOT NULL").
		Group("name").
		Having("COUNT(*) >= ? AND AVG(rating) >= ?", q.MinCount, *q.MinRating).
		Order("avg_rating DESC, count DESC").
		Limit(q.Limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("统计最爱食物失败: %w", err)
	}
	for i := range rows {
		rows[i].AvgRating = round2(rows[i].AvgRating)
		rows[i].TotalCalories = round2(rows[i].TotalCalories)
	}
	return rows, nil
}

func roundNutrition(n models.Nutrition) models.Nutrition {
	return models.Nutrition{
		Calories: round2(n.Calories),
		Protein:  round2(n.Protein),
		Carbs:    round2(n.Carbs),
		Fat:      round2(n.Fat),
		Fiber:    round2(n.Fiber),
		Sugar:    round2(n.Sugar),
		Sodium:   round2(n.Sodium),
	}
}
