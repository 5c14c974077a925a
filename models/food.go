package models

import "time"

// 餐次
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"
)

// 默认值
const (
	DefaultFoodUnit = "份"
	DefaultFoodMood = "good"
)

// Nutrition 营养成分（单份）
type Nutrition struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
	Sugar    float64 `json:"sugar"`
	Sodium   float64 `json:"sodium"`
}

// Food 饮食记录
type Food struct {
	Record
	Name       string        `json:"name" gorm:"size:100;not null;index"`
	CategoryID *string       `json:"categoryId" gorm:"size:36;index"`
	Category   *FoodCategory `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	MealTime   time.Time     `json:"mealTime" gorm:"not null;index"`
	MealType   string        `json:"mealType" gorm:"size:20;not null;default:lunch;index"`
	Quantity   float64       `json:"quantity" gorm:"not null;default:1"`
	Unit       string        `json:"unit" gorm:"size:20"`
	Nutrition  Nutrition     `json:"nutrition" gorm:"embedded;embeddedPrefix:nutrition_"`
	Location   string        `json:"location" gorm:"size:200"`
	Price      *float64      `json:"price" gorm:"type:decimal(10,2)"`
	Rating     *int          `json:"rating"`
	Tags       []string      `json:"tags" gorm:"serializer:json;type:text"`
	Photos     []string      `json:"photos" gorm:"serializer:json;type:text"`
	Remark     string        `json:"remark" gorm:"size:500"`
	Mood       string        `json:"mood" gorm:"size:20"`
}

func (Food) TableName() string {
	return "foods"
}
