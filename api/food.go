package api

import (
	"time"

	"daily/middleware"
	"daily/models"
	"daily/service"

	"github.com/gin-gonic/gin"
)

var mealTypes = []string{models.MealBreakfast, models.MealLunch, models.MealDinner, models.MealSnack}

// FoodHandler 饮食记录处理器
type FoodHandler struct {
	foods *service.FoodService
	now   func() time.Time
}

// NewFoodHandler 创建饮食记录处理器
func NewFoodHandler(foods *service.FoodService) *FoodHandler {
	return &FoodHandler{foods: foods, now: time.Now}
}

// NutritionRequest 单份营养成分
type NutritionRequest struct {
	Calories float64 `json:"calories" binding:"gte=0" example:"520"`
	Protein  float64 `json:"protein" binding:"gte=0"`
	Carbs    float64 `json:"carbs" binding:"gte=0"`
	Fat      float64 `json:"fat" binding:"gte=0"`
	Fiber    float64 `json:"fiber" binding:"gte=0"`
	Sugar    float64 `json:"sugar" binding:"gte=0"`
	Sodium   float64 `json:"sodium" binding:"gte=0"`
}

func (n NutritionRequest) model() models.Nutrition {
	return models.Nutrition(n)
}

// CreateFoodRequest 创建饮食记录请求
type CreateFoodRequest struct {
	Name       string           `json:"name" binding:"required,max=100" example:"牛肉面"`
	CategoryID *string          `json:"categoryId"`
	MealTime   string           `json:"mealTime" example:"2024-01-15 12:30:00"`
	MealType   string           `json:"mealType" binding:"omitempty,oneof=breakfast lunch dinner snack" example:"lunch"`
	Quantity   *float64         `json:"quantity" binding:"omitempty,gt=0" example:"1"`
	Unit       string           `json:"unit" binding:"max=20" example:"碗"`
	Nutrition  NutritionRequest `json:"nutrition"`
	Location   string           `json:"location" binding:"max=200"`
	Price      *float64         `json:"price" binding:"omitempty,gte=0"`
	Rating     *int             `json:"rating" binding:"omitempty,min=1,max=5"`
	Tags       []string         `json:"tags" binding:"omitempty,max=20,dive,max=30"`
	Photos     []string         `json:"photos" binding:"omitempty,max=9,dive,max=500"`
	Remark     string           `json:"remark" binding:"max=500"`
	Mood       string           `json:"mood" binding:"omitempty,oneof=excellent good neutral bad terrible"`
}

// UpdateFoodRequest 更新饮食记录请求，未出现的字段不修改
type UpdateFoodRequest struct {
	Name       *string           `json:"name" binding:"omitempty,min=1,max=100"`
	CategoryID *string           `json:"categoryId"`
	MealTime   *string           `json:"mealTime"`
	MealType   *string           `json:"mealType" binding:"omitempty,oneof=breakfast lunch dinner snack"`
	Quantity   *float64          `json:"quantity" binding:"omitempty,gt=0"`
	Unit       *string           `json:"unit" binding:"omitempty,max=20"`
	Nutrition  *NutritionRequest `json:"nutrition"`
	Location   *string           `json:"location" binding:"omitempty,max=200"`
	Price      *float64          `json:"price" binding:"omitempty,gte=0"`
	Rating     *int              `json:"rating" binding:"omitempty,min=1,max=5"`
	Tags       *[]string         `json:"tags"`
	Photos     *[]string         `json:"photos" binding:"omitempty,max=9"`
	Remark     *string           `json:"remark" binding:"omitempty,max=500"`
	Mood       *string           `json:"mood" binding:"omitempty,oneof=excellent good neutral bad terrible"`
}

// List 获取饮食记录列表
// @Summary 获取饮食记录列表
// @Description 默认按用餐时间降序
// @Tags 饮食
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Param mealType query string false "餐次" Enums(breakfast, lunch, dinner, snack)
// @Param categoryId query string false "食物类别 ID"
// @Param startDate query string false "开始日期"
// @Param endDate query string false "结束日期"
// @Param search query string false "名称、地点或备注关键词"
// @Param populate query string false "关联字段，如 category"
// @Success 200 {object} Response{data=[]models.Food} "获取成功"
// @Failure 400 {object} ErrorResponse "请求参数错误"
// @Router /api/foods [get]
func (h *FoodHandler) List(c *gin.Context) {
	mealType, err := queryEnum(c, "mealType", mealTypes...)
	if err != nil {
		Fail(c, err)
		return
	}
	listResource(c, h.foods.Engine, service.FoodFilter{MealType: mealType, CategoryID: c.Query("categoryId")}.Scopes()...)
}

// Get 获取饮食记录详情
// @Summary 获取饮食记录详情
// @Tags 饮食
// @Produce json
// @Security BearerAuth
// @Param id path string true "记录 ID"
// @Param populate query string false "关联字段，如 category"
// @Success 200 {object} Response{data=models.Food} "获取成功"
// @Failure 404 {object} ErrorResponse "记录不存在"
// @Router /api/foods/{id} [get]
func (h *FoodHandler) Get(c *gin.Context) {
	getResource(c, h.foods.Engine)
}

// Create 创建饮食记录
// @Summary 创建饮食记录
// @Description 用餐时间默认当前时间，餐次默认 lunch，份数默认 1
// @Tags 饮食
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateFoodRequest true "饮食信息"
// @Success 201 {object} Response{data=models.Food} "创建成功"
// @Failure 400 {object} ErrorResponse "请求参数错误或类别无效"
// @Router /api/foods [post]
func (h *FoodHandler) Create(c *gin.Context) {
	var req CreateFoodRequest
	if err := bind(c, &req); err != nil {
		Fail(c, err)
		return
	}
	tf, err := newTimeFields(c)
	if err != nil {
		Fail(c, err)
		return
	}
	food := &models.Food{
		Name:       req.Name,
		CategoryID: emptyAsNil(req.CategoryID),
		MealTime:   tf.parse("mealTime", req.MealTime, h.now()),
		MealType:   req.MealType,
		Quantity:   1,
		Unit:       req.Unit,
		Nutrition:  req.Nutrition.model(),
		Location:   req.Location,
		Price:      req.Price,
		Rating:     req.Rating,
		Tags:       models.StringList(req.Tags),
		Photos:     models.StringList(req.Photos),
		Remark:     req.Remark,
		Mood:       req.Mood,
	}
	if err := tf.err(); err != nil {
		Fail(c, err)
		return
	}
	if req.Quantity != nil {
		food.Quantity = *req.Quantity
	}
	if food.MealType == "" {
		food.MealType = models.MealLunch
	}
	if food.Unit == "" {
		food.Unit = models.DefaultFoodUnit
	}
	if food.Mood == "" {
		food.Mood = models.DefaultFoodMood
	}
	createResource(c, h.foods.Engine, food)
}

// Update 更新饮食记录
// @Summary 更新饮食记录
// @Tags 饮食
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "记录 ID"
// @Param request body UpdateFoodRequest true "要修改的字段"
// @Success 200 {object} Response{data=models.Food} "更新成功"
// @Failure 400 {object} ErrorResponse "请求参数错误"
// @Failure 404 {object} ErrorResponse "记录不存在"
// @Router /api/foods/{id} [put]
func (h *FoodHandler) Update(c *gin.Context) {
	var req UpdateFoodRequest
	if err := bind(c, &req); err != nil {
		Fail(c, err)
		return
	}
	tf, err := newTimeFields(c)
	if err != nil {
		Fail(c, err)
		return
	}
	mealTime := tf.optional("mealTime", req.MealTime)
	if err := tf.err(); err != nil {
		Fail(c, err)
		return
	}
	updateResource(c, h.foods.Engine, func(f *models.Food) error {
		if req.Name != nil {
			f.Name = *req.Name
		}
		if req.CategoryID != nil {
			f.CategoryID = emptyAsNil(req.CategoryID)
		}
		if mealTime != nil {
			f.MealTime = *mealTime
		}
		if req.MealType != nil {
			f.MealType = *req.MealType
		}
		if req.Quantity != nil {
			f.Quantity = *req.Quantity
		}
		if req.Unit != nil {
			f.Unit = *req.Unit
		}
		if req.Nutrition != nil {
			f.Nutrition = req.Nutrition.model()
		}
		if req.Location != nil {
			f.Location = *req.Location
		}
		if req.Price != nil {
			f.Price = req.Price
		}
		if req.Rating != nil {
			f.Rating = req.Rating
		}
		if req.Tags != nil {
			f.Tags = models.StringList(*req.Tags)
		}
		if req.Photos != nil {
			f.Photos = models.StringList(*req.Photos)
		}
		if req.Remark != nil {
			f.Remark = *req.Remark
		}
		if req.Mood != nil {
			f.Mood = *req.Mood
		}
		return nil
	})
}

// Delete 删除饮食记录
// @Summary 删除饮食记录
// @Tags 饮食
// @Produce json
// @Security BearerAuth
// @Param id path string true "记录 ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} ErrorResponse "记录不存在"
// @Router /api/foods/{id} [delete]
func (h *FoodHandler) Delete(c *gin.Context) {
	deleteResource(c, h.foods.Engine)
}

// Stats 饮食统计
// @Summary 饮食统计
// @Description 按类别统计次数、总热量与平均评分
// @Tags 饮食
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=service.FoodStats} "获取成功"
// @Router /api/foods/stats [get]
func (h *FoodHandler) Stats(c *gin.Context) {
	stats, err := h.foods.Stats(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, stats)
}

// DailyNutrition 每日营养汇总
// @Summary 每日营养汇总
// @Description 汇总某一天（调用方时区）的营养摄入，按份数加权
// @Tags 饮食
// @Produce json
// @Security BearerAuth
// @Param date query string false "日期 (2024-01-15)，默认今天"
// @Param tz query string false "IANA 时区"
// @Success 200 {object} Response{data=service.DailyNutrition} "获取成功"
// @Failure 400 {object} ErrorResponse "请求参数错误"
// @Router /api/foods/daily-nutrition [get]
func (h *FoodHandler) DailyNutrition(c *gin.Context) {
	tf, err := newTimeFields(c)
	if err != nil {
		Fail(c, err)
		return
	}
	day := tf.parse("date", c.Query("date"), h.now().In(tf.loc))
	if err := tf.err(); err != nil {
		Fail(c, err)
		return
	}
	result, err := h.foods.DailyNutrition(c.Request.Context(), middleware.CurrentUserID(c), day)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, result)
}

// NutritionByMeal 按餐次统计营养
// @Summary 按餐次统计营养
// @Description 默认统计本月，按总热量降序
// @Tags 饮食
// @Produce json
// @Security BearerAuth
// @Param startDate query string false "开始日期"
// @Param endDate query string false "结束日期"
// @Param tz query string false "IANA 时区"
// @Success 200 {object} Response{data=[]service.MealNutrition} "获取成功"
// @Failure 400 {object} ErrorResponse "请求参数错误"
// @Router /api/foods/nutrition-by-meal [get]
func (h *FoodHandler) NutritionByMeal(c *gin.Context) {
	w, err := statsWindow(c, h.now())
	if err != nil {
		Fail(c, err)
		return
	}
	rows, err := h.foods.NutritionByMeal(c.Request.Context(), middleware.CurrentUserID(c), w)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, rows)
}

// Favorites 最爱食物
// @Summary 最爱食物
// @Description 按名称分组，次数与平均评分达到阈值的食物，按评分、次数降序
// @Tags 饮食
// @Produce json
// @Security BearerAuth
// @Param limit query int false "数量" default(10)
// @Param minCount query int false "最少次数" default(2)
// @Param minRating query number false "最低平均评分，0 表示所有评过分的食物" default(4)
// @Success 200 {object} Response{data=[]service.FavoriteFood} "获取成功"
// @Failure 400 {object} ErrorResponse "请求参数错误"
// @Router /api/foods/favorites [get]
func (h *FoodHandler) Favorites(c *gin.Context) {
	var q service.FavoriteQuery
	for name, dst := range map[string]*int{"limit": &q.Limit, "minCount": &q.MinCount} {
		v, err := queryInt(c, name)
		if err != nil {
			Fail(c, err)
			return
		}
		if v != nil {
			*dst = *v
		}
	}
	minRating, err := queryFloat(c, "minRating")
	if err != nil {
		Fail(c, err)
		return
	}
	q.MinRating = minRating
	foods, err := h.foods.Favorites(c.Request.Context(), middleware.CurrentUserID(c), q)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, foods)
}
