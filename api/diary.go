package api

import (
	"time"

	"daily/middleware"
	"daily/models"
	"daily/service"

	"github.com/gin-gonic/gin"
)

var diaryMoods = []string{models.MoodVeryHappy, models.MoodHappy, models.MoodNormal, models.MoodSad, models.MoodVerySad}

// DiaryHandler 日记处理器
type DiaryHandler struct {
	diaries *service.DiaryService
	now     func() time.Time
}

// NewDiaryHandler 创建日记处理器
func NewDiaryHandler(diaries *service.DiaryService) *DiaryHandler {
	return &DiaryHandler{diaries: diaries, now: time.Now}
}

// CreateDiaryRequest 创建日记请求
type CreateDiaryRequest struct {
	Title     string   `json:"title" binding:"required,max=200" example:"周末爬山"`
	Content   string   `json:"content" binding:"required,max=10000"`
	Date      string   `json:"date" example:"2024-01-15"`
	Mood      string   `json:"mood" binding:"omitempty,oneof=very_happy happy normal sad very_sad" example:"happy"`
	Weather   string   `json:"weather" binding:"max=50"`
	Location  string   `json:"location" binding:"max=200"`
	Images    []string `json:"images" binding:"omitempty,max=9,dive,max=500"`
	Tags      []string `json:"tags" binding:"omitempty,max=20,dive,max=30"`
	IsPrivate *bool    `json:"isPrivate"`
}

// UpdateDiaryRequest 更新日记请求
type UpdateDiaryRequest struct {
	Title     *string   `json:"title" binding:"omitempty,min=1,max=200"`
	Content   *string   `json:"content" binding:"omitempty,min=1,max=10000"`
	Date      *string   `json:"date"`
	Mood      *string   `json:"mood" binding:"omitempty,oneof=very_happy happy normal sad very_sad"`
	Weather   *string   `json:"weather" binding:"omitempty,max=50"`
	Location  *string   `json:"location" binding:"omitempty,max=200"`
	Images    *[]string `json:"images" binding:"omitempty,max=9"`
	Tags      *[]string `json:"tags"`
	IsPrivate *bool     `json:"isPrivate"`
}

// List 获取日记列表
// @Summary 获取日记列表
// @Description 列表不返回正文；keyword 与 search 等价
// @Tags 日记
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Param mood query string false "心情" Enums(very_happy, happy, normal, sad, very_sad)
// @Param startDate query string false "开始日期"
// @Param endDate query string false "结束日期"
// @Param keyword query string false "标题、正文或标签关键词"
// @Success 200 {object} Response{data=[]models.Diary} "获取成功"
// @Failure 400 {object} ErrorResponse "请求参数错误"
// @Router /api/diaries [get]
func (h *DiaryHandler) List(c *gin.Context) {
	mood, err := queryEnum(c, "mood", diaryMoods...)
	if err != nil {
		Fail(c, err)
		return
	}
	listResource(c, h.diaries.Engine, service.DiaryFilter{Mood: mood}.Scopes()...)
}

// Get 获取日记详情
// @Summary 获取日记详情
// @Tags 日记
// @Produce json
// @Security BearerAuth
// @Param id path string true "日记 ID"
// @Success 200 {object} Response{data=models.Diary} "获取成功"
// @Failure 404 {object} ErrorResponse "日记不存在"
// @Router /api/diaries/{id} [get]
func (h *DiaryHandler) Get(c *gin.Context) {
	getResource(c, h.diaries.Engine)
}

// Create 写日记
// @Summary 写日记
// @Description 日期默认当前时间，心情默认 normal，默认私密
// @Tags 日记
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateDiaryRequest true "日记内容"
// @Success 201 {object} Response{data=models.Diary} "创建成功"
// @Failure 400 {object} ErrorResponse "请求参数错误"
// @Router /api/diaries [post]
func (h *DiaryHandler) Create(c *gin.Context) {
	var req CreateDiaryRequest
	if err := bind(c, &req); err != nil {
		Fail(c, err)
		return
	}
	tf, err := newTimeFields(c)
	if err != nil {
		Fail(c, err)
		return
	}
	diary := &models.Diary{
		Title:     req.Title,
		Content:   req.Content,
		Date:      tf.parse("date", req.Date, h.now()),
		Mood:      req.Mood,
		Weather:   req.Weather,
		Location:  req.Location,
		Images:    models.StringList(req.Images),
		Tags:      models.StringList(req.Tags),
		IsPrivate: true,
	}
	if err := tf.err(); err != nil {
		Fail(c, err)
		return
	}
	if diary.Mood == "" {
		diary.Mood = models.MoodNormal
	}
	if req.IsPrivate != nil {
		diary.IsPrivate = *req.IsPrivate
	}
	createResource(c, h.diaries.Engine, diary)
}

// Update 更新日记
// @Summary 更新日记
// @Tags 日记
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "日记 ID"
// @Param request body UpdateDiaryRequest true "要修改的字段"
// @Success 200 {object} Response{data=models.Diary} "更新成功"
// @Failure 400 {object} ErrorResponse "请求参数错误"
// @Failure 404 {object} ErrorResponse "日记不存在"
// @Router /api/diaries/{id} [put]
func (h *DiaryHandler) Update(c *gin.Context) {
	var req UpdateDiaryRequest
	if err := bind(c, &req); err != nil {
		Fail(c, err)
		return
	}
	tf, err := newTimeFields(c)
	if err != nil {
		Fail(c, err)
		return
	}
	date := tf.optional("date", req.Date)
	if err := tf.err(); err != nil {
		Fail(c, err)
		return
	}
	updateResource(c, h.diaries.Engine, func(d *models.Diary) error {
		if req.Title != nil {
			d.Title = *req.Title
		}
		if req.Content != nil {
			d.Content = *req.Content
		}
		if date != nil {
			d.Date = *date
		}
		if req.Mood != nil {
			d.Mood = *req.Mood
		}
		if req.Weather != nil {
			d.Weather = *req.Weather
		}
		if req.Location != nil {
			d.Location = *req.Location
		}
		if req.Images != nil {
			d.Images = models.StringList(*req.Images)
		}
		if req.Tags != nil {
			d.Tags = models.StringList(*req.Tags)
		}
		if req.IsPrivate != nil {
			d.IsPrivate = *req.IsPrivate
		}
		return nil
	})
}

// Delete 删除日记
// @Summary 删除日记
// @Tags 日记
// @Produce json
// @Security BearerAuth
// @Param id path string true "日记 ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} ErrorResponse "日记不存在"
// @Router /api/diaries/{id} [delete]
func (h *DiaryHandler) Delete(c *gin.Context) {
	deleteResource(c, h.diaries.Engine)
}

// Stats 日记统计
// @Summary 日记统计
// @Description 总数、本月数量、心情分布、常用标签与最近一篇
// @Tags 日记
// @Produce json
// @Security BearerAuth
// @Param tz query string false "IANA 时区，决定“本月”的范围"
// @Success 200 {object} Response{data=service.DiaryStats} "获取成功"
// @Router /api/diaries/stats [get]
func (h *DiaryHandler) Stats(c *gin.Context) {
	loc, err := location(c)
	if err != nil {
		Fail(c, err)
		return
	}
	stats, err := h.diaries.Stats(c.Request.Context(), middleware.CurrentUserID(c), h.now().In(loc))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, stats)
}
