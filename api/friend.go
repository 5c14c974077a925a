package api

import (
	"time"

	"daily/middleware"
	"daily/models"
	"daily/service"

	"github.com/gin-gonic/gin"
)

// FriendHandler 朋友处理器
type FriendHandler struct {
	friends *service.FriendService
	now     func() time.Time
}

// NewFriendHandler 创建朋友处理器
func NewFriendHandler(friends *service.FriendService) *FriendHandler {
	return &FriendHandler{friends: friends, now: time.Now}
}

// ContactRequest 联系方式
type ContactRequest struct {
	Type      string `json:"type" binding:"required,oneof=phone qq wechat email other" example:"phone"`
	Value     string `json:"value" binding:"required,max=100" example:"13800000000"`
	Label     string `json:"label" binding:"max=30"`
	IsPrimary bool   `json:"isPrimary"`
}

func (r ContactRequest) model() models.Contact {
	return models.Contact{Type: r.Type, Value: r.Value, Label: r.Label, IsPrimary: r.IsPrimary}
}

func toContacts(reqs []ContactRequest) []models.Contact {
	contacts := make([]models.Contact, 0, len(reqs))
	for _, r := range reqs {
		contacts = append(contacts, r.model())
	}
	return models.NormalizeContacts(contacts)
}

// CreateFriendRequest 创建朋友请求
type CreateFriendRequest struct {
	Name          string           `json:"name" binding:"required,max=50" example:"张三"`
	Nickname      string           `json:"nickname" binding:"max=50"`
	Sex           *int             `json:"sex" binding:"omitempty,oneof=1 2"`
	BirthDate     string           `json:"birthDate" example:"1995-06-18"`
	BirthType     int              `json:"birthType" binding:"omitempty,oneof=1 2" example:"2"`
	Avatar        string           `json:"avatar" binding:"max=500"`
	Contacts      []ContactRequest `json:"contacts" binding:"omitempty,max=20,dive"`
	LiveAddress   string           `json:"liveAddress" binding:"max=200"`
	HomeAddress   string           `json:"homeAddress" binding:"max=200"`
	School        string           `json:"school" binding:"max=100"`
	Profession    string           `json:"profession" binding:"max=100"`
	Disposition   string           `json:"disposition" binding:"max=500"`
	Hobbies       []string         `json:"hobbies" binding:"omitempty,max=20,dive,max=30"`
	Tags          []string         `json:"tags" binding:"omitempty,max=20,dive,max=30"`
	Remark        string           `json:"remark" binding:"max=1000"`
	Advantages    string           `json:"advantages" binding:"max=500"`
	Disadvantages string           `json:"disadvantages" binding:"max=500"`
	Relationship  string           `json:"relationship" binding:"omitempty,oneof=family friend colleague classmate other" example:"friend"`
	Importance    int              `json:"importance" binding:"omitempty,min=1,max=5" example:"3"`
}

// UpdateFriendRequest 更新朋友请求，未出现的字段不修改；contacts 整体替换
type UpdateFriendRequest struct {
	Name          *string           `json:"name" binding:"omitempty,min=1,max=50"`
	Nickname      *string           `json:"nickname" binding:"omitempty,max=50"`
	Sex           *int              `json:"sex" binding:"omitempty,oneof=1 2"`
	BirthDate     *string           `json:"birthDate"`
	BirthType     *int              `json:"birthType" binding:"omitempty,oneof=1 2"`
	Avatar        *string           `json:"avatar" binding:"omitempty,max=500"`
	Contacts      *[]ContactRequest `json:"contacts" binding:"omitempty,max=20,dive"`
	LiveAddress   *string           `json:"liveAddress" binding:"omitempty,max=200"`
	HomeAddress   *string           `json:"homeAddress" binding:"omitempty,max=200"`
	School        *string           `json:"school" binding:"omitempty,max=100"`
	Profession    *string           `json:"profession" binding:"omitempty,max=100"`
	Disposition   *string           `json:"disposition" binding:"omitempty,max=500"`
	Hobbies       *[]string         `json:"hobbies"`
	Tags          *[]string         `json:"tags"`
	Remark        *string           `json:"remark" binding:"omitempty,max=1000"`
	Advantages    *string           `json:"advantages" binding:"omitempty,max=500"`
	Disadvantages *string           `json:"disadvantages" binding:"omitempty,max=500"`
	Relationship  *string           `json:"relationship" binding:"omitempty,oneof=family friend colleague classmate other"`
	Importance    *int              `json:"importance" binding:"omitempty,min=1,max=5"`
}

// List 获取朋友列表
// @Summary 获取朋友列表
// @Description 默认按重要程度降序、姓名升序；search 同时匹配姓名、昵称与联系方式
// @Tags 朋友
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Param relationship query string false "关系" Enums(family, friend, colleague, classmate, other)
// @Param importance query int false "重要程度 1-5"
// @Param search query string false "关键词"
// @Success 200 {object} Response{data=[]models.Friend} "获取成功"
// @Failure 400 {object} ErrorResponse "请求参数错误"
// @Router /api/friends [get]
func (h *FriendHandler) List(c *gin.Context) {
	relationship, err := queryEnum(c, "relationship", "family", "friend", "colleague", "classmate", "other")
	if err != nil {
		Fail(c, err)
		return
	}
	importance, err := queryInt(c, "importance")
	if err != nil {
		Fail(c, err)
		return
	}
	listResource(c, h.friends.Engine, service.FriendFilter{Relationship: relationship, Importance: importance}.Scopes()...)
}

// Get 获取朋友详情
// @Summary 获取朋友详情
// @Tags 朋友
// @Produce json
// @Security BearerAuth
// @Param id path string true "朋友 ID"
// @Success 200 {object} Response{data=models.Friend} "获取成功"
// @Failure 404 {object} ErrorResponse "朋友不存在"
// @Router /api/friends/{id} [get]
func (h *FriendHandler) Get(c *gin.Context) {
	getResource(c, h.friends.Engine)
}

// Create 添加朋友
// @Summary 添加朋友
// @Description 关系默认 friend，重要程度默认 3，生日默认按公历
// @Tags 朋友
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateFriendRequest true "朋友信息"
// @Success 201 {object} Response{data=models.Friend} "创建成功"
// @Failure 400 {object} ErrorResponse "请求参数错误"
// @Router /api/friends [post]
func (h *FriendHandler) Create(c *gin.Context) {
	var req CreateFriendRequest
	if err := bind(c, &req); err != nil {
		Fail(c, err)
		return
	}
	tf, err := newTimeFields(c)
	if err != nil {
		Fail(c, err)
		return
	}
	birth := tf.optional("birthDate", &req.BirthDate)
	if err := tf.err(); err != nil {
		Fail(c, err)
		return
	}
	friend := &models.Friend{
		Name:          req.Name,
		Nickname:      req.Nickname,
		Sex:           req.Sex,
		BirthDate:     birth,
		BirthType:     req.BirthType,
		Avatar:        req.Avatar,
		Contacts:      toContacts(req.Contacts),
		LiveAddress:   req.LiveAddress,
		HomeAddress:   req.HomeAddress,
		School:        req.School,
		Profession:    req.Profession,
		Disposition:   req.Disposition,
		Hobbies:       models.StringList(req.Hobbies),
		Tags:          models.StringList(req.Tags),
		Remark:        req.Remark,
		Advantages:    req.Advantages,
		Disadvantages: req.Disadvantages,
		Relationship:  req.Relationship,
		Importance:    req.Importance,
	}
	if friend.BirthType == 0 {
		friend.BirthType = models.BirthSolar
	}
	if friend.Relationship == "" {
		friend.Relationship = models.DefaultRelationship
	}
	if friend.Importance == 0 {
		friend.Importance = models.DefaultImportance
	}
	createResource(c, h.friends.Engine, friend)
}

// Update 更新朋友
// @Summary 更新朋友
// @Tags 朋友
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "朋友 ID"
// @Param request body UpdateFriendRequest true "要修改的字段"
// @Success 200 {object} Response{data=models.Friend} "更新成功"
// @Failure 400 {object} ErrorResponse "请求参数错误"
// @Failure 404 {object} ErrorResponse "朋友不存在"
// @Router /api/friends/{id} [put]
func (h *FriendHandler) Update(c *gin.Context) {
	var req UpdateFriendRequest
	if err := bind(c, &req); err != nil {
		Fail(c, err)
		return
	}
	tf, err := newTimeFields(c)
	if err != nil {
		Fail(c, err)
		return
	}
	birth := tf.optional("birthDate", req.BirthDate)
	if err := tf.err(); err != nil {
		Fail(c, err)
		return
	}
	setString := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	updateResource(c, h.friends.Engine, func(f *models.Friend) error {
		setString(&f.Name, req.Name)
		setString(&f.Nickname, req.Nickname)
		setString(&f.Avatar, req.Avatar)
		setString(&f.LiveAddress, req.LiveAddress)
		setString(&f.HomeAddress, req.HomeAddress)
		setString(&f.School, req.School)
		setString(&f.Profession, req.Profession)
		setString(&f.Disposition, req.Disposition)
		setString(&f.Remark, req.Remark)
		setString(&f.Advantages, req.Advantages)
		setString(&f.Disadvantages, req.Disadvantages)
		setString(&f.Relationship, req.Relationship)
		if req.Sex != nil {
			f.Sex = req.Sex
		}
		if req.BirthDate != nil {
			// 传空字符串表示清空生日
			f.BirthDate = birth
		}
		if req.BirthType != nil {
			f.BirthType = *req.BirthType
		}
		if req.Contacts != nil {
			f.Contacts = toContacts(*req.Contacts)
		}
		if req.Hobbies != nil {
			f.Hobbies = models.StringList(*req.Hobbies)
		}
		if req.Tags != nil {
			f.Tags = models.StringList(*req.Tags)
		}
		if req.Importance != nil {
			f.Importance = *req.Importance
		}
		return nil
	})
}

// Delete 删除朋友
// @Summary 删除朋友
// @Tags 朋友
// @Produce json
// @Security BearerAuth
// @Param id path string true "朋友 ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} ErrorResponse "朋友不存在"
// @Router /api/friends/{id} [delete]
func (h *FriendHandler) Delete(c *gin.Context) {
	deleteResource(c, h.friends.Engine)
}

// AddContact 添加联系方式
// @Summary 添加联系方式
// @Description 设为主联系方式时，同类型的其他联系方式自动取消主标记
// @Tags 朋友
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "朋友 ID"
// @Param request body ContactRequest true "联系方式"
// @Success 200 {object} Response{data=models.Friend} "添加成功"
// @Failure 400 {object} ErrorResponse "请求参数错误"
// @Failure 404 {object} ErrorResponse "朋友不存在"
// @Router /api/friends/{id}/contacts [post]
func (h *FriendHandler) AddContact(c *gin.Context) {
	var req ContactRequest
	if err := bind(c, &req); err != nil {
		Fail(c, err)
		return
	}
	friend, err := h.friends.AddContact(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), req.model())
	if err != nil {
		Fail(c, err)
		return
	}
	SuccessWithMessage(c, "添加成功", friend)
}

// RemoveContact 删除联系方式
// @Summary 删除联系方式
// @Tags 朋友
// @Produce json
// @Security BearerAuth
// @Param id path string true "朋友 ID"
// @Param contactId path string true "联系方式 ID"
// @Success 200 {object} Response{data=models.Friend} "删除成功"
// @Failure 404 {object} ErrorResponse "朋友或联系方式不存在"
// @Router /api/friends/{id}/contacts/{contactId} [delete]
func (h *FriendHandler) RemoveContact(c *gin.Context) {
	friend, err := h.friends.RemoveContact(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), c.Param("contactId"))
	if err != nil {
		Fail(c, err)
		return
	}
	SuccessWithMessage(c, "删除成功", friend)
}

// TouchContact 更新最近联系时间
// @Summary 更新最近联系时间
// @Tags 朋友
// @Produce json
// @Security BearerAuth
// @Param id path string true "朋友 ID"
// @Success 200 {object} Response{data=models.Friend} "更新成功"
// @Failure 404 {object} ErrorResponse "朋友不存在"
// @Router /api/friends/{id}/contact [patch]
func (h *FriendHandler) TouchContact(c *gin.Context) {
	friend, err := h.friends.TouchContact(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	SuccessWithMessage(c, "更新成功", friend)
}

// Birthdays 即将到来的生日
// @Summary 即将到来的生日
// @Description days 天内（含今天）过生日的朋友，按日期升序；农历生日按存储的月日计算
// @Tags 朋友
// @Produce json
// @Security BearerAuth
// @Param days query int false "天数" default(30)
// @Param tz query string false "IANA 时区"
// @Success 200 {object} Response{data=[]models.UpcomingBirthday} "获取成功"
// @Failure 400 {object} ErrorResponse "请求参数错误"
// @Router /api/friends/birthdays [get]
func (h *FriendHandler) Birthdays(c *gin.Context) {
	loc, err := location(c)
	if err != nil {
		Fail(c, err)
		return
	}
	days, err := queryInt(c, "days")
	if err != nil {
		Fail(c, err)
		return
	}
	n := 30
	if days != nil {
		n = *days
	}
	list, err := h.friends.Birthdays(c.Request.Context(), middleware.CurrentUserID(c), h.now().In(loc), n)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, list)
}

// Stats 朋友统计
// @Summary 朋友统计
// @Description 按关系统计人数与平均重要程度
// @Tags 朋友
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=service.FriendStats} "获取成功"
// @Router /api/friends/stats [get]
func (h *FriendHandler) Stats(c *gin.Context) {
	stats, err := h.friends.Stats(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, stats)
}
