package api

import (
	"daily/middleware"
	"daily/models"
	"daily/service"

	"github.com/gin-gonic/gin"
)

// NoteHandler 笔记处理器
type NoteHandler struct {
	notes *service.NoteService
}

// NewNoteHandler 创建笔记处理器
func NewNoteHandler(notes *service.NoteService) *NoteHandler {
	return &NoteHandler{notes: notes}
}

// NoteAttrRequest 笔记属性
type NoteAttrRequest struct {
	Key   string `json:"key" binding:"required,max=50"`
	Value string `json:"value" binding:"max=500"`
}

// AttachmentRequest 附件
type AttachmentRequest struct {
	Name string `json:"name" binding:"required,max=200"`
	URL  string `json:"url" binding:"required,max=500"`
	Size int64  `json:"size" binding:"gte=0"`
}

// CreateNoteRequest 创建笔记请求
type CreateNoteRequest struct {
	TypeID      *string             `json:"typeId"`
	Title       string              `json:"title" binding:"required,max=200" example:"读书笔记"`
	Content     string              `json:"content" binding:"max=10000"`
	Tags        []string            `json:"tags" binding:"omitempty,max=20,dive,max=30"`
	Attrs       []NoteAttrRequest   `json:"attrs" binding:"omitempty,max=50,dive"`
	Attachments []AttachmentRequest `json:"attachments" binding:"omitempty,max=20,dive"`
	IsPrivate   bool                `json:"isPrivate"`
}

// UpdateNoteRequest 更新笔记请求，未出现的字段不修改；typeId 传空串表示取消分类
type UpdateNoteRequest struct {
	TypeID      *string              `json:"typeId"`
	Title       *string              `json:"title" binding:"omitempty,min=1,max=200"`
	Content     *string              `json:"content" binding:"omitempty,max=10000"`
	Tags        *[]string            `json:"tags"`
	Attrs       *[]NoteAttrRequest   `json:"attrs" binding:"omitempty,max=50,dive"`
	Attachments *[]AttachmentRequest `json:"attachments" binding:"omitempty,max=20,dive"`
	IsPrivate   *bool                `json:"isPrivate"`
}

func toNoteAttrs(in []NoteAttrRequest) []models.NoteAttr {
	out := make([]models.NoteAttr, 0, len(in))
	for _, a := range in {
		out = append(out, models.NoteAttr{Key: a.Key, Value: a.Value})
	}
	return models.NormalizeAttrs(out)
}

func toAttachments(in []AttachmentRequest) []models.Attachment {
	out := make([]models.Attachment, 0, len(in))
	for _, a := range in {
		out = append(out, models.Attachment{Name: a.Name, URL: a.URL, Size: a.Size})
	}
	return out
}

// emptyAsNil 空串视为未设置
func emptyAsNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

// List 获取笔记列表
// @Summary 获取笔记列表
// @Description 默认按更新时间降序
// @Tags 笔记
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Param typeId query string false "笔记类型 ID"
// @Param isPrivate query bool false "是否私密"
// @Param search query string false "标题或内容关键词"
// @Param populate query string false "关联字段，如 type"
// @Success 200 {object} Response{data=[]models.Note} "获取成功"
// @Failure 400 {object} ErrorResponse "请求参数错误"
// @Router /api/notes [get]
func (h *NoteHandler) List(c *gin.Context) {
	private, err := queryBool(c, "isPrivate")
	if err != nil {
		Fail(c, err)
		return
	}
	listResource(c, h.notes.Engine, service.NoteFilter{TypeID: c.Query("typeId"), IsPrivate: private}.Scopes()...)
}

// Get 获取笔记详情
// @Summary 获取笔记详情
// @Tags 笔记
// @Produce json
// @Security BearerAuth
// @Param id path string true "笔记 ID"
// @Param populate query string false "关联字段，如 type"
// @Success 200 {object} Response{data=models.Note} "获取成功"
// @Failure 404 {object} ErrorResponse "笔记不存在"
// @Router /api/notes/{id} [get]
func (h *NoteHandler) Get(c *gin.Context) {
	getResource(c, h.notes.Engine)
}

// Create 创建笔记
// @Summary 创建笔记
// @Description 属性 key 唯一，重复时保留最后一次的值
// @Tags 笔记
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateNoteRequest true "笔记信息"
// @Success 201 {object} Response{data=models.Note} "创建成功"
// @Failure 400 {object} ErrorResponse "请求参数错误或类型无效"
// @Router /api/notes [post]
func (h *NoteHandler) Create(c *gin.Context) {
	var req CreateNoteRequest
	if err := bind(c, &req); err != nil {
		Fail(c, err)
		return
	}
	note := &models.Note{
		TypeID:      emptyAsNil(req.TypeID),
		Title:       req.Title,
		Content:     req.Content,
		Tags:        models.StringList(req.Tags),
		Attrs:       toNoteAttrs(req.Attrs),
		Attachments: toAttachments(req.Attachments),
		IsPrivate:   req.IsPrivate,
	}
	createResource(c, h.notes.Engine, note)
}

// Update 更新笔记
// @Summary 更新笔记
// @Tags 笔记
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "笔记 ID"
// @Param request body UpdateNoteRequest true "要修改的字段"
// @Success 200 {object} Response{data=models.Note} "更新成功"
// @Failure 400 {object} ErrorResponse "请求参数错误"
// @Failure 404 {object} ErrorResponse "笔记不存在"
// @Router /api/notes/{id} [put]
func (h *NoteHandler) Update(c *gin.Context) {
	var req UpdateNoteRequest
	if err := bind(c, &req); err != nil {
		Fail(c, err)
		return
	}
	updateResource(c, h.notes.Engine, func(n *models.Note) error {
		if req.TypeID != nil {
			n.TypeID = emptyAsNil(req.TypeID)
		}
		if req.Title != nil {
			n.Title = *req.Title
		}
		if req.Content != nil {
			n.Content = *req.Content
		}
		if req.Tags != nil {
			n.Tags = models.StringList(*req.Tags)
		}
		if req.Attrs != nil {
			n.Attrs = toNoteAttrs(*req.Attrs)
		}
		if req.Attachments != nil {
			n.Attachments = toAttachments(*req.Attachments)
		}
		if req.IsPrivate != nil {
			n.IsPrivate = *req.IsPrivate
		}
		return nil
	})
}

// Delete 删除笔记
// @Summary 删除笔记
// @Tags 笔记
// @Produce json
// @Security BearerAuth
// @Param id path string true "笔记 ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} ErrorResponse "笔记不存在"
// @Router /api/notes/{id} [delete]
func (h *NoteHandler) Delete(c *gin.Context) {
	deleteResource(c, h.notes.Engine)
}

// Stats 笔记统计
// @Summary 笔记统计
// @Description 按类型统计数量，未分类的笔记归入 Uncategorized
// @Tags 笔记
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=service.NoteStats} "获取成功"
// @Router /api/notes/stats [get]
func (h *NoteHandler) Stats(c *gin.Context) {
	stats, err := h.notes.Stats(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, stats)
}
