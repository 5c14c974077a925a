package api

import (
	"daily/middleware"
	"daily/service"

	"github.com/gin-gonic/gin"
)

// UploadHandler 图片/附件直传
type UploadHandler struct {
	uploads *service.UploadService
}

// NewUploadHandler 创建上传处理器
func NewUploadHandler(uploads *service.UploadService) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

// PresignRequest 申请上传地址
type PresignRequest struct {
	Kind        string `json:"kind" binding:"required,oneof=appearance food diary note avatar" example:"appearance"`
	Filename    string `json:"filename" binding:"required,max=200" example:"IMG_0001.jpg"`
	ContentType string `json:"contentType" binding:"required,max=100" example:"image/jpeg"`
}

// Presign 申请预签名上传地址
// @Summary 申请预签名上传地址
// @Description 客户端使用返回的地址与请求头直接 PUT 到对象存储，再把 url 写入记录的照片/附件字段
// @Tags 上传
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PresignRequest true "文件信息"
// @Success 200 {object} Response{data=service.PresignedUpload} "获取成功"
// @Failure 400 {object} ErrorResponse "文件类型不支持"
// @Failure 503 {object} ErrorResponse "对象存储未启用"
// @Router /api/uploads/presign [post]
func (h *UploadHandler) Presign(c *gin.Context) {
	var req PresignRequest
	if err := bind(c, &req); err != nil {
		Fail(c, err)
		return
	}
	upload, err := h.uploads.Presign(c.Request.Context(), middleware.CurrentUserID(c), service.PresignInput{
		Kind:        req.Kind,
		Filename:    req.Filename,
		ContentType: req.ContentType,
	})
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, upload)
}
