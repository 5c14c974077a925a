package middleware

import (
	"log/slog"
	"net/http"

	"daily/apperr"
	"daily/config"

	"github.com/gin-gonic/gin"
)

const internalErrorMessage = "服务器内部错误"

// ErrorHandler 统一渲染处理器通过 c.Error 记录的错误
// release 模式下内部错误只返回通用提示，详细信息写入日志
func ErrorHandler(mode string, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		appErr, ok := apperr.As(err)
		if !ok {
			appErr = apperr.Internal(err, internalErrorMessage)
		}
		status := appErr.Kind.Status()

		body := gin.H{"success": false, "message": appErr.Message}
		if len(appErr.Fields) > 0 {
			body["errors"] = appErr.Fields
		}
		if appErr.Reason != "" {
			body["reason"] = appErr.Reason
		}
		if status >= http.StatusInternalServerError {
			log.ErrorContext(c.Request.Context(), "请求处理失败",
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"request_id", c.GetString(RequestIDKey),
				"error", err,
			)
			if mode != config.ModeRelease && appErr.Kind == apperr.KindInternal {
				body["message"] = err.Error()
			}
		}
		c.JSON(status, body)
	}
}

// Recovery 捕获 panic，返回 500
func Recovery(log *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.ErrorContext(c.Request.Context(), "请求发生 panic",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"request_id", c.GetString(RequestIDKey),
			"panic", recovered,
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": internalErrorMessage,
		})
	})
}

// NotFound 未匹配的路由返回 JSON 404
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "接口不存在: " + c.Request.Method + " " + c.Request.URL.Path,
		})
	}
}
