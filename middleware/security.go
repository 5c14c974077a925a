package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// SecurityHeadersConfig 安全响应头
type SecurityHeadersConfig struct {
	XFrameOptions       string
	XContentTypeOptions string
	ReferrerPolicy      string
	PermissionsPolicy   string
	CrossOriginOpener   string
	HSTSMaxAge          int
}

// DefaultSecurityHeaders 默认安全响应头
func DefaultSecurityHeaders() SecurityHeadersConfig {
	return SecurityHeadersConfig{
		XFrameOptions:       "DENY",
		XContentTypeOptions: "nosniff",
		ReferrerPolicy:      "strict-origin-when-cross-origin",
		PermissionsPolicy:   "geolocation=(), microphone=(), camera=(), payment=()",
		CrossOriginOpener:   "same-origin",
		HSTSMaxAge:          31536000,
	}
}

// SecurityHeaders 设置安全响应头，HSTS 只在 HTTPS 下发送
func SecurityHeaders(cfg SecurityHeadersConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", cfg.XContentTypeOptions)
		h.Set("X-Frame-Options", cfg.XFrameOptions)
		h.Set("Referrer-Policy", cfg.ReferrerPolicy)
		h.Set("Permissions-Policy", cfg.PermissionsPolicy)
		h.Set("Cross-Origin-Opener-Policy", cfg.CrossOriginOpener)
		if c.Request.TLS != nil && cfg.HSTSMaxAge > 0 {
			h.Set("Strict-Transport-Security", fmt.Sprintf("max-age=%d; includeSubDomains", cfg.HSTSMaxAge))
		}
		c.Next()
	}
}
