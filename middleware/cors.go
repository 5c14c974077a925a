package middleware

import (
	"net"
	"net/http"
	"net/url"
	"slices"

	"daily/config"

	"github.com/gin-gonic/gin"
)

const (
	corsAllowHeaders = "Content-Type, Content-Length, Accept-Encoding, Authorization, x-auth-token, X-Request-ID, accept, origin, Cache-Control, X-Requested-With"
	corsAllowMethods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
)

// CORS 跨域中间件：只允许白名单中的来源携带凭证访问
// debug 模式且开启 allow_private_network 时，额外放行 localhost 与局域网地址
func CORS(cfg config.CORSConfig, mode string) gin.HandlerFunc {
	allowPrivate := cfg.AllowPrivateNetwork && mode == config.ModeDebug
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		h := c.Writer.Header()
		h.Add("Vary", "Origin")

		if origin != "" && (slices.Contains(cfg.AllowedOrigins, origin) || (allowPrivate && isPrivateOrigin(origin))) {
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
			h.Set("Access-Control-Allow-Methods", corsAllowMethods)
			h.Set("Access-Control-Expose-Headers", "X-Request-ID, Content-Disposition")
			h.Set("Access-Control-Max-Age", "600")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func isPrivateOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil || u.Hostname() == "" {
		return false
	}
	host := u.Hostname()
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && (ip.IsLoopback() || ip.IsPrivate())
}
