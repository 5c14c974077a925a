package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// tokenCookie 登录令牌 Cookie 的写入选项
// secure 为 true 时（release 模式）仅通过 HTTPS 传输
type tokenCookie struct {
	name   string
	secure bool
}

// set 写入 HttpOnly 令牌 Cookie，SameSite=Lax
func (tc tokenCookie) set(c *gin.Context, token string, expiresAt time.Time) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     tc.name,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		Secure:   tc.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// clear 删除令牌 Cookie
func (tc tokenCookie) clear(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     tc.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   tc.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
