package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"daily/apperr"
	"daily/config"
	"daily/logging"
	"daily/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLoader map[string]*models.User

func (f fakeLoader) LoadIdentity(_ context.Context, id string) (*models.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, apperr.NotFound("用户不存在")
}

func newAuthRouter(tokens *TokenManager, users IdentityLoader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandler(config.ModeTest, logging.Discard()))
	router.GET("/protected", Auth(tokens, users), func(c *gin.Context) {
		c.String(200, "id:%s", CurrentUserID(c))
	})
	router.GET("/admin", Auth(tokens, users), RequireRole(models.RoleAdmin), func(c *gin.Context) {
		c.String(200, "admin")
	})
	router.GET("/optional", OptionalAuth(tokens, users), func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.String(200, "anonymous")
			return
		}
		c.String(200, CurrentUser(c).Username)
	})
	return router
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAuth(t *testing.T) {
	tokens := newTestTokenManager()
	users := fakeLoader{
		"u1": {ID: "u1", Username: "alice", Role: models.RoleUser, Status: models.UserStatusActive},
		"u2": {ID: "u2", Username: "root", Role: models.RoleAdmin, Status: models.UserStatusActive},
		"u3": {ID: "u3", Username: "locked", Role: models.RoleUser, Status: models.UserStatusLocked},
	}
	router := newAuthRouter(tokens, users)
	tokenFor := func(id string) string {
		token, _, err := tokens.Generate(&models.User{ID: id})
		require.NoError(t, err)
		return token
	}
	do := func(path string, setup func(*http.Request)) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", path, nil)
		if setup != nil {
			setup(req)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	// 无 token
	w := do("/protected", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "missing", decodeBody(t, w)["reason"])

	// 格式错误（非 Bearer）
	w = do("/protected", func(r *http.Request) { r.Header.Set("Authorization", "Basic xyz") })
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 无效 token
	w = do("/protected", func(r *http.Request) { r.Header.Set("Authorization", "Bearer garbage") })
	assert.Equal(t, "invalid", decodeBody(t, w)["reason"])

	// Bearer
	w = do("/protected", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+tokenFor("u1")) })
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "id:u1", w.Body.String())

	// Cookie
	w = do("/protected", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "token", Value: tokenFor("u1")}) })
	assert.Equal(t, "id:u1", w.Body.String())

	// x-auth-token
	w = do("/protected", func(r *http.Request) { r.Header.Set("x-auth-token", tokenFor("u1")) })
	assert.Equal(t, "id:u1", w.Body.String())

	// 用户已被删除
	w = do("/protected", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+tokenFor("gone")) })
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid", decodeBody(t, w)["reason"])

	// 账号锁定：令牌失效，客户端据此清除本地令牌
	w = do("/protected", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+tokenFor("u3")) })
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid", decodeBody(t, w)["reason"])
	assert.Equal(t, "账号已被锁定，请联系管理员", decodeBody(t, w)["message"])

	// 角色
	w = do("/admin", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+tokenFor("u1")) })
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = do("/admin", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+tokenFor("u2")) })
	assert.Equal(t, 200, w.Code)

	// 可选认证
	assert.Equal(t, "anonymous", do("/optional", nil).Body.String())
	w = do("/optional", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+tokenFor("u1")) })
	assert.Equal(t, "alice", w.Body.String())
}

func TestCurrentUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, "", CurrentUserID(c))
	assert.Nil(t, CurrentUser(c))

	setCurrentUser(c, &models.User{ID: "u99"})
	assert.Equal(t, "u99", CurrentUserID(c))
	assert.Equal(t, "u99", CurrentUser(c).ID)
}
