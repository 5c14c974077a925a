package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"daily/config"
	"daily/logging"
	"daily/middleware"
	"daily/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testUser = &models.User{ID: "u1", Username: "alice", Role: models.RoleUser, Status: models.UserStatusActive}

func init() {
	gin.SetMode(gin.TestMode)
	RegisterValidators()
}

// newMockDB 使用 sqlmock 构造 gorm 连接
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	return db, mock
}

// setUserMiddleware 模拟已登录用户
func setUserMiddleware(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user != nil {
			c.Set(middleware.ContextUserKey, user)
			c.Set(middleware.ContextUserIDKey, user.ID)
		}
		c.Next()
	}
}

// newTestRouter 带统一错误渲染与登录用户的路由
func newTestRouter(user *models.User) *gin.Engine {
	r := gin.New()
	r.Use(middleware.ErrorHandler(config.ModeTest, logging.Discard()), setUserMiddleware(user))
	return r
}

func perform(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

// fieldNames 取出 errors 中的字段名
func fieldNames(resp map[string]any) []string {
	var names []string
	list, _ := resp["errors"].([]any)
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			names = append(names, m["field"].(string))
		}
	}
	return names
}
