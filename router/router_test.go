package router

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"daily/config"
	"daily/logging"
	"daily/middleware"
	"daily/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock, *config.Config) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	cfg.Server.Mode = config.ModeTest

	r := SetupRouter(Deps{
		Config:   cfg,
		DB:       db,
		Logger:   logging.Discard(),
		Registry: prometheus.NewRegistry(),
	})
	return r, mock, cfg
}

func request(r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func TestHealthAndIndex(t *testing.T) {
	r, _, _ := setupTestRouter(t)

	w := request(r, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["success"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = request(r, http.MethodGet, "/api", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bills")
}

func TestNotFound(t *testing.T) {
	r, _, _ := setupTestRouter(t)

	w := request(r, http.MethodGet, "/api/unknown/thing", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["success"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r, _, _ := setupTestRouter(t)

	for _, path := range []string{"/api/bills", "/api/todos", "/api/friends/birthdays", "/api/auth/profile"} {
		w := request(r, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		assert.Equal(t, "missing", decodeBody(t, w)["reason"], path)
	}

	w := request(r, http.MethodGet, "/api/bills", "not-a-jwt", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid", decodeBody(t, w)["reason"])
}

func TestAuthorizedRequestReachesHandler(t *testing.T) {
	r, mock, cfg := setupTestRouter(t)
	user := &models.User{ID: "u1", Username: "alice", Role: models.RoleUser, Status: models.UserStatusActive}
	token, _, err := middleware.NewTokenManager(cfg.JWT).Generate(user)
	require.NoError(t, err)

	userRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "username", "email", "role", "status", "created_at", "updated_at"}).
			AddRow("u1", "alice", "alice@example.com", "user", "active", time.Now(), time.Now())
	}

	mock.ExpectQuery("SELECT \\* FROM `users`").WillReturnRows(userRows())
	w := request(r, http.MethodGet, "/api", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", decodeBody(t, w)["data"].(map[string]any)["user"])

	// 上传未配置对象存储
	mock.ExpectQuery("SELECT \\* FROM `users`").WillReturnRows(userRows())
	w = request(r, http.MethodPost, "/api/uploads/presign", token, `{"kind":"food","filename":"a.png","contentType":"image/png"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code, w.Body.String())

	// 普通用户访问管理接口
	mock.ExpectQuery("SELECT \\* FROM `users`").WillReturnRows(userRows())
	w = request(r, http.MethodGet, "/api/admin/users", token, "")
	assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMetricsEndpoint(t *testing.T) {
	r, _, _ := setupTestRouter(t)

	request(r, http.MethodGet, "/health", "", "")
	w := request(r, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "daily_http_requests_total")
	assert.Contains(t, w.Body.String(), `route="/health"`)
}
