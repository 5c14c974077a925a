package api

import (
	"net/http"
	"testing"
	"time"

	"daily/config"
	"daily/middleware"
	"daily/models"
	"daily/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var userColumns = []string{"id", "username", "email", "password", "role", "status", "created_at", "updated_at"}

func newAuthTestRouter(t *testing.T, user *models.User) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)
	tokens := middleware.NewTokenManager(config.JWTConfig{Secret: "test-secret-0123456789", ExpireTime: time.Hour, CookieName: "token"})
	h := NewAuthHandler(service.NewUserService(db), tokens, false)

	r := newTestRouter(user)
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/logout", h.Logout)
	r.GET("/auth/profile", h.GetProfile)
	r.PUT("/auth/password", h.ChangePassword)
	return r, mock
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hashed)
}

func TestAuthHandler_Register(t *testing.T) {
	r, mock := newAuthTestRouter(t, nil)
	mock.ExpectQuery("SELECT \\* FROM `users`").WillReturnRows(sqlmock.NewRows(userColumns))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := perform(r, http.MethodPost, "/auth/register", `{"username":"alice_01","email":"Alice@Example.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	data := decode(t, w)["data"].(map[string]any)
	assert.NotEmpty(t, data["token"])
	user := data["user"].(map[string]any)
	assert.Equal(t, "alice_01", user["username"])
	assert.Equal(t, "alice@example.com", user["email"])
	assert.Equal(t, "user", user["role"])
	assert.NotContains(t, user, "password")

	cookie := w.Header().Get("Set-Cookie")
	assert.Contains(t, cookie, "token=")
	assert.Contains(t, cookie, "HttpOnly")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_RegisterValidation(t *testing.T) {
	r, _ := newAuthTestRouter(t, nil)

	w := perform(r, http.MethodPost, "/auth/register", `{"username":"ab","email":"not-an-email","password":"123456"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.ElementsMatch(t, []string{"username", "email", "password"}, fieldNames(resp))
}

func TestAuthHandler_RegisterConflict(t *testing.T) {
	r, mock := newAuthTestRouter(t, nil)
	mock.ExpectQuery("SELECT \\* FROM `users`").WillReturnRows(
		sqlmock.NewRows(userColumns).AddRow("u9", "alice_01", "other@example.com", "x", "user", "active", time.Now(), time.Now()))

	w := perform(r, http.MethodPost, "/auth/register", `{"username":"alice_01","email":"alice@example.com","password":"secret1"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "用户名已存在", decode(t, w)["message"])
}

func TestAuthHandler_Login(t *testing.T) {
	hashed := hashPassword(t, "secret1")

	t.Run("成功", func(t *testing.T) {
		r, mock := newAuthTestRouter(t, nil)
		mock.ExpectQuery("SELECT \\* FROM `users`").WillReturnRows(
			sqlmock.NewRows(userColumns).AddRow("u1", "alice", "alice@example.com", hashed, "user", "active", time.Now(), time.Now()))
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE `users` SET `last_login_at`").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		w := perform(r, http.MethodPost, "/auth/login", `{"username":"alice","password":"secret1"}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		resp := decode(t, w)
		assert.Equal(t, "登录成功", resp["message"])
		assert.NotEmpty(t, resp["data"].(map[string]any)["token"])
		assert.Contains(t, w.Header().Get("Set-Cookie"), "token=")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("密码错误", func(t *testing.T) {
		r, mock := newAuthTestRouter(t, nil)
		mock.ExpectQuery("SELECT \\* FROM `users`").WillReturnRows(
			sqlmock.NewRows(userColumns).AddRow("u1", "alice", "alice@example.com", hashed, "user", "active", time.Now(), time.Now()))

		w := perform(r, http.MethodPost, "/auth/login", `{"username":"alice","password":"wrong1"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		resp := decode(t, w)
		assert.Equal(t, "invalid", resp["reason"])
		assert.Empty(t, w.Header().Get("Set-Cookie"))
	})

	t.Run("账号锁定", func(t *testing.T) {
		r, mock := newAuthTestRouter(t, nil)
		mock.ExpectQuery("SELECT \\* FROM `users`").WillReturnRows(
			sqlmock.NewRows(userColumns).AddRow("u1", "alice", "alice@example.com", hashed, "user", "locked", time.Now(), time.Now()))

		w := perform(r, http.MethodPost, "/auth/login", `{"username":"alice","password":"secret1"}`)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestAuthHandler_LogoutClearsCookie(t *testing.T) {
	r, _ := newAuthTestRouter(t, nil)

	w := perform(r, http.MethodPost, "/auth/logout", "")
	assert.Equal(t, http.StatusOK, w.Code)
	cookie := w.Header().Get("Set-Cookie")
	assert.Contains(t, cookie, "token=;")
	assert.Contains(t, cookie, "Max-Age=0")
}

func TestAuthHandler_Profile(t *testing.T) {
	r, _ := newAuthTestRouter(t, testUser)

	w := perform(r, http.MethodGet, "/auth/profile", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", decode(t, w)["data"].(map[string]any)["username"])
}

func TestAuthHandler_ChangePasswordValidation(t *testing.T) {
	r, _ := newAuthTestRouter(t, testUser)

	w := perform(r, http.MethodPut, "/auth/password", `{"oldPassword":"secret1","newPassword":"abcdef"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"newPassword"}, fieldNames(decode(t, w)))
}
