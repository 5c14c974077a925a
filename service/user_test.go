package service

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"daily/apperr"
	"daily/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var userColumns = []string{"id", "username", "email", "password", "role", "status"}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hashed)
}

func TestUserService_RegisterDuplicate(t *testing.T) {
	tests := []struct {
		name     string
		existing []driver.Value
		message  string
	}{
		{"用户名重复", []driver.Value{"u1", "alice", "other@example.com", "x", models.RoleUser, models.UserStatusActive}, "用户名已存在"},
		{"邮箱重复", []driver.Value{"u1", "bob", "alice@example.com", "x", models.RoleUser, models.UserStatusActive}, "邮箱已被注册"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			mock.ExpectQuery("SELECT \\* FROM `users` WHERE \\(username = \\? OR email = \\?\\)").
				WillReturnRows(sqlmock.NewRows(userColumns).AddRow(tt.existing...))

			_, err := NewUserService(db).Register(context.Background(), RegisterInput{
				Username: "alice", Email: "Alice@Example.com", Password: "secret123",
			})
			require.Error(t, err)
			assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
			assert.Contains(t, err.Error(), tt.message)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserService_Register(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT \\* FROM `users`").
		WillReturnRows(sqlmock.NewRows(userColumns))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	user, err := NewUserService(db).Register(context.Background(), RegisterInput{
		Username: "alice", Email: " Alice@Example.com ", Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "secret123", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret123")))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_Authenticate(t *testing.T) {
	hashed := hashPassword(t, "secret123")
	fixed := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	t.Run("登录成功并记录时间", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("SELECT \\* FROM `users`").
			WillReturnRows(sqlmock.NewRows(userColumns).AddRow("u1", "alice", "alice@example.com", hashed, models.RoleUser, models.UserStatusActive))
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE `users` SET `last_login_at`=\\?").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		svc := NewUserService(db)
		svc.now = func() time.Time { return fixed }
		user, err := svc.Authenticate(context.Background(), "alice", "secret123")
		require.NoError(t, err)
		require.NotNil(t, user.LastLoginAt)
		assert.True(t, user.LastLoginAt.Equal(fixed))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("密码错误", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("SELECT \\* FROM `users`").
			WillReturnRows(sqlmock.NewRows(userColumns).AddRow("u1", "alice", "alice@example.com", hashed, models.RoleUser, models.UserStatusActive))

		_, err := NewUserService(db).Authenticate(context.Background(), "alice", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("用户不存在", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("SELECT \\* FROM `users`").WillReturnRows(sqlmock.NewRows(userColumns))

		_, err := NewUserService(db).Authenticate(context.Background(), "nobody", "secret123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("账号锁定", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("SELECT \\* FROM `users`").
			WillReturnRows(sqlmock.NewRows(userColumns).AddRow("u1", "alice", "alice@example.com", hashed, models.RoleUser, models.UserStatusLocked))

		_, err := NewUserService(db).Authenticate(context.Background(), "alice", "secret123")
		assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	})
}

func TestUserService_CannotDemoteSelf(t *testing.T) {
	db, _ := newMockDB(t)
	svc := NewUserService(db)

	_, err := svc.SetRole(context.Background(), "u1", "u1", models.RoleUser)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.SetStatus(context.Background(), "u1", "u1", models.UserStatusLocked)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.SetRole(context.Background(), "u1", "u2", "root")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}
