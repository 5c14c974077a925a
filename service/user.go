package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"daily/apperr"
	"daily/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrInvalidCredentials 用户名或密码错误
var ErrInvalidCredentials = apperr.Unauthenticated(apperr.ReasonInvalid, "用户名或密码错误")

// UserService 用户与认证
type UserService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewUserService 创建用户服务
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db, now: time.Now}
}

// RegisterInput 注册输入
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Nickname string
}

// Register 注册新用户，用户名与邮箱不可重复
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	db := s.db.WithContext(ctx)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	var existing models.User
	err := db.Where("username = ? OR email = ?", in.Username, email).First(&existing).Error
	switch {
	case err == nil:
		if existing.Username == in.Username {
			return nil, apperr.Conflict("用户名已存在")
		}
		return nil, apperr.Conflict("邮箱已被注册")
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("密码加密失败: %w", err)
	}
	user := &models.User{
		Username: in.Username,
		Email:    email,
		Password: string(hashed),
		Nickname: in.Nickname,
		Role:     models.RoleUser,
		Status:   models.UserStatusActive,
	}
	if err := db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("创建用户失败: %w", err)
	}
	return user, nil
}

// Authenticate 使用用户名或邮箱登录
func (s *UserService) Authenticate(ctx context.Context, account, password string) (*models.User, error) {
	db := s.db.WithContext(ctx)
	var user models.User
	err := db.Where("username = ? OR email = ?", account, strings.ToLower(account)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive() {
		return nil, apperr.Forbidden("账号已被锁定，请联系管理员")
	}
	now := s.now()
	if err := db.Model(&user).UpdateColumn("last_login_at", now).Error; err != nil {
		return nil, fmt.Errorf("更新登录时间失败: %w", err)
	}
	user.LastLoginAt = &now
	return &user, nil
}

// LoadIdentity 每次请求按令牌中的用户 ID 加载用户
func (s *UserService) LoadIdentity(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, apperr.FromDB(err, "用户不存在")
	}
	return &user, nil
}

// ProfileInput 个人资料，nil 表示不修改
type ProfileInput struct {
	Nickname *string
	Avatar   *string
	Phone    *string
	Bio      *string
}

// UpdateProfile 更新个人资料
func (s *UserService) UpdateProfile(ctx context.Context, id string, in ProfileInput) (*models.User, error) {
	user, err := s.LoadIdentity(ctx, id)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if in.Nickname != nil {
		updates["nickname"] = *in.Nickname
	}
	if in.Avatar != nil {
		updates["avatar"] = *in.Avatar
	}
	if in.Phone != nil {
		updates["phone"] = *in.Phone
	}
	if in.Bio != nil {
		updates["bio"] = *in.Bio
	}
	if len(updates) == 0 {
		return user, nil
	}
	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("更新资料失败: %w", err)
	}
	return s.LoadIdentity(ctx, id)
}

// ChangePassword 校验旧密码后修改密码
func (s *UserService) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	user, err := s.LoadIdentity(ctx, id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return apperr.Validation("原密码错误", apperr.FieldError{Field: "oldPassword", Message: "原密码错误"})
	}
	return s.SetPassword(ctx, id, newPassword)
}

// SetPassword 直接设置新密码
func (s *UserService) SetPassword(ctx context.Context, id, password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("密码加密失败: %w", err)
	}
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("password", string(hashed))
	if res.Error != nil {
		return fmt.Errorf("修改密码失败: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("用户不存在")
	}
	return nil
}

// List 管理员查看用户列表
func (s *UserService) List(ctx context.Context, q ListQuery) ([]models.User, Pagination, error) {
	q = q.Normalize()
	tx := s.db.WithContext(ctx).Model(&models.User{}).
		Scopes(Search(q.Search, "username", "email", "nickname")).
		Session(&gorm.Session{})
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, Pagination{}, fmt.Errorf("统计用户失败: %w", err)
	}
	users := make([]models.User, 0, q.Limit)
	if err := tx.Order("created_at DESC").Offset(q.Offset()).Limit(q.Limit).Find(&users).Error; err != nil {
		return nil, Pagination{}, fmt.Errorf("查询用户失败: %w", err)
	}
	return users, NewPagination(q.Page, q.Limit, total), nil
}

// SetRole 设置角色
func (s *UserService) SetRole(ctx context.Context, actorID, id, role string) (*models.User, error) {
	if role != models.RoleAdmin && role != models.RoleUser {
		return nil, apperr.Validation("角色无效", apperr.FieldError{Field: "role", Message: "只能是 user 或 admin"})
	}
	if actorID == id && role != models.RoleAdmin {
		return nil, apperr.Validation("不能取消自己的管理员权限")
	}
	return s.updateColumn(ctx, id, "role", role)
}

// SetStatus 锁定/解锁用户
func (s *UserService) SetStatus(ctx context.Context, actorID, id, status string) (*models.User, error) {
	if status != models.UserStatusActive && status != models.UserStatusLocked {
		return nil, apperr.Validation("状态无效", apperr.FieldError{Field: "status", Message: "只能是 active 或 locked"})
	}
	if actorID == id && status == models.UserStatusLocked {
		return nil, apperr.Validation("不能锁定自己")
	}
	return s.updateColumn(ctx, id, "status", status)
}

func (s *UserService) updateColumn(ctx context.Context, id, column, value string) (*models.User, error) {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return nil, fmt.Errorf("更新用户失败: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("用户不存在")
	}
	return s.LoadIdentity(ctx, id)
}
