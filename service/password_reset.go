package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"daily/apperr"
	"daily/models"

	"gorm.io/gorm"
)

// ResetTokenTTL 重置令牌有效期
const ResetTokenTTL = 30 * time.Minute

// PasswordResetService 邮件找回密码
type PasswordResetService struct {
	db      *gorm.DB
	mailer  Mailer
	baseURL string
	log     *slog.Logger
	now     func() time.Time
}

// NewPasswordResetService 创建找回密码服务
func NewPasswordResetService(db *gorm.DB, mailer Mailer, baseURL string, log *slog.Logger) *PasswordResetService {
	return &PasswordResetService{
		db:      db,
		mailer:  mailer,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
		now:     time.Now,
	}
}

// RequestReset 生成令牌并发送邮件；邮箱未注册时同样返回成功，避免暴露账号是否存在
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	db := s.db.WithContext(ctx)
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	err := db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.log.InfoContext(ctx, "找回密码邮箱未注册", "email", email)
		return nil
	}
	if err != nil {
		return fmt.Errorf("查询用户失败: %w", err)
	}

	token, err := models.GenerateToken()
	if err != nil {
		return fmt.Errorf("生成令牌失败: %w", err)
	}
	reset := models.PasswordReset{
		UserID:    user.ID,
		TokenHash: models.HashToken(token),
		Email:     email,
		ExpiresAt: s.now().Add(ResetTokenTTL),
	}
	if err := db.Create(&reset).Error; err != nil {
		return fmt.Errorf("保存重置令牌失败: %w", err)
	}

	link := s.baseURL + "/#/reset-password?token=" + url.QueryEscape(token)
	if err := s.mailer.SendPasswordResetEmail(email, user.Username, link); err != nil {
		// 邮件发送失败，令牌作废
		db.Model(&reset).Update("used", true)
		return err
	}
	return nil
}

// ResetPassword 使用令牌设置新密码，令牌只能使用一次
func (s *PasswordResetService) ResetPassword(ctx context.Context, token, newPassword string) error {
	invalid := apperr.Validation("重置链接无效或已过期", apperr.FieldError{Field: "token", Message: "无效或已过期"})
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reset models.PasswordReset
		err := tx.Where("token_hash = ?", models.HashToken(token)).First(&reset).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return invalid
		}
		if err != nil {
			return fmt.Errorf("查询重置令牌失败: %w", err)
		}
		if !reset.IsValid(s.now()) {
			return invalid
		}
		res := tx.Model(&reset).Where("used = ?", false).Update("used", true)
		if res.Error != nil {
			return fmt.Errorf("更新重置令牌失败: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return invalid
		}
		users := &UserService{db: tx, now: s.now}
		return users.SetPassword(ctx, reset.UserID, newPassword)
	})
}
