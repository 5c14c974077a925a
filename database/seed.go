package database

import (
	"context"
	"fmt"
	"log/slog"

	"daily/config"
	"daily/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seed 初始化默认类别与管理员账号（仅当对应表为空时）
func Seed(ctx context.Context, db *gorm.DB, cfg config.SeedConfig, log *slog.Logger) error {
	db = db.WithContext(ctx)

	if err := seedReferences(db, &models.BillCategory{}, models.DefaultBillCategories(), func(r models.Reference) any {
		return &models.BillCategory{Reference: r}
	}); err != nil {
		return fmt.Errorf("账单类别: %w", err)
	}
	if err := seedReferences(db, &models.NoteType{}, models.DefaultNoteTypes(), func(r models.Reference) any {
		return &models.NoteType{Reference: r}
	}); err != nil {
		return fmt.Errorf("笔记类型: %w", err)
	}
	if err := seedReferences(db, &models.FoodCategory{}, models.DefaultFoodCategories(), func(r models.Reference) any {
		return &models.FoodCategory{Reference: r}
	}); err != nil {
		return fmt.Errorf("食物类别: %w", err)
	}

	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return nil
	}
	var admins int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&admins).Error; err != nil {
		return err
	}
	if admins > 0 {
		return nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.User{
		Username: cfg.AdminUsername,
		Email:    cfg.AdminEmail,
		Password: string(hashed),
		Role:     models.RoleAdmin,
		Status:   models.UserStatusActive,
		Nickname: "管理员",
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("创建管理员失败: %w", err)
	}
	log.Warn("已创建默认管理员账号，请尽快修改密码", "username", admin.Username)
	return nil
}

func seedReferences(db *gorm.DB, model any, defaults []models.SeedCategory, build func(models.Reference) any) error {
	var count int64
	if err := db.Model(model).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for i, c := range defaults {
			row := build(models.Reference{
				Name:     c.Name,
				Icon:     c.Icon,
				Color:    c.Color,
				Sort:     (i + 1) * 10,
				IsActive: true,
			})
			if err := tx.Create(row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
