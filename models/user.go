package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 用户角色
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	// UserStatusLocked 锁定：不可登录
	UserStatusLocked = "locked"
	// UserStatusActive 正常：可登录
	UserStatusActive = "active"
)

// User 用户模型
type User struct {
	ID          string         `json:"id" gorm:"primaryKey;size:36"`
	Username    string         `json:"username" gorm:"uniqueIndex;size:30;not null"`
	Email       string         `json:"email" gorm:"uniqueIndex;size:100;not null"`
	Password    string         `json:"-" gorm:"size:255;not null"`
	Role        string         `json:"role" gorm:"size:20;not null;default:user;index"`
	Status      string         `json:"status" gorm:"size:20;not null;default:active;index"`
	Nickname    string         `json:"nickname" gorm:"size:50"`
	Avatar      string         `json:"avatar" gorm:"size:500"`
	Phone       string         `json:"phone" gorm:"size:30"`
	Bio         string         `json:"bio" gorm:"size:500"`
	LastLoginAt *time.Time     `json:"lastLoginAt"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 设置表名
func (User) TableName() string {
	return "users"
}

// BeforeCreate 生成用户 ID 并补齐角色、状态
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	if u.Status == "" {
		u.Status = UserStatusActive
	}
	return nil
}

// IsAdmin 是否为管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsActive 是否可登录
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}
