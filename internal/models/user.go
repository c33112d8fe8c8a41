package models

import (
	"time"

	"gorm.io/gorm"
)

// User 店铺注册用户，邮箱登录
type User struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	DisplayName  string `gorm:"default:''" json:"display_name"` // 昵称
	Locale       string `gorm:"default:'zh-CN'" json:"locale"`  // 界面/邮件语言偏好
	Status       string `gorm:"default:'active'" json:"status"` // active / disabled

	// 改密后旧 Token 作废：版本号比对 + 签发时间下限
	TokenVersion       uint64     `gorm:"not null;default:0" json:"-"`
	TokenInvalidBefore *time.Time `gorm:"index" json:"-"`

	LastLoginAt *time.Time     `json:"last_login_at"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
