package models

import (
	"time"

	"gorm.io/gorm"
)

// Admin 后台管理员账号。IsSuper 为真时跳过 RBAC 校验
type Admin struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	Username     string `gorm:"uniqueIndex;not null" json:"username"` // 登录账号
	PasswordHash string `gorm:"not null" json:"-"`
	IsSuper      bool   `gorm:"not null;default:false;index" json:"is_super"`

	// 改密后旧 Token 作废：版本号比对 + 签发时间下限
	TokenVersion       uint64     `gorm:"not null;default:0" json:"-"`
	TokenInvalidBefore *time.Time `gorm:"index" json:"-"`

	LastLoginAt *time.Time     `json:"last_login_at"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName 指定表名
func (Admin) TableName() string {
	return "admins"
}
