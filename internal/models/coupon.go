package models

import (
	"time"

	"gorm.io/gorm"
)

// Coupon 优惠券
// 优惠券与单个用户绑定，仅持有者本人可以核销。
type Coupon struct {
	ID                 uint           `gorm:"primarykey" json:"id"`                                       // 主键
	Code               string         `gorm:"uniqueIndex;not null" json:"code"`                           // 优惠码
	Type               string         `gorm:"type:varchar(20);not null" json:"type"`                      // 类型（percentage/fixed）
	Value              Money          `gorm:"type:decimal(20,2);not null" json:"value"`                   // 数值（百分比或固定金额）
	UserID             uint           `gorm:"index;not null" json:"user_id"`                              // 持有者用户ID
	Kind               string         `gorm:"type:varchar(20);not null;default:'promo'" json:"kind"`      // 来源类型（welcome/promo）
	MaxUsagePerProduct int            `gorm:"not null;default:0" json:"max_usage_per_product"`            // 单商品适用上限（0 表示不限制）
	IsUsed             bool           `gorm:"not null;default:false;index" json:"is_used"`                // 是否已核销
	IsActive           bool           `gorm:"not null;default:true" json:"is_active"`                     // 是否启用
	ExpiresAt          *time.Time     `gorm:"index" json:"expires_at"`                                    // 失效时间
	UsedAt             *time.Time     `json:"used_at"`                                                    // 核销时间
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`                                    // 创建时间
	UpdatedAt          time.Time      `gorm:"index" json:"updated_at"`                                    // 更新时间
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`                                             // 软删除时间
}

// TableName 指定表名
func (Coupon) TableName() string {
	return "coupons"
}

// Expired 判断优惠券是否已过期
func (c *Coupon) Expired(now time.Time) bool {
	return c != nil && c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}
