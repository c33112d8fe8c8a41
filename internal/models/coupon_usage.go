package models

import (
	"time"

	"gorm.io/gorm"
)

// CouponUsage 核销记录，下单事务内随优惠券置已用一并写入
type CouponUsage struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	CouponID       uint           `gorm:"index;not null" json:"coupon_id"`
	UserID         uint           `gorm:"index;not null" json:"user_id"`
	OrderID        uint           `gorm:"index;not null" json:"order_id"`
	DiscountAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"` // 实际抵扣金额
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName 指定表名
func (CouponUsage) TableName() string {
	return "coupon_usages"
}
