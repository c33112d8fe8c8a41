package models

import (
	"time"

	"gorm.io/gorm"
)

// StockSubscription 到货提醒订阅
// 商品缺货时由访客登记，补货后发送一次提醒并标记 notified。
type StockSubscription struct {
	ID         uint           `gorm:"primarykey" json:"id"`                                            // 主键
	ProductID  uint           `gorm:"not null;uniqueIndex:idx_stock_subs_product_email" json:"product_id"` // 商品ID
	Email      string         `gorm:"not null;uniqueIndex:idx_stock_subs_product_email" json:"email"`  // 订阅邮箱
	Notified   bool           `gorm:"not null;default:false;index" json:"notified"`                    // 是否已提醒
	NotifiedAt *time.Time     `json:"notified_at"`                                                     // 提醒时间
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`                                         // 创建时间
	UpdatedAt  time.Time      `json:"updated_at"`                                                      // 更新时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                                                  // 软删除时间
}

// TableName 指定表名
func (StockSubscription) TableName() string {
	return "stock_subscriptions"
}
