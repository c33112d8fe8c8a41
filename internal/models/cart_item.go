package models

import (
	"time"

	"gorm.io/gorm"
)

// CartItem 购物车条目（同一用户同一商品唯一，重复加购覆盖数量）
type CartItem struct {
	ID        uint           `gorm:"primarykey" json:"id"`                                       // 主键
	UserID    uint           `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"user_id"`  // 用户 ID
	ProductID uint           `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"product_id"` // 商品 ID
	Quantity  int            `gorm:"not null;default:1" json:"quantity"`                         // 数量
	CreatedAt time.Time      `json:"created_at"`                                                 // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                                                 // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                             // 软删除时间

	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}
