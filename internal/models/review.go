package models

import (
	"time"

	"gorm.io/gorm"
)

// Review 商品评价表
// 每个用户对每个商品至多一条评价，由 (user_id, product_id) 唯一索引保证。
type Review struct {
	ID               uint           `gorm:"primarykey" json:"id"`                                            // 主键
	ProductID        uint           `gorm:"not null;uniqueIndex:idx_reviews_user_product" json:"product_id"` // 商品ID
	UserID           uint           `gorm:"not null;uniqueIndex:idx_reviews_user_product" json:"user_id"`    // 用户ID
	Rating           int            `gorm:"not null" json:"rating"`                                          // 评分（1-5）
	Title            string         `gorm:"type:varchar(200)" json:"title"`                                  // 标题
	Comment          string         `gorm:"type:text" json:"comment"`                                        // 评价内容
	Images           StringArray    `gorm:"type:json" json:"images"`                                         // 图片数组
	VerifiedPurchase bool           `gorm:"not null;default:false" json:"verified_purchase"`                 // 是否已购买（创建时根据订单历史推导）
	Status           string         `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"` // 审核状态（pending/approved/rejected）
	HelpfulVotes     int            `gorm:"not null;default:0" json:"helpful_votes"`                         // 有用票数
	AdminResponse    string         `gorm:"type:text" json:"admin_response"`                                 // 官方回复
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`                                         // 创建时间
	UpdatedAt        time.Time      `gorm:"index" json:"updated_at"`                                         // 更新时间
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`                                                  // 软删除时间

	// 关联
	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`       // 评价用户
	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 评价商品
}

// TableName 指定表名
func (Review) TableName() string {
	return "reviews"
}
