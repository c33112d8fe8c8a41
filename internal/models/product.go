package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                      // 主键
	CategoryID      uint           `gorm:"not null;index" json:"category_id"`                         // 分类ID
	Slug            string         `gorm:"uniqueIndex;not null" json:"slug"`                          // 唯一标识
	TitleJSON       JSON           `gorm:"type:json;not null" json:"title"`                           // 多语言标题
	DescriptionJSON JSON           `gorm:"type:json" json:"description"`                              // 多语言描述
	PriceAmount     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price_amount"` // 价格金额
	Images          StringArray    `gorm:"type:json" json:"images"`                                   // 图片数组
	Tags            StringArray    `gorm:"type:json" json:"tags"`                                     // 标签数组
	CountInStock    int            `gorm:"not null;default:0" json:"count_in_stock"`                  // 库存数量
	Rating          float64        `gorm:"type:decimal(3,2);not null;default:0" json:"rating"`        // 平均评分（仅统计已通过评价）
	NumReviews      int            `gorm:"not null;default:0" json:"num_reviews"`                     // 已通过评价数量
	TotalRatings    int            `gorm:"not null;default:0" json:"total_ratings"`                   // 参与评分数量（与 NumReviews 同步维护）
	IsActive        bool           `gorm:"default:true;index" json:"is_active"`                       // 是否上架
	SortOrder       int            `gorm:"default:0;index" json:"sort_order"`                         // 排序权重
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt       time.Time      `json:"updated_at"`                                                // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间

	// 关联
	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // 分类信息
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// InStock 判断是否有库存
func (p *Product) InStock() bool {
	return p != nil && p.CountInStock > 0
}
