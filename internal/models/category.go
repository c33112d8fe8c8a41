package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// JSON 存多语言文案的键值列，键为 locale
type JSON map[string]any

// Value 实现 driver.Valuer 接口
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan 实现 sql.Scanner 接口
func (j *JSON) Scan(value any) error {
	if value == nil {
		*j = make(JSON)
		return nil
	}
	raw, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(raw, j)
}

// StringArray 以 JSON 落库的字符串数组列（商品图片、标签）
type StringArray []string

// Value 实现 driver.Valuer 接口
func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan 实现 sql.Scanner 接口
func (s *StringArray) Scan(value any) error {
	if value == nil {
		*s = StringArray{}
		return nil
	}
	raw, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(raw, s)
}

// Category 商品分类
type Category struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Slug      string         `gorm:"uniqueIndex;not null" json:"slug"`
	NameJSON  JSON           `gorm:"type:json;not null" json:"name"`    // 多语言名称
	Icon      string         `gorm:"type:varchar(500)" json:"icon"`     // 图标地址
	SortOrder int            `gorm:"default:0;index" json:"sort_order"` // 越大越靠前
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName 指定表名
func (Category) TableName() string {
	return "categories"
}
