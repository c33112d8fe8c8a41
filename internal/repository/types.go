package repository

import "time"

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page         int
	PageSize     int
	CategoryID   string
	Search       string
	InStockOnly  bool
	OnlyActive   bool
	WithCategory bool
}

// ReviewListFilter 查询评价列表的过滤条件
type ReviewListFilter struct {
	Page        int
	PageSize    int
	ProductID   uint
	UserID      uint
	Status      string
	MinRating   int
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// CouponListFilter 查询优惠券列表的过滤条件
type CouponListFilter struct {
	Page     int
	PageSize int
	Code     string
	UserID   uint
	Kind     string
	IsUsed   *bool
	IsActive *bool
}

// CouponUsageListFilter 查询优惠券使用记录列表的过滤条件
type CouponUsageListFilter struct {
	Page     int
	PageSize int
	UserID   uint
	CouponID uint
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	Status      string
	OrderNo     string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page        int
	PageSize    int
	Keyword     string
	Status      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// StockSubscriptionListFilter 查询到货订阅列表的过滤条件
type StockSubscriptionListFilter struct {
	Page      int
	PageSize  int
	ProductID uint
	Email     string
	Notified  *bool
}
