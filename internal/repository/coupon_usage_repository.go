package repository

import (
	"github.com/lumishop/lumishop/internal/models"

	"gorm.io/gorm"
)

// CouponUsageRepository 优惠券核销记录数据访问
type CouponUsageRepository interface {
	Create(usage *models.CouponUsage) error
	ListByOrderID(orderID uint) ([]models.CouponUsage, error)
	List(filter CouponUsageListFilter) ([]models.CouponUsage, int64, error)
	DeleteByOrderID(orderID uint) error
	WithTx(tx *gorm.DB) CouponUsageRepository
}

// GormCouponUsageRepository GORM 实现
type GormCouponUsageRepository struct {
	db *gorm.DB
}

// NewCouponUsageRepository 创建核销记录仓库
func NewCouponUsageRepository(db *gorm.DB) *GormCouponUsageRepository {
	return &GormCouponUsageRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCouponUsageRepository) WithTx(tx *gorm.DB) CouponUsageRepository {
	if tx == nil {
		return r
	}
	return &GormCouponUsageRepository{db: tx}
}

// Create 写入一条核销记录
func (r *GormCouponUsageRepository) Create(usage *models.CouponUsage) error {
	return r.db.Create(usage).Error
}

// ListByOrderID 查询某订单关联的核销记录
func (r *GormCouponUsageRepository) ListByOrderID(orderID uint) ([]models.CouponUsage, error) {
	var usages []models.CouponUsage
	if err := r.db.Where("order_id = ?", orderID).Find(&usages).Error; err != nil {
		return nil, err
	}
	return usages, nil
}

// List 按用户或券筛选核销记录，新的排前面
func (r *GormCouponUsageRepository) List(filter CouponUsageListFilter) ([]models.CouponUsage, int64, error) {
	query := r.db.Model(&models.CouponUsage{})
	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.CouponID > 0 {
		query = query.Where("coupon_id = ?", filter.CouponID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var usages []models.CouponUsage
	err := applyPagination(query, filter.Page, filter.PageSize).
		Order("id desc").
		Find(&usages).Error
	if err != nil {
		return nil, 0, err
	}
	return usages, total, nil
}

// DeleteByOrderID 订单取消时清掉关联的核销记录
func (r *GormCouponUsageRepository) DeleteByOrderID(orderID uint) error {
	return r.db.Where("order_id = ?", orderID).Delete(&models.CouponUsage{}).Error
}
