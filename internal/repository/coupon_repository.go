package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/lumishop/lumishop/internal/models"

	"gorm.io/gorm"
)

// CouponRepository 优惠券数据访问。单条查询查无返回 (nil, nil)
type CouponRepository interface {
	GetByID(id uint) (*models.Coupon, error)
	GetByCode(code string) (*models.Coupon, error)
	Create(coupon *models.Coupon) error
	Update(coupon *models.Coupon) error
	Delete(id uint) error
	List(filter CouponListFilter) ([]models.Coupon, int64, error)
	MarkUsed(id uint, usedAt time.Time) (int64, error)
	WithTx(tx *gorm.DB) CouponRepository
}

// GormCouponRepository GORM 实现
type GormCouponRepository struct {
	db *gorm.DB
}

// NewCouponRepository 创建优惠券仓库
func NewCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCouponRepository) WithTx(tx *gorm.DB) CouponRepository {
	if tx == nil {
		return r
	}
	return &GormCouponRepository{db: tx}
}

func (r *GormCouponRepository) first(query *gorm.DB) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := query.First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &coupon, nil
}

// GetByID 按 ID 查询优惠券
func (r *GormCouponRepository) GetByID(id uint) (*models.Coupon, error) {
	return r.first(r.db.Where("id = ?", id))
}

// GetByCode 按券码查询优惠券
func (r *GormCouponRepository) GetByCode(code string) (*models.Coupon, error) {
	return r.first(r.db.Where("code = ?", code))
}

// Create 创建优惠券
func (r *GormCouponRepository) Create(coupon *models.Coupon) error {
	return r.db.Create(coupon).Error
}

// Update 更新优惠券
func (r *GormCouponRepository) Update(coupon *models.Coupon) error {
	return r.db.Save(coupon).Error
}

// Delete 删除优惠券
func (r *GormCouponRepository) Delete(id uint) error {
	return r.db.Delete(&models.Coupon{}, id).Error
}

// List 按筛选条件分页查询优惠券，新发的排前面
func (r *GormCouponRepository) List(filter CouponListFilter) ([]models.Coupon, int64, error) {
	query := r.db.Model(&models.Coupon{})
	if code := strings.TrimSpace(filter.Code); code != "" {
		query = query.Where("code = ?", code)
	}
	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if kind := strings.TrimSpace(filter.Kind); kind != "" {
		query = query.Where("kind = ?", kind)
	}
	if filter.IsUsed != nil {
		query = query.Where("is_used = ?", *filter.IsUsed)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var coupons []models.Coupon
	err := applyPagination(query, filter.Page, filter.PageSize).
		Order("id desc").
		Find(&coupons).Error
	if err != nil {
		return nil, 0, err
	}
	return coupons, total, nil
}

// MarkUsed 核销优惠券。条件带 is_used=false，重复核销影响 0 行
func (r *GormCouponRepository) MarkUsed(id uint, usedAt time.Time) (int64, error) {
	if id == 0 {
		return 0, errors.New("invalid coupon id")
	}
	result := r.db.Model(&models.Coupon{}).
		Where("id = ? AND is_used = ?", id, false).
		Updates(map[string]any{
			"is_used": true,
			"used_at": usedAt,
		})
	return result.RowsAffected, result.Error
}
