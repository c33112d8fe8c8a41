package repository

import (
	"errors"
	"strings"

	"github.com/lumishop/lumishop/internal/constants"
	"github.com/lumishop/lumishop/internal/models"

	"gorm.io/gorm"
)

// ReviewRepository 评价数据访问接口
type ReviewRepository interface {
	GetByID(id uint) (*models.Review, error)
	GetByUserAndProduct(userID, productID uint) (*models.Review, error)
	Create(review *models.Review) error
	Update(review *models.Review) error
	Delete(id uint) error
	List(filter ReviewListFilter) ([]models.Review, int64, error)
	AggregateApproved(productID uint) (float64, int, error)
	IncrementHelpfulVotes(id uint) error
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) ReviewRepository
}

// GormReviewRepository GORM 实现
type GormReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository 创建评价仓库
func NewReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// WithTx 绑定事务
func (r *GormReviewRepository) WithTx(tx *gorm.DB) ReviewRepository {
	if tx == nil {
		return r
	}
	return &GormReviewRepository{db: tx}
}

// Transaction 执行事务
func (r *GormReviewRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// GetByID 根据ID获取评价
func (r *GormReviewRepository) GetByID(id uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.Preload("User").First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

// GetByUserAndProduct 获取用户对某商品的评价
func (r *GormReviewRepository) GetByUserAndProduct(userID, productID uint) (*models.Review, error) {
	var review models.Review
	err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

// Create 创建评价
func (r *GormReviewRepository) Create(review *models.Review) error {
	return r.db.Create(review).Error
}

// Update 更新评价
func (r *GormReviewRepository) Update(review *models.Review) error {
	return r.db.Save(review).Error
}

// Delete 删除评价
func (r *GormReviewRepository) Delete(id uint) error {
	return r.db.Delete(&models.Review{}, id).Error
}

// List 评价列表
func (r *GormReviewRepository) List(filter ReviewListFilter) ([]models.Review, int64, error) {
	var reviews []models.Review

	query := r.db.Model(&models.Review{}).Preload("User")
	if filter.ProductID > 0 {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if filter.MinRating > 0 {
		query = query.Where("rating >= ?", filter.MinRating)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("created_at DESC, id DESC").Find(&reviews).Error; err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// AggregateApproved 统计商品已通过评价的平均分与数量
func (r *GormReviewRepository) AggregateApproved(productID uint) (float64, int, error) {
	if productID == 0 {
		return 0, 0, errors.New("invalid product id")
	}
	var row struct {
		Avg   *float64
		Count int64
	}
	err := r.db.Model(&models.Review{}).
		Select("AVG(rating) AS avg, COUNT(*) AS count").
		Where("product_id = ? AND status = ?", productID, constants.ReviewStatusApproved).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	avg := 0.0
	if row.Avg != nil {
		avg = *row.Avg
	}
	return avg, int(row.Count), nil
}

// IncrementHelpfulVotes 点赞评价
func (r *GormReviewRepository) IncrementHelpfulVotes(id uint) error {
	return r.db.Model(&models.Review{}).
		Where("id = ?", id).
		UpdateColumn("helpful_votes", gorm.Expr("helpful_votes + 1")).Error
}
