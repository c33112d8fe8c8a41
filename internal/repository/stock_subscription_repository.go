package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/lumishop/lumishop/internal/models"

	"gorm.io/gorm"
)

// StockSubscriptionRepository 到货订阅数据访问接口
type StockSubscriptionRepository interface {
	GetByProductAndEmail(productID uint, email string) (*models.StockSubscription, error)
	Upsert(sub *models.StockSubscription) error
	ListPending(productID uint, limit int) ([]models.StockSubscription, error)
	MarkNotified(ids []uint, notifiedAt time.Time) (int64, error)
	List(filter StockSubscriptionListFilter) ([]models.StockSubscription, int64, error)
	DeleteByProductAndEmail(productID uint, email string) error
	WithTx(tx *gorm.DB) StockSubscriptionRepository
}

// GormStockSubscriptionRepository GORM 实现
type GormStockSubscriptionRepository struct {
	db *gorm.DB
}

// NewStockSubscriptionRepository 创建到货订阅仓库
func NewStockSubscriptionRepository(db *gorm.DB) *GormStockSubscriptionRepository {
	return &GormStockSubscriptionRepository{db: db}
}

// WithTx 绑定事务
func (r *GormStockSubscriptionRepository) WithTx(tx *gorm.DB) StockSubscriptionRepository {
	if tx == nil {
		return r
	}
	return &GormStockSubscriptionRepository{db: tx}
}

// GetByProductAndEmail 获取订阅记录
func (r *GormStockSubscriptionRepository) GetByProductAndEmail(productID uint, email string) (*models.StockSubscription, error) {
	var sub models.StockSubscription
	err := r.db.Where("product_id = ? AND email = ?", productID, email).First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

// Upsert 创建或重置订阅。已通知过的订阅重新订阅后恢复待通知状态
func (r *GormStockSubscriptionRepository) Upsert(sub *models.StockSubscription) error {
	if sub == nil {
		return nil
	}
	var existing models.StockSubscription
	err := r.db.Where("product_id = ? AND email = ?", sub.ProductID, sub.Email).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(sub).Error
	}
	if err != nil {
		return err
	}
	sub.ID = existing.ID
	sub.CreatedAt = existing.CreatedAt
	return r.db.Model(&existing).Updates(map[string]interface{}{
		"notified":    false,
		"notified_at": nil,
		"updated_at":  time.Now(),
	}).Error
}

// ListPending 获取待通知订阅，按创建时间先后排序
func (r *GormStockSubscriptionRepository) ListPending(productID uint, limit int) ([]models.StockSubscription, error) {
	query := r.db.Where("product_id = ? AND notified = ?", productID, false).Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var subs []models.StockSubscription
	if err := query.Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// MarkNotified 批量标记已通知
func (r *GormStockSubscriptionRepository) MarkNotified(ids []uint, notifiedAt time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.Model(&models.StockSubscription{}).
		Where("id IN ? AND notified = ?", ids, false).
		Updates(map[string]interface{}{
			"notified":    true,
			"notified_at": notifiedAt,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// List 订阅列表
func (r *GormStockSubscriptionRepository) List(filter StockSubscriptionListFilter) ([]models.StockSubscription, int64, error) {
	query := r.db.Model(&models.StockSubscription{})

	if filter.ProductID > 0 {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if email := strings.TrimSpace(filter.Email); email != "" {
		query = query.Where("email = ?", email)
	}
	if filter.Notified != nil {
		query = query.Where("notified = ?", *filter.Notified)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var subs []models.StockSubscription
	if err := query.Order("id DESC").Find(&subs).Error; err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

// DeleteByProductAndEmail 取消订阅
func (r *GormStockSubscriptionRepository) DeleteByProductAndEmail(productID uint, email string) error {
	return r.db.Where("product_id = ? AND email = ?", productID, email).Delete(&models.StockSubscription{}).Error
}
