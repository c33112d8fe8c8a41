package repository

import (
	"errors"
	"strings"

	"github.com/lumishop/lumishop/internal/models"

	"gorm.io/gorm"
)

// ProductRepository 商品数据访问。单条查询查无返回 (nil, nil)
type ProductRepository interface {
	List(filter ProductListFilter) ([]models.Product, int64, error)
	GetBySlug(slug string, onlyActive bool) (*models.Product, error)
	GetByID(id uint) (*models.Product, error)
	ListByIDs(ids []uint) ([]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id uint) error
	CountBySlug(slug string, excludeID *uint) (int64, error)
	UpdateStock(productID uint, count int) (int64, error)
	UpdateStockFromZero(productID uint, count int) (int64, error)
	DecrementStock(productID uint, quantity int) (int64, error)
	UpdateRatingAggregates(productID uint, rating float64, approvedCount int) error
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) ProductRepository
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductRepository) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// Transaction 执行事务
func (r *GormProductRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

func (r *GormProductRepository) first(query *gorm.DB) (*models.Product, error) {
	var product models.Product
	if err := query.First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// List 按筛选条件分页查询商品，sort_order 大的排前面
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	query := r.db.Model(&models.Product{})
	if filter.WithCategory {
		query = query.Preload("Category")
	}
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if filter.CategoryID != "" {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.InStockOnly {
		query = query.Where("count_in_stock > 0")
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		condition, argCount := buildLocalizedLikeCondition(r.db, []string{"slug"}, []string{"title_json", "description_json"})
		query = query.Where(condition, repeatLikeArgs("%"+search+"%", argCount)...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	err := applyPagination(query, filter.Page, filter.PageSize).
		Order("sort_order DESC, created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// GetBySlug 按 slug 查询商品，onlyActive 时只看上架商品
func (r *GormProductRepository) GetBySlug(slug string, onlyActive bool) (*models.Product, error) {
	query := r.db.Preload("Category").Where("slug = ?", slug)
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}
	return r.first(query)
}

// GetByID 按 ID 查询商品
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	return r.first(r.db.Preload("Category").Where("id = ?", id))
}

// ListByIDs 批量查询，购物车和订单预览用
func (r *GormProductRepository) ListByIDs(ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	var products []models.Product
	if err := r.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Create 创建商品
func (r *GormProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// Update 更新商品
func (r *GormProductRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

// Delete 删除商品
func (r *GormProductRepository) Delete(id uint) error {
	return r.db.Delete(&models.Product{}, id).Error
}

// CountBySlug 统计 slug 占用，excludeID 用于改名时排除自己
func (r *GormProductRepository) CountBySlug(slug string, excludeID *uint) (int64, error) {
	query := r.db.Model(&models.Product{}).Where("slug = ?", slug)
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// UpdateStock 覆写库存数量
func (r *GormProductRepository) UpdateStock(productID uint, count int) (int64, error) {
	if productID == 0 || count < 0 {
		return 0, errors.New("invalid stock update params")
	}
	result := r.db.Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("count_in_stock", count)
	return result.RowsAffected, result.Error
}

// UpdateStockFromZero 仅当现有库存为 0 时写入新库存。条件更新保证并发补货下
// 只有一个写入者观察到 0，到货事件因此最多触发一次
func (r *GormProductRepository) UpdateStockFromZero(productID uint, count int) (int64, error) {
	if productID == 0 || count <= 0 {
		return 0, errors.New("invalid stock update params")
	}
	result := r.db.Model(&models.Product{}).
		Where("id = ? AND count_in_stock = 0", productID).
		UpdateColumn("count_in_stock", count)
	return result.RowsAffected, result.Error
}

// DecrementStock 条件扣减库存，余量不足时影响 0 行
func (r *GormProductRepository) DecrementStock(productID uint, quantity int) (int64, error) {
	if productID == 0 || quantity <= 0 {
		return 0, errors.New("invalid stock decrement params")
	}
	result := r.db.Model(&models.Product{}).
		Where("id = ? AND count_in_stock >= ?", productID, quantity).
		UpdateColumn("count_in_stock", gorm.Expr("count_in_stock - ?", quantity))
	return result.RowsAffected, result.Error
}

// UpdateRatingAggregates 覆写商品的评分均值与已过审评论数
func (r *GormProductRepository) UpdateRatingAggregates(productID uint, rating float64, approvedCount int) error {
	if productID == 0 {
		return errors.New("invalid rating aggregate params")
	}
	return r.db.Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(map[string]any{
			"rating":        rating,
			"num_reviews":   approvedCount,
			"total_ratings": approvedCount,
		}).Error
}
