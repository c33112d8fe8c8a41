package repository

import (
	"errors"

	"github.com/lumishop/lumishop/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository 分类数据访问接口。查无记录返回 (nil, nil)
type CategoryRepository interface {
	List() ([]models.Category, error)
	GetByID(id uint) (*models.Category, error)
	GetBySlug(slug string) (*models.Category, error)
	Create(category *models.Category) error
	Update(category *models.Category) error
	Delete(id uint) error
	CountBySlug(slug string, excludeID *uint) (int64, error)
	CountProducts(categoryID uint) (int64, error)
}

// GormCategoryRepository GORM 实现
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓库
func NewCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

func (r *GormCategoryRepository) first(query *gorm.DB) (*models.Category, error) {
	var category models.Category
	err := query.First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// List 全部分类，排序权重大的在前
func (r *GormCategoryRepository) List() ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Order("sort_order DESC, id ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// GetByID 按主键查找
func (r *GormCategoryRepository) GetByID(id uint) (*models.Category, error) {
	return r.first(r.db.Where("id = ?", id))
}

// GetBySlug 按 slug 查找
func (r *GormCategoryRepository) GetBySlug(slug string) (*models.Category, error) {
	return r.first(r.db.Where("slug = ?", slug))
}

// Create 新建分类
func (r *GormCategoryRepository) Create(category *models.Category) error {
	return r.db.Create(category).Error
}

// Update 保存分类
func (r *GormCategoryRepository) Update(category *models.Category) error {
	return r.db.Save(category).Error
}

// Delete 软删除分类
func (r *GormCategoryRepository) Delete(id uint) error {
	return r.db.Delete(&models.Category{}, id).Error
}

// CountBySlug 统计占用某 slug 的分类数，excludeID 用于更新时排除自身
func (r *GormCategoryRepository) CountBySlug(slug string, excludeID *uint) (int64, error) {
	query := r.db.Model(&models.Category{}).Where("slug = ?", slug)
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountProducts 某分类名下的商品数，用于删除前校验
func (r *GormCategoryRepository) CountProducts(categoryID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Product{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
