package service

import (
	"strings"

	"github.com/lumishop/lumishop/internal/models"
	"github.com/lumishop/lumishop/internal/repository"
)

// CategoryService 分类管理。分类被商品引用时不允许删除
type CategoryService struct {
	repo repository.CategoryRepository
}

// NewCategoryService 创建分类服务
func NewCategoryService(repo repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// CreateCategoryInput 创建/更新分类输入
type CreateCategoryInput struct {
	Slug      string
	NameJSON  map[string]any
	Icon      string
	SortOrder int
}

// List 全部分类，按排序权重倒序
func (s *CategoryService) List() ([]models.Category, error) {
	return s.repo.List()
}

// GetBySlug 按 slug 查分类
func (s *CategoryService) GetBySlug(slug string) (*models.Category, error) {
	category, err := s.repo.GetBySlug(strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

// ensureSlugFree 校验 slug 未被其他分类占用，excludeID 排除自身
func (s *CategoryService) ensureSlugFree(slug string, excludeID *uint) error {
	count, err := s.repo.CountBySlug(slug, excludeID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrSlugTaken
	}
	return nil
}

// Create 创建分类
func (s *CategoryService) Create(input CreateCategoryInput) (*models.Category, error) {
	if err := s.ensureSlugFree(input.Slug, nil); err != nil {
		return nil, err
	}

	category := models.Category{
		Slug:      input.Slug,
		NameJSON:  models.JSON(input.NameJSON),
		Icon:      input.Icon,
		SortOrder: input.SortOrder,
	}
	if err := s.repo.Create(&category); err != nil {
		return nil, err
	}
	return &category, nil
}

// Update 更新分类
func (s *CategoryService) Update(id uint, input CreateCategoryInput) (*models.Category, error) {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	if err := s.ensureSlugFree(input.Slug, &id); err != nil {
		return nil, err
	}

	category.Slug = input.Slug
	category.NameJSON = models.JSON(input.NameJSON)
	category.Icon = input.Icon
	category.SortOrder = input.SortOrder
	if err := s.repo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete 删除分类，名下还有商品时拒绝
func (s *CategoryService) Delete(id uint) error {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}

	count, err := s.repo.CountProducts(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}
	return s.repo.Delete(id)
}
