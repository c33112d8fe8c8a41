package service

import (
	"strings"

	"github.com/lumishop/lumishop/internal/constants"
	"github.com/lumishop/lumishop/internal/logger"
	"github.com/lumishop/lumishop/internal/models"
	"github.com/lumishop/lumishop/internal/queue"
	"github.com/lumishop/lumishop/internal/realtime"
	"github.com/lumishop/lumishop/internal/repository"

	"gorm.io/gorm"
)

// ProductService 商品服务
type ProductService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	hub          *realtime.Hub
	queueClient  *queue.Client
}

// NewProductService 创建商品服务
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	hub *realtime.Hub,
	queueClient *queue.Client,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		hub:          hub,
		queueClient:  queueClient,
	}
}

// List 商品列表
func (s *ProductService) List(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(filter)
}

// GetBySlug 查询单个商品
func (s *ProductService) GetBySlug(slug string, onlyActive bool) (*models.Product, error) {
	product, err := s.productRepo.GetBySlug(strings.TrimSpace(slug), onlyActive)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// GetByID 根据 ID 查询商品
func (s *ProductService) GetByID(id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// ProductInput 创建/更新商品入参
type ProductInput struct {
	CategoryID   uint
	Slug         string
	TitleJSON    models.JSON
	Description  models.JSON
	PriceAmount  models.Money
	Images       []string
	Tags         []string
	CountInStock int
	IsActive     bool
	SortOrder    int
}

// Create 创建商品
func (s *ProductService) Create(input ProductInput) (*models.Product, error) {
	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		return nil, ErrSlugTaken
	}
	count, err := s.productRepo.CountBySlug(slug, nil)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugTaken
	}

	category, err := s.categoryRepo.GetByID(input.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	if input.CountInStock < 0 {
		return nil, ErrQuantityInvalid
	}

	product := &models.Product{
		CategoryID:      input.CategoryID,
		Slug:            slug,
		TitleJSON:       input.TitleJSON,
		DescriptionJSON: input.Description,
		PriceAmount:     input.PriceAmount,
		Images:          input.Images,
		Tags:            input.Tags,
		CountInStock:    input.CountInStock,
		IsActive:        input.IsActive,
		SortOrder:       input.SortOrder,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update 更新商品（不含库存，库存走 SetStock）
func (s *ProductService) Update(id uint, input ProductInput) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	slug := strings.TrimSpace(input.Slug)
	if slug != "" && slug != product.Slug {
		count, err := s.productRepo.CountBySlug(slug, &id)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrSlugTaken
		}
		product.Slug = slug
	}
	if input.CategoryID != 0 && input.CategoryID != product.CategoryID {
		category, err := s.categoryRepo.GetByID(input.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, ErrCategoryNotFound
		}
		product.CategoryID = input.CategoryID
	}

	product.TitleJSON = input.TitleJSON
	product.DescriptionJSON = input.Description
	product.PriceAmount = input.PriceAmount
	product.Images = input.Images
	product.Tags = input.Tags
	product.IsActive = input.IsActive
	product.SortOrder = input.SortOrder

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete 删除商品
func (s *ProductService) Delete(id uint) error {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	return s.productRepo.Delete(id)
}

// SetStock 调整库存。从 0 补到正数时触发一次到货事件：
// WebSocket 实时广播 + 异步任务派发邮件提醒，均为尽力送达
func (s *ProductService) SetStock(id uint, count int) (*models.Product, error) {
	if count < 0 {
		return nil, ErrQuantityInvalid
	}

	var product *models.Product
	restocked := false
	err := s.productRepo.Transaction(func(tx *gorm.DB) error {
		repo := s.productRepo.WithTx(tx)
		var err error
		product, err = repo.GetByID(id)
		if err != nil {
			return err
		}
		if product == nil {
			return ErrProductNotFound
		}
		// 补货判定走条件更新：只有真正把 0 写成正数的那一次算到货，
		// 并发补同一商品时事件不会重复触发
		if restockTransition(product.CountInStock, count) {
			rows, err := repo.UpdateStockFromZero(id, count)
			if err != nil {
				return err
			}
			restocked = rows > 0
		}
		if !restocked {
			if _, err := repo.UpdateStock(id, count); err != nil {
				return err
			}
		}
		product.CountInStock = count
		return nil
	})
	if err != nil {
		return nil, err
	}

	if restocked {
		s.emitRestock(product)
	}
	return product, nil
}

// restockTransition 判断库存变化是否构成一次到货（从无货补到有货）
func restockTransition(oldCount, newCount int) bool {
	return oldCount == 0 && newCount > 0
}

// emitRestock 发送到货事件。广播与入队失败只记录日志，不影响库存变更
func (s *ProductService) emitRestock(product *models.Product) {
	if product == nil {
		return
	}
	if s.hub != nil {
		s.hub.Broadcast(product.ID, constants.RealtimeEventRestock, map[string]interface{}{
			"product_id":     product.ID,
			"slug":           product.Slug,
			"count_in_stock": product.CountInStock,
		})
	}
	if err := s.queueClient.EnqueueRestockNotify(queue.RestockNotifyPayload{ProductID: product.ID}); err != nil {
		logger.Warnw("restock_notify_enqueue_failed", "product_id", product.ID, "error", err)
	}
	logger.Infow("product_restocked", "product_id", product.ID, "count_in_stock", product.CountInStock)
}
