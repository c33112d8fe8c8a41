package admin

import (
	"errors"
	"strconv"

	"github.com/lumishop/lumishop/internal/http/response"
	"github.com/lumishop/lumishop/internal/models"
	"github.com/lumishop/lumishop/internal/repository"
	"github.com/lumishop/lumishop/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ProductRequest 创建/更新商品请求
type ProductRequest struct {
	CategoryID   uint                   `json:"category_id" binding:"required"`
	Slug         string                 `json:"slug" binding:"required"`
	Title        map[string]interface{} `json:"title" binding:"required"`
	Description  map[string]interface{} `json:"description"`
	PriceAmount  float64                `json:"price_amount" binding:"required"`
	Images       []string               `json:"images"`
	Tags         []string               `json:"tags"`
	CountInStock int                    `json:"count_in_stock"`
	IsActive     *bool                  `json:"is_active"`
	SortOrder    int                    `json:"sort_order"`
}

func (r ProductRequest) toServiceInput() service.ProductInput {
	isActive := true
	if r.IsActive != nil {
		isActive = *r.IsActive
	}
	return service.ProductInput{
		CategoryID:   r.CategoryID,
		Slug:         r.Slug,
		TitleJSON:    models.JSON(r.Title),
		Description:  models.JSON(r.Description),
		PriceAmount:  models.NewMoneyFromDecimal(decimal.NewFromFloat(r.PriceAmount)),
		Images:       r.Images,
		Tags:         r.Tags,
		CountInStock: r.CountInStock,
		IsActive:     isActive,
		SortOrder:    r.SortOrder,
	}
}

// GetAdminProducts 获取商品列表 (Admin)
func (h *Handler) GetAdminProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	products, total, err := h.ProductService.List(repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		CategoryID:   c.Query("category_id"),
		Search:       c.Query("search"),
		InStockOnly:  c.Query("in_stock") == "1",
		OnlyActive:   false,
		WithCategory: true,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}

	response.SuccessWithPage(c, products, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// GetAdminProduct 获取商品详情 (Admin)
func (h *Handler) GetAdminProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	product, err := h.ProductService.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "error.product_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	response.Success(c, product)
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	product, err := h.ProductService.Create(req.toServiceInput())
	if err != nil {
		respondAdminProductError(c, err)
		return
	}
	response.Success(c, product)
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	product, err := h.ProductService.Update(uint(id), req.toServiceInput())
	if err != nil {
		respondAdminProductError(c, err)
		return
	}
	response.Success(c, product)
}

// DeleteProduct 删除商品
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.ProductService.Delete(uint(id)); err != nil {
		respondAdminProductError(c, err)
		return
	}
	response.Success(c, nil)
}

// SetStockRequest 设置库存请求
type SetStockRequest struct {
	CountInStock *int `json:"count_in_stock" binding:"required"`
}

// SetProductStock 设置商品库存。从 0 补到有货会触发到货通知
func (h *Handler) SetProductStock(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	var req SetStockRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.CountInStock == nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	product, err := h.ProductService.SetStock(uint(id), *req.CountInStock)
	if err != nil {
		respondAdminProductError(c, err)
		return
	}
	response.Success(c, product)
}

func respondAdminProductError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		respondError(c, response.CodeNotFound, "error.product_not_found", nil)
	case errors.Is(err, service.ErrCategoryNotFound):
		respondError(c, response.CodeBadRequest, "error.category_not_found", nil)
	case errors.Is(err, service.ErrSlugTaken):
		respondError(c, response.CodeBadRequest, "error.slug_taken", nil)
	case errors.Is(err, service.ErrQuantityInvalid):
		respondError(c, response.CodeBadRequest, "error.quantity_invalid", nil)
	default:
		respondError(c, response.CodeInternal, "error.internal_error", err)
	}
}
