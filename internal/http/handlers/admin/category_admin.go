package admin

import (
	"errors"
	"strconv"

	"github.com/lumishop/lumishop/internal/http/response"
	"github.com/lumishop/lumishop/internal/service"

	"github.com/gin-gonic/gin"
)

// CategoryRequest 创建/更新分类请求
type CategoryRequest struct {
	Slug      string                 `json:"slug" binding:"required"`
	Name      map[string]interface{} `json:"name" binding:"required"`
	Icon      string                 `json:"icon"`
	SortOrder int                    `json:"sort_order"`
}

func (r CategoryRequest) toServiceInput() service.CreateCategoryInput {
	return service.CreateCategoryInput{
		Slug:      r.Slug,
		NameJSON:  r.Name,
		Icon:      r.Icon,
		SortOrder: r.SortOrder,
	}
}

// GetAdminCategories 获取分类列表 (Admin)
func (h *Handler) GetAdminCategories(c *gin.Context) {
	categories, err := h.CategoryService.List()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	response.Success(c, categories)
}

// CreateCategory 创建分类
func (h *Handler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	category, err := h.CategoryService.Create(req.toServiceInput())
	if err != nil {
		respondAdminCategoryError(c, err)
		return
	}
	response.Success(c, category)
}

// UpdateCategory 更新分类
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	category, err := h.CategoryService.Update(uint(id), req.toServiceInput())
	if err != nil {
		respondAdminCategoryError(c, err)
		return
	}
	response.Success(c, category)
}

// DeleteCategory 删除分类。分类下仍有商品时拒绝删除
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.CategoryService.Delete(uint(id)); err != nil {
		respondAdminCategoryError(c, err)
		return
	}
	response.Success(c, nil)
}

func respondAdminCategoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCategoryNotFound):
		respondError(c, response.CodeNotFound, "error.category_not_found", nil)
	case errors.Is(err, service.ErrCategoryInUse):
		respondError(c, response.CodeBadRequest, "error.category_in_use", nil)
	case errors.Is(err, service.ErrSlugTaken):
		respondError(c, response.CodeBadRequest, "error.slug_taken", nil)
	default:
		respondError(c, response.CodeInternal, "error.internal_error", err)
	}
}
