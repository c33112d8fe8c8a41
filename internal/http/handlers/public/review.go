package public

import (
	"errors"
	"strconv"

	"github.com/lumishop/lumishop/internal/http/response"
	"github.com/lumishop/lumishop/internal/service"

	"github.com/gin-gonic/gin"
)

// ReviewCreateRequest 创建评价请求
type ReviewCreateRequest struct {
	Rating  int      `json:"rating" binding:"required"`
	Title   string   `json:"title"`
	Comment string   `json:"comment"`
	Images  []string `json:"images"`
}

// GetProductReviews 获取商品的已通过评价
func (h *Handler) GetProductReviews(c *gin.Context) {
	product, err := h.ProductService.GetBySlug(c.Param("slug"), true)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "error.product_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	reviews, total, err := h.ReviewService.ListByProduct(product.ID, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}

	response.SuccessWithPage(c, reviews, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// CreateReview 创建评价
func (h *Handler) CreateReview(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	var req ReviewCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	review, err := h.ReviewService.Create(uid, service.CreateReviewInput{
		ProductID: uint(productID),
		Rating:    req.Rating,
		Title:     req.Title,
		Comment:   req.Comment,
		Images:    req.Images,
	})
	if err != nil {
		respondWithMappedError(c, err, reviewErrorRules, response.CodeInternal, "error.internal_error")
		return
	}
	response.Success(c, review)
}

// UpdateReview 编辑自己的评价
func (h *Handler) UpdateReview(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	reviewID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || reviewID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	var req ReviewCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	review, err := h.ReviewService.Update(uid, uint(reviewID), service.UpdateReviewInput{
		Rating:  req.Rating,
		Title:   req.Title,
		Comment: req.Comment,
		Images:  req.Images,
	})
	if err != nil {
		respondWithMappedError(c, err, reviewErrorRules, response.CodeInternal, "error.internal_error")
		return
	}
	response.Success(c, review)
}

// DeleteReview 删除自己的评价
func (h *Handler) DeleteReview(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	reviewID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || reviewID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.ReviewService.Delete(uid, uint(reviewID), false); err != nil {
		respondWithMappedError(c, err, reviewErrorRules, response.CodeInternal, "error.internal_error")
		return
	}
	response.Success(c, nil)
}

// MarkReviewHelpful 点赞评价
func (h *Handler) MarkReviewHelpful(c *gin.Context) {
	reviewID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || reviewID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.ReviewService.MarkHelpful(uint(reviewID)); err != nil {
		respondWithMappedError(c, err, reviewErrorRules, response.CodeInternal, "error.internal_error")
		return
	}
	response.Success(c, nil)
}

// GetMyReviews 获取自己的评价
func (h *Handler) GetMyReviews(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	reviews, total, err := h.ReviewService.ListByUser(uid, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}

	response.SuccessWithPage(c, reviews, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}
