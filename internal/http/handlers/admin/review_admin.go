package admin

import (
	"errors"
	"strconv"
	"time"

	"github.com/lumishop/lumishop/internal/http/response"
	"github.com/lumishop/lumishop/internal/repository"
	"github.com/lumishop/lumishop/internal/service"

	"github.com/gin-gonic/gin"
)

// GetAdminReviews 获取评价列表 (Admin)，支持按商品/用户/状态/最低评分/时间筛选
func (h *Handler) GetAdminReviews(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	productID, _ := strconv.ParseUint(c.Query("product_id"), 10, 64)
	userID, _ := strconv.ParseUint(c.Query("user_id"), 10, 64)
	minRating, _ := strconv.Atoi(c.Query("min_rating"))

	filter := repository.ReviewListFilter{
		Page:      page,
		PageSize:  pageSize,
		ProductID: uint(productID),
		UserID:    uint(userID),
		Status:    c.Query("status"),
		MinRating: minRating,
	}
	if from := parseTimeQuery(c.Query("created_from")); from != nil {
		filter.CreatedFrom = from
	}
	if to := parseTimeQuery(c.Query("created_to")); to != nil {
		filter.CreatedTo = to
	}

	reviews, total, err := h.ReviewService.AdminList(filter)
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

// ReviewStatusRequest 审核评价请求
type ReviewStatusRequest struct {
	Status        string `json:"status" binding:"required"`
	AdminResponse string `json:"admin_response"`
}

// SetReviewStatus 审核评价，通过或驳回
func (h *Handler) SetReviewStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	var req ReviewStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	review, err := h.ReviewService.SetStatus(uint(id), req.Status, req.AdminResponse)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReviewNotFound):
			respondError(c, response.CodeNotFound, "error.review_not_found", nil)
		case errors.Is(err, service.ErrReviewStatusInvalid):
			respondError(c, response.CodeBadRequest, "error.review_status_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal_error", err)
		}
		return
	}
	response.Success(c, review)
}

// DeleteReview 删除评价 (Admin)
func (h *Handler) DeleteReview(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.ReviewService.Delete(0, uint(id), true); err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			respondError(c, response.CodeNotFound, "error.review_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	response.Success(c, nil)
}

// parseTimeQuery 解析时间查询参数，支持 RFC3339 与日期两种格式
func parseTimeQuery(value string) *time.Time {
	if value == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return &t
	}
	return nil
}
