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

// CouponIssueRequest 发放优惠券请求
type CouponIssueRequest struct {
	UserID     uint    `json:"user_id" binding:"required"`
	Type       string  `json:"type" binding:"required"`
	Value      float64 `json:"value" binding:"required"`
	Code       string  `json:"code"`
	ExpireDays int     `json:"expire_days"`
}

// IssueCoupon 给指定用户发放促销优惠券
func (h *Handler) IssueCoupon(c *gin.Context) {
	var req CouponIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	coupon, err := h.CouponService.AdminIssue(service.AdminIssueInput{
		UserID:     req.UserID,
		Type:       req.Type,
		Value:      models.NewMoneyFromDecimal(decimal.NewFromFloat(req.Value)),
		Code:       req.Code,
		ExpireDays: req.ExpireDays,
	})
	if err != nil {
		if errors.Is(err, service.ErrCouponInvalid) {
			respondError(c, response.CodeBadRequest, "error.coupon_type_invalid", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	response.Success(c, coupon)
}

// GetAdminCoupons 获取优惠券列表 (Admin)
func (h *Handler) GetAdminCoupons(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	userID, _ := strconv.ParseUint(c.Query("user_id"), 10, 64)
	filter := repository.CouponListFilter{
		Page:     page,
		PageSize: pageSize,
		Code:     c.Query("code"),
		UserID:   uint(userID),
		Kind:     c.Query("kind"),
	}
	if v := c.Query("is_used"); v != "" {
		used := v == "1"
		filter.IsUsed = &used
	}
	if v := c.Query("is_active"); v != "" {
		active := v == "1"
		filter.IsActive = &active
	}

	coupons, total, err := h.CouponService.AdminList(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}

	response.SuccessWithPage(c, coupons, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// CouponActiveRequest 启用/停用优惠券请求
type CouponActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// SetCouponActive 启用或停用优惠券
func (h *Handler) SetCouponActive(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	var req CouponActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsActive == nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	coupon, err := h.CouponService.AdminSetActive(uint(id), *req.IsActive)
	if err != nil {
		if errors.Is(err, service.ErrCouponNotFound) {
			respondError(c, response.CodeNotFound, "error.coupon_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	response.Success(c, coupon)
}

// GetAdminCouponUsages 获取优惠券使用记录 (Admin)
func (h *Handler) GetAdminCouponUsages(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	userID, _ := strconv.ParseUint(c.Query("user_id"), 10, 64)
	couponID, _ := strconv.ParseUint(c.Query("coupon_id"), 10, 64)

	usages, total, err := h.CouponService.AdminListUsages(repository.CouponUsageListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   uint(userID),
		CouponID: uint(couponID),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}

	response.SuccessWithPage(c, usages, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}
