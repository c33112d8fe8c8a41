package public

import (
	"strconv"
	"strings"

	"github.com/lumishop/lumishop/internal/http/response"
	"github.com/lumishop/lumishop/internal/models"

	"github.com/gin-gonic/gin"
)

// CouponValidateRequest 优惠券校验请求
type CouponValidateRequest struct {
	Code string `json:"code" binding:"required"`
}

// CouponValidateResponse 优惠券校验响应
type CouponValidateResponse struct {
	Coupon         *models.Coupon `json:"coupon"`
	OriginalAmount models.Money   `json:"original_amount"`
	DiscountAmount models.Money   `json:"discount_amount"`
	TotalAmount    models.Money   `json:"total_amount"`
}

// ValidateCoupon 校验优惠券并基于当前购物车试算折扣
func (h *Handler) ValidateCoupon(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req CouponValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	coupon, err := h.CouponService.Validate(strings.TrimSpace(req.Code), uid)
	if err != nil {
		respondWithMappedError(c, err, couponErrorRules, response.CodeInternal, "error.internal_error")
		return
	}

	preview, err := h.OrderService.Preview(uid, coupon.Code)
	if err != nil {
		respondWithMappedError(c, err,
			concatMappedHandlerErrors(couponErrorRules, orderErrorRules),
			response.CodeInternal, "error.internal_error")
		return
	}

	response.Success(c, CouponValidateResponse{
		Coupon:         coupon,
		OriginalAmount: preview.OriginalAmount,
		DiscountAmount: preview.DiscountAmount,
		TotalAmount:    preview.TotalAmount,
	})
}

// GetMyCoupons 获取当前用户的优惠券
func (h *Handler) GetMyCoupons(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	coupons, total, err := h.CouponService.ListByUser(uid, page, pageSize)
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
