package public

import (
	"strconv"

	"github.com/lumishop/lumishop/internal/http/response"

	"github.com/gin-gonic/gin"
)

// CheckoutRequest 下单请求，优惠券码可选
type CheckoutRequest struct {
	CouponCode string `json:"coupon_code"`
}

// PreviewCheckout 结算预览，返回应用优惠券后的金额
func (h *Handler) PreviewCheckout(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	preview, err := h.OrderService.Preview(uid, req.CouponCode)
	if err != nil {
		respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "error.internal_error")
		return
	}
	response.Success(c, preview)
}

// CreateOrder 从购物车创建订单
func (h *Handler) CreateOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	order, err := h.OrderService.CreateFromCart(uid, req.CouponCode, c.ClientIP())
	if err != nil {
		respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "error.internal_error")
		return
	}
	response.Success(c, order)
}

// GetOrder 查询本人订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	orderNo := c.Param("order_no")
	order, err := h.OrderService.GetByOrderNo(orderNo, uid)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "error.internal_error")
		return
	}
	response.Success(c, order)
}

// ListMyOrders 查询本人订单列表
func (h *Handler) ListMyOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	orders, total, err := h.OrderService.ListByUser(uid, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}

	response.SuccessWithPage(c, orders, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// PayOrder 模拟支付回调，将订单标记为已支付
func (h *Handler) PayOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	orderNo := c.Param("order_no")
	// 先校验归属，再标记支付，避免越权支付他人订单
	if _, err := h.OrderService.GetByOrderNo(orderNo, uid); err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "error.internal_error")
		return
	}

	order, err := h.OrderService.MarkPaid(orderNo)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "error.internal_error")
		return
	}
	response.Success(c, order)
}

// CancelOrder 取消本人待支付订单
func (h *Handler) CancelOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	orderNo := c.Param("order_no")
	order, err := h.OrderService.Cancel(orderNo, uid)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "error.internal_error")
		return
	}
	response.Success(c, order)
}

// checkoutErrorRules 下单链路同时可能命中购物车与优惠券错误
var checkoutErrorRules = concatMappedHandlerErrors(orderErrorRules, couponErrorRules)
