package public

import (
	"strconv"

	"github.com/lumishop/lumishop/internal/http/response"

	"github.com/gin-gonic/gin"
)

// StockSubscribeRequest 到货通知订阅请求
type StockSubscribeRequest struct {
	Email string `json:"email" binding:"required"`
}

// SubscribeStock 订阅缺货商品的到货通知
func (h *Handler) SubscribeStock(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	var req StockSubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.StockNotifyService.Subscribe(uint(productID), req.Email); err != nil {
		respondWithMappedError(c, err, stockSubscribeErrorRules, response.CodeInternal, "error.internal_error")
		return
	}
	response.Success(c, nil)
}

// UnsubscribeStock 取消到货通知订阅
func (h *Handler) UnsubscribeStock(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	var req StockSubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.StockNotifyService.Unsubscribe(uint(productID), req.Email); err != nil {
		respondWithMappedError(c, err, stockSubscribeErrorRules, response.CodeInternal, "error.internal_error")
		return
	}
	response.Success(c, nil)
}
