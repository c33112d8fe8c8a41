package admin

import (
	"errors"
	"strconv"

	"github.com/lumishop/lumishop/internal/http/response"
	"github.com/lumishop/lumishop/internal/repository"
	"github.com/lumishop/lumishop/internal/service"

	"github.com/gin-gonic/gin"
)

// GetAdminStockSubscriptions 获取到货订阅列表 (Admin)
func (h *Handler) GetAdminStockSubscriptions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	productID, _ := strconv.ParseUint(c.Query("product_id"), 10, 64)
	filter := repository.StockSubscriptionListFilter{
		Page:      page,
		PageSize:  pageSize,
		ProductID: uint(productID),
		Email:     c.Query("email"),
	}
	if v := c.Query("notified"); v != "" {
		notified := v == "1"
		filter.Notified = &notified
	}

	subs, total, err := h.StockNotifyService.AdminList(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}

	response.SuccessWithPage(c, subs, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// DispatchStockNotifications 手工补发指定商品的到货通知 (Admin)
func (h *Handler) DispatchStockNotifications(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	sent, err := h.StockNotifyService.Dispatch(uint(productID))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "error.product_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	response.Success(c, gin.H{"sent": sent})
}
