package admin

import (
	"errors"
	"strconv"

	"github.com/lumishop/lumishop/internal/http/response"
	"github.com/lumishop/lumishop/internal/repository"
	"github.com/lumishop/lumishop/internal/service"

	"github.com/gin-gonic/gin"
)

// GetAdminOrders 获取订单列表 (Admin)
func (h *Handler) GetAdminOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	userID, _ := strconv.ParseUint(c.Query("user_id"), 10, 64)
	filter := repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   uint(userID),
		Status:   c.Query("status"),
		OrderNo:  c.Query("order_no"),
	}
	if from := parseTimeQuery(c.Query("created_from")); from != nil {
		filter.CreatedFrom = from
	}
	if to := parseTimeQuery(c.Query("created_to")); to != nil {
		filter.CreatedTo = to
	}

	orders, total, err := h.OrderService.AdminList(filter)
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

// GetAdminOrder 获取订单详情 (Admin)
func (h *Handler) GetAdminOrder(c *gin.Context) {
	order, err := h.OrderService.GetByOrderNo(c.Param("order_no"), 0)
	if err != nil {
		respondAdminOrderError(c, err)
		return
	}
	response.Success(c, order)
}

func respondAdminOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		respondError(c, response.CodeNotFound, "error.order_not_found", nil)
	case errors.Is(err, service.ErrOrderNotCancelable):
		respondError(c, response.CodeBadRequest, "error.order_not_cancelable", nil)
	default:
		respondError(c, response.CodeInternal, "error.internal_error", err)
	}
}

// MarkOrderPaid 手工将订单标记为已支付 (Admin)
func (h *Handler) MarkOrderPaid(c *gin.Context) {
	order, err := h.OrderService.MarkPaid(c.Param("order_no"))
	if err != nil {
		respondAdminOrderError(c, err)
		return
	}
	response.Success(c, order)
}

// CancelAdminOrder 取消待支付订单并恢复库存 (Admin)
func (h *Handler) CancelAdminOrder(c *gin.Context) {
	order, err := h.OrderService.Cancel(c.Param("order_no"), 0)
	if err != nil {
		respondAdminOrderError(c, err)
		return
	}
	response.Success(c, order)
}
