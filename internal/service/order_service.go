package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/lumishop/lumishop/internal/constants"
	"github.com/lumishop/lumishop/internal/logger"
	"github.com/lumishop/lumishop/internal/models"
	"github.com/lumishop/lumishop/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService 订单服务
type OrderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	couponSvc   *CouponService
	cartSvc     *CartService
}

// NewOrderService 创建订单服务
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	couponSvc *CouponService,
	cartSvc *CartService,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		couponSvc:   couponSvc,
		cartSvc:     cartSvc,
	}
}

// CheckoutPreview 结算预览
type CheckoutPreview struct {
	Items          []CartItemDetail `json:"items"`
	OriginalAmount models.Money     `json:"original_amount"`
	DiscountAmount models.Money     `json:"discount_amount"`
	TotalAmount    models.Money     `json:"total_amount"`
}

// Preview 计算结算金额，不落库。用于优惠券校验预览
func (s *OrderService) Preview(userID uint, couponCode string) (*CheckoutPreview, error) {
	details, err := s.cartSvc.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, ErrCartEmpty
	}

	subtotal := decimal.Zero
	for _, d := range details {
		subtotal = subtotal.Add(d.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(d.Quantity))))
	}
	original := models.NewMoneyFromDecimal(subtotal)

	discount := models.NewMoneyFromDecimal(decimal.Zero)
	if strings.TrimSpace(couponCode) != "" {
		discount, _, err = s.couponSvc.Apply(couponCode, userID, original)
		if err != nil {
			return nil, err
		}
	}

	return &CheckoutPreview{
		Items:          details,
		OriginalAmount: original,
		DiscountAmount: discount,
		TotalAmount:    models.NewMoneyFromDecimal(subtotal.Sub(discount.Decimal)),
	}, nil
}

// CreateFromCart 从购物车下单。扣库存、核销优惠券、清空购物车在同一事务内完成
func (s *OrderService) CreateFromCart(userID uint, couponCode, clientIP string) (*models.Order, error) {
	preview, err := s.Preview(userID, couponCode)
	if err != nil {
		return nil, err
	}

	var coupon *models.Coupon
	if strings.TrimSpace(couponCode) != "" {
		coupon, err = s.couponSvc.Validate(couponCode, userID)
		if err != nil {
			return nil, err
		}
	}

	order := &models.Order{
		OrderNo:        generateOrderNo(),
		UserID:         userID,
		Status:         constants.OrderStatusPendingPayment,
		Currency:       constants.SiteCurrencyDefault,
		OriginalAmount: preview.OriginalAmount,
		DiscountAmount: preview.DiscountAmount,
		TotalAmount:    preview.TotalAmount,
		ClientIP:       clientIP,
		Items:          buildOrderItems(preview),
	}
	if coupon != nil {
		order.CouponID = &coupon.ID
	}

	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)
		for _, item := range order.Items {
			affected, err := productRepo.DecrementStock(item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if affected == 0 {
				return ErrStockInsufficient
			}
		}

		if err := s.orderRepo.WithTx(tx).Create(order); err != nil {
			return err
		}

		if coupon != nil {
			if err := s.couponSvc.Redeem(tx, coupon, userID, order.ID, preview.DiscountAmount); err != nil {
				return err
			}
		}

		return s.cartRepo.WithTx(tx).ClearByUser(userID)
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("order_created",
		"order_no", order.OrderNo,
		"user_id", userID,
		"total_amount", order.TotalAmount.String(),
		"coupon_id", order.CouponID,
	)
	return order, nil
}

// GetByOrderNo 查询订单，用户只能查自己的
func (s *OrderService) GetByOrderNo(orderNo string, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderNo(strings.TrimSpace(orderNo))
	if err != nil {
		return nil, err
	}
	if order == nil || (userID != 0 && order.UserID != userID) {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListByUser 用户订单列表
func (s *OrderService) ListByUser(userID uint, page, pageSize int) ([]models.Order, int64, error) {
	return s.orderRepo.List(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
	})
}

// AdminList 管理端订单列表
func (s *OrderService) AdminList(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.List(filter)
}

// MarkPaid 标记订单已支付
func (s *OrderService) MarkPaid(orderNo string) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderNo(strings.TrimSpace(orderNo))
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusPendingPayment {
		return order, nil
	}
	now := time.Now()
	order.Status = constants.OrderStatusPaid
	order.PaidAt = &now
	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}
	logger.Infow("order_paid", "order_no", order.OrderNo)
	return order, nil
}

// Cancel 取消待支付订单并恢复库存。
// 取消恢复的库存不触发到货事件，到货事件只由管理员补货产生
func (s *OrderService) Cancel(orderNo string, userID uint) (*models.Order, error) {
	order, err := s.GetByOrderNo(orderNo, userID)
	if err != nil {
		return nil, err
	}
	if order.Status != constants.OrderStatusPendingPayment {
		return nil, ErrOrderNotCancelable
	}

	now := time.Now()
	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		for _, item := range order.Items {
			product, err := s.productRepo.WithTx(tx).GetByID(item.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				continue
			}
			if _, err := s.productRepo.WithTx(tx).UpdateStock(item.ProductID, product.CountInStock+item.Quantity); err != nil {
				return err
			}
		}
		order.Status = constants.OrderStatusCanceled
		order.CanceledAt = &now
		return s.orderRepo.WithTx(tx).Update(order)
	})
	if err != nil {
		return nil, err
	}
	logger.Infow("order_canceled", "order_no", order.OrderNo)
	return order, nil
}

// buildOrderItems 构造订单项快照并按小计比例分摊优惠金额
func buildOrderItems(preview *CheckoutPreview) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(preview.Items))
	remaining := preview.DiscountAmount.Decimal
	subtotal := preview.OriginalAmount.Decimal

	for idx, d := range preview.Items {
		total := d.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(d.Quantity)))

		var share decimal.Decimal
		if idx == len(preview.Items)-1 {
			// 最后一项吃掉尾差，保证分摊之和等于折扣总额
			share = remaining
		} else if subtotal.GreaterThan(decimal.Zero) {
			share = preview.DiscountAmount.Decimal.Mul(total).Div(subtotal).Round(2)
			remaining = remaining.Sub(share)
		}

		item := models.OrderItem{
			ProductID:      d.ProductID,
			UnitPrice:      d.UnitPrice,
			Quantity:       d.Quantity,
			TotalPrice:     models.NewMoneyFromDecimal(total),
			CouponDiscount: models.NewMoneyFromDecimal(share),
		}
		if d.Product != nil {
			item.TitleJSON = d.Product.TitleJSON
			item.Tags = d.Product.Tags
		}
		items = append(items, item)
	}
	return items
}

func generateOrderNo() string {
	return fmt.Sprintf("LS%s%s",
		time.Now().Format("20060102150405"),
		strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8]),
	)
}
