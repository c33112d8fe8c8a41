package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lumishop/lumishop/internal/config"
	"github.com/lumishop/lumishop/internal/constants"
	"github.com/lumishop/lumishop/internal/models"
	"github.com/lumishop/lumishop/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type orderTestEnv struct {
	db       *gorm.DB
	orderSvc *OrderService
	category *models.Category
}

func newOrderTestEnv(t *testing.T, name string) *orderTestEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Category{}, &models.Product{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{},
		&models.Coupon{}, &models.CouponUsage{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	category := models.Category{Slug: "test-category", NameJSON: models.JSON{"zh-CN": "测试分类"}}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}

	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)
	couponSvc := NewCouponService(
		repository.NewCouponRepository(db),
		repository.NewCouponUsageRepository(db),
		config.CouponConfig{},
	)
	cartSvc := NewCartService(cartRepo, productRepo)
	orderSvc := NewOrderService(
		repository.NewOrderRepository(db),
		cartRepo,
		productRepo,
		couponSvc,
		cartSvc,
	)
	return &orderTestEnv{db: db, orderSvc: orderSvc, category: &category}
}

func (e *orderTestEnv) createProduct(t *testing.T, slug string, price float64, stock int) *models.Product {
	t.Helper()
	product := models.Product{
		CategoryID:   e.category.ID,
		Slug:         slug,
		TitleJSON:    models.JSON{"zh-CN": slug},
		PriceAmount:  models.NewMoneyFromDecimal(decimal.NewFromFloat(price)),
		CountInStock: stock,
		IsActive:     true,
	}
	if err := e.db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return &product
}

func (e *orderTestEnv) addCartItem(t *testing.T, userID, productID uint, quantity int) {
	t.Helper()
	item := models.CartItem{UserID: userID, ProductID: productID, Quantity: quantity}
	if err := e.db.Create(&item).Error; err != nil {
		t.Fatalf("create cart item failed: %v", err)
	}
}

func (e *orderTestEnv) stockOf(t *testing.T, productID uint) int {
	t.Helper()
	var product models.Product
	if err := e.db.First(&product, productID).Error; err != nil {
		t.Fatalf("load product failed: %v", err)
	}
	return product.CountInStock
}

func TestPreviewEmptyCart(t *testing.T) {
	env := newOrderTestEnv(t, "order_preview_empty")
	if _, err := env.orderSvc.Preview(1, ""); !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("expected ErrCartEmpty, got %v", err)
	}
}

func TestPreviewWithPercentageCoupon(t *testing.T) {
	env := newOrderTestEnv(t, "order_preview_coupon")
	product := env.createProduct(t, "earphones", 100.00, 10)
	env.addCartItem(t, 1, product.ID, 2)

	coupon := models.Coupon{
		Code:     "TEN",
		Type:     constants.CouponTypePercentage,
		Value:    models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		UserID:   1,
		IsActive: true,
	}
	if err := env.db.Create(&coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	preview, err := env.orderSvc.Preview(1, "TEN")
	if err != nil {
		t.Fatalf("preview failed: %v", err)
	}
	if !preview.OriginalAmount.Decimal.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected original 200, got %s", preview.OriginalAmount.String())
	}
	if !preview.DiscountAmount.Decimal.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected discount 20, got %s", preview.DiscountAmount.String())
	}
	if !preview.TotalAmount.Decimal.Equal(decimal.NewFromInt(180)) {
		t.Fatalf("expected total 180, got %s", preview.TotalAmount.String())
	}

	// 预览不核销优惠券
	var got models.Coupon
	if err := env.db.First(&got, coupon.ID).Error; err != nil {
		t.Fatalf("load coupon failed: %v", err)
	}
	if got.IsUsed {
		t.Fatalf("expected coupon untouched after preview")
	}
}

func TestCreateFromCartWithCoupon(t *testing.T) {
	env := newOrderTestEnv(t, "order_checkout")
	product := env.createProduct(t, "earphones", 100.00, 10)
	env.addCartItem(t, 1, product.ID, 2)

	coupon := models.Coupon{
		Code:     "TEN",
		Type:     constants.CouponTypePercentage,
		Value:    models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		UserID:   1,
		IsActive: true,
	}
	if err := env.db.Create(&coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	order, err := env.orderSvc.CreateFromCart(1, "TEN", "127.0.0.1")
	if err != nil {
		t.Fatalf("create from cart failed: %v", err)
	}
	if order.Status != constants.OrderStatusPendingPayment {
		t.Fatalf("expected pending_payment, got %s", order.Status)
	}
	if !order.TotalAmount.Decimal.Equal(decimal.NewFromInt(180)) {
		t.Fatalf("expected total 180, got %s", order.TotalAmount.String())
	}
	if order.CouponID == nil || *order.CouponID != coupon.ID {
		t.Fatalf("expected coupon bound to order")
	}
	if len(order.Items) != 1 || order.Items[0].Quantity != 2 {
		t.Fatalf("unexpected order items: %+v", order.Items)
	}

	// 库存扣减、购物车清空、优惠券核销都在同一笔事务内
	if stock := env.stockOf(t, product.ID); stock != 8 {
		t.Fatalf("expected stock 8 after checkout, got %d", stock)
	}
	var cartCount int64
	if err := env.db.Model(&models.CartItem{}).Where("user_id = ?", 1).Count(&cartCount).Error; err != nil {
		t.Fatalf("count cart failed: %v", err)
	}
	if cartCount != 0 {
		t.Fatalf("expected cart cleared, got %d items", cartCount)
	}
	var gotCoupon models.Coupon
	if err := env.db.First(&gotCoupon, coupon.ID).Error; err != nil {
		t.Fatalf("load coupon failed: %v", err)
	}
	if !gotCoupon.IsUsed {
		t.Fatalf("expected coupon redeemed")
	}
	var usageCount int64
	if err := env.db.Model(&models.CouponUsage{}).Where("coupon_id = ?", coupon.ID).Count(&usageCount).Error; err != nil {
		t.Fatalf("count usages failed: %v", err)
	}
	if usageCount != 1 {
		t.Fatalf("expected 1 usage record, got %d", usageCount)
	}

	// 已核销的优惠券不能再次下单使用
	env.addCartItem(t, 1, product.ID, 1)
	if _, err := env.orderSvc.CreateFromCart(1, "TEN", "127.0.0.1"); !errors.Is(err, ErrCouponUsed) {
		t.Fatalf("expected ErrCouponUsed, got %v", err)
	}
}

func TestCreateFromCartInsufficientStock(t *testing.T) {
	env := newOrderTestEnv(t, "order_stock_short")
	product := env.createProduct(t, "watch", 50.00, 1)
	env.addCartItem(t, 1, product.ID, 3)

	if _, err := env.orderSvc.CreateFromCart(1, "", "127.0.0.1"); !errors.Is(err, ErrStockInsufficient) {
		t.Fatalf("expected ErrStockInsufficient, got %v", err)
	}

	// 失败回滚，库存与订单都不动
	if stock := env.stockOf(t, product.ID); stock != 1 {
		t.Fatalf("expected stock unchanged, got %d", stock)
	}
	var orderCount int64
	if err := env.db.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if orderCount != 0 {
		t.Fatalf("expected no orders persisted, got %d", orderCount)
	}
}

func TestCancelRestoresStock(t *testing.T) {
	env := newOrderTestEnv(t, "order_cancel")
	product := env.createProduct(t, "bag", 30.00, 5)
	env.addCartItem(t, 1, product.ID, 2)

	order, err := env.orderSvc.CreateFromCart(1, "", "127.0.0.1")
	if err != nil {
		t.Fatalf("create from cart failed: %v", err)
	}
	if stock := env.stockOf(t, product.ID); stock != 3 {
		t.Fatalf("expected stock 3 after checkout, got %d", stock)
	}

	canceled, err := env.orderSvc.Cancel(order.OrderNo, 1)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if canceled.Status != constants.OrderStatusCanceled || canceled.CanceledAt == nil {
		t.Fatalf("expected canceled order, got %+v", canceled)
	}
	if stock := env.stockOf(t, product.ID); stock != 5 {
		t.Fatalf("expected stock restored to 5, got %d", stock)
	}

	// 已取消的订单不能再取消
	if _, err := env.orderSvc.Cancel(order.OrderNo, 1); !errors.Is(err, ErrOrderNotCancelable) {
		t.Fatalf("expected ErrOrderNotCancelable, got %v", err)
	}
}

func TestCancelRejectsPaidOrder(t *testing.T) {
	env := newOrderTestEnv(t, "order_cancel_paid")
	product := env.createProduct(t, "bag", 30.00, 5)
	env.addCartItem(t, 1, product.ID, 1)

	order, err := env.orderSvc.CreateFromCart(1, "", "127.0.0.1")
	if err != nil {
		t.Fatalf("create from cart failed: %v", err)
	}
	if _, err := env.orderSvc.MarkPaid(order.OrderNo); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	if _, err := env.orderSvc.Cancel(order.OrderNo, 1); !errors.Is(err, ErrOrderNotCancelable) {
		t.Fatalf("expected ErrOrderNotCancelable for paid order, got %v", err)
	}
}

func TestMarkPaidIdempotent(t *testing.T) {
	env := newOrderTestEnv(t, "order_mark_paid")
	product := env.createProduct(t, "bag", 30.00, 5)
	env.addCartItem(t, 1, product.ID, 1)

	order, err := env.orderSvc.CreateFromCart(1, "", "127.0.0.1")
	if err != nil {
		t.Fatalf("create from cart failed: %v", err)
	}

	paid, err := env.orderSvc.MarkPaid(order.OrderNo)
	if err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	if paid.Status != constants.OrderStatusPaid || paid.PaidAt == nil {
		t.Fatalf("expected paid order, got %+v", paid)
	}
	firstPaidAt := *paid.PaidAt

	again, err := env.orderSvc.MarkPaid(order.OrderNo)
	if err != nil {
		t.Fatalf("second mark paid failed: %v", err)
	}
	if again.Status != constants.OrderStatusPaid || again.PaidAt == nil {
		t.Fatalf("expected idempotent mark paid, got %+v", again)
	}
	if again.PaidAt.Unix() != firstPaidAt.Unix() {
		t.Fatalf("expected paid time unchanged, got %v vs %v", again.PaidAt, firstPaidAt)
	}

	if _, err := env.orderSvc.MarkPaid("LS-MISSING"); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestGetByOrderNoOwnership(t *testing.T) {
	env := newOrderTestEnv(t, "order_ownership")
	product := env.createProduct(t, "bag", 30.00, 5)
	env.addCartItem(t, 1, product.ID, 1)

	order, err := env.orderSvc.CreateFromCart(1, "", "127.0.0.1")
	if err != nil {
		t.Fatalf("create from cart failed: %v", err)
	}

	if _, err := env.orderSvc.GetByOrderNo(order.OrderNo, 2); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound for other user, got %v", err)
	}
	// userID 为 0 时是管理端查询，不校验归属
	got, err := env.orderSvc.GetByOrderNo(order.OrderNo, 0)
	if err != nil {
		t.Fatalf("admin get failed: %v", err)
	}
	if got.OrderNo != order.OrderNo {
		t.Fatalf("unexpected order %s", got.OrderNo)
	}
}

func TestBuildOrderItemsApportionsDiscount(t *testing.T) {
	product1 := &models.Product{ID: 1, TitleJSON: models.JSON{"zh-CN": "甲"}}
	product2 := &models.Product{ID: 2, TitleJSON: models.JSON{"zh-CN": "乙"}}
	preview := &CheckoutPreview{
		Items: []CartItemDetail{
			{ProductID: 1, Quantity: 3, UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(50)), Product: product1},
			{ProductID: 2, Quantity: 1, UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(50)), Product: product2},
		},
		OriginalAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(200)),
		DiscountAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(20)),
	}

	items := buildOrderItems(preview)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if !items[0].CouponDiscount.Decimal.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("expected first share 15, got %s", items[0].CouponDiscount.String())
	}
	if !items[1].CouponDiscount.Decimal.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("expected second share 5, got %s", items[1].CouponDiscount.String())
	}
}

func TestBuildOrderItemsLastItemAbsorbsRemainder(t *testing.T) {
	preview := &CheckoutPreview{
		Items: []CartItemDetail{
			{ProductID: 1, Quantity: 1, UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromFloat(33.33))},
			{ProductID: 2, Quantity: 1, UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromFloat(33.33))},
			{ProductID: 3, Quantity: 1, UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromFloat(33.34))},
		},
		OriginalAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
		DiscountAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
	}

	items := buildOrderItems(preview)
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.CouponDiscount.Decimal)
	}
	if !sum.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected shares to sum to 10, got %s", sum.String())
	}
}
