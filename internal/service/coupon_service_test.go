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

func newCouponTestService(t *testing.T, name string) (*CouponService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Coupon{}, &models.CouponUsage{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	svc := NewCouponService(
		repository.NewCouponRepository(db),
		repository.NewCouponUsageRepository(db),
		config.CouponConfig{},
	)
	return svc, db
}

func TestCalculateDiscountPercentage(t *testing.T) {
	svc := NewCouponService(nil, nil, config.CouponConfig{})
	coupon := &models.Coupon{
		Type:  constants.CouponTypePercentage,
		Value: models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
	}
	subtotal := models.NewMoneyFromDecimal(decimal.NewFromFloat(200.00))

	discount, err := svc.CalculateDiscount(coupon, subtotal)
	if err != nil {
		t.Fatalf("calculate discount failed: %v", err)
	}
	if !discount.Decimal.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected discount 20, got %s", discount.String())
	}
}

func TestCalculateDiscountPercentageRounding(t *testing.T) {
	svc := NewCouponService(nil, nil, config.CouponConfig{})
	coupon := &models.Coupon{
		Type:  constants.CouponTypePercentage,
		Value: models.NewMoneyFromDecimal(decimal.NewFromInt(15)),
	}
	// 33.33 * 15% = 4.9995，四舍五入到分应得 5.00
	subtotal := models.NewMoneyFromDecimal(decimal.NewFromFloat(33.33))

	discount, err := svc.CalculateDiscount(coupon, subtotal)
	if err != nil {
		t.Fatalf("calculate discount failed: %v", err)
	}
	if !discount.Decimal.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("expected discount 5, got %s", discount.String())
	}
}

func TestCalculateDiscountFixedClampedToSubtotal(t *testing.T) {
	svc := NewCouponService(nil, nil, config.CouponConfig{})
	coupon := &models.Coupon{
		Type:  constants.CouponTypeFixed,
		Value: models.NewMoneyFromDecimal(decimal.NewFromInt(80)),
	}
	subtotal := models.NewMoneyFromDecimal(decimal.NewFromInt(50))

	discount, err := svc.CalculateDiscount(coupon, subtotal)
	if err != nil {
		t.Fatalf("calculate discount failed: %v", err)
	}
	if !discount.Decimal.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected discount clamped to 50, got %s", discount.String())
	}
}

func TestCalculateDiscountRejectsUnknownType(t *testing.T) {
	svc := NewCouponService(nil, nil, config.CouponConfig{})
	coupon := &models.Coupon{
		Type:  "buy-one-get-one",
		Value: models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
	}
	if _, err := svc.CalculateDiscount(coupon, models.NewMoneyFromDecimal(decimal.NewFromInt(100))); !errors.Is(err, ErrCouponInvalid) {
		t.Fatalf("expected ErrCouponInvalid, got %v", err)
	}
}

func TestValidateCouponChecks(t *testing.T) {
	svc, db := newCouponTestService(t, "coupon_validate")

	past := time.Now().Add(-time.Hour)
	coupons := []models.Coupon{
		{Code: "OTHER", Type: constants.CouponTypeFixed, Value: models.NewMoneyFromDecimal(decimal.NewFromInt(5)), UserID: 2, IsActive: true},
		{Code: "USED", Type: constants.CouponTypeFixed, Value: models.NewMoneyFromDecimal(decimal.NewFromInt(5)), UserID: 1, IsUsed: true, IsActive: true},
		{Code: "OFF", Type: constants.CouponTypeFixed, Value: models.NewMoneyFromDecimal(decimal.NewFromInt(5)), UserID: 1, IsActive: false},
		{Code: "EXPIRED", Type: constants.CouponTypeFixed, Value: models.NewMoneyFromDecimal(decimal.NewFromInt(5)), UserID: 1, IsActive: true, ExpiresAt: &past},
		{Code: "GOOD", Type: constants.CouponTypeFixed, Value: models.NewMoneyFromDecimal(decimal.NewFromInt(5)), UserID: 1, IsActive: true},
	}
	for i := range coupons {
		if err := db.Create(&coupons[i]).Error; err != nil {
			t.Fatalf("create coupon failed: %v", err)
		}
	}

	if _, err := svc.Validate("MISSING", 1); !errors.Is(err, ErrCouponNotFound) {
		t.Fatalf("expected ErrCouponNotFound, got %v", err)
	}
	if _, err := svc.Validate("", 1); !errors.Is(err, ErrCouponNotFound) {
		t.Fatalf("expected ErrCouponNotFound for blank code, got %v", err)
	}
	if _, err := svc.Validate("OTHER", 1); !errors.Is(err, ErrCouponNotOwner) {
		t.Fatalf("expected ErrCouponNotOwner, got %v", err)
	}
	if _, err := svc.Validate("USED", 1); !errors.Is(err, ErrCouponUsed) {
		t.Fatalf("expected ErrCouponUsed, got %v", err)
	}
	if _, err := svc.Validate("OFF", 1); !errors.Is(err, ErrCouponInactive) {
		t.Fatalf("expected ErrCouponInactive, got %v", err)
	}
	if _, err := svc.Validate("EXPIRED", 1); !errors.Is(err, ErrCouponExpired) {
		t.Fatalf("expected ErrCouponExpired, got %v", err)
	}

	coupon, err := svc.Validate(" good ", 1)
	if err != nil {
		t.Fatalf("expected valid coupon, got %v", err)
	}
	if coupon.Code != "GOOD" {
		t.Fatalf("expected code GOOD, got %s", coupon.Code)
	}
}

func TestRedeemCouponOnlyOnce(t *testing.T) {
	svc, db := newCouponTestService(t, "coupon_redeem")

	coupon := models.Coupon{
		Code:     "REDEEM",
		Type:     constants.CouponTypeFixed,
		Value:    models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		UserID:   1,
		IsActive: true,
	}
	if err := db.Create(&coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	discount := models.NewMoneyFromDecimal(decimal.NewFromInt(10))
	if err := svc.Redeem(db, &coupon, 1, 100, discount); err != nil {
		t.Fatalf("first redeem failed: %v", err)
	}
	if !coupon.IsUsed || coupon.UsedAt == nil {
		t.Fatalf("expected coupon marked used after redeem")
	}

	again := models.Coupon{ID: coupon.ID}
	if err := svc.Redeem(db, &again, 1, 101, discount); !errors.Is(err, ErrCouponUsed) {
		t.Fatalf("expected ErrCouponUsed on second redeem, got %v", err)
	}

	var usageCount int64
	if err := db.Model(&models.CouponUsage{}).Where("coupon_id = ?", coupon.ID).Count(&usageCount).Error; err != nil {
		t.Fatalf("count usages failed: %v", err)
	}
	if usageCount != 1 {
		t.Fatalf("expected exactly 1 usage record, got %d", usageCount)
	}
}

func TestAdminIssueValidation(t *testing.T) {
	svc, _ := newCouponTestService(t, "coupon_admin_issue")

	if _, err := svc.AdminIssue(AdminIssueInput{UserID: 1, Type: "unknown", Value: models.NewMoneyFromDecimal(decimal.NewFromInt(10))}); !errors.Is(err, ErrCouponInvalid) {
		t.Fatalf("expected ErrCouponInvalid for unknown type, got %v", err)
	}
	if _, err := svc.AdminIssue(AdminIssueInput{UserID: 1, Type: constants.CouponTypeFixed, Value: models.NewMoneyFromDecimal(decimal.Zero)}); !errors.Is(err, ErrCouponInvalid) {
		t.Fatalf("expected ErrCouponInvalid for zero value, got %v", err)
	}

	coupon, err := svc.AdminIssue(AdminIssueInput{
		UserID:     7,
		Type:       constants.CouponTypePercentage,
		Value:      models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		Code:       "promo-10",
		ExpireDays: 30,
	})
	if err != nil {
		t.Fatalf("admin issue failed: %v", err)
	}
	if coupon.Code != "PROMO-10" {
		t.Fatalf("expected normalized code PROMO-10, got %s", coupon.Code)
	}
	if coupon.Kind != constants.CouponKindPromo {
		t.Fatalf("expected promo kind, got %s", coupon.Kind)
	}
	if coupon.ExpiresAt == nil {
		t.Fatalf("expected expiry set")
	}

	if _, err := svc.AdminIssue(AdminIssueInput{
		UserID: 8,
		Type:   constants.CouponTypePercentage,
		Value:  models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		Code:   "PROMO-10",
	}); !errors.Is(err, ErrCouponInvalid) {
		t.Fatalf("expected ErrCouponInvalid for duplicate code, got %v", err)
	}
}

func TestIssueWelcomeCoupon(t *testing.T) {
	dsn := fmt.Sprintf("file:coupon_welcome_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Coupon{}, &models.CouponUsage{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	svc := NewCouponService(
		repository.NewCouponRepository(db),
		repository.NewCouponUsageRepository(db),
		config.CouponConfig{
			WelcomeEnabled:    true,
			WelcomeType:       constants.CouponTypePercentage,
			WelcomeValue:      "10",
			WelcomeExpireDays: 7,
		},
	)

	coupon, err := svc.IssueWelcomeCoupon(42)
	if err != nil {
		t.Fatalf("issue welcome coupon failed: %v", err)
	}
	if coupon == nil {
		t.Fatalf("expected coupon issued")
	}
	if coupon.UserID != 42 || coupon.Kind != constants.CouponKindWelcome {
		t.Fatalf("unexpected coupon: %+v", coupon)
	}
	if coupon.ExpiresAt == nil {
		t.Fatalf("expected expiry set")
	}

	disabled := NewCouponService(nil, nil, config.CouponConfig{WelcomeEnabled: false})
	if c, err := disabled.IssueWelcomeCoupon(42); err != nil || c != nil {
		t.Fatalf("expected no coupon when disabled, got %v %v", c, err)
	}
}
