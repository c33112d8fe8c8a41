package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/lumishop/lumishop/internal/config"
	"github.com/lumishop/lumishop/internal/constants"
	"github.com/lumishop/lumishop/internal/models"
	"github.com/lumishop/lumishop/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CouponService 优惠券服务
type CouponService struct {
	couponRepo repository.CouponRepository
	usageRepo  repository.CouponUsageRepository
	couponCfg  config.CouponConfig
}

// NewCouponService 创建优惠券服务
func NewCouponService(couponRepo repository.CouponRepository, usageRepo repository.CouponUsageRepository, couponCfg config.CouponConfig) *CouponService {
	return &CouponService{
		couponRepo: couponRepo,
		usageRepo:  usageRepo,
		couponCfg:  couponCfg,
	}
}

// Validate 校验优惠券对某用户是否可用。
// 校验顺序固定：存在 -> 归属 -> 未使用 -> 启用 -> 未过期
func (s *CouponService) Validate(code string, userID uint) (*models.Coupon, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return nil, ErrCouponNotFound
	}

	coupon, err := s.couponRepo.GetByCode(trimmed)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	if coupon.UserID != userID {
		return coupon, ErrCouponNotOwner
	}
	if coupon.IsUsed {
		return coupon, ErrCouponUsed
	}
	if !coupon.IsActive {
		return coupon, ErrCouponInactive
	}
	if coupon.Expired(time.Now()) {
		return coupon, ErrCouponExpired
	}
	return coupon, nil
}

// CalculateDiscount 计算折扣金额。
// percentage 按小计乘以百分比并四舍五入到分；fixed 按面值。
// 结果永远落在 [0, subtotal] 区间内
func (s *CouponService) CalculateDiscount(coupon *models.Coupon, subtotal models.Money) (models.Money, error) {
	if coupon == nil {
		return models.Money{}, ErrCouponInvalid
	}

	var discount decimal.Decimal
	switch strings.ToLower(strings.TrimSpace(coupon.Type)) {
	case constants.CouponTypePercentage:
		percent := coupon.Value.Decimal.Div(decimal.NewFromInt(100))
		discount = subtotal.Decimal.Mul(percent).Round(2)
	case constants.CouponTypeFixed:
		discount = coupon.Value.Decimal
	default:
		return models.Money{}, ErrCouponInvalid
	}

	if discount.LessThan(decimal.Zero) {
		discount = decimal.Zero
	}
	if discount.GreaterThan(subtotal.Decimal) {
		discount = subtotal.Decimal
	}
	return models.NewMoneyFromDecimal(discount), nil
}

// Apply 校验并计算折扣，供下单预览与结算复用
func (s *CouponService) Apply(code string, userID uint, subtotal models.Money) (models.Money, *models.Coupon, error) {
	coupon, err := s.Validate(code, userID)
	if err != nil {
		return models.Money{}, coupon, err
	}
	discount, err := s.CalculateDiscount(coupon, subtotal)
	if err != nil {
		return models.Money{}, coupon, err
	}
	return discount, coupon, nil
}

// Redeem 在事务内核销优惠券并记录使用流水。
// 数据库层按 is_used = false 条件更新，并发重复核销只会有一次成功
func (s *CouponService) Redeem(tx *gorm.DB, coupon *models.Coupon, userID, orderID uint, discount models.Money) error {
	if coupon == nil {
		return ErrCouponInvalid
	}
	now := time.Now()
	affected, err := s.couponRepo.WithTx(tx).MarkUsed(coupon.ID, now)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCouponUsed
	}
	coupon.IsUsed = true
	coupon.UsedAt = &now

	usage := &models.CouponUsage{
		CouponID:       coupon.ID,
		UserID:         userID,
		OrderID:        orderID,
		DiscountAmount: discount,
	}
	return s.usageRepo.WithTx(tx).Create(usage)
}

// IssueWelcomeCoupon 为新注册用户发放欢迎券
func (s *CouponService) IssueWelcomeCoupon(userID uint) (*models.Coupon, error) {
	if !s.couponCfg.WelcomeEnabled || userID == 0 {
		return nil, nil
	}

	value, err := models.NewMoneyFromString(strings.TrimSpace(s.couponCfg.WelcomeValue))
	if err != nil {
		return nil, err
	}

	couponType := strings.ToLower(strings.TrimSpace(s.couponCfg.WelcomeType))
	if couponType != constants.CouponTypePercentage && couponType != constants.CouponTypeFixed {
		return nil, ErrCouponInvalid
	}

	prefix := strings.TrimSpace(s.couponCfg.WelcomeCodePrefix)
	if prefix == "" {
		prefix = "WELCOME"
	}
	code := fmt.Sprintf("%s-%s", prefix, strings.ToUpper(uuid.NewString()[:8]))

	coupon := &models.Coupon{
		Code:     code,
		Type:     couponType,
		Value:    value,
		UserID:   userID,
		Kind:     constants.CouponKindWelcome,
		IsActive: true,
	}
	if days := s.couponCfg.WelcomeExpireDays; days > 0 {
		expiresAt := time.Now().AddDate(0, 0, days)
		coupon.ExpiresAt = &expiresAt
	}

	if err := s.couponRepo.Create(coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// ListByUser 查询用户的优惠券
func (s *CouponService) ListByUser(userID uint, page, pageSize int) ([]models.Coupon, int64, error) {
	return s.couponRepo.List(repository.CouponListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
	})
}

// AdminIssueInput 管理端发券输入
type AdminIssueInput struct {
	UserID     uint
	Type       string
	Value      models.Money
	Code       string
	ExpireDays int
}

// AdminIssue 管理端给指定用户发放促销券
func (s *CouponService) AdminIssue(input AdminIssueInput) (*models.Coupon, error) {
	couponType := strings.ToLower(strings.TrimSpace(input.Type))
	if couponType != constants.CouponTypeFixed && couponType != constants.CouponTypePercentage {
		return nil, ErrCouponInvalid
	}
	if input.Value.Decimal.LessThanOrEqual(decimal.Zero) {
		return nil, ErrCouponInvalid
	}

	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" {
		code = fmt.Sprintf("PROMO-%s", strings.ToUpper(uuid.NewString()[:8]))
	}
	if exist, err := s.couponRepo.GetByCode(code); err != nil {
		return nil, err
	} else if exist != nil {
		return nil, ErrCouponInvalid
	}

	coupon := &models.Coupon{
		Code:     code,
		Type:     couponType,
		Value:    input.Value,
		UserID:   input.UserID,
		Kind:     constants.CouponKindPromo,
		IsActive: true,
	}
	if input.ExpireDays > 0 {
		expiresAt := time.Now().AddDate(0, 0, input.ExpireDays)
		coupon.ExpiresAt = &expiresAt
	}

	if err := s.couponRepo.Create(coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// AdminSetActive 管理端启用/停用优惠券
func (s *CouponService) AdminSetActive(id uint, active bool) (*models.Coupon, error) {
	coupon, err := s.couponRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	coupon.IsActive = active
	if err := s.couponRepo.Update(coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// AdminList 管理端优惠券列表
func (s *CouponService) AdminList(filter repository.CouponListFilter) ([]models.Coupon, int64, error) {
	return s.couponRepo.List(filter)
}

// AdminListUsages 管理端核销记录列表
func (s *CouponService) AdminListUsages(filter repository.CouponUsageListFilter) ([]models.CouponUsage, int64, error) {
	return s.usageRepo.List(filter)
}
