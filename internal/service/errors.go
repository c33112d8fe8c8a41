package service

import "errors"

// 服务层业务错误，由 handler 层映射为响应码与多语言文案
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserDisabled       = errors.New("user disabled")
	ErrEmailTaken         = errors.New("email taken")
	ErrUserStatusInvalid  = errors.New("user status invalid")
	ErrWeakPassword       = errors.New("weak password")
	ErrCaptchaRequired    = errors.New("captcha required")
	ErrCaptchaInvalid     = errors.New("captcha invalid")

	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryInUse    = errors.New("category in use")
	ErrProductNotFound  = errors.New("product not found")
	ErrProductInactive  = errors.New("product inactive")
	ErrSlugTaken        = errors.New("slug taken")
	ErrQuantityInvalid  = errors.New("quantity invalid")
	ErrStockInsufficient = errors.New("stock insufficient")

	ErrCartEmpty        = errors.New("cart empty")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderNotCancelable = errors.New("order not cancelable")

	ErrCouponInvalid  = errors.New("coupon invalid")
	ErrCouponNotFound = errors.New("coupon not found")
	ErrCouponNotOwner = errors.New("coupon not owned by user")
	ErrCouponUsed     = errors.New("coupon already used")
	ErrCouponInactive = errors.New("coupon inactive")
	ErrCouponExpired  = errors.New("coupon expired")

	ErrReviewNotFound      = errors.New("review not found")
	ErrReviewExists        = errors.New("review already exists")
	ErrReviewRatingInvalid = errors.New("review rating invalid")
	ErrReviewStatusInvalid = errors.New("review status invalid")

	ErrProductInStock       = errors.New("product in stock")
	ErrSubscribeEmailInvalid = errors.New("subscribe email invalid")

	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrInvalidEmail              = errors.New("invalid email address")
)
