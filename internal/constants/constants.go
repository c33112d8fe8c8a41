package constants

// 订单状态常量
const (
	OrderStatusPendingPayment = "pending_payment"
	OrderStatusPaid           = "paid"
	OrderStatusCompleted      = "completed"
	OrderStatusCanceled       = "canceled"
)

// 优惠券类型常量
const (
	CouponTypeFixed      = "fixed"
	CouponTypePercentage = "percentage"
)

// 优惠券种类常量
const (
	CouponKindWelcome = "welcome"
	CouponKindPromo   = "promo"
)

// 评价状态常量
const (
	ReviewStatusPending  = "pending"
	ReviewStatusApproved = "approved"
	ReviewStatusRejected = "rejected"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 登录日志失败原因常量
const (
	LoginFailReasonBadRequest         = "bad_request"
	LoginFailReasonCaptchaRequired    = "captcha_required"
	LoginFailReasonCaptchaInvalid     = "captcha_invalid"
	LoginFailReasonInvalidCredentials = "invalid_credentials"
	LoginFailReasonUserDisabled       = "user_disabled"
)

// 验证码提供方常量
const (
	CaptchaProviderNone  = "none"
	CaptchaProviderImage = "image"
)

// 验证码校验场景常量
const (
	CaptchaSceneLogin    = "login"
	CaptchaSceneRegister = "register"
)

// 队列常量
const (
	QueueDefault          = "default"
	TaskRestockNotify     = "stock:restock_notify"
	TaskWelcomeCoupon     = "user:welcome_coupon"
	TaskReviewNotifyAdmin = "review:notify_admin"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "ls"
)

// 币种常量
const (
	SiteCurrencyDefault = "CNY"
)

// 站点语言常量
const (
	LocaleZhCN = "zh-CN"
	LocaleZhTW = "zh-TW"
	LocaleEnUS = "en-US"
)

// 支持的站点语言顺序（含回退顺序）
var SupportedLocales = []string{LocaleZhCN, LocaleZhTW, LocaleEnUS}

// 实时推送事件常量
const (
	RealtimeEventRestock = "product_restock"
)
