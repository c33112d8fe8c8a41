package i18n

import "github.com/lumishop/lumishop/internal/constants"

// catalogs 各语言文案表。key 统一为 error.* / message.* 前缀
var catalogs = map[string]map[string]string{
	constants.LocaleZhCN: {
		"error.bad_request":            "请求参数错误",
		"error.unauthorized":           "未登录或登录已过期",
		"error.forbidden":              "没有权限执行该操作",
		"error.not_found":              "资源不存在",
		"error.internal_error":         "服务器内部错误",
		"error.token_invalid":          "登录凭证无效",
		"error.token_revoked":          "登录凭证已失效，请重新登录",
		"error.auth_header_missing":    "缺少认证信息",
		"error.auth_header_invalid":    "认证信息格式错误",
		"error.jwt_secret_missing":     "服务端登录配置缺失",
		"error.user_disabled":          "账号已被禁用",
		"error.invalid_credentials":    "邮箱或密码错误",
		"error.email_taken":            "该邮箱已被注册",
		"error.user_status_invalid":    "用户状态取值不合法",
		"error.captcha_required":       "请完成验证码校验",
		"error.captcha_invalid":        "验证码错误或已过期",
		"error.rate_limited":           "操作过于频繁，请稍后再试",
		"error.rate_limit_unavailable": "限流服务不可用，请稍后再试",
		"error.password_min_length":    "密码长度不能少于 %d 位",
		"error.password_require_upper":    "密码需要包含大写字母",
		"error.password_require_lower":    "密码需要包含小写字母",
		"error.password_require_number":   "密码需要包含数字",
		"error.password_require_special":  "密码需要包含特殊字符",
		"error.password_weak":             "密码强度不足",
		"error.user_id_invalid":           "用户身份缺失，请重新登录",
		"error.user_id_type_invalid":      "用户身份异常，请重新登录",
		"error.admin_id_invalid":          "管理员身份缺失，请重新登录",
		"error.admin_id_type_invalid":     "管理员身份异常，请重新登录",

		"error.category_not_found":  "分类不存在",
		"error.category_in_use":     "分类下仍有商品，无法删除",
		"error.product_not_found":   "商品不存在",
		"error.product_inactive":    "商品已下架",
		"error.slug_taken":          "标识已被占用",
		"error.quantity_invalid":    "数量不合法",
		"error.stock_insufficient":  "商品库存不足",
		"error.cart_empty":          "购物车为空",
		"error.cart_item_not_found": "购物车条目不存在",
		"error.order_not_found":     "订单不存在",
		"error.order_not_cancelable": "订单当前状态不可取消",

		"error.coupon_not_found":    "优惠券不存在",
		"error.coupon_not_owner":    "该优惠券不属于当前用户",
		"error.coupon_used":         "优惠券已被使用",
		"error.coupon_inactive":     "优惠券已停用",
		"error.coupon_expired":      "优惠券已过期",
		"error.coupon_type_invalid": "优惠券类型不合法",

		"error.review_not_found":      "评价不存在",
		"error.review_exists":         "您已评价过该商品",
		"error.review_rating_invalid": "评分必须是 1 到 5 的整数",
		"error.review_status_invalid": "评价状态不合法",

		"error.stock_product_in_stock": "商品有货，无需订阅到货通知",
		"error.subscribe_email_invalid": "订阅邮箱格式不正确",

		"message.success": "操作成功",

		"email.restock.subject":           "「%s」已到货",
		"email.restock.body":              "您关注的商品「%s」已补货，当前库存 %d 件。\n\n商品链接：/products/%s\n\n欢迎尽快选购。",
		"email.welcome_coupon.subject":    "欢迎礼：您的新人优惠券已到账",
		"email.welcome_coupon.body":       "感谢注册！您的新人优惠券码：%s（面额 %s），有效期至 %s。",
		"email.review_moderation.subject": "有新评论待审核",
		"email.review_moderation.body":    "商品「%s」收到一条 %d 星新评论：\n\n%s\n\n请登录管理后台审核（评论 ID：%d）。",
	},
	constants.LocaleZhTW: {
		"error.bad_request":            "請求參數錯誤",
		"error.unauthorized":           "未登入或登入已過期",
		"error.forbidden":              "沒有權限執行該操作",
		"error.not_found":              "資源不存在",
		"error.internal_error":         "伺服器內部錯誤",
		"error.token_invalid":          "登入憑證無效",
		"error.token_revoked":          "登入憑證已失效，請重新登入",
		"error.auth_header_missing":    "缺少認證資訊",
		"error.auth_header_invalid":    "認證資訊格式錯誤",
		"error.jwt_secret_missing":     "伺服端登入設定缺失",
		"error.user_disabled":          "帳號已被停用",
		"error.invalid_credentials":    "信箱或密碼錯誤",
		"error.email_taken":            "該信箱已被註冊",
		"error.user_status_invalid":    "用戶狀態取值不合法",
		"error.captcha_required":       "請完成驗證碼校驗",
		"error.captcha_invalid":        "驗證碼錯誤或已過期",
		"error.rate_limited":           "操作過於頻繁，請稍後再試",
		"error.rate_limit_unavailable": "限流服務不可用，請稍後再試",
		"error.password_min_length":    "密碼長度不能少於 %d 位",
		"error.password_require_upper":    "密碼需要包含大寫字母",
		"error.password_require_lower":    "密碼需要包含小寫字母",
		"error.password_require_number":   "密碼需要包含數字",
		"error.password_require_special":  "密碼需要包含特殊字元",
		"error.password_weak":             "密碼強度不足",
		"error.user_id_invalid":           "用戶身份缺失，請重新登入",
		"error.user_id_type_invalid":      "用戶身份異常，請重新登入",
		"error.admin_id_invalid":          "管理員身份缺失，請重新登入",
		"error.admin_id_type_invalid":     "管理員身份異常，請重新登入",

		"error.category_not_found":  "分類不存在",
		"error.category_in_use":     "分類下仍有商品，無法刪除",
		"error.product_not_found":   "商品不存在",
		"error.product_inactive":    "商品已下架",
		"error.slug_taken":          "標識已被佔用",
		"error.quantity_invalid":    "數量不合法",
		"error.stock_insufficient":  "商品庫存不足",
		"error.cart_empty":          "購物車為空",
		"error.cart_item_not_found": "購物車項目不存在",
		"error.order_not_found":     "訂單不存在",
		"error.order_not_cancelable": "訂單當前狀態不可取消",

		"error.coupon_not_found":    "優惠券不存在",
		"error.coupon_not_owner":    "該優惠券不屬於當前用戶",
		"error.coupon_used":         "優惠券已被使用",
		"error.coupon_inactive":     "優惠券已停用",
		"error.coupon_expired":      "優惠券已過期",
		"error.coupon_type_invalid": "優惠券類型不合法",

		"error.review_not_found":      "評價不存在",
		"error.review_exists":         "您已評價過該商品",
		"error.review_rating_invalid": "評分必須是 1 到 5 的整數",
		"error.review_status_invalid": "評價狀態不合法",

		"error.stock_product_in_stock": "商品有貨，無需訂閱到貨通知",
		"error.subscribe_email_invalid": "訂閱信箱格式不正確",

		"message.success": "操作成功",

		"email.restock.subject":           "「%s」已到貨",
		"email.restock.body":              "您關注的商品「%s」已補貨，當前庫存 %d 件。\n\n商品連結：/products/%s\n\n歡迎盡快選購。",
		"email.welcome_coupon.subject":    "歡迎禮：您的新人優惠券已到帳",
		"email.welcome_coupon.body":       "感謝註冊！您的新人優惠券碼：%s（面額 %s），有效期至 %s。",
		"email.review_moderation.subject": "有新評論待審核",
		"email.review_moderation.body":    "商品「%s」收到一條 %d 星新評論：\n\n%s\n\n請登入管理後台審核（評論 ID：%d）。",
	},
	constants.LocaleEnUS: {
		"error.bad_request":            "Invalid request parameters",
		"error.unauthorized":           "Not logged in or session expired",
		"error.forbidden":              "You do not have permission to perform this action",
		"error.not_found":              "Resource not found",
		"error.internal_error":         "Internal server error",
		"error.token_invalid":          "Invalid credentials",
		"error.token_revoked":          "Session revoked, please sign in again",
		"error.auth_header_missing":    "Missing authorization header",
		"error.auth_header_invalid":    "Malformed authorization header",
		"error.jwt_secret_missing":     "Server login configuration missing",
		"error.user_disabled":          "Account is disabled",
		"error.invalid_credentials":    "Incorrect email or password",
		"error.email_taken":            "Email is already registered",
		"error.user_status_invalid":    "Invalid user status value",
		"error.captcha_required":       "Please complete the captcha",
		"error.captcha_invalid":        "Captcha is wrong or expired",
		"error.rate_limited":           "Too many requests, please try again later",
		"error.rate_limit_unavailable": "Rate limiter unavailable, please try again later",
		"error.password_min_length":    "Password must be at least %d characters",
		"error.password_require_upper":    "Password must contain an uppercase letter",
		"error.password_require_lower":    "Password must contain a lowercase letter",
		"error.password_require_number":   "Password must contain a digit",
		"error.password_require_special":  "Password must contain a special character",
		"error.password_weak":             "Password is too weak",
		"error.user_id_invalid":           "User identity missing, please sign in again",
		"error.user_id_type_invalid":      "User identity malformed, please sign in again",
		"error.admin_id_invalid":          "Admin identity missing, please sign in again",
		"error.admin_id_type_invalid":     "Admin identity malformed, please sign in again",

		"error.category_not_found":  "Category not found",
		"error.category_in_use":     "Category still has products and cannot be deleted",
		"error.product_not_found":   "Product not found",
		"error.product_inactive":    "Product is no longer available",
		"error.slug_taken":          "Slug is already taken",
		"error.quantity_invalid":    "Invalid quantity",
		"error.stock_insufficient":  "Insufficient stock",
		"error.cart_empty":          "Cart is empty",
		"error.cart_item_not_found": "Cart item not found",
		"error.order_not_found":     "Order not found",
		"error.order_not_cancelable": "Order cannot be canceled in its current status",

		"error.coupon_not_found":    "Coupon not found",
		"error.coupon_not_owner":    "Coupon does not belong to the current user",
		"error.coupon_used":         "Coupon has already been used",
		"error.coupon_inactive":     "Coupon is inactive",
		"error.coupon_expired":      "Coupon has expired",
		"error.coupon_type_invalid": "Invalid coupon type",

		"error.review_not_found":      "Review not found",
		"error.review_exists":         "You have already reviewed this product",
		"error.review_rating_invalid": "Rating must be an integer between 1 and 5",
		"error.review_status_invalid": "Invalid review status",

		"error.stock_product_in_stock": "Product is in stock, no need to subscribe",
		"error.subscribe_email_invalid": "Invalid subscription email",

		"message.success": "OK",

		"email.restock.subject":           "\"%s\" is back in stock",
		"email.restock.body":              "The product \"%s\" you subscribed to is back in stock (%d available).\n\nProduct link: /products/%s\n\nGrab it while it lasts.",
		"email.welcome_coupon.subject":    "Welcome gift: your coupon is ready",
		"email.welcome_coupon.body":       "Thanks for signing up! Your welcome coupon code is %s (value %s), valid until %s.",
		"email.review_moderation.subject": "New review pending moderation",
		"email.review_moderation.body":    "Product \"%s\" received a new %d-star review:\n\n%s\n\nPlease moderate it in the admin console (review ID: %d).",
	},
}
