package router

import (
	"sort"
	"strings"

	"github.com/lumishop/lumishop/internal/authz"
	"github.com/lumishop/lumishop/internal/cache"
	"github.com/lumishop/lumishop/internal/config"
	adminhandlers "github.com/lumishop/lumishop/internal/http/handlers/admin"
	publichandlers "github.com/lumishop/lumishop/internal/http/handlers/public"
	"github.com/lumishop/lumishop/internal/http/response"
	"github.com/lumishop/lumishop/internal/logger"
	"github.com/lumishop/lumishop/internal/provider"
	"github.com/lumishop/lumishop/internal/realtime"

	"github.com/gin-gonic/gin"
)

// newLoginRateRule 登录限流规则，前台与后台共用同一套阈值、各自计数
func newLoginRateRule(cfg *config.Config, scope string) RateLimitRule {
	prefix := strings.TrimSpace(cfg.Redis.Prefix)
	if prefix == "" {
		prefix = "ls"
	}
	return RateLimitRule{
		Prefix:        prefix + ":rate:" + scope,
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.rate_limited",
	}
}

// SetupRouter 组装全部路由与全局中间件
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	registerPublicRoutes(apiV1, cfg, c, publichandlers.New(c))
	registerAdminRoutes(apiV1, cfg, c, adminhandlers.New(c), r)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

// registerPublicRoutes 买家侧路由：游客可见的目录与订阅，登录后的购物流程
func registerPublicRoutes(apiV1 *gin.RouterGroup, cfg *config.Config, c *provider.Container, h *publichandlers.Handler) {
	public := apiV1.Group("/public")
	{
		public.GET("/categories", h.GetCategories)
		public.GET("/products", h.GetProducts)
		public.GET("/products/:slug", h.GetProductBySlug)
		public.GET("/products/:slug/reviews", h.GetProductReviews)
		public.GET("/captcha", h.GetCaptcha)
	}

	// 到货通知订阅按邮箱登记，无需登录
	apiV1.POST("/stock-subscriptions/:product_id", h.SubscribeStock)
	apiV1.DELETE("/stock-subscriptions/:product_id", h.UnsubscribeStock)

	// 到货事件实时推送
	apiV1.GET("/ws/stock", realtime.ServeWs(c.Hub, cfg.StockNotify.WSSendBufferSize))

	auth := apiV1.Group("/auth")
	{
		auth.POST("/register", h.UserRegister)
		auth.POST("/login",
			RateLimitMiddleware(cache.Client(), newLoginRateRule(cfg, "login"), KeyByIPAndJSONField("email")),
			h.UserLogin)
	}

	user := apiV1.Group("")
	user.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo))
	{
		user.GET("/me", h.GetUserProfile)
		user.PUT("/me/profile", h.UpdateUserProfile)
		user.PUT("/me/password", h.UserChangePassword)
		user.GET("/me/coupons", h.GetMyCoupons)
		user.GET("/me/reviews", h.GetMyReviews)

		user.GET("/cart", h.GetCart)
		user.POST("/cart/items", h.UpsertCartItem)
		user.DELETE("/cart/items/:product_id", h.RemoveCartItem)
		user.DELETE("/cart", h.ClearCart)

		user.POST("/coupons/validate", h.ValidateCoupon)

		user.POST("/orders/preview", h.PreviewCheckout)
		user.POST("/orders", h.CreateOrder)
		user.GET("/orders", h.ListMyOrders)
		user.GET("/orders/:order_no", h.GetOrder)
		user.POST("/orders/:order_no/pay", h.PayOrder)
		user.POST("/orders/:order_no/cancel", h.CancelOrder)

		user.POST("/products/:product_id/reviews", h.CreateReview)
		user.PUT("/reviews/:id", h.UpdateReview)
		user.DELETE("/reviews/:id", h.DeleteReview)
		user.POST("/reviews/:id/helpful", h.MarkReviewHelpful)
	}
}

// registerAdminRoutes 后台路由：登录外全部走 JWT + RBAC
func registerAdminRoutes(apiV1 *gin.RouterGroup, cfg *config.Config, c *provider.Container, h *adminhandlers.Handler, engine *gin.Engine) {
	admin := apiV1.Group("/admin")

	admin.POST("/login",
		RateLimitMiddleware(cache.Client(), newLoginRateRule(cfg, "admin_login"), KeyByIP),
		h.AdminLogin)

	authorized := admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo), AdminRBACMiddleware(c.AuthzService))
	{
		authorized.GET("/me", h.GetAdminProfile)
		authorized.PUT("/password", h.UpdateAdminPassword)

		// 商品管理
		authorized.GET("/products", h.GetAdminProducts)
		authorized.GET("/products/:id", h.GetAdminProduct)
		authorized.POST("/products", h.CreateProduct)
		authorized.PUT("/products/:id", h.UpdateProduct)
		authorized.DELETE("/products/:id", h.DeleteProduct)
		authorized.PUT("/products/:id/stock", h.SetProductStock)

		// 分类管理
		authorized.GET("/categories", h.GetAdminCategories)
		authorized.POST("/categories", h.CreateCategory)
		authorized.PUT("/categories/:id", h.UpdateCategory)
		authorized.DELETE("/categories/:id", h.DeleteCategory)

		// 评价审核
		authorized.GET("/reviews", h.GetAdminReviews)
		authorized.PATCH("/reviews/:id/status", h.SetReviewStatus)
		authorized.DELETE("/reviews/:id", h.DeleteReview)

		// 订单管理
		authorized.GET("/orders", h.GetAdminOrders)
		authorized.GET("/orders/:order_no", h.GetAdminOrder)
		authorized.POST("/orders/:order_no/mark-paid", h.MarkOrderPaid)
		authorized.POST("/orders/:order_no/cancel", h.CancelAdminOrder)

		// 优惠券管理
		authorized.POST("/coupons", h.IssueCoupon)
		authorized.GET("/coupons", h.GetAdminCoupons)
		authorized.PATCH("/coupons/:id/active", h.SetCouponActive)
		authorized.GET("/coupons/usages", h.GetAdminCouponUsages)

		// 用户管理
		authorized.GET("/users", h.GetAdminUsers)
		authorized.PATCH("/users/status", h.SetUserStatus)

		// 到货订阅
		authorized.GET("/stock-subscriptions", h.GetAdminStockSubscriptions)
		authorized.POST("/stock-subscriptions/:product_id/dispatch", h.DispatchStockNotifications)

		// 权限管理
		authorized.GET("/authz/roles", h.ListAuthzRoles)
		authorized.POST("/authz/roles", h.CreateAuthzRole)
		authorized.GET("/authz/roles/:role/policies", h.GetAuthzRolePolicies)
		authorized.POST("/authz/policies", h.GrantAuthzPolicy)
		authorized.DELETE("/authz/policies", h.RevokeAuthzPolicy)
		authorized.GET("/authz/admins", h.ListAuthzAdmins)
		authorized.PUT("/authz/admins/:id/roles", h.SetAuthzAdminRoles)
		authorized.GET("/authz/permissions/catalog", func(ctx *gin.Context) {
			response.Success(ctx, buildAdminPermissionCatalog(engine))
		})
	}
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

// buildAdminPermissionCatalog 枚举管理端路由，生成可授权的权限点清单
func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))

	for _, route := range routes {
		method := strings.ToUpper(strings.TrimSpace(route.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(route.Path, "/api/v1/admin/") || route.Path == "/api/v1/admin/login" {
			continue
		}

		object := authz.NormalizeObject(route.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}

		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module != items[j].Module {
			return items[i].Module < items[j].Module
		}
		if items[i].Object != items[j].Object {
			return items[i].Object < items[j].Object
		}
		return items[i].Method < items[j].Method
	})
	return items
}

func deriveAdminPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 || segments[0] != "admin" {
		return segments[0]
	}
	return segments[1]
}
