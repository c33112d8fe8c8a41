package provider

import (
	"github.com/lumishop/lumishop/internal/authz"
	"github.com/lumishop/lumishop/internal/cache"
	"github.com/lumishop/lumishop/internal/config"
	"github.com/lumishop/lumishop/internal/logger"
	"github.com/lumishop/lumishop/internal/models"
	"github.com/lumishop/lumishop/internal/queue"
	"github.com/lumishop/lumishop/internal/realtime"
	"github.com/lumishop/lumishop/internal/repository"
	"github.com/lumishop/lumishop/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Hub         *realtime.Hub

	// Repositories
	AdminRepo       repository.AdminRepository
	UserRepo        repository.UserRepository
	CategoryRepo    repository.CategoryRepository
	ProductRepo     repository.ProductRepository
	ReviewRepo      repository.ReviewRepository
	CouponRepo      repository.CouponRepository
	CouponUsageRepo repository.CouponUsageRepository
	CartRepo        repository.CartRepository
	OrderRepo       repository.OrderRepository
	StockSubRepo    repository.StockSubscriptionRepository

	// Services
	AuthzService       *authz.Service
	AuthService        *service.AuthService
	UserAuthService    *service.UserAuthService
	UserService        *service.UserService
	EmailService       *service.EmailService
	CaptchaService     *service.CaptchaService
	CategoryService    *service.CategoryService
	ProductService     *service.ProductService
	ReviewService      *service.ReviewService
	CouponService      *service.CouponService
	CartService        *service.CartService
	OrderService       *service.OrderService
	StockNotifyService *service.StockNotifyService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		Hub:         realtime.NewHub(),
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.ReviewRepo = repository.NewReviewRepository(db)
	c.CouponRepo = repository.NewCouponRepository(db)
	c.CouponUsageRepo = repository.NewCouponUsageRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.StockSubRepo = repository.NewStockSubscriptionRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo, c.QueueClient)
	c.UserService = service.NewUserService(c.UserRepo)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo)
	c.ProductService = service.NewProductService(c.ProductRepo, c.CategoryRepo, c.Hub, c.QueueClient)
	c.ReviewService = service.NewReviewService(c.ReviewRepo, c.ProductRepo, c.OrderRepo, c.QueueClient)
	c.CouponService = service.NewCouponService(c.CouponRepo, c.CouponUsageRepo, c.Config.Coupon)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.CartRepo, c.ProductRepo, c.CouponService, c.CartService)
	c.StockNotifyService = service.NewStockNotifyService(c.StockSubRepo, c.ProductRepo, c.EmailService, &c.Config.StockNotify)
}
