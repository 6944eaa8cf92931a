package provider

import (
	"github.com/inventrack/inventrack/internal/authz"
	"github.com/inventrack/inventrack/internal/cache"
	"github.com/inventrack/inventrack/internal/config"
	"github.com/inventrack/inventrack/internal/logger"
	"github.com/inventrack/inventrack/internal/models"
	"github.com/inventrack/inventrack/internal/queue"
	"github.com/inventrack/inventrack/internal/repository"
	"github.com/inventrack/inventrack/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo          repository.UserRepository
	RefreshTokenRepo  repository.RefreshTokenRepository
	CustomerRepo      repository.CustomerRepository
	ProductRepo       repository.ProductRepository
	CategoryRepo      repository.CategoryRepository
	SupplierRepo      repository.SupplierRepository
	WarehouseRepo     repository.WarehouseRepository
	InventoryRepo     repository.InventoryRepository
	OrderRepo         repository.OrderRepository
	ShipmentRepo      repository.ShipmentRepository
	PaymentRepo       repository.PaymentRepository
	ReturnRepo        repository.ReturnRepository
	PurchaseOrderRepo repository.PurchaseOrderRepository
	AuditLogRepo      repository.AuditLogRepository
	DashboardRepo     repository.DashboardRepository

	// Services
	AuthzService         *authz.Service
	AuthService          *service.AuthService
	TwoFactorService     *service.TwoFactorService
	CaptchaService       *service.CaptchaService
	UserService          *service.UserService
	CustomerService      *service.CustomerService
	ProductService       *service.ProductService
	SupplierService      *service.SupplierService
	WarehouseService     *service.WarehouseService
	InventoryService     *service.InventoryService
	OrderService         *service.OrderService
	ShipmentService      *service.ShipmentService
	PaymentService       *service.PaymentService
	ReturnService        *service.ReturnService
	PurchaseOrderService *service.PurchaseOrderService
	AuditService         *service.AuditService
	DashboardService     *service.DashboardService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
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
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.RefreshTokenRepo = repository.NewRefreshTokenRepository(db)
	c.CustomerRepo = repository.NewCustomerRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.SupplierRepo = repository.NewSupplierRepository(db)
	c.WarehouseRepo = repository.NewWarehouseRepository(db)
	c.InventoryRepo = repository.NewInventoryRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.ShipmentRepo = repository.NewShipmentRepository(db)
	c.PaymentRepo = repository.NewPaymentRepository(db)
	c.ReturnRepo = repository.NewReturnRepository(db)
	c.PurchaseOrderRepo = repository.NewPurchaseOrderRepository(db)
	c.AuditLogRepo = repository.NewAuditLogRepository(db)
	c.DashboardRepo = repository.NewDashboardRepository(db)
}

func (c *Container) initServices() {
	db := models.DB

	authzService, err := authz.NewService(db)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.AuditService = service.NewAuditService(c.AuditLogRepo, c.QueueClient)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.AuthService = service.NewAuthService(c.Config, c.UserRepo, c.RefreshTokenRepo, c.AuditService)
	c.TwoFactorService = service.NewTwoFactorService(c.UserRepo, c.RefreshTokenRepo, c.AuditService)
	c.UserService = service.NewUserService(c.UserRepo, c.RefreshTokenRepo, c.AuthService, c.AuditService)
	c.CustomerService = service.NewCustomerService(c.CustomerRepo, c.AuditService)
	c.ProductService = service.NewProductService(c.ProductRepo, c.CategoryRepo, c.AuditService)
	c.SupplierService = service.NewSupplierService(c.SupplierRepo, c.AuditService)
	c.WarehouseService = service.NewWarehouseService(c.WarehouseRepo, c.AuditService)
	c.InventoryService = service.NewInventoryService(db, c.InventoryRepo, c.ProductRepo, c.WarehouseRepo, c.AuditService)
	c.OrderService = service.NewOrderService(db, c.OrderRepo, c.CustomerRepo, c.ProductRepo, c.AuditService,
		c.Config.Order.TaxRatePercent, c.Config.Order.FlatShippingFee, c.Config.Order.Currency)
	c.ShipmentService = service.NewShipmentService(db, c.OrderRepo, c.ShipmentRepo, c.InventoryRepo, c.WarehouseRepo, c.AuditService)
	c.PaymentService = service.NewPaymentService(db, c.OrderRepo, c.PaymentRepo, c.AuditService)
	c.ReturnService = service.NewReturnService(db, c.OrderRepo, c.ReturnRepo, c.InventoryRepo, c.AuditService)
	c.PurchaseOrderService = service.NewPurchaseOrderService(db, c.PurchaseOrderRepo, c.SupplierRepo, c.WarehouseRepo, c.ProductRepo, c.InventoryRepo, c.AuditService)
	c.DashboardService = service.NewDashboardService(c.DashboardRepo)
}
