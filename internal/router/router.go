package router

import (
	"fmt"
	"strings"

	"github.com/inventrack/inventrack/internal/cache"
	"github.com/inventrack/inventrack/internal/config"
	"github.com/inventrack/inventrack/internal/constants"
	"github.com/inventrack/inventrack/internal/http/handlers"
	"github.com/inventrack/inventrack/internal/logger"
	"github.com/inventrack/inventrack/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	handler := handlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = constants.RedisPrefixDefault
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 认证接口（无需鉴权）
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", handler.Register)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("username")), handler.Login)
			auth.POST("/refresh", handler.Refresh)
		}
		apiV1.GET("/captcha/image", handler.CaptchaChallenge)

		// 登录用户自助接口（仅 JWT 鉴权）
		authed := apiV1.Group("")
		authed.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo))
		{
			authed.GET("/me", handler.Me)
			authed.POST("/auth/logout", handler.Logout)
			authed.PUT("/auth/password", handler.ChangePassword)
			authed.POST("/me/2fa/setup", handler.TwoFactorSetup)
			authed.POST("/me/2fa/enable", handler.TwoFactorEnable)
			authed.POST("/me/2fa/disable", handler.TwoFactorDisable)
			authed.POST("/me/2fa/verify", handler.TwoFactorVerify)
		}

		// 业务接口（JWT + RBAC 鉴权）
		authorized := apiV1.Group("")
		authorized.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo), RBACMiddleware(c.AuthzService))
		{
			// 仪表盘
			authorized.GET("/dashboard/overview", handler.DashboardOverview)
			authorized.GET("/dashboard/trends", handler.DashboardTrends)
			authorized.GET("/dashboard/rankings", handler.DashboardRankings)

			// 商品与分类
			authorized.GET("/products", handler.ListProducts)
			authorized.GET("/products/:id", handler.GetProduct)
			authorized.POST("/products", handler.CreateProduct)
			authorized.PUT("/products/:id", handler.UpdateProduct)
			authorized.DELETE("/products/:id", handler.DeleteProduct)
			authorized.GET("/categories", handler.ListCategories)
			authorized.POST("/categories", handler.CreateCategory)
			authorized.DELETE("/categories/:id", handler.DeleteCategory)

			// 客户
			authorized.GET("/customers", handler.ListCustomers)
			authorized.GET("/customers/:id", handler.GetCustomer)
			authorized.POST("/customers", handler.CreateCustomer)
			authorized.PUT("/customers/:id", handler.UpdateCustomer)
			authorized.DELETE("/customers/:id", handler.DeleteCustomer)

			// 供应商
			authorized.GET("/suppliers", handler.ListSuppliers)
			authorized.GET("/suppliers/:id", handler.GetSupplier)
			authorized.POST("/suppliers", handler.CreateSupplier)
			authorized.PUT("/suppliers/:id", handler.UpdateSupplier)
			authorized.DELETE("/suppliers/:id", handler.DeleteSupplier)

			// 仓库与库区
			authorized.GET("/warehouses", handler.ListWarehouses)
			authorized.GET("/warehouses/:id", handler.GetWarehouse)
			authorized.POST("/warehouses", handler.CreateWarehouse)
			authorized.PUT("/warehouses/:id", handler.UpdateWarehouse)
			authorized.DELETE("/warehouses/:id", handler.DeleteWarehouse)
			authorized.GET("/warehouses/:id/zones", handler.ListZones)
			authorized.POST("/warehouses/:id/zones", handler.CreateZone)
			authorized.POST("/zones/:zone_id/locations", handler.CreateLocation)

			// 库存
			authorized.GET("/inventory", handler.ListInventory)
			authorized.GET("/inventory/low-stock", handler.ListLowStock)
			authorized.POST("/inventory/adjust", handler.AdjustInventory)
			authorized.POST("/inventory/transfer", handler.TransferInventory)

			// 订单
			authorized.GET("/orders", handler.ListOrders)
			authorized.GET("/orders/:id", handler.GetOrder)
			authorized.POST("/orders", handler.CreateOrder)
			authorized.PATCH("/orders/:id", handler.UpdateOrderStatus)
			authorized.POST("/orders/:id/cancel", handler.CancelOrder)
			authorized.GET("/orders/:id/history", handler.ListOrderHistory)
			authorized.GET("/orders/:id/payments", handler.ListOrderPayments)

			// 发货
			authorized.GET("/shipments", handler.ListShipments)
			authorized.GET("/shipments/:id", handler.GetShipment)
			authorized.POST("/shipments", handler.CreateShipment)
			authorized.PATCH("/shipments/:id", handler.UpdateShipmentStatus)

			// 支付
			authorized.GET("/payments", handler.ListPayments)
			authorized.POST("/payments", handler.RecordPayment)
			authorized.POST("/payments/:id/fail", handler.FailPayment)

			// 退货
			authorized.GET("/returns", handler.ListReturns)
			authorized.GET("/returns/:id", handler.GetReturn)
			authorized.POST("/returns", handler.RequestReturn)
			authorized.PATCH("/returns/:id", handler.UpdateReturnStatus)

			// 采购
			authorized.GET("/purchase-orders", handler.ListPurchaseOrders)
			authorized.GET("/purchase-orders/:id", handler.GetPurchaseOrder)
			authorized.POST("/purchase-orders", handler.CreatePurchaseOrder)
			authorized.PATCH("/purchase-orders/:id", handler.UpdatePurchaseOrderStatus)
			authorized.DELETE("/purchase-orders/:id", handler.DeletePurchaseOrder)

			// 用户管理
			authorized.GET("/users", handler.ListUsers)
			authorized.GET("/users/:id", handler.GetUser)
			authorized.PUT("/users/:id", handler.UpdateUser)
			authorized.PUT("/users/batch-status", handler.BatchUpdateUserStatus)
			authorized.POST("/users/:id/reset-password", handler.ResetUserPassword)

			// 审计日志
			authorized.GET("/audit-logs", handler.ListAuditLogs)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
