package router

import (
	"time"

	"glowpos/internal/config"
	"glowpos/internal/handler"
	"glowpos/internal/infra"
	"glowpos/internal/middleware"
	"glowpos/internal/repository"
	"glowpos/internal/service"
	"glowpos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, smtpCB *infra.CircuitBreaker, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	imageStore, err := infra.NewLocalImageStore(cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize image store")
	}

	// ── Repositories ─────────────────────────────────────────────────────────
	txScope := repository.NewGormScope(db)
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	loyaltyRepo := repository.NewLoyaltyRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	productSvc := service.NewProductService(productRepo, movementRepo, imageStore, rdb)
	saleSvc := service.NewSaleService(txScope, saleRepo, customerRepo, dispatcher)
	purchaseSvc := service.NewPurchaseService(txScope, purchaseRepo)
	customerSvc := service.NewCustomerService(customerRepo, loyaltyRepo)
	supplierSvc := service.NewSupplierService(supplierRepo)
	categorySvc := service.NewCategoryService(categoryRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	productsH := handler.NewProductsHandler(productSvc)
	salesH := handler.NewSalesHandler(saleSvc)
	purchasesH := handler.NewPurchasesHandler(purchaseSvc)
	customersH := handler.NewCustomersHandler(customerSvc)
	suppliersH := handler.NewSuppliersHandler(supplierSvc)
	categoriesH := handler.NewCategoriesHandler(categorySvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, smtpCB))
	r.Static("/uploads", cfg.UploadDir)

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		anyRole := middleware.RequireRole("cashier", "supervisor", "admin")
		supervisorUp := middleware.RequireRole("supervisor", "admin")
		adminOnly := middleware.RequireRole("admin")

		// Cashier price lookup by SKU — redis-cached
		v1.GET("/price/:code", anyRole, productsH.PriceByCode)

		// Sales — any authenticated role records and reads
		v1.POST("/sales", anyRole, salesH.RecordSale)
		v1.GET("/sales", anyRole, salesH.ListSales)
		v1.GET("/sales/:id", anyRole, salesH.GetSale)

		// Purchases — supervisors and admins
		v1.POST("/purchases", supervisorUp, purchasesH.RecordPurchase)
		v1.GET("/purchases", supervisorUp, purchasesH.ListPurchases)
		v1.GET("/purchases/:id", supervisorUp, purchasesH.GetPurchase)

		// Products — everyone reads, admins write
		v1.GET("/products", anyRole, productsH.ListProducts)
		v1.GET("/products/:id", anyRole, productsH.GetProduct)
		v1.GET("/products/:id/tones", anyRole, productsH.ListTones)
		v1.GET("/products/:id/movements", supervisorUp, productsH.ListMovements)
		products := v1.Group("/products", adminOnly)
		{
			products.POST("", productsH.CreateProduct)
			products.PUT("/:id", productsH.UpdateProduct)
			products.DELETE("/:id", productsH.DeleteProduct)
			products.POST("/:id/reactivate", productsH.ReactivateProduct)
			products.POST("/:id/tones", productsH.AddTone)
			products.DELETE("/:id/tones/:tone_id", productsH.RemoveTone)
		}

		// Customers — any authenticated role manages the loyalty base
		v1.POST("/customers", anyRole, customersH.CreateCustomer)
		v1.GET("/customers", anyRole, customersH.ListCustomers)
		v1.GET("/customers/:id", anyRole, customersH.GetCustomer)
		v1.PUT("/customers/:id", anyRole, customersH.UpdateCustomer)
		v1.GET("/customers/:id/points", anyRole, customersH.LoyaltyHistory)

		// Suppliers — admins only
		suppliers := v1.Group("/suppliers", adminOnly)
		{
			suppliers.POST("", suppliersH.CreateSupplier)
			suppliers.GET("", suppliersH.ListSuppliers)
			suppliers.GET("/:id", suppliersH.GetSupplier)
			suppliers.PUT("/:id", suppliersH.UpdateSupplier)
			suppliers.DELETE("/:id", suppliersH.DeleteSupplier)
		}

		// Categories — everyone reads, admins write
		v1.GET("/categories", anyRole, categoriesH.ListCategories)
		v1.GET("/subcategories", anyRole, categoriesH.ListSubcategories)
		categories := v1.Group("", adminOnly)
		{
			categories.POST("/categories", categoriesH.CreateCategory)
			categories.PUT("/categories/:id", categoriesH.UpdateCategory)
			categories.DELETE("/categories/:id", categoriesH.DeleteCategory)
			categories.POST("/subcategories", categoriesH.CreateSubcategory)
			categories.DELETE("/subcategories/:id", categoriesH.DeleteSubcategory)
		}

		// Users — admins only
		users := v1.Group("/users", adminOnly)
		{
			users.POST("", usersH.CreateUser)
			users.GET("", usersH.ListUsers)
			users.PUT("/:id", usersH.UpdateUser)
			users.DELETE("/:id", usersH.DeactivateUser)
			users.POST("/:id/reactivate", usersH.ReactivateUser)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
