package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/stockpro/internal/application/analytics"
	"github.com/jhoicas/stockpro/internal/application/auth"
	"github.com/jhoicas/stockpro/internal/application/inventory"
	"github.com/jhoicas/stockpro/internal/application/sales"
	"github.com/jhoicas/stockpro/internal/application/usecase"
	"github.com/jhoicas/stockpro/internal/domain/policy"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	CompanyUC     *usecase.CompanyUseCase
	UserUC        *usecase.UserUseCase
	CategoryUC    *usecase.CategoryUseCase
	SupplierUC    *usecase.SupplierUseCase
	ClientUC      *usecase.ClientUseCase
	PointOfSaleUC *usecase.PointOfSaleUseCase
	ProductUC     *usecase.ProductUseCase
	InventoryUC   *inventory.UseCase
	Replenishment *inventory.ReplenishmentUseCase
	CreateSale    *sales.CreateSaleUseCase
	CancelSale    *sales.CancelSaleUseCase
	SaleQuery     *sales.QueryUseCase
	DashboardUC   *appanalytics.DashboardUseCase
	JWTSecret     string
}

// Router registra las rutas de la API. Cada ruta protegida declara la operación que exige;
// la política de roles vive en domain/policy.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	can := RequirePermission

	// Auth (público salvo /me)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)

	// Companies (admin)
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies := protected.Group("/companies", can(policy.CompanyManage))
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)
	companies.Put("/:id", companyHandler.Update)
	companies.Delete("/:id", companyHandler.Delete)

	// Users (admin)
	userHandler := NewUserHandler(deps.UserUC)
	users := protected.Group("/users", can(policy.UserManage))
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	// Categories
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories := protected.Group("/categories")
	categories.Get("/", can(policy.CategoryRead), categoryHandler.List)
	categories.Post("/", can(policy.CategoryManage), categoryHandler.Create)
	categories.Get("/:id", can(policy.CategoryRead), categoryHandler.GetByID)
	categories.Put("/:id", can(policy.CategoryManage), categoryHandler.Update)
	categories.Delete("/:id", can(policy.CategoryManage), categoryHandler.Delete)

	// Suppliers
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers := protected.Group("/suppliers")
	suppliers.Get("/", can(policy.SupplierRead), supplierHandler.List)
	suppliers.Post("/", can(policy.SupplierManage), supplierHandler.Create)
	suppliers.Get("/:id", can(policy.SupplierRead), supplierHandler.GetByID)
	suppliers.Put("/:id", can(policy.SupplierManage), supplierHandler.Update)
	suppliers.Delete("/:id", can(policy.SupplierManage), supplierHandler.Delete)

	// Clients
	clientHandler := NewClientHandler(deps.ClientUC)
	clients := protected.Group("/clients")
	clients.Get("/", can(policy.ClientRead), clientHandler.List)
	clients.Post("/", can(policy.ClientManage), clientHandler.Create)
	clients.Get("/:id", can(policy.ClientRead), clientHandler.GetByID)
	clients.Put("/:id", can(policy.ClientManage), clientHandler.Update)
	clients.Delete("/:id", can(policy.ClientManage), clientHandler.Delete)

	// Points of sale
	posHandler := NewPointOfSaleHandler(deps.PointOfSaleUC)
	pos := protected.Group("/points-of-sale")
	pos.Get("/", can(policy.POSRead), posHandler.List)
	pos.Post("/", can(policy.POSManage), posHandler.Create)
	pos.Get("/:id", can(policy.POSRead), posHandler.GetByID)
	pos.Put("/:id", can(policy.POSManage), posHandler.Update)
	pos.Delete("/:id", can(policy.POSManage), posHandler.Delete)

	// Products (low-stock antes de /:id)
	productHandler := NewProductHandler(deps.ProductUC, deps.InventoryUC)
	products := protected.Group("/products")
	products.Get("/low-stock", can(policy.ProductRead), productHandler.LowStock)
	products.Get("/", can(policy.ProductRead), productHandler.List)
	products.Post("/", can(policy.ProductManage), productHandler.Create)
	products.Get("/:id", can(policy.ProductRead), productHandler.GetByID)
	products.Put("/:id", can(policy.ProductManage), productHandler.Update)
	products.Delete("/:id", can(policy.ProductManage), productHandler.Delete)
	products.Get("/:id/ledger", can(policy.MovementRead), productHandler.Ledger)
	products.Post("/:id/adjust", can(policy.StockAdjust), productHandler.Adjust)
	products.Post("/:id/restock", can(policy.StockAdjust), productHandler.Restock)

	// Inventory movements
	inventoryHandler := NewInventoryHandler(deps.InventoryUC, deps.Replenishment)
	invGroup := protected.Group("/inventory")
	invGroup.Post("/movements", can(policy.StockAdjust), inventoryHandler.RegisterMovement)
	invGroup.Get("/movements", can(policy.MovementRead), inventoryHandler.ListMovements)
	invGroup.Get("/movements/recent", can(policy.MovementRead), inventoryHandler.RecentMovements)
	invGroup.Get("/replenishment", can(policy.ProductRead), inventoryHandler.Replenishment)

	// Sales
	saleHandler := NewSaleHandler(deps.CreateSale, deps.CancelSale, deps.SaleQuery)
	salesGroup := protected.Group("/sales")
	salesGroup.Post("/", can(policy.SaleCreate), saleHandler.Create)
	salesGroup.Get("/", can(policy.SaleRead), saleHandler.List)
	salesGroup.Get("/number/:number", can(policy.SaleRead), saleHandler.GetByNumber)
	salesGroup.Get("/:id", can(policy.SaleRead), saleHandler.Get)
	salesGroup.Get("/:id/receipt", can(policy.SaleRead), saleHandler.Receipt)
	salesGroup.Post("/:id/cancel", can(policy.SaleCancel), saleHandler.Cancel)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/summary", can(policy.DashboardRead), dashboardHandler.GetSummary)
}
