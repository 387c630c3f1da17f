package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-optimizer/internal/application/analytics"
	"github.com/jhoicas/inventory-optimizer/internal/application/audit"
	"github.com/jhoicas/inventory-optimizer/internal/application/auth"
	"github.com/jhoicas/inventory-optimizer/internal/application/inventory"
	"github.com/jhoicas/inventory-optimizer/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger          *inventory.ProductLedger
	Sales           *inventory.SaleRecorder
	Forecasts       *analytics.ForecastUseCase
	Reports         *analytics.ReportUseCase
	Audit           *audit.UseCase
	AuthUC          *auth.AuthUseCase
	SummaryRenderer SummaryRenderer
	WarmupEnqueuer  WarmupEnqueuer // nil: warmup en línea
	ForecastHorizon int
	JWTSecret       string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products; las rutas estáticas van antes de /:id
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.Ledger, deps.Sales, deps.Reports)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/low-stock", productHandler.LowStock)
	products.Get("/stock-investment", productHandler.StockInvestment)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
	products.Delete("/:id/force", RequireRole(entity.RoleAdmin), productHandler.ForceDelete)
	products.Post("/:id/add-stock", productHandler.AddStock)
	products.Put("/:id/discontinue", productHandler.Discontinue)
	products.Put("/:id/reactivate", productHandler.Reactivate)
	products.Get("/:id/revenue", productHandler.Revenue)
	products.Get("/:id/sales", productHandler.Sales)

	// Sales
	sales := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.Sales, deps.Reports)
	sales.Post("/", saleHandler.Record)
	sales.Get("/", saleHandler.List)
	sales.Post("/quick", saleHandler.Quick)
	sales.Get("/recent", saleHandler.Recent)
	sales.Get("/product/:productId", saleHandler.ByProduct)
	sales.Get("/history/daily-trend", saleHandler.DailyTrend)
	sales.Get("/revenue/total", saleHandler.TotalRevenue)
	sales.Get("/revenue/period", saleHandler.RevenueForPeriod)

	// Forecasts
	forecasts := protected.Group("/forecasts")
	forecastHandler := NewForecastHandler(deps.Forecasts, deps.WarmupEnqueuer, deps.ForecastHorizon)
	forecasts.Get("/product/:productId", forecastHandler.Demand)
	forecasts.Get("/revenue", forecastHandler.Revenue)
	forecasts.Post("/warmup", forecastHandler.Warmup)

	// Audit log
	logs := protected.Group("/logs")
	auditHandler := NewAuditHandler(deps.Audit)
	logs.Get("/", auditHandler.List)
	logs.Get("/export.xml", auditHandler.Export)
	logs.Get("/date-range", auditHandler.ByDateRange)
	logs.Get("/action/:action", auditHandler.ByAction)
	logs.Get("/entity/:entityType", auditHandler.ByEntityType)
	logs.Get("/entity/:entityType/:entityId", auditHandler.ByEntity)
	logs.Get("/user/:userName", auditHandler.ByUser)

	// Reports
	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.Reports, deps.SummaryRenderer)
	reports.Get("/summary", reportHandler.Summary)
	reports.Get("/summary.pdf", reportHandler.SummaryPDF)
}
