package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DemandForecastResponse pronóstico de demanda de un producto.
type DemandForecastResponse struct {
	ProductID         string  `json:"product_id"`
	ProductName       string  `json:"product_name"`
	HorizonDays       int     `json:"horizon_days"`
	SampleCount       int     `json:"sample_count"`
	AverageDailySales float64 `json:"average_daily_sales"`
	ForecastQuantity  float64 `json:"forecast_quantity"`
	Trend             string  `json:"trend"`
	Confidence        string  `json:"confidence"`
	Method            string  `json:"method"`
	Slope             float64 `json:"slope"`
	Intercept         float64 `json:"intercept"`
	Message           string  `json:"message,omitempty"`
}

// ProductRevenueForecastDTO aporte de un producto al pronóstico de ingresos.
type ProductRevenueForecastDTO struct {
	ProductID        string          `json:"product_id"`
	ProductName      string          `json:"product_name"`
	ForecastQuantity float64         `json:"forecast_quantity"`
	Price            decimal.Decimal `json:"price"`
	PredictedRevenue decimal.Decimal `json:"predicted_revenue"`
}

// RevenueForecastResponse pronóstico de ingresos agregado.
type RevenueForecastResponse struct {
	HorizonDays           int                         `json:"horizon_days"`
	TotalPredictedRevenue decimal.Decimal             `json:"total_predicted_revenue"`
	ProductsAnalyzed      int                         `json:"products_analyzed"`
	ProductsWithForecast  int                         `json:"products_with_forecast"`
	Products              []ProductRevenueForecastDTO `json:"products"`
}

// DailySalesDTO ventas agregadas de un día calendario.
type DailySalesDTO struct {
	Date          string          `json:"date"` // YYYY-MM-DD
	Revenue       decimal.Decimal `json:"revenue"`
	QuantitySold  int             `json:"quantity_sold"`
	NumberOfSales int             `json:"number_of_sales"`
}

// DailyTrendResponse tendencia diaria de ventas en una ventana de días.
type DailyTrendResponse struct {
	Days   int             `json:"days"`
	Points []DailySalesDTO `json:"points"`
}

// RevenueResponse totales de ventas en un período (o de todo el histórico).
type RevenueResponse struct {
	StartDate         *time.Time      `json:"start_date,omitempty"`
	EndDate           *time.Time      `json:"end_date,omitempty"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalQuantitySold int             `json:"total_quantity_sold"`
	NumberOfSales     int             `json:"number_of_sales"`
}

// StockInvestmentResponse inversión en inventario actual y vendido.
// SoldInvestment usa el costo actual del producto (aproximación: no hay costo histórico por venta).
type StockInvestmentResponse struct {
	CurrentStockInvestment decimal.Decimal `json:"current_stock_investment"`
	SoldStockInvestment    decimal.Decimal `json:"sold_stock_investment"`
	TotalInvestment        decimal.Decimal `json:"total_investment"`
	CurrentStockUnits      int             `json:"current_stock_units"`
	SoldUnits              int             `json:"sold_units"`
	TotalUnits             int             `json:"total_units"`
	AverageCostPerUnit     decimal.Decimal `json:"average_cost_per_unit"`
}

// SummaryResponse resumen financiero para el dashboard y el reporte PDF.
type SummaryResponse struct {
	GeneratedAt time.Time               `json:"generated_at"`
	Revenue     RevenueResponse         `json:"revenue"`
	Investment  StockInvestmentResponse `json:"investment"`
	Trend       DailyTrendResponse      `json:"trend"`
	LowStock    []ProductResponse       `json:"low_stock"`
}
