package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
// LowStockThreshold nil usa el umbral por defecto (10).
type CreateProductRequest struct {
	Name              string           `json:"name" validate:"required,min=1,max=200"`
	SKU               string           `json:"sku" validate:"omitempty,max=100"`
	QuantityOnHand    int              `json:"quantity_on_hand" validate:"min=0"`
	LowStockThreshold *int             `json:"low_stock_threshold" validate:"omitempty,min=0"`
	Price             *decimal.Decimal `json:"price"`
	CostPrice         *decimal.Decimal `json:"cost_price"`
}

// UpdateProductRequest entrada para actualizar un producto (sin stock: solo cambia vía operaciones de stock).
type UpdateProductRequest struct {
	Name              *string          `json:"name" validate:"omitempty,min=1,max=200"`
	SKU               *string          `json:"sku" validate:"omitempty,max=100"`
	LowStockThreshold *int             `json:"low_stock_threshold" validate:"omitempty,min=0"`
	Price             *decimal.Decimal `json:"price"`
	CostPrice         *decimal.Decimal `json:"cost_price"`
}

// AddStockRequest entrada para sumar unidades al stock.
// Con UnitCost el costo del producto se recalcula como promedio ponderado.
type AddStockRequest struct {
	Quantity int              `json:"quantity" validate:"required,gt=0"`
	UnitCost *decimal.Decimal `json:"unit_cost"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	SKU               string           `json:"sku"`
	QuantityOnHand    int              `json:"quantity_on_hand"`
	LowStockThreshold int              `json:"low_stock_threshold"`
	LowStock          bool             `json:"low_stock"`
	Price             *decimal.Decimal `json:"price"`
	CostPrice         *decimal.Decimal `json:"cost_price"`
	Discontinued      bool             `json:"discontinued"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ProductRevenueResponse ingreso acumulado de un producto.
type ProductRevenueResponse struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	QuantitySold int             `json:"quantity_sold"`
}
