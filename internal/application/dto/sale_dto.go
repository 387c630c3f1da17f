package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordSaleRequest entrada para registrar una venta completa.
type RecordSaleRequest struct {
	ProductID    string           `json:"product_id" validate:"required"`
	QuantitySold int              `json:"quantity_sold" validate:"required,gt=0"`
	UnitPrice    *decimal.Decimal `json:"unit_price"`
	CustomerName string           `json:"customer_name" validate:"omitempty,max=200"`
	Notes        string           `json:"notes" validate:"omitempty,max=1000"`
}

// QuickSaleRequest parámetros de query para POST /api/sales/quick.
type QuickSaleRequest struct {
	ProductID    string `query:"productId" validate:"required"`
	QuantitySold int    `query:"quantitySold" validate:"required,gt=0"`
}

// SaleRecordResponse salida de una venta.
type SaleRecordResponse struct {
	ID           string           `json:"id"`
	ProductID    string           `json:"product_id"`
	ProductName  string           `json:"product_name"`
	QuantitySold int              `json:"quantity_sold"`
	UnitPrice    *decimal.Decimal `json:"unit_price"`
	TotalAmount  decimal.Decimal  `json:"total_amount"`
	Timestamp    time.Time        `json:"timestamp"`
	CustomerName string           `json:"customer_name,omitempty"`
	Notes        string           `json:"notes,omitempty"`
}
