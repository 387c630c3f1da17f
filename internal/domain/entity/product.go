package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultLowStockThreshold umbral de stock bajo cuando no se indica otro.
const DefaultLowStockThreshold = 10

// Product representa un producto del inventario con su stock actual.
// QuantityOnHand nunca es negativo; solo lo modifica el ledger de productos.
type Product struct {
	ID                string
	Name              string
	SKU               string
	QuantityOnHand    int
	LowStockThreshold int
	Price             *decimal.Decimal // precio de venta (opcional)
	CostPrice         *decimal.Decimal // costo unitario (opcional)
	Discontinued      bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsLowStock indica si el stock está en o por debajo del umbral (solo informativo).
func (p *Product) IsLowStock() bool {
	return p.QuantityOnHand <= p.LowStockThreshold
}
