package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleRecord representa una venta registrada. Se crea una sola vez y no se modifica;
// solo desaparece al forzar la eliminación de su producto.
type SaleRecord struct {
	ID           string
	ProductID    string
	ProductName  string // solo lectura (JOIN con products)
	QuantitySold int
	UnitPrice    *decimal.Decimal // precio al momento de la venta
	TotalAmount  decimal.Decimal  // UnitPrice * QuantitySold; cero si no hay precio
	Timestamp    time.Time
	CustomerName string
	Notes        string
}
