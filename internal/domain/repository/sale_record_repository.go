package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventory-optimizer/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// SaleRecordRepository define el puerto de persistencia para ventas.
// Los listados "históricos" (ListByProduct, ListBetween) van en orden ascendente por timestamp;
// ListAll y ListRecent en orden descendente.
type SaleRecordRepository interface {
	Create(ctx context.Context, sale *entity.SaleRecord) error
	ListAll(ctx context.Context) ([]*entity.SaleRecord, error)
	ListRecent(ctx context.Context, limit int) ([]*entity.SaleRecord, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.SaleRecord, error)
	ListBetween(ctx context.Context, start, end time.Time) ([]*entity.SaleRecord, error)
	CountByProduct(ctx context.Context, productID string) (int, error)
	// DeleteByProduct elimina todas las ventas del producto y devuelve cuántas borró.
	DeleteByProduct(ctx context.Context, productID string) (int, error)
	// SumByProduct devuelve ingreso total y unidades vendidas (cero si no hay ventas).
	SumByProduct(ctx context.Context, productID string) (decimal.Decimal, int, error)
}
