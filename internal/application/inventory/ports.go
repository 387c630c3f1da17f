package inventory

import (
	"context"

	"github.com/jhoicas/inventory-optimizer/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que stock, venta y auditoría se confirmen o se descarten juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRecordRepository,
		auditRepo repository.AuditLogRepository,
	) error) error
}

// CacheInvalidator invalida los resultados analíticos cacheados tras una escritura.
type CacheInvalidator interface {
	Bump(ctx context.Context) error
}
