package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-optimizer/internal/application/audit"
	"github.com/jhoicas/inventory-optimizer/internal/application/dto"
	"github.com/jhoicas/inventory-optimizer/internal/domain"
	"github.com/jhoicas/inventory-optimizer/internal/domain/entity"
	invdomain "github.com/jhoicas/inventory-optimizer/internal/domain/inventory"
	"github.com/jhoicas/inventory-optimizer/internal/domain/repository"
)

// DefaultSystemActor identidad usada en auditoría cuando no hay usuario.
const DefaultSystemActor = "system"

// ProductLedger es el único punto que modifica productos y su stock.
// Cada mutación bloquea la fila (SELECT FOR UPDATE), aplica el cambio e inserta la
// entrada de auditoría en la misma transacción; si algo falla no queda ni cambio ni auditoría.
type ProductLedger struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	cache       CacheInvalidator
	clock       *Clock
	systemActor string
}

// NewProductLedger construye el ledger. cache puede ser nil (sin Redis).
func NewProductLedger(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	cache CacheInvalidator,
	clock *Clock,
	systemActor string,
) *ProductLedger {
	if clock == nil {
		clock = NewClock()
	}
	if systemActor == "" {
		systemActor = DefaultSystemActor
	}
	return &ProductLedger{
		txRunner:    txRunner,
		productRepo: productRepo,
		cache:       cache,
		clock:       clock,
		systemActor: systemActor,
	}
}

// Create valida stock no negativo, persiste el producto y registra CREATE.
func (l *ProductLedger) Create(ctx context.Context, actor string, in dto.CreateProductRequest) (*entity.Product, error) {
	if in.QuantityOnHand < 0 {
		return nil, domain.ErrInvalidInput
	}
	threshold := entity.DefaultLowStockThreshold
	if in.LowStockThreshold != nil {
		threshold = *in.LowStockThreshold
	}
	now := l.clock.Now()
	product := &entity.Product{
		ID:                uuid.New().String(),
		Name:              in.Name,
		SKU:               in.SKU,
		QuantityOnHand:    in.QuantityOnHand,
		LowStockThreshold: threshold,
		Price:             invdomain.RoundMoneyPtr(in.Price),
		CostPrice:         invdomain.RoundCostPtr(in.CostPrice),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	err := l.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		_ repository.SaleRecordRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		if err := productRepo.Create(ctx, product); err != nil {
			return err
		}
		return auditRepo.Create(ctx, audit.ProductCreated(product, l.actor(actor), now))
	})
	if err != nil {
		return nil, err
	}
	l.invalidate(ctx)
	return product, nil
}

// Update reemplaza los campos enviados (el stock no se toca) y registra UPDATE.
func (l *ProductLedger) Update(ctx context.Context, actor, id string, in dto.UpdateProductRequest) (*entity.Product, error) {
	var updated *entity.Product
	err := l.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		_ repository.SaleRecordRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		p, err := lockProduct(ctx, productRepo, id)
		if err != nil {
			return err
		}
		if in.Name != nil {
			p.Name = *in.Name
		}
		if in.SKU != nil {
			p.SKU = *in.SKU
		}
		if in.LowStockThreshold != nil {
			p.LowStockThreshold = *in.LowStockThreshold
		}
		if in.Price != nil {
			p.Price = invdomain.RoundMoneyPtr(in.Price)
		}
		if in.CostPrice != nil {
			p.CostPrice = invdomain.RoundCostPtr(in.CostPrice)
		}
		now := l.clock.Now()
		p.UpdatedAt = now
		if err := productRepo.Update(ctx, p); err != nil {
			return err
		}
		updated = p
		return auditRepo.Create(ctx, audit.ProductUpdated(p, l.actor(actor), now))
	})
	if err != nil {
		return nil, err
	}
	l.invalidate(ctx)
	return updated, nil
}

// Delete elimina un producto sin ventas. Con ventas devuelve *domain.DeleteConflictError.
func (l *ProductLedger) Delete(ctx context.Context, actor, id string) error {
	err := l.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRecordRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		p, err := lockProduct(ctx, productRepo, id)
		if err != nil {
			return err
		}
		count, err := saleRepo.CountByProduct(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return &domain.DeleteConflictError{ProductID: p.ID, ProductName: p.Name, SaleCount: count}
		}
		if err := auditRepo.Create(ctx, audit.ProductDeleted(p, l.actor(actor), l.clock.Now())); err != nil {
			return err
		}
		return productRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	l.invalidate(ctx)
	return nil
}

// ForceDelete elimina el producto junto con todas sus ventas.
// Registra DELETE_SALES (si había ventas) y DELETE en la misma transacción.
func (l *ProductLedger) ForceDelete(ctx context.Context, actor, id string) error {
	err := l.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRecordRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		p, err := lockProduct(ctx, productRepo, id)
		if err != nil {
			return err
		}
		who := l.actor(actor)
		deleted, err := saleRepo.DeleteByProduct(ctx, id)
		if err != nil {
			return err
		}
		if deleted > 0 {
			if err := auditRepo.Create(ctx, audit.SalesDeleted(p, deleted, who, l.clock.Now())); err != nil {
				return err
			}
		}
		if err := productRepo.Delete(ctx, id); err != nil {
			return err
		}
		return auditRepo.Create(ctx, audit.ProductDeleted(p, who, l.clock.Now()))
	})
	if err != nil {
		return err
	}
	l.invalidate(ctx)
	return nil
}

// AddStock suma qty unidades (qty > 0) y registra STOCK_ADJUSTMENT.
func (l *ProductLedger) AddStock(ctx context.Context, actor, id string, qty int) (*entity.Product, error) {
	return l.ReceiveStock(ctx, actor, id, qty, nil)
}

// ReceiveStock suma qty unidades compradas a unitCost. Con unitCost el costo del
// producto pasa a ser el promedio ponderado; sin él se comporta como AddStock.
func (l *ProductLedger) ReceiveStock(ctx context.Context, actor, id string, qty int, unitCost *decimal.Decimal) (*entity.Product, error) {
	if qty <= 0 || (unitCost != nil && unitCost.IsNegative()) {
		return nil, domain.ErrInvalidInput
	}
	var updated *entity.Product
	err := l.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		_ repository.SaleRecordRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		p, err := lockProduct(ctx, productRepo, id)
		if err != nil {
			return err
		}
		if unitCost != nil {
			cost := invdomain.WeightedAverageCost(p.QuantityOnHand, p.CostPrice, qty, *unitCost)
			p.CostPrice = &cost
			p.UpdatedAt = l.clock.Now()
			if err := productRepo.Update(ctx, p); err != nil {
				return err
			}
		}
		updated, err = l.adjustStock(ctx, productRepo, auditRepo, p, p.QuantityOnHand+qty, l.actor(actor))
		return err
	})
	if err != nil {
		return nil, err
	}
	l.invalidate(ctx)
	return updated, nil
}

// ReduceStock resta qty unidades (qty > 0). Si el stock no alcanza devuelve
// *domain.InsufficientStockError y no modifica nada.
func (l *ProductLedger) ReduceStock(ctx context.Context, actor, id string, qty int) (*entity.Product, error) {
	if qty <= 0 {
		return nil, domain.ErrInvalidInput
	}
	var updated *entity.Product
	err := l.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		_ repository.SaleRecordRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		var err error
		updated, err = l.reduceStockInTx(ctx, productRepo, auditRepo, id, qty, l.actor(actor))
		return err
	})
	if err != nil {
		return nil, err
	}
	l.invalidate(ctx)
	return updated, nil
}

// reduceStockInTx descuenta stock usando los repositorios de la transacción del caller.
// La usa SaleRecorder para que venta y descuento sean atómicos.
func (l *ProductLedger) reduceStockInTx(
	ctx context.Context,
	productRepo repository.ProductRepository,
	auditRepo repository.AuditLogRepository,
	id string, qty int, actor string,
) (*entity.Product, error) {
	if qty <= 0 {
		return nil, domain.ErrInvalidInput
	}
	p, err := lockProduct(ctx, productRepo, id)
	if err != nil {
		return nil, err
	}
	if p.QuantityOnHand < qty {
		return nil, &domain.InsufficientStockError{ProductID: p.ID, Available: p.QuantityOnHand, Requested: qty}
	}
	return l.adjustStock(ctx, productRepo, auditRepo, p, p.QuantityOnHand-qty, actor)
}

func (l *ProductLedger) adjustStock(
	ctx context.Context,
	productRepo repository.ProductRepository,
	auditRepo repository.AuditLogRepository,
	p *entity.Product, newQty int, actor string,
) (*entity.Product, error) {
	oldQty := p.QuantityOnHand
	if err := productRepo.UpdateQuantity(ctx, p.ID, newQty); err != nil {
		return nil, err
	}
	now := l.clock.Now()
	p.QuantityOnHand = newQty
	p.UpdatedAt = now
	if err := auditRepo.Create(ctx, audit.StockAdjusted(p, oldQty, newQty, actor, now)); err != nil {
		return nil, err
	}
	return p, nil
}

// SetDiscontinued marca o desmarca el producto como descontinuado y registra UPDATE.
// Stock e historial no cambian.
func (l *ProductLedger) SetDiscontinued(ctx context.Context, actor, id string, discontinued bool) (*entity.Product, error) {
	var updated *entity.Product
	err := l.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		_ repository.SaleRecordRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		p, err := lockProduct(ctx, productRepo, id)
		if err != nil {
			return err
		}
		now := l.clock.Now()
		p.Discontinued = discontinued
		p.UpdatedAt = now
		if err := productRepo.Update(ctx, p); err != nil {
			return err
		}
		updated = p
		return auditRepo.Create(ctx, audit.ProductUpdated(p, l.actor(actor), now))
	})
	if err != nil {
		return nil, err
	}
	l.invalidate(ctx)
	return updated, nil
}

// Get devuelve un producto o ErrNotFound.
func (l *ProductLedger) Get(ctx context.Context, id string) (*entity.Product, error) {
	p, err := l.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// List lista productos paginados junto con el total.
func (l *ProductLedger) List(ctx context.Context, page dto.PageRequest) ([]*entity.Product, int, error) {
	page.DefaultPage()
	list, err := l.productRepo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := l.productRepo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListLowStock productos en o por debajo de su umbral.
func (l *ProductLedger) ListLowStock(ctx context.Context) ([]*entity.Product, error) {
	return l.productRepo.ListLowStock(ctx)
}

func (l *ProductLedger) actor(actor string) string {
	if actor == "" {
		return l.systemActor
	}
	return actor
}

// invalidate incrementa la versión del cache analítico. La escritura ya se confirmó,
// por eso un fallo solo se registra.
func (l *ProductLedger) invalidate(ctx context.Context) {
	if l.cache == nil {
		return
	}
	if err := l.cache.Bump(ctx); err != nil {
		log.Warn().Err(err).Msg("no se pudo invalidar el cache analítico")
	}
}

func lockProduct(ctx context.Context, productRepo repository.ProductRepository, id string) (*entity.Product, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	p, err := productRepo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}
