package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-optimizer/internal/application/audit"
	"github.com/jhoicas/inventory-optimizer/internal/application/dto"
	"github.com/jhoicas/inventory-optimizer/internal/domain"
	"github.com/jhoicas/inventory-optimizer/internal/domain/entity"
	invdomain "github.com/jhoicas/inventory-optimizer/internal/domain/inventory"
	"github.com/jhoicas/inventory-optimizer/internal/domain/repository"
)

// DefaultRecentSales cantidad de ventas que devuelve ListRecent por defecto.
const DefaultRecentSales = 10

// SaleInput entrada para registrar una venta. UnitPrice, CustomerName y Notes son opcionales.
type SaleInput struct {
	ProductID    string
	Quantity     int
	UnitPrice    *decimal.Decimal
	CustomerName string
	Notes        string
}

// SaleRecorder registra ventas: descuenta stock, guarda la venta y audita, todo en una transacción.
type SaleRecorder struct {
	txRunner TxRunner
	ledger   *ProductLedger
	saleRepo repository.SaleRecordRepository
}

// NewSaleRecorder construye el caso de uso sobre el ledger de productos.
func NewSaleRecorder(
	txRunner TxRunner,
	ledger *ProductLedger,
	saleRepo repository.SaleRecordRepository,
) *SaleRecorder {
	return &SaleRecorder{
		txRunner: txRunner,
		ledger:   ledger,
		saleRepo: saleRepo,
	}
}

// RecordSale descuenta el stock (bloqueando la fila), persiste la venta con
// TotalAmount = UnitPrice * Quantity (cero sin precio) y registra SALE.
// NotFound, InsufficientStock o InvalidInput abortan sin persistir nada.
func (r *SaleRecorder) RecordSale(ctx context.Context, actor string, in SaleInput) (*entity.SaleRecord, error) {
	if in.ProductID == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	who := r.ledger.actor(actor)
	var sale *entity.SaleRecord
	err := r.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRecordRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		product, err := r.ledger.reduceStockInTx(ctx, productRepo, auditRepo, in.ProductID, in.Quantity, who)
		if err != nil {
			return err
		}
		// El precio se fija al centavo antes de multiplicar: lo guardado cumple total = precio * cantidad.
		unitPrice := invdomain.RoundMoneyPtr(in.UnitPrice)
		total := decimal.Zero
		if unitPrice != nil {
			total = unitPrice.Mul(decimal.NewFromInt(int64(in.Quantity)))
		}
		now := r.ledger.clock.Now()
		sale = &entity.SaleRecord{
			ID:           uuid.New().String(),
			ProductID:    product.ID,
			ProductName:  product.Name,
			QuantitySold: in.Quantity,
			UnitPrice:    unitPrice,
			TotalAmount:  total,
			Timestamp:    now,
			CustomerName: in.CustomerName,
			Notes:        in.Notes,
		}
		if err := saleRepo.Create(ctx, sale); err != nil {
			return err
		}
		return auditRepo.Create(ctx, audit.SaleRecorded(sale, who, now))
	})
	if err != nil {
		return nil, err
	}
	r.ledger.invalidate(ctx)
	return sale, nil
}

// RecordSaleFromRequest adapta el DTO HTTP a SaleInput.
func (r *SaleRecorder) RecordSaleFromRequest(ctx context.Context, actor string, req dto.RecordSaleRequest) (*entity.SaleRecord, error) {
	return r.RecordSale(ctx, actor, SaleInput{
		ProductID:    req.ProductID,
		Quantity:     req.QuantitySold,
		UnitPrice:    req.UnitPrice,
		CustomerName: req.CustomerName,
		Notes:        req.Notes,
	})
}

// RecordQuickSale venta sin precio ni cliente: TotalAmount queda en cero.
func (r *SaleRecorder) RecordQuickSale(ctx context.Context, actor, productID string, qty int) (*entity.SaleRecord, error) {
	return r.RecordSale(ctx, actor, SaleInput{ProductID: productID, Quantity: qty})
}

// ListAll todas las ventas, más recientes primero.
func (r *SaleRecorder) ListAll(ctx context.Context) ([]*entity.SaleRecord, error) {
	return r.saleRepo.ListAll(ctx)
}

// ListRecent las últimas limit ventas (DefaultRecentSales si limit <= 0).
func (r *SaleRecorder) ListRecent(ctx context.Context, limit int) ([]*entity.SaleRecord, error) {
	if limit <= 0 {
		limit = DefaultRecentSales
	}
	return r.saleRepo.ListRecent(ctx, limit)
}

// ListByProduct historial de ventas de un producto en orden cronológico.
func (r *SaleRecorder) ListByProduct(ctx context.Context, productID string) ([]*entity.SaleRecord, error) {
	if _, err := r.ledger.Get(ctx, productID); err != nil {
		return nil, err
	}
	return r.saleRepo.ListByProduct(ctx, productID)
}

// ProductRevenue ingreso total y unidades vendidas de un producto (cero si no tiene ventas).
func (r *SaleRecorder) ProductRevenue(ctx context.Context, productID string) (*dto.ProductRevenueResponse, error) {
	p, err := r.ledger.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	revenue, qty, err := r.saleRepo.SumByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &dto.ProductRevenueResponse{
		ProductID:    p.ID,
		ProductName:  p.Name,
		TotalRevenue: revenue.Round(2),
		QuantitySold: qty,
	}, nil
}
