package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/inventory-optimizer/internal/domain"
	"github.com/jhoicas/inventory-optimizer/internal/domain/entity"
	"github.com/jhoicas/inventory-optimizer/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.SaleRecordRepository = (*SaleRecordRepo)(nil)

// ProductName sale del JOIN: la venta no guarda copia del nombre.
const saleSelect = `
	SELECT s.id, s.product_id, p.name, s.quantity_sold, s.unit_price, s.total_amount,
		s.sold_at, s.customer_name, s.notes
	FROM sale_records s
	JOIN products p ON p.id = s.product_id`

// SaleRecordRepo implementación del puerto SaleRecordRepository sobre PostgreSQL.
type SaleRecordRepo struct {
	q Querier
}

// NewSaleRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRecordRepository(q Querier) *SaleRecordRepo {
	return &SaleRecordRepo{q: q}
}

// Create persiste una venta.
func (r *SaleRecordRepo) Create(ctx context.Context, s *entity.SaleRecord) error {
	query := `
		INSERT INTO sale_records (id, product_id, quantity_sold, unit_price, total_amount, sold_at, customer_name, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.ProductID, s.QuantitySold, s.UnitPrice, s.TotalAmount, s.Timestamp, s.CustomerName, s.Notes,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert sale record: %w", err)
	}
	return nil
}

// ListAll todas las ventas, más recientes primero.
func (r *SaleRecordRepo) ListAll(ctx context.Context) ([]*entity.SaleRecord, error) {
	return r.query(ctx, saleSelect+` ORDER BY s.sold_at DESC, s.id DESC`)
}

// ListRecent las últimas limit ventas.
func (r *SaleRecordRepo) ListRecent(ctx context.Context, limit int) ([]*entity.SaleRecord, error) {
	return r.query(ctx, saleSelect+` ORDER BY s.sold_at DESC, s.id DESC LIMIT $1`, limit)
}

// ListByProduct historial del producto en orden cronológico (desempate por id).
func (r *SaleRecordRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.SaleRecord, error) {
	return r.query(ctx, saleSelect+` WHERE s.product_id = $1 ORDER BY s.sold_at, s.id`, productID)
}

// ListBetween ventas con timestamp en [start, end], en orden cronológico.
func (r *SaleRecordRepo) ListBetween(ctx context.Context, start, end time.Time) ([]*entity.SaleRecord, error) {
	return r.query(ctx, saleSelect+` WHERE s.sold_at >= $1 AND s.sold_at <= $2 ORDER BY s.sold_at, s.id`, start, end)
}

// CountByProduct cantidad de ventas que referencian al producto.
func (r *SaleRecordRepo) CountByProduct(ctx context.Context, productID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM sale_records WHERE product_id = $1`, productID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count sale records: %w", err)
	}
	return n, nil
}

// DeleteByProduct elimina las ventas del producto y devuelve cuántas borró.
func (r *SaleRecordRepo) DeleteByProduct(ctx context.Context, productID string) (int, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM sale_records WHERE product_id = $1`, productID)
	if err != nil {
		return 0, fmt.Errorf("delete sale records: %w", err)
	}
	return int(cmd.RowsAffected()), nil
}

// SumByProduct ingreso total y unidades vendidas del producto.
func (r *SaleRecordRepo) SumByProduct(ctx context.Context, productID string) (decimal.Decimal, int, error) {
	var (
		total decimal.Decimal
		qty   int
	)
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(total_amount), 0), COALESCE(SUM(quantity_sold), 0) FROM sale_records WHERE product_id = $1`,
		productID,
	).Scan(&total, &qty)
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("sum sale records: %w", err)
	}
	return total, qty, nil
}

func (r *SaleRecordRepo) query(ctx context.Context, query string, args ...any) ([]*entity.SaleRecord, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sale records: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.SaleRecord, 0)
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale record: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func scanSale(row pgx.Row) (*entity.SaleRecord, error) {
	var s entity.SaleRecord
	err := row.Scan(
		&s.ID, &s.ProductID, &s.ProductName, &s.QuantitySold, &s.UnitPrice, &s.TotalAmount,
		&s.Timestamp, &s.CustomerName, &s.Notes,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
