package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-optimizer/internal/application/dto"
	"github.com/jhoicas/inventory-optimizer/internal/application/inventory"
	"github.com/jhoicas/inventory-optimizer/internal/domain"
	"github.com/jhoicas/inventory-optimizer/internal/domain/entity"
	"github.com/jhoicas/inventory-optimizer/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type countingCache struct {
	bumps int
	err   error
}

func (c *countingCache) Bump(context.Context) error {
	c.bumps++
	return c.err
}

type fixture struct {
	store    *memory.Store
	cache    *countingCache
	ledger   *inventory.ProductLedger
	recorder *inventory.SaleRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	cache := &countingCache{}
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	clock := inventory.NewClockFrom(func() time.Time { return base })
	ledger := inventory.NewProductLedger(store.TxRunner(), store.Products(), cache, clock, "")
	recorder := inventory.NewSaleRecorder(store.TxRunner(), ledger, store.Sales())
	return &fixture{store: store, cache: cache, ledger: ledger, recorder: recorder}
}

func (f *fixture) createProduct(t *testing.T, name string, qty int) *entity.Product {
	t.Helper()
	p, err := f.ledger.Create(context.Background(), "ana", dto.CreateProductRequest{Name: name, QuantityOnHand: qty})
	require.NoError(t, err)
	return p
}

func (f *fixture) auditActions(t *testing.T) []string {
	t.Helper()
	list, err := f.store.AuditLogs().List(context.Background(), 0, 0)
	require.NoError(t, err)
	out := make([]string, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		out = append(out, list[i].Action)
	}
	return out
}

func (f *fixture) stock(t *testing.T, id string) int {
	t.Helper()
	p, err := f.ledger.Get(context.Background(), id)
	require.NoError(t, err)
	return p.QuantityOnHand
}

// ──────────────────────────────────────────────────────────────────────────────
// Create / Update
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_DefaultsAndAudit(t *testing.T) {
	f := newFixture(t)
	p := f.createProduct(t, "Widget", 100)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, entity.DefaultLowStockThreshold, p.LowStockThreshold)
	assert.Nil(t, p.Price)
	assert.Equal(t, []string{entity.AuditActionCreate}, f.auditActions(t))
	assert.Equal(t, 1, f.cache.bumps)

	logs, err := f.store.AuditLogs().ListByUser(context.Background(), "ana")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "Producto creado: Widget", logs[0].Description)
	assert.Equal(t, p.ID, logs[0].EntityID)
}

func TestCreate_NegativeStock(t *testing.T) {
	f := newFixture(t)
	_, err := f.ledger.Create(context.Background(), "", dto.CreateProductRequest{Name: "X", QuantityOnHand: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, f.auditActions(t))
}

func TestCreate_EmptyActorUsesSystem(t *testing.T) {
	f := newFixture(t)
	_, err := f.ledger.Create(context.Background(), "", dto.CreateProductRequest{Name: "X"})
	require.NoError(t, err)

	logs, err := f.store.AuditLogs().ListByUser(context.Background(), inventory.DefaultSystemActor)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestUpdate_KeepsStock(t *testing.T) {
	f := newFixture(t)
	p := f.createProduct(t, "Widget", 40)
	name := "Widget Pro"
	price := decimal.RequireFromString("12.50")

	updated, err := f.ledger.Update(context.Background(), "ana", p.ID, dto.UpdateProductRequest{Name: &name, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "Widget Pro", updated.Name)
	assert.True(t, price.Equal(*updated.Price))
	assert.Equal(t, 40, updated.QuantityOnHand)
	assert.Equal(t, []string{entity.AuditActionCreate, entity.AuditActionUpdate}, f.auditActions(t))
}

func TestUpdate_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.ledger.Update(context.Background(), "ana", "missing", dto.UpdateProductRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Stock
// ──────────────────────────────────────────────────────────────────────────────

func TestReduceStock_Success(t *testing.T) {
	f := newFixture(t)
	p := f.createProduct(t, "Widget", 20)

	for q := 0; q <= 20; q += 5 {
		before := f.stock(t, p.ID)
		if q == 0 {
			_, err := f.ledger.ReduceStock(context.Background(), "ana", p.ID, q)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			continue
		}
		if q > before {
			break
		}
		auditsBefore := len(f.auditActions(t))
		_, err := f.ledger.ReduceStock(context.Background(), "ana", p.ID, q)
		require.NoError(t, err)
		assert.Equal(t, before-q, f.stock(t, p.ID))
		assert.Len(t, f.auditActions(t), auditsBefore+1)
	}
}

func TestReduceStock_Insufficient(t *testing.T) {
	f := newFixture(t)
	p := f.createProduct(t, "Widget", 100)

	_, err := f.ledger.AddStock(context.Background(), "ana", p.ID, 50)
	require.NoError(t, err)
	auditsBefore := len(f.auditActions(t))

	_, err = f.ledger.ReduceStock(context.Background(), "ana", p.ID, 200)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 150, stockErr.Available)
	assert.Equal(t, 200, stockErr.Requested)
	assert.Equal(t, 150, f.stock(t, p.ID))
	assert.Len(t, f.auditActions(t), auditsBefore)
}

func TestAddStock_AuditDescription(t *testing.T) {
	f := newFixture(t)
	p := f.createProduct(t, "Widget", 100)

	updated, err := f.ledger.AddStock(context.Background(), "ana", p.ID, 50)
	require.NoError(t, err)
	assert.Equal(t, 150, updated.QuantityOnHand)

	logs, err := f.store.AuditLogs().ListByAction(context.Background(), entity.AuditActionStockAdjustment)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "Stock ajustado para Widget: 100 → 150", logs[0].Description)
}

func TestReceiveStock_WeightedAverageCost(t *testing.T) {
	f := newFixture(t)
	cost := decimal.NewFromInt(10)
	p, err := f.ledger.Create(context.Background(), "ana", dto.CreateProductRequest{Name: "Widget", QuantityOnHand: 100, CostPrice: &cost})
	require.NoError(t, err)

	unit := decimal.NewFromInt(16)
	updated, err := f.ledger.ReceiveStock(context.Background(), "ana", p.ID, 50, &unit)
	require.NoError(t, err)
	assert.Equal(t, 150, updated.QuantityOnHand)
	require.NotNil(t, updated.CostPrice)
	assert.True(t, updated.CostPrice.Equal(decimal.NewFromInt(12)))

	stored, err := f.ledger.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, stored.CostPrice.Equal(decimal.NewFromInt(12)))
	assert.Equal(t, 150, stored.QuantityOnHand)

	negative := decimal.NewFromInt(-1)
	_, err = f.ledger.ReceiveStock(context.Background(), "ana", p.ID, 1, &negative)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReceiveStock_CostKeepsFourDecimals(t *testing.T) {
	f := newFixture(t)
	cost := decimal.NewFromInt(10)
	price := decimal.RequireFromString("19.999")
	p, err := f.ledger.Create(context.Background(), "ana", dto.CreateProductRequest{
		Name: "Widget", QuantityOnHand: 100, CostPrice: &cost, Price: &price,
	})
	require.NoError(t, err)
	assert.Equal(t, "20", p.Price.String())

	unit := decimal.NewFromInt(11)
	updated, err := f.ledger.ReceiveStock(context.Background(), "ana", p.ID, 3, &unit)
	require.NoError(t, err)
	assert.Equal(t, "10.0291", updated.CostPrice.String())
	assert.Equal(t, int32(-4), updated.CostPrice.Exponent())
}

func TestAddStock_InvalidAndMissing(t *testing.T) {
	f := newFixture(t)
	p := f.createProduct(t, "Widget", 1)

	_, err := f.ledger.AddStock(context.Background(), "ana", p.ID, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.ledger.AddStock(context.Background(), "ana", "missing", 3)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAuditFailure_RollsBackMutation(t *testing.T) {
	f := newFixture(t)
	p := f.createProduct(t, "Widget", 10)
	f.store.FailAuditWith(errors.New("disco lleno"))

	_, err := f.ledger.AddStock(context.Background(), "ana", p.ID, 5)
	require.Error(t, err)

	f.store.FailAuditWith(nil)
	assert.Equal(t, 10, f.stock(t, p.ID))
}

func TestCacheBumpFailure_DoesNotFailWrite(t *testing.T) {
	f := newFixture(t)
	f.cache.err = errors.New("redis caído")

	p, err := f.ledger.Create(context.Background(), "ana", dto.CreateProductRequest{Name: "X", QuantityOnHand: 1})
	require.NoError(t, err)
	assert.NotNil(t, p)
}

// ──────────────────────────────────────────────────────────────────────────────
// Delete / ForceDelete / Discontinue
// ──────────────────────────────────────────────────────────────────────────────

func TestDelete_WithoutSales(t *testing.T) {
	f := newFixture(t)
	p := f.createProduct(t, "Widget", 1)

	require.NoError(t, f.ledger.Delete(context.Background(), "ana", p.ID))
	_, err := f.ledger.Get(context.Background(), p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, []string{entity.AuditActionCreate, entity.AuditActionDelete}, f.auditActions(t))
}

func TestDelete_WithSalesConflict(t *testing.T) {
	f := newFixture(t)
	p := f.createProduct(t, "Widget", 10)
	_, err := f.recorder.RecordQuickSale(context.Background(), "ana", p.ID, 2)
	require.NoError(t, err)

	err = f.ledger.Delete(context.Background(), "ana", p.ID)
	require.ErrorIs(t, err, domain.ErrConflict)
	var conflict *domain.DeleteConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, 1, conflict.SaleCount)
	assert.Contains(t, err.Error(), "Widget")
	assert.Contains(t, err.Error(), "1")

	_, err = f.ledger.Get(context.Background(), p.ID)
	assert.NoError(t, err)
	sales, err := f.recorder.ListByProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Len(t, sales, 1)
}

func TestForceDelete_RemovesSales(t *testing.T) {
	f := newFixture(t)
	p := f.createProduct(t, "Widget", 10)
	for i := 0; i < 3; i++ {
		_, err := f.recorder.RecordQuickSale(context.Background(), "ana", p.ID, 1)
		require.NoError(t, err)
	}

	require.NoError(t, f.ledger.ForceDelete(context.Background(), "admin", p.ID))

	all, err := f.recorder.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
	_, err = f.ledger.Get(context.Background(), p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	actions := f.auditActions(t)
	assert.Equal(t, entity.AuditActionDeleteSales, actions[len(actions)-2])
	assert.Equal(t, entity.AuditActionDelete, actions[len(actions)-1])

	logs, err := f.store.AuditLogs().ListByAction(context.Background(), entity.AuditActionDeleteSales)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0].Description, "3")
	assert.Equal(t, entity.AuditEntitySaleRecord, logs[0].EntityType)
}

func TestForceDelete_NoSalesSkipsDeleteSales(t *testing.T) {
	f := newFixture(t)
	p := f.createProduct(t, "Widget", 10)

	require.NoError(t, f.ledger.ForceDelete(context.Background(), "admin", p.ID))
	assert.Equal(t, []string{entity.AuditActionCreate, entity.AuditActionDelete}, f.auditActions(t))
}

func TestForceDelete_NotFound(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.ledger.ForceDelete(context.Background(), "admin", "missing"), domain.ErrNotFound)
}

func TestSetDiscontinued(t *testing.T) {
	f := newFixture(t)
	p := f.createProduct(t, "Widget", 7)

	updated, err := f.ledger.SetDiscontinued(context.Background(), "ana", p.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.Discontinued)
	assert.Equal(t, 7, updated.QuantityOnHand)

	updated, err = f.ledger.SetDiscontinued(context.Background(), "ana", p.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.Discontinued)
	assert.Equal(t, []string{entity.AuditActionCreate, entity.AuditActionUpdate, entity.AuditActionUpdate}, f.auditActions(t))
}

func TestListAndLowStock(t *testing.T) {
	f := newFixture(t)
	f.createProduct(t, "A", 5)
	f.createProduct(t, "B", 50)
	f.createProduct(t, "C", 10)

	list, total, err := f.ledger.List(context.Background(), dto.PageRequest{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, list, 2)

	low, err := f.ledger.ListLowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "A", low[0].Name)
	assert.Equal(t, "C", low[1].Name)
}

func TestClock_StrictlyIncreasing(t *testing.T) {
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := inventory.NewClockFrom(func() time.Time { return fixed })

	a := clock.Now()
	b := clock.Now()
	assert.True(t, b.After(a))
}
