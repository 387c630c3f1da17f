package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-optimizer/internal/application/dto"
	"github.com/jhoicas/inventory-optimizer/internal/application/inventory"
	"github.com/jhoicas/inventory-optimizer/internal/domain"
	"github.com/jhoicas/inventory-optimizer/internal/domain/entity"
)

func TestRecordSale_ExampleScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.createProduct(t, "Widget", 100)

	_, err := f.recorder.RecordQuickSale(ctx, "ana", p.ID, 15)
	require.NoError(t, err)
	_, err = f.recorder.RecordQuickSale(ctx, "ana", p.ID, 10)
	require.NoError(t, err)

	assert.Equal(t, 75, f.stock(t, p.ID))

	sales, err := f.recorder.ListByProduct(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, 15, sales[0].QuantitySold)
	assert.Equal(t, 10, sales[1].QuantitySold)
	for _, s := range sales {
		assert.True(t, s.TotalAmount.IsZero())
		assert.Nil(t, s.UnitPrice)
	}
	assert.True(t, sales[1].Timestamp.After(sales[0].Timestamp))

	adjustments, err := f.store.AuditLogs().ListByAction(ctx, entity.AuditActionStockAdjustment)
	require.NoError(t, err)
	assert.Len(t, adjustments, 2)
	saleLogs, err := f.store.AuditLogs().ListByAction(ctx, entity.AuditActionSale)
	require.NoError(t, err)
	assert.Len(t, saleLogs, 2)
	assert.Equal(t, entity.AuditEntitySaleRecord, saleLogs[0].EntityType)
	assert.Equal(t, sales[1].ID, saleLogs[0].EntityID)
	assert.Equal(t, "Venta registrada: 10 unidades de Widget", saleLogs[0].Description)
}

func TestRecordSale_TotalFromUnitPrice(t *testing.T) {
	f := newFixture(t)
	p := f.createProduct(t, "Widget", 10)
	price := decimal.RequireFromString("2.50")

	sale, err := f.recorder.RecordSaleFromRequest(context.Background(), "ana", dto.RecordSaleRequest{
		ProductID:    p.ID,
		QuantitySold: 4,
		UnitPrice:    &price,
		CustomerName: "Luis",
	})
	require.NoError(t, err)
	assert.Equal(t, "10", sale.TotalAmount.String())
	assert.Equal(t, "Widget", sale.ProductName)
	assert.Equal(t, "Luis", sale.CustomerName)
}

func TestRecordSale_UnitPriceRoundedToCents(t *testing.T) {
	f := newFixture(t)
	p := f.createProduct(t, "Widget", 10)
	price := decimal.RequireFromString("1.005")

	sale, err := f.recorder.RecordSale(context.Background(), "ana", inventory.SaleInput{
		ProductID: p.ID,
		Quantity:  3,
		UnitPrice: &price,
	})
	require.NoError(t, err)
	require.NotNil(t, sale.UnitPrice)
	assert.Equal(t, "1.01", sale.UnitPrice.String())
	assert.Equal(t, "3.03", sale.TotalAmount.String())
	assert.True(t, sale.TotalAmount.Equal(sale.UnitPrice.Mul(decimal.NewFromInt(3))))
	assert.Equal(t, "1.005", price.String(), "no muta el precio del caller")

	stored, err := f.recorder.ListByProduct(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.True(t, stored[0].TotalAmount.Equal(stored[0].UnitPrice.Mul(decimal.NewFromInt(int64(stored[0].QuantitySold)))))
}

func TestRecordSale_InsufficientStockPersistsNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.createProduct(t, "Widget", 3)
	auditsBefore := len(f.auditActions(t))

	_, err := f.recorder.RecordQuickSale(ctx, "ana", p.ID, 4)
	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 3, stockErr.Available)
	assert.Equal(t, 4, stockErr.Requested)

	assert.Equal(t, 3, f.stock(t, p.ID))
	all, err := f.recorder.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Len(t, f.auditActions(t), auditsBefore)
}

func TestRecordSale_InvalidInput(t *testing.T) {
	f := newFixture(t)
	p := f.createProduct(t, "Widget", 3)

	_, err := f.recorder.RecordQuickSale(context.Background(), "ana", p.ID, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.recorder.RecordQuickSale(context.Background(), "ana", "", 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.recorder.RecordQuickSale(context.Background(), "ana", "missing", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordSale_AuditFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	p := f.createProduct(t, "Widget", 10)
	f.store.FailAuditWith(errors.New("fallo"))

	_, err := f.recorder.RecordQuickSale(context.Background(), "ana", p.ID, 2)
	require.Error(t, err)
	f.store.FailAuditWith(nil)

	assert.Equal(t, 10, f.stock(t, p.ID))
	all, err := f.recorder.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRecordSale_ConcurrentNeverOversells(t *testing.T) {
	f := newFixture(t)
	p := f.createProduct(t, "Widget", 50)

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok, rejected := 0, 0
	for i := 0; i < 80; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.recorder.RecordQuickSale(context.Background(), "ana", p.ID, 1)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if errors.Is(err, domain.ErrInsufficientStock) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, ok)
	assert.Equal(t, 30, rejected)
	assert.Equal(t, 0, f.stock(t, p.ID))
}

func TestListRecent_DefaultLimit(t *testing.T) {
	f := newFixture(t)
	p := f.createProduct(t, "Widget", 100)
	for i := 0; i < 12; i++ {
		_, err := f.recorder.RecordQuickSale(context.Background(), "ana", p.ID, 1)
		require.NoError(t, err)
	}

	recent, err := f.recorder.ListRecent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, recent, inventory.DefaultRecentSales)
	assert.True(t, recent[0].Timestamp.After(recent[1].Timestamp))
}

func TestProductRevenue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.createProduct(t, "Widget", 100)

	rev, err := f.recorder.ProductRevenue(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, rev.TotalRevenue.IsZero())
	assert.Equal(t, 0, rev.QuantitySold)

	price := decimal.RequireFromString("3.10")
	_, err = f.recorder.RecordSale(ctx, "ana", inventory.SaleInput{ProductID: p.ID, Quantity: 3, UnitPrice: &price})
	require.NoError(t, err)
	_, err = f.recorder.RecordQuickSale(ctx, "ana", p.ID, 2)
	require.NoError(t, err)

	rev, err = f.recorder.ProductRevenue(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "9.3", rev.TotalRevenue.String())
	assert.Equal(t, 5, rev.QuantitySold)

	_, err = f.recorder.ProductRevenue(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
