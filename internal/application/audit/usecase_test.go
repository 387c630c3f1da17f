package audit_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-optimizer/internal/application/audit"
	"github.com/jhoicas/inventory-optimizer/internal/domain"
	"github.com/jhoicas/inventory-optimizer/internal/domain/entity"
	"github.com/jhoicas/inventory-optimizer/internal/infrastructure/memory"
)

var t0 = time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

func seed(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	repo := store.AuditLogs()
	ctx := context.Background()
	p := &entity.Product{ID: "p-1", Name: "Widget"}
	sale := &entity.SaleRecord{ID: "s-1", ProductID: "p-1", ProductName: "Widget", QuantitySold: 2, TotalAmount: decimal.NewFromInt(8)}

	require.NoError(t, repo.Create(ctx, audit.ProductCreated(p, "ana", t0)))
	require.NoError(t, repo.Create(ctx, audit.StockAdjusted(p, 10, 8, "ana", t0.Add(time.Minute))))
	require.NoError(t, repo.Create(ctx, audit.SaleRecorded(sale, "luis", t0.Add(time.Minute))))
	require.NoError(t, repo.Create(ctx, audit.SalesDeleted(p, 1, "admin", t0.Add(2*time.Hour))))
	require.NoError(t, repo.Create(ctx, audit.ProductDeleted(p, "admin", t0.Add(3*time.Hour))))
	return store
}

func TestEntries_Details(t *testing.T) {
	p := &entity.Product{ID: "p-1", Name: "Widget"}

	adj := audit.StockAdjusted(p, 100, 85, "ana", t0)
	assert.Equal(t, "Stock ajustado para Widget: 100 → 85", adj.Description)
	var d map[string]int
	require.NoError(t, json.Unmarshal([]byte(adj.Details), &d))
	assert.Equal(t, 100, d["old_quantity"])
	assert.Equal(t, 85, d["new_quantity"])

	del := audit.SalesDeleted(p, 3, "admin", t0)
	assert.Empty(t, del.EntityID)
	assert.Equal(t, entity.AuditActionDeleteSales, del.Action)
	assert.Contains(t, del.Details, `"product_id":"p-1"`)
}

func TestList_Pagination(t *testing.T) {
	uc := audit.NewUseCase(seed(t).AuditLogs(), nil)

	page, err := uc.List(context.Background(), 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Items, 2)
	assert.Equal(t, entity.AuditActionDelete, page.Items[0].Action)

	last, err := uc.List(context.Background(), 2, 2)
	require.NoError(t, err)
	require.Len(t, last.Items, 1)
	assert.Equal(t, entity.AuditActionCreate, last.Items[0].Action)

	_, err = uc.List(context.Background(), -1, 2)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFilters(t *testing.T) {
	uc := audit.NewUseCase(seed(t).AuditLogs(), nil)
	ctx := context.Background()

	byAction, err := uc.ByAction(ctx, "stock_adjustment")
	require.NoError(t, err)
	assert.Len(t, byAction, 1)

	byType, err := uc.ByEntityType(ctx, "sale_record")
	require.NoError(t, err)
	assert.Len(t, byType, 2)

	byEntity, err := uc.ByEntity(ctx, "product", "p-1")
	require.NoError(t, err)
	assert.Len(t, byEntity, 3)

	byUser, err := uc.ByUser(ctx, "admin")
	require.NoError(t, err)
	assert.Len(t, byUser, 2)

	inRange, err := uc.ByDateRange(ctx, t0, t0.Add(90*time.Minute))
	require.NoError(t, err)
	assert.Len(t, inRange, 3)

	_, err = uc.ByDateRange(ctx, t0.Add(time.Hour), t0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

type stubExporter struct {
	got int
}

func (s *stubExporter) Export(entries []*entity.AuditLog, _, _ time.Time) ([]byte, string, error) {
	s.got = len(entries)
	return []byte("<auditLog/>"), "abc", nil
}

func TestExport_UsesDateRange(t *testing.T) {
	exp := &stubExporter{}
	uc := audit.NewUseCase(seed(t).AuditLogs(), exp)

	doc, digest, err := uc.Export(context.Background(), t0.Add(time.Hour), t0.Add(4*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "<auditLog/>", string(doc))
	assert.Equal(t, "abc", digest)
	assert.Equal(t, 2, exp.got)
}
