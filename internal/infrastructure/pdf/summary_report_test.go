package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-optimizer/internal/application/dto"
)

func TestGenerate_ProducesPDF(t *testing.T) {
	g := NewSummaryReportGenerator("Inventory Optimizer")
	summary := &dto.SummaryResponse{
		GeneratedAt: time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC),
		Revenue:     dto.RevenueResponse{TotalRevenue: decimal.RequireFromString("1234.5"), TotalQuantitySold: 12, NumberOfSales: 3},
		Investment:  dto.StockInvestmentResponse{TotalInvestment: decimal.NewFromInt(900)},
		Trend: dto.DailyTrendResponse{Days: 30, Points: []dto.DailySalesDTO{
			{Date: "2024-06-15", Revenue: decimal.NewFromInt(50), QuantitySold: 5, NumberOfSales: 2},
		}},
		LowStock: []dto.ProductResponse{{Name: "Widget", QuantityOnHand: 2, LowStockThreshold: 10}},
	}

	doc, err := g.Generate(context.Background(), summary)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}

func TestGenerate_EmptySummary(t *testing.T) {
	doc, err := NewSummaryReportGenerator("x").Generate(context.Background(), &dto.SummaryResponse{Trend: dto.DailyTrendResponse{Days: 30}})
	require.NoError(t, err)
	assert.NotEmpty(t, doc)
}

func TestMoney_SpanishSeparators(t *testing.T) {
	g := NewSummaryReportGenerator("x")
	assert.Equal(t, "$ 1.234.567,50", g.money(decimal.RequireFromString("1234567.5")))
}
