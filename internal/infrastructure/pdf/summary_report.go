// Package pdf genera el reporte financiero resumido en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre de la app      │  Fecha de generación       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  INGRESOS: total / unidades / ventas                        │
//	│  INVERSIÓN: actual / vendida / total / costo promedio       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Ventas | Unidades | Ingresos (30 días)      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  STOCK BAJO: Producto | SKU | Stock | Umbral                │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/inventory-optimizer/internal/application/dto"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 170, Green: 40, Blue: 40}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// SummaryReportGenerator genera el resumen financiero con Maroto v2.
type SummaryReportGenerator struct {
	appName string
	printer *message.Printer
}

// NewSummaryReportGenerator construye el generador. appName va en el encabezado.
func NewSummaryReportGenerator(appName string) *SummaryReportGenerator {
	return &SummaryReportGenerator{appName: appName, printer: message.NewPrinter(language.Spanish)}
}

// Generate genera el PDF del resumen y devuelve sus bytes.
func (g *SummaryReportGenerator) Generate(_ context.Context, s *dto.SummaryResponse) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Resumen financiero de inventario", true).
		WithAuthor(g.appName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(s))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(g.revenueRow(s.Revenue))
	m.AddRows(g.investmentRow(s.Investment))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle(fmt.Sprintf("TENDENCIA DIARIA (%d DÍAS)", s.Trend.Days)))
	m.AddRows(tableHeader([]string{"Fecha", "Ventas", "Unidades", "Ingresos"}, []int{3, 3, 3, 3}))
	if len(s.Trend.Points) == 0 {
		m.AddRows(emptyRow("Sin ventas en el período"))
	}
	for _, p := range s.Trend.Points {
		m.AddRows(row.New(6).Add(
			cell(p.Date, 3, align.Left),
			cell(g.printer.Sprintf("%d", p.NumberOfSales), 3, align.Right),
			cell(g.printer.Sprintf("%d", p.QuantitySold), 3, align.Right),
			cell(g.money(p.Revenue), 3, align.Right),
		))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(sectionTitle("PRODUCTOS CON STOCK BAJO"))
	m.AddRows(tableHeader([]string{"Producto", "SKU", "Stock", "Umbral"}, []int{5, 3, 2, 2}))
	if len(s.LowStock) == 0 {
		m.AddRows(emptyRow("Ningún producto por debajo del umbral"))
	}
	for _, p := range s.LowStock {
		m.AddRows(row.New(6).Add(
			cell(p.Name, 5, align.Left),
			cell(nonEmpty(p.SKU, "-"), 3, align.Left),
			col.New(2).Add(text.New(g.printer.Sprintf("%d", p.QuantityOnHand), props.Text{
				Size: 8, Align: align.Right, Top: 1, Color: colorAlert, Style: fontstyle.Bold,
			})),
			cell(g.printer.Sprintf("%d", p.LowStockThreshold), 2, align.Right),
		))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *SummaryReportGenerator) headerRow(s *dto.SummaryResponse) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(g.appName, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("Resumen financiero de inventario", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Generado: "+s.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
		),
	)
}

func (g *SummaryReportGenerator) revenueRow(r dto.RevenueResponse) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("INGRESOS", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(g.printer.Sprintf("Total: %s   |   Unidades vendidas: %d   |   Ventas: %d",
				g.money(r.TotalRevenue), r.TotalQuantitySold, r.NumberOfSales,
			), props.Text{Size: 9, Top: 7}),
		),
	)
}

func (g *SummaryReportGenerator) investmentRow(inv dto.StockInvestmentResponse) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("INVERSIÓN EN INVENTARIO", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(fmt.Sprintf("Actual: %s   |   Vendida: %s   |   Total: %s   |   Costo prom./unidad: %s",
				g.money(inv.CurrentStockInvestment), g.money(inv.SoldStockInvestment),
				g.money(inv.TotalInvestment), g.money(inv.AverageCostPerUnit),
			), props.Text{Size: 9, Top: 7}),
		),
	)
}

func sectionTitle(label string) core.Row {
	return row.New(8).Add(col.New(12).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 2,
	})))
}

func tableHeader(labels []string, sizes []int) core.Row {
	cols := make([]core.Col, 0, len(labels))
	for i, label := range labels {
		a := align.Right
		if i == 0 {
			a = align.Left
		}
		cols = append(cols, col.New(sizes[i]).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 1, Color: colorGray,
		})))
	}
	return row.New(7).Add(cols...)
}

func cell(value string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(value, props.Text{Size: 8, Align: a, Top: 1}))
}

func emptyRow(msg string) core.Row {
	return row.New(6).Add(col.New(12).Add(text.New(msg, props.Text{
		Size: 8, Style: fontstyle.Italic, Color: colorGray, Top: 1,
	})))
}

// money formatea con separadores de miles en español ("$ 1.234.567,50").
func (g *SummaryReportGenerator) money(d decimal.Decimal) string {
	return g.printer.Sprintf("$ %.2f", d.Round(2).InexactFloat64())
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
