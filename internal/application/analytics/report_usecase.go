package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/inventory-optimizer/internal/application/dto"
	"github.com/jhoicas/inventory-optimizer/internal/domain"
	"github.com/jhoicas/inventory-optimizer/internal/domain/entity"
	"github.com/jhoicas/inventory-optimizer/internal/domain/repository"
)

// DefaultTrendDays ventana por defecto de la tendencia diaria.
const DefaultTrendDays = 30

const dateLayout = "2006-01-02"

// ReportUseCase agregados financieros sobre productos y ventas (solo lectura).
type ReportUseCase struct {
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRecordRepository
	now         func() time.Time
	loc         *time.Location
}

// NewReportUseCase construye el caso de uso. Las fechas se agrupan en la zona local del servidor.
func NewReportUseCase(productRepo repository.ProductRepository, saleRepo repository.SaleRecordRepository) *ReportUseCase {
	return &ReportUseCase{productRepo: productRepo, saleRepo: saleRepo, now: time.Now, loc: time.Local}
}

// WithClock reemplaza el reloj y la zona horaria (tests).
func (uc *ReportUseCase) WithClock(now func() time.Time, loc *time.Location) *ReportUseCase {
	uc.now = now
	if loc != nil {
		uc.loc = loc
	}
	return uc
}

// DailyTrend agrupa por fecha calendario las ventas de los últimos days días.
// Por fecha: suma de montos, unidades y cantidad de ventas; orden ascendente por fecha.
func (uc *ReportUseCase) DailyTrend(ctx context.Context, days int) (*dto.DailyTrendResponse, error) {
	if days < 1 {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	cutoff := now.Add(-time.Duration(days) * 24 * time.Hour)
	sales, err := uc.saleRepo.ListBetween(ctx, cutoff, now)
	if err != nil {
		return nil, err
	}
	byDate := make(map[string]*dto.DailySalesDTO)
	for _, s := range sales {
		date := s.Timestamp.In(uc.loc).Format(dateLayout)
		point, ok := byDate[date]
		if !ok {
			point = &dto.DailySalesDTO{Date: date, Revenue: decimal.Zero}
			byDate[date] = point
		}
		point.Revenue = point.Revenue.Add(s.TotalAmount)
		point.QuantitySold += s.QuantitySold
		point.NumberOfSales++
	}
	points := make([]dto.DailySalesDTO, 0, len(byDate))
	for _, p := range byDate {
		p.Revenue = p.Revenue.Round(2)
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return &dto.DailyTrendResponse{Days: days, Points: points}, nil
}

// TotalRevenue totales de todo el histórico de ventas.
func (uc *ReportUseCase) TotalRevenue(ctx context.Context) (*dto.RevenueResponse, error) {
	sales, err := uc.saleRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := summarize(sales)
	return &out, nil
}

// RevenueForPeriod totales de las ventas en [start, end].
func (uc *ReportUseCase) RevenueForPeriod(ctx context.Context, start, end time.Time) (*dto.RevenueResponse, error) {
	if start.After(end) {
		return nil, domain.ErrInvalidInput
	}
	sales, err := uc.saleRepo.ListBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	out := summarize(sales)
	out.StartDate = &start
	out.EndDate = &end
	return &out, nil
}

// StockInvestment inversión actual (costo × stock) más la vendida (costo × unidades vendidas).
// La parte vendida usa el costo ACTUAL del producto, no el vigente al momento de cada venta.
func (uc *ReportUseCase) StockInvestment(ctx context.Context) (*dto.StockInvestmentResponse, error) {
	var (
		products []*entity.Product
		sales    []*entity.SaleRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = uc.productRepo.ListAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		sales, err = uc.saleRepo.ListAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return investment(products, sales), nil
}

// Summary resumen para el dashboard y el reporte PDF.
func (uc *ReportUseCase) Summary(ctx context.Context) (*dto.SummaryResponse, error) {
	var (
		revenue *dto.RevenueResponse
		invest  *dto.StockInvestmentResponse
		trend   *dto.DailyTrendResponse
		low     []*entity.Product
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		revenue, err = uc.TotalRevenue(gctx)
		return err
	})
	g.Go(func() (err error) {
		invest, err = uc.StockInvestment(gctx)
		return err
	})
	g.Go(func() (err error) {
		trend, err = uc.DailyTrend(gctx, DefaultTrendDays)
		return err
	})
	g.Go(func() (err error) {
		low, err = uc.productRepo.ListLowStock(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &dto.SummaryResponse{
		GeneratedAt: uc.now(),
		Revenue:     *revenue,
		Investment:  *invest,
		Trend:       *trend,
		LowStock:    dto.FromProducts(low),
	}, nil
}

func summarize(sales []*entity.SaleRecord) dto.RevenueResponse {
	total := decimal.Zero
	qty := 0
	for _, s := range sales {
		total = total.Add(s.TotalAmount)
		qty += s.QuantitySold
	}
	return dto.RevenueResponse{
		TotalRevenue:      total.Round(2),
		TotalQuantitySold: qty,
		NumberOfSales:     len(sales),
	}
}

func investment(products []*entity.Product, sales []*entity.SaleRecord) *dto.StockInvestmentResponse {
	costByProduct := make(map[string]decimal.Decimal, len(products))
	current := decimal.Zero
	currentUnits := 0
	for _, p := range products {
		currentUnits += p.QuantityOnHand
		if p.CostPrice == nil {
			continue
		}
		costByProduct[p.ID] = *p.CostPrice
		if p.QuantityOnHand > 0 {
			current = current.Add(p.CostPrice.Mul(decimal.NewFromInt(int64(p.QuantityOnHand))))
		}
	}
	sold := decimal.Zero
	soldUnits := 0
	for _, s := range sales {
		soldUnits += s.QuantitySold
		if cost, ok := costByProduct[s.ProductID]; ok {
			sold = sold.Add(cost.Mul(decimal.NewFromInt(int64(s.QuantitySold))))
		}
	}
	total := current.Add(sold)
	totalUnits := currentUnits + soldUnits
	avg := decimal.Zero
	if totalUnits > 0 {
		avg = total.Div(decimal.NewFromInt(int64(totalUnits)))
	}
	return &dto.StockInvestmentResponse{
		CurrentStockInvestment: current.Round(2),
		SoldStockInvestment:    sold.Round(2),
		TotalInvestment:        total.Round(2),
		CurrentStockUnits:      currentUnits,
		SoldUnits:              soldUnits,
		TotalUnits:             totalUnits,
		AverageCostPerUnit:     avg.Round(2),
	}
}

// groupChronologically agrupa ventas por producto en orden ascendente (timestamp, id).
func groupChronologically(sales []*entity.SaleRecord) map[string][]*entity.SaleRecord {
	out := make(map[string][]*entity.SaleRecord)
	for _, s := range sales {
		out[s.ProductID] = append(out[s.ProductID], s)
	}
	for _, list := range out {
		sort.Slice(list, func(i, j int) bool {
			if !list[i].Timestamp.Equal(list[j].Timestamp) {
				return list[i].Timestamp.Before(list[j].Timestamp)
			}
			return list[i].ID < list[j].ID
		})
	}
	return out
}
