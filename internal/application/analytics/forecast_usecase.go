package analytics

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/inventory-optimizer/internal/application/dto"
	"github.com/jhoicas/inventory-optimizer/internal/domain"
	"github.com/jhoicas/inventory-optimizer/internal/domain/entity"
	"github.com/jhoicas/inventory-optimizer/internal/domain/forecast"
	"github.com/jhoicas/inventory-optimizer/internal/domain/repository"
)

// DefaultHorizonDays horizonte usado cuando el caller no indica uno.
const DefaultHorizonDays = 7

// ForecastUseCase pronósticos de demanda e ingresos sobre el historial de ventas (solo lectura).
type ForecastUseCase struct {
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRecordRepository
	cache       Cache
	group       singleflight.Group
}

// NewForecastUseCase construye el caso de uso. cache puede ser nil.
func NewForecastUseCase(productRepo repository.ProductRepository, saleRepo repository.SaleRecordRepository, cache Cache) *ForecastUseCase {
	return &ForecastUseCase{productRepo: productRepo, saleRepo: saleRepo, cache: cache}
}

// ForecastDemand proyecta la demanda de un producto para horizonDays días.
// Con menos de 2 ventas devuelve pronóstico 0 y confianza LOW (no es error).
func (uc *ForecastUseCase) ForecastDemand(ctx context.Context, productID string, horizonDays int) (*dto.DemandForecastResponse, error) {
	if horizonDays < 1 {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	var out dto.DemandForecastResponse
	err = uc.cached(ctx, &out, func(ctx context.Context) (interface{}, error) {
		sales, err := uc.saleRepo.ListByProduct(ctx, productID)
		if err != nil {
			return nil, err
		}
		return demandFor(product, sales, horizonDays), nil
	}, "forecast", "demand", productID, strconv.Itoa(horizonDays))
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ForecastRevenue suma forecast × precio de los productos con precio y pronóstico positivo.
func (uc *ForecastUseCase) ForecastRevenue(ctx context.Context, horizonDays int) (*dto.RevenueForecastResponse, error) {
	if horizonDays < 1 {
		return nil, domain.ErrInvalidInput
	}
	var out dto.RevenueForecastResponse
	err := uc.cached(ctx, &out, func(ctx context.Context) (interface{}, error) {
		return uc.computeRevenue(ctx, horizonDays)
	}, "forecast", "revenue", strconv.Itoa(horizonDays))
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Warmup precalcula el pronóstico de ingresos y el de demanda de cada producto.
// Devuelve la cantidad de productos procesados.
func (uc *ForecastUseCase) Warmup(ctx context.Context, horizonDays int) (int, error) {
	if horizonDays < 1 {
		horizonDays = DefaultHorizonDays
	}
	products, err := uc.productRepo.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	for _, p := range products {
		if _, err := uc.ForecastDemand(ctx, p.ID, horizonDays); err != nil {
			return 0, err
		}
	}
	if _, err := uc.ForecastRevenue(ctx, horizonDays); err != nil {
		return 0, err
	}
	return len(products), nil
}

func (uc *ForecastUseCase) computeRevenue(ctx context.Context, horizonDays int) (*dto.RevenueForecastResponse, error) {
	products, err := uc.productRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	sales, err := uc.saleRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	byProduct := groupChronologically(sales)

	out := &dto.RevenueForecastResponse{
		HorizonDays:           horizonDays,
		TotalPredictedRevenue: decimal.Zero,
		Products:              make([]dto.ProductRevenueForecastDTO, 0),
	}
	total := decimal.Zero
	for _, p := range products {
		if p.Price == nil {
			continue
		}
		out.ProductsAnalyzed++
		res := forecast.Demand(quantities(byProduct[p.ID]), horizonDays)
		if res.ForecastQuantity <= 0 {
			continue
		}
		revenue := p.Price.Mul(decimal.NewFromFloat(res.ForecastQuantity))
		total = total.Add(revenue)
		out.ProductsWithForecast++
		out.Products = append(out.Products, dto.ProductRevenueForecastDTO{
			ProductID:        p.ID,
			ProductName:      p.Name,
			ForecastQuantity: res.ForecastQuantity,
			Price:            *p.Price,
			PredictedRevenue: revenue.Round(2),
		})
	}
	out.TotalPredictedRevenue = total.Round(2)
	return out, nil
}

// cached resuelve el resultado vía cache versionado; llamadas concurrentes con la misma
// clave comparten un único cálculo. Si Redis falla se calcula directo: el cache es opcional.
func (uc *ForecastUseCase) cached(ctx context.Context, dest interface{}, loader func(context.Context) (interface{}, error), parts ...string) error {
	if uc.cache == nil {
		return fill(ctx, dest, loader)
	}
	key, err := uc.cache.BuildKey(ctx, parts...)
	if err != nil {
		log.Warn().Err(err).Str("op", "forecast").Msg("cache no disponible, calculando sin cache")
		return fill(ctx, dest, loader)
	}
	v, err, _ := uc.group.Do(key, func() (interface{}, error) {
		// El cálculo compartido no depende de la cancelación del primer caller.
		shared := context.WithoutCancel(ctx)
		var loadErr error
		load := func(c context.Context) (interface{}, error) {
			value, err := loader(c)
			loadErr = err
			return value, err
		}
		var raw json.RawMessage
		if err := uc.cache.FetchJSON(shared, key, &raw, load); err != nil {
			if loadErr != nil {
				return nil, loadErr
			}
			log.Warn().Err(err).Str("key", key).Msg("cache no disponible, calculando sin cache")
			if err := fill(shared, &raw, loader); err != nil {
				return nil, err
			}
		}
		return raw, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(v.(json.RawMessage), dest)
}

// fill calcula sin cache pasando por la misma serialización que el camino cacheado.
func fill(ctx context.Context, dest interface{}, loader func(context.Context) (interface{}, error)) error {
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

func demandFor(product *entity.Product, sales []*entity.SaleRecord, horizonDays int) *dto.DemandForecastResponse {
	res := forecast.Demand(quantities(sales), horizonDays)
	return &dto.DemandForecastResponse{
		ProductID:         product.ID,
		ProductName:       product.Name,
		HorizonDays:       res.HorizonDays,
		SampleCount:       res.SampleCount,
		AverageDailySales: res.AverageDailySales,
		ForecastQuantity:  res.ForecastQuantity,
		Trend:             string(res.Trend),
		Confidence:        string(res.Confidence),
		Method:            string(res.Method),
		Slope:             res.Slope,
		Intercept:         res.Intercept,
		Message:           res.Message,
	}
}

func quantities(sales []*entity.SaleRecord) []int {
	out := make([]int, len(sales))
	for i, s := range sales {
		out[i] = s.QuantitySold
	}
	return out
}
