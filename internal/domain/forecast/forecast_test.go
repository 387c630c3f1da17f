package forecast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-optimizer/internal/domain/forecast"
)

func TestDemand_HistorialInsuficiente_SiempreCero(t *testing.T) {
	for _, history := range [][]int{nil, {}, {42}} {
		for _, horizon := range []int{1, 7, 30, 365} {
			res := forecast.Demand(history, horizon)
			assert.Equal(t, 0.0, res.ForecastQuantity)
			assert.Equal(t, forecast.ConfidenceLow, res.Confidence)
			assert.Equal(t, forecast.MethodInsufficientData, res.Method)
			assert.Equal(t, len(history), res.SampleCount)
			assert.NotEmpty(t, res.Message)
		}
	}
}

func TestDemand_DosPuntos_UsaRegresion(t *testing.T) {
	// 15 y 10 unidades: pendiente -5, intercepto 15.
	res := forecast.Demand([]int{15, 10}, 7)

	assert.Equal(t, forecast.MethodLinearRegression, res.Method)
	assert.InDelta(t, -5.0, res.Slope, 1e-9)
	assert.InDelta(t, 15.0, res.Intercept, 1e-9)
	assert.InDelta(t, 12.5, res.AverageDailySales, 1e-9)
	assert.Equal(t, forecast.TrendDecreasing, res.Trend)
	assert.Equal(t, forecast.ConfidenceLow, res.Confidence)
	assert.Equal(t, 2, res.SampleCount)
	assert.Equal(t, 7, res.HorizonDays)
}

func TestDemand_TruncaCadaDiaAntesDeSumar(t *testing.T) {
	// Proyección por día: i=2 -> 5, i>=3 -> <=0. Sin truncar por día el total sería -70.
	res := forecast.Demand([]int{15, 10}, 7)
	assert.InDelta(t, 5.0, res.ForecastQuantity, 1e-9)
}

func TestDemand_TendenciaCreciente(t *testing.T) {
	res := forecast.Demand([]int{2, 3, 4, 5, 6, 7}, 3)

	require.Equal(t, forecast.MethodLinearRegression, res.Method)
	assert.InDelta(t, 1.0, res.Slope, 1e-9)
	assert.InDelta(t, 2.0, res.Intercept, 1e-9)
	// i = 6, 7, 8 -> 8 + 9 + 10
	assert.InDelta(t, 27.0, res.ForecastQuantity, 1e-9)
	assert.Equal(t, forecast.TrendIncreasing, res.Trend)
	assert.Equal(t, forecast.ConfidenceMedium, res.Confidence)
}

func TestDemand_SerieConstante_Estable(t *testing.T) {
	history := make([]int, 12)
	for i := range history {
		history[i] = 4
	}
	res := forecast.Demand(history, 5)

	assert.InDelta(t, 0.0, res.Slope, 1e-9)
	assert.InDelta(t, 20.0, res.ForecastQuantity, 1e-9)
	assert.Equal(t, forecast.TrendStable, res.Trend)
	assert.Equal(t, forecast.ConfidenceHigh, res.Confidence)
}

func TestDemand_NivelesDeConfianza(t *testing.T) {
	cases := []struct {
		n    int
		want forecast.Confidence
	}{
		{2, forecast.ConfidenceLow},
		{5, forecast.ConfidenceLow},
		{6, forecast.ConfidenceMedium},
		{10, forecast.ConfidenceMedium},
		{11, forecast.ConfidenceHigh},
	}
	for _, tc := range cases {
		history := make([]int, tc.n)
		for i := range history {
			history[i] = 3 + i%2
		}
		assert.Equal(t, tc.want, forecast.Demand(history, 7).Confidence, "n=%d", tc.n)
	}
}

func TestDemand_PendienteMuyNegativa_NuncaNegativo(t *testing.T) {
	res := forecast.Demand([]int{100, 50, 1}, 30)
	assert.GreaterOrEqual(t, res.ForecastQuantity, 0.0)
	assert.Equal(t, forecast.TrendDecreasing, res.Trend)
}

func TestDemand_Determinista(t *testing.T) {
	history := []int{3, 8, 1, 9, 4, 7, 2}
	first := forecast.Demand(history, 14)
	second := forecast.Demand(history, 14)
	assert.Equal(t, first, second)
}
