// Package forecast implementa la proyección de demanda (servicio de dominio, sin I/O).
//
// Modelo: regresión lineal por mínimos cuadrados sobre el índice del evento de venta
// (x = 0..n-1, no días calendario) contra la cantidad vendida.
//
//	pendiente  = (n·Σ(i·y) − Σi·Σy) / (n·Σ(i²) − (Σi)²)
//	intercepto = (Σy − pendiente·Σi) / n
package forecast

import "math"

// Umbrales del modelo.
const (
	MinSamples        = 2
	TrendThreshold    = 0.1
	DenominatorEps    = 1e-8
	highConfidenceN   = 10
	mediumConfidenceN = 5
)

// Trend clasificación de la pendiente.
type Trend string

const (
	TrendIncreasing Trend = "INCREASING"
	TrendDecreasing Trend = "DECREASING"
	TrendStable     Trend = "STABLE"
)

// Confidence nivel de confianza del pronóstico.
type Confidence string

const (
	ConfidenceLow    Confidence = "LOW"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceHigh   Confidence = "HIGH"
)

// Method método usado para producir el pronóstico.
type Method string

const (
	MethodInsufficientData Method = "insufficient_data"
	MethodAverage          Method = "average"
	MethodLinearRegression Method = "linear_regression"
)

// Result pronóstico de demanda. Historial corto o denominador nulo no son errores:
// se devuelven como resultado válido con Confidence/Method que lo indican.
type Result struct {
	HorizonDays       int
	SampleCount       int
	AverageDailySales float64
	ForecastQuantity  float64
	Slope             float64
	Intercept         float64
	Trend             Trend
	Confidence        Confidence
	Method            Method
	Message           string
}

// Demand proyecta la demanda de los próximos horizonDays a partir de las cantidades
// vendidas en orden cronológico. Es una función pura: mismo historial y horizonte,
// mismo resultado.
func Demand(quantities []int, horizonDays int) Result {
	n := len(quantities)
	res := Result{
		HorizonDays: horizonDays,
		SampleCount: n,
		Trend:       TrendStable,
	}

	var sumY float64
	for _, q := range quantities {
		sumY += float64(q)
	}
	if n > 0 {
		res.AverageDailySales = sumY / float64(n)
	}

	if n < MinSamples {
		res.Confidence = ConfidenceLow
		res.Method = MethodInsufficientData
		res.Message = "historial insuficiente: se requieren al menos 2 ventas para pronosticar"
		return res
	}

	var sumX, sumXY, sumXX float64
	for i, q := range quantities {
		x := float64(i)
		y := float64(q)
		sumX += x
		sumXY += x * y
		sumXX += x * x
	}
	nf := float64(n)
	denominator := nf*sumXX - sumX*sumX

	if degenerate(denominator) {
		return averageForecast(res)
	}

	slope := (nf*sumXY - sumX*sumY) / denominator
	intercept := (sumY - slope*sumX) / nf

	var total float64
	for i := n; i < n+horizonDays; i++ {
		// Cada día proyectado se trunca a cero antes de sumar.
		total += math.Max(0, slope*float64(i)+intercept)
	}

	res.Slope = slope
	res.Intercept = intercept
	res.ForecastQuantity = math.Max(0, total)
	res.Trend = classifyTrend(slope)
	res.Confidence = confidenceFor(n)
	res.Method = MethodLinearRegression
	return res
}

// degenerate indica que la regresión no es calculable con este denominador.
func degenerate(denominator float64) bool {
	return math.Abs(denominator) < DenominatorEps
}

// averageForecast respaldo sin regresión: promedio por evento × horizonte.
func averageForecast(res Result) Result {
	res.Method = MethodAverage
	res.Confidence = ConfidenceMedium
	res.ForecastQuantity = math.Max(0, res.AverageDailySales*float64(res.HorizonDays))
	res.Message = "varianza del índice nula: pronóstico por promedio"
	return res
}

func classifyTrend(slope float64) Trend {
	switch {
	case slope > TrendThreshold:
		return TrendIncreasing
	case slope < -TrendThreshold:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

func confidenceFor(n int) Confidence {
	switch {
	case n > highConfidenceN:
		return ConfidenceHigh
	case n > mediumConfidenceN:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
