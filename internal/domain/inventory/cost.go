// Package inventory reglas de dominio sobre el valor del inventario.
package inventory

import "github.com/shopspring/decimal"

// costPrecision decimales con los que se guarda el costo promedio.
const costPrecision = 4

// WeightedAverageCost costo unitario tras recibir qty unidades a unitCost.
//
//	nuevo = (stock * costoActual + qty * unitCost) / (stock + qty)
//
// Sin costo actual (nil) el stock existente no pondera y el resultado es unitCost.
// Stock negativo cuenta como cero.
func WeightedAverageCost(onHand int, currentCost *decimal.Decimal, qty int, unitCost decimal.Decimal) decimal.Decimal {
	if currentCost == nil || onHand < 0 {
		onHand = 0
	}
	total := onHand + qty
	if total <= 0 {
		return decimal.Zero
	}
	num := decimal.NewFromInt(int64(qty)).Mul(unitCost)
	if onHand > 0 {
		num = num.Add(decimal.NewFromInt(int64(onHand)).Mul(*currentCost))
	}
	return num.Div(decimal.NewFromInt(int64(total))).Round(costPrecision)
}
