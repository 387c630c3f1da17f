package inventory

import "github.com/shopspring/decimal"

// MoneyPrecision decimales de precios de venta y totales (columnas NUMERIC(_, 2)).
const MoneyPrecision = 2

// RoundMoney redondea al centavo, mitad lejos de cero (1.005 -> 1.01).
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPrecision)
}

// RoundMoneyPtr igual que RoundMoney; nil sigue siendo nil.
func RoundMoneyPtr(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	r := RoundMoney(*d)
	return &r
}

// RoundCostPtr redondea un costo unitario a la precisión del costo promedio.
func RoundCostPtr(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	r := d.Round(costPrecision)
	return &r
}
