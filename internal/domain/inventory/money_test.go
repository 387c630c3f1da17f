package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRoundMoney(t *testing.T) {
	cases := map[string]string{
		"1.005":  "1.01",
		"2.5":    "2.5",
		"3.014":  "3.01",
		"-1.005": "-1.01",
	}
	for in, want := range cases {
		assert.True(t, d(want).Equal(RoundMoney(d(in))), "%s -> %s", in, RoundMoney(d(in)))
	}
	assert.Equal(t, int32(-2), RoundMoney(d("1.005")).Exponent())
}

func TestRoundPtr_Nil(t *testing.T) {
	assert.Nil(t, RoundMoneyPtr(nil))
	assert.Nil(t, RoundCostPtr(nil))

	cost := decimal.RequireFromString("10.029126")
	assert.Equal(t, "10.0291", RoundCostPtr(&cost).String())
}
