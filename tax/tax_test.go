package tax

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestBrackets_TotalAndContiguous(t *testing.T) {
	require.NotEmpty(t, Brackets)
	assert.True(t, Brackets[0].Min.IsZero())
	assert.False(t, Brackets[len(Brackets)-1].Max.Valid, "última faixa aberta")

	for i := 1; i < len(Brackets); i++ {
		prev := Brackets[i-1]
		require.True(t, prev.Max.Valid)
		assert.True(t, prev.Max.Decimal.Equal(Brackets[i].Min), "faixa %d sem lacuna", i)
	}
}

func TestBrackets_TaxContinuousAtBoundaries(t *testing.T) {
	for i := 1; i < len(Brackets); i++ {
		boundary := Brackets[i].Min
		below := Brackets[i-1].Tax(boundary)
		above := Brackets[i].Tax(boundary)
		assert.True(t, below.Equal(above), "limite %s: %s != %s", boundary, below, above)
	}
}

func TestFindBracket(t *testing.T) {
	assert.Equal(t, Brackets[0].Label, FindBracket(decimal.Zero).Label)
	assert.Equal(t, Brackets[0].Label, FindBracket(d(-500)).Label)
	assert.Equal(t, Brackets[len(Brackets)-1].Label, FindBracket(d(50_000_000)).Label)
	assert.True(t, FindBracket(d(3_300_000)).Rate.Equal(decimal.RequireFromString("0.20")))
	assert.True(t, FindBracket(d(3_299_999)).Rate.Equal(decimal.RequireFromString("0.10")))

	// toda base cai em exatamente uma faixa
	for _, v := range []int64{1, 1_949_999, 1_950_000, 6_950_000, 8_999_999, 9_000_000, 17_999_999, 40_000_000} {
		matches := 0
		for _, b := range Brackets {
			if b.Contains(d(v)) {
				matches++
			}
		}
		assert.Equal(t, 1, matches, "base %d", v)
	}
}

func TestEstimate(t *testing.T) {
	s := Estimate(d(5_000_000), d(1_000_000))
	assert.True(t, s.TaxableBase.Equal(d(4_000_000)))
	// 4.000.000 * 20% - 427.500
	assert.True(t, s.TaxAmount.Equal(d(372_500)), s.TaxAmount.String())
	assert.True(t, s.BracketRate.Equal(decimal.RequireFromString("0.2")))
	assert.Equal(t, "¥3.3M a ¥6.95M — 20% - ¥427,500", s.BracketLabel)
	assert.True(t, s.EffectiveRate.Equal(decimal.RequireFromString("0.093125")), s.EffectiveRate.String())
}

func TestEstimate_LossYieldsZero(t *testing.T) {
	s := Estimate(d(100_000), d(250_000))
	assert.True(t, s.TaxableBase.IsZero())
	assert.True(t, s.TaxAmount.IsZero())
	assert.True(t, s.EffectiveRate.IsZero())
	assert.Equal(t, Brackets[0].Label, s.BracketLabel)
	assert.True(t, s.TotalExpense.Equal(d(250_000)))
}

func TestEstimate_SmallIncome(t *testing.T) {
	s := Estimate(decimal.RequireFromString("1000.50"), decimal.Zero)
	assert.True(t, s.TaxAmount.Equal(decimal.RequireFromString("50.025")), s.TaxAmount.String())
	assert.True(t, s.EffectiveRate.Equal(decimal.RequireFromString("0.05")))
}
