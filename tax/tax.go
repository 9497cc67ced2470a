// Package tax estima o imposto de renda progressivo japonês a partir do
// lucro (receitas menos despesas) do ano.
package tax

import (
	"github.com/shopspring/decimal"
)

// Bracket faixa [Min, Max) com alíquota e dedução fixa. Max inválido = sem teto.
type Bracket struct {
	Min       decimal.Decimal
	Max       decimal.NullDecimal
	Rate      decimal.Decimal
	Deduction decimal.Decimal
	Label     string
}

// Contains min <= base < max
func (b Bracket) Contains(base decimal.Decimal) bool {
	if base.LessThan(b.Min) {
		return false
	}
	return !b.Max.Valid || base.LessThan(b.Max.Decimal)
}

// Tax base*rate - deduction, nunca negativo
func (b Bracket) Tax(base decimal.Decimal) decimal.Decimal {
	t := base.Mul(b.Rate).Sub(b.Deduction)
	if t.IsNegative() {
		return decimal.Zero
	}
	return t
}

func bracket(min, max int64, rate string, deduction int64, label string) Bracket {
	b := Bracket{
		Min:       decimal.NewFromInt(min),
		Rate:      decimal.RequireFromString(rate),
		Deduction: decimal.NewFromInt(deduction),
		Label:     label,
	}
	if max > 0 {
		b.Max = decimal.NewNullDecimal(decimal.NewFromInt(max))
	}
	return b
}

// Brackets tabela em ordem crescente; a última faixa é aberta
var Brackets = []Bracket{
	bracket(0, 1_950_000, "0.05", 0, "Até ¥1.95M — 5%"),
	bracket(1_950_000, 3_300_000, "0.10", 97_500, "¥1.95M a ¥3.3M — 10% - ¥97,500"),
	bracket(3_300_000, 6_950_000, "0.20", 427_500, "¥3.3M a ¥6.95M — 20% - ¥427,500"),
	bracket(6_950_000, 9_000_000, "0.23", 636_000, "¥6.95M a ¥9M — 23% - ¥636,000"),
	bracket(9_000_000, 18_000_000, "0.33", 1_536_000, "¥9M a ¥18M — 33% - ¥1,536,000"),
	bracket(18_000_000, 40_000_000, "0.40", 2_796_000, "¥18M a ¥40M — 40% - ¥2,796,000"),
	bracket(40_000_000, 0, "0.45", 4_796_000, "Acima de ¥40M — 45% - ¥4,796,000"),
}

// FindBracket base <= 0 cai na primeira faixa; sem correspondência, na última
func FindBracket(base decimal.Decimal) Bracket {
	if !base.IsPositive() {
		return Brackets[0]
	}
	for _, b := range Brackets {
		if b.Contains(base) {
			return b
		}
	}
	return Brackets[len(Brackets)-1]
}

// Summary resultado exibido no card de impostos
type Summary struct {
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	TotalExpense  decimal.Decimal `json:"totalExpense"`
	TaxableBase   decimal.Decimal `json:"taxableBase"`
	TaxAmount     decimal.Decimal `json:"taxAmount"`
	BracketRate   decimal.Decimal `json:"bracketRate"`
	EffectiveRate decimal.Decimal `json:"effectiveRate"`
	BracketLabel  string          `json:"bracketLabel"`
}

// Estimate base = max(receitas - despesas, 0); alíquota efetiva = imposto/base
func Estimate(income, expense decimal.Decimal) Summary {
	base := income.Sub(expense)
	if base.IsNegative() {
		base = decimal.Zero
	}
	b := FindBracket(base)
	amount := b.Tax(base)

	effective := decimal.Zero
	if base.IsPositive() {
		effective = amount.Div(base)
	}
	return Summary{
		TotalIncome:   income,
		TotalExpense:  expense,
		TaxableBase:   base,
		TaxAmount:     amount,
		BracketRate:   b.Rate,
		EffectiveRate: effective,
		BracketLabel:  b.Label,
	}
}
