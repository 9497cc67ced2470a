package report

import (
	"testing"
	"time"

	"financeirox/calendar"
	"financeirox/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jst = time.FixedZone("JST", 9*60*60)

func at(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, jst)
}

func str(s string) *string { return &s }

func income(amount int64, when time.Time, source string) models.Transaction {
	tx := models.Transaction{Type: models.TypeIncome, Amount: decimal.NewFromInt(amount), OccurredAt: when}
	if source != "" {
		tx.IncomeSource = str(source)
	}
	return tx
}

func expense(amount int64, when time.Time, category string) models.Transaction {
	tx := models.Transaction{Type: models.TypeExpense, Amount: decimal.NewFromInt(amount), OccurredAt: when}
	if category != "" {
		tx.ExpenseCategory = str(category)
	}
	return tx
}

func TestSumBuckets_MatchesWindowTotal(t *testing.T) {
	ref := at(2026, time.March, 10, 12)
	txs := []models.Transaction{
		income(1000, at(2026, time.March, 1, 0), "Uber"),      // início exato do bucket
		income(2500, at(2026, time.February, 28, 23), "Uber"), // fim do bucket anterior
		income(700, at(2025, time.December, 1, 0), "Amazon"),  // início da janela
		income(900, at(2025, time.November, 30, 23), "Uber"),  // fora da janela
		income(300, at(2026, time.April, 1, 0), "Uber"),       // fora (fim exclusivo)
		income(-50, at(2026, time.March, 2, 0), "Uber"),       // ignorado
		expense(4000, at(2026, time.March, 3, 0), "Posto"),    // outro tipo
	}

	for _, g := range []calendar.Granularity{calendar.Day, calendar.Week, calendar.Month, calendar.Year} {
		buckets := calendar.BucketsFor(g, ref)
		totals := SumBuckets(buckets, txs, models.TypeIncome)
		require.Len(t, totals, calendar.BucketCount)

		start, end := calendar.Window(buckets)
		want := decimal.Zero
		for _, tx := range txs {
			if tx.Type == models.TypeIncome && tx.Amount.IsPositive() && !tx.OccurredAt.Before(start) && tx.OccurredAt.Before(end) {
				want = want.Add(tx.Amount)
			}
		}
		assert.True(t, want.Equal(Sum(totals)), "%s: %s != %s", g, want, Sum(totals))
	}

	months := SumBuckets(calendar.BucketsFor(calendar.Month, ref), txs, models.TypeIncome)
	assert.Equal(t, "700", months[0].Total.String())
	assert.Equal(t, "0", months[1].Total.String())
	assert.Equal(t, "2500", months[2].Total.String())
	assert.Equal(t, "1000", months[3].Total.String())
}

func TestTotals(t *testing.T) {
	in, out := Totals([]models.Transaction{
		income(100, at(2026, 1, 1, 0), ""),
		expense(30, at(2026, 1, 1, 0), ""),
		expense(0, at(2026, 1, 1, 0), ""),
	})
	assert.Equal(t, "100", in.String())
	assert.Equal(t, "30", out.String())
}

func TestMonthly(t *testing.T) {
	txs := []models.Transaction{
		income(60000, at(2026, 1, 5, 9), "Uber"),
		income(40000, at(2026, 1, 6, 9), "Amazon"),
		expense(3000, at(2026, 1, 5, 9), "Posto"),
		expense(5000, at(2026, 1, 7, 9), "Alimentação"),
		expense(2000, at(2026, 1, 8, 9), ""),
		expense(2000, at(2026, 1, 9, 9), "Posto"),
	}
	sources := []models.IncomeSource{{Name: "Uber", Color: "#000000"}}
	categories := []models.ExpenseCategory{{Name: "Posto", Color: "#ef4444"}}

	s := Monthly("2026-01", txs, sources, categories)
	assert.Equal(t, "100000", s.TotalIncome.String())
	assert.Equal(t, "12000", s.TotalExpense.String())
	assert.Equal(t, "88000", s.Balance.String())

	require.Len(t, s.ExpensesByCategory, 3)
	// Posto 5000 e Alimentação 5000 empatam; desempate por nome
	assert.Equal(t, "Alimentação", s.ExpensesByCategory[0].Name)
	assert.Equal(t, models.DefaultColor, s.ExpensesByCategory[0].Color)
	assert.Equal(t, "Posto", s.ExpensesByCategory[1].Name)
	assert.Equal(t, "#ef4444", s.ExpensesByCategory[1].Color)
	assert.Equal(t, models.DefaultLabel, s.ExpensesByCategory[2].Name)
	assert.Equal(t, "16.7", s.ExpensesByCategory[2].Percentage.String())

	require.Len(t, s.IncomeBySource, 2)
	assert.Equal(t, "Uber", s.IncomeBySource[0].Name)
	assert.Equal(t, "60", s.IncomeBySource[0].Percentage.String())
}

func TestMonthly_Empty(t *testing.T) {
	s := Monthly("2026-02", nil, nil, nil)
	assert.True(t, s.Balance.IsZero())
	assert.NotNil(t, s.ExpensesByCategory)
	assert.Empty(t, s.IncomeBySource)
}

func TestPayoutDate(t *testing.T) {
	// 2026-01-14 é quarta-feira
	wed := at(2026, time.January, 14, 18)
	assert.Equal(t, at(2026, time.January, 16, 0), PayoutDate(wed, time.Friday))
	// mesmo dia da semana: próxima semana
	assert.Equal(t, at(2026, time.January, 21, 0), PayoutDate(wed, time.Wednesday))
	assert.Equal(t, at(2026, time.January, 19, 0), PayoutDate(wed, time.Monday))

	for d := 0; d < 14; d++ {
		occurred := at(2026, time.January, 1+d, 10)
		for wd := time.Sunday; wd <= time.Saturday; wd++ {
			p := PayoutDate(occurred, wd)
			assert.Equal(t, wd, p.Weekday())
			days := p.Sub(calendar.StartOfDay(occurred)).Hours() / 24
			assert.True(t, days >= 1 && days <= 7, "%v %v", occurred, wd)
		}
	}
}

func TestPayouts(t *testing.T) {
	fri, wed := 5, 3
	sources := []models.IncomeSource{
		{Name: "Uber", PaymentWeekday: &fri},
		{Name: "Amazon", PaymentWeekday: &wed},
		{Name: "Outros"},
	}
	now := at(2026, time.January, 16, 8) // sexta-feira
	txs := []models.Transaction{
		income(10000, at(2026, time.January, 12, 20), "Uber"),  // paga sexta 16: hoje
		income(5000, at(2026, time.January, 16, 7), "Uber"),    // paga sexta 23
		income(8000, at(2026, time.January, 13, 10), "Amazon"), // paga quarta 14
		income(9000, at(2026, time.January, 14, 10), "Amazon"), // paga quarta 21
		income(999, at(2026, time.January, 10, 10), "Outros"),  // sem configuração
		income(111, at(2026, time.January, 10, 10), ""),        // vira Outros
		expense(3000, at(2026, time.January, 10, 10), "Posto"),
	}

	s := Payouts(txs, sources, now)
	require.Len(t, s.Balances, 2)
	assert.Equal(t, "Uber", s.Balances[0].Source)
	assert.Equal(t, "10000", s.Balances[0].Current.String())
	assert.Equal(t, "5000", s.Balances[0].Future.String())
	assert.Equal(t, "Amazon", s.Balances[1].Source)
	assert.Equal(t, "8000", s.Balances[1].Current.String())
	assert.Equal(t, "9000", s.Balances[1].Future.String())
	assert.Equal(t, "18000", s.TotalPaid.String())
}

func TestFormatJPY(t *testing.T) {
	cases := map[string]string{
		"0":         "¥0",
		"999":       "¥999",
		"1000":      "¥1,000",
		"12345.6":   "¥12,346",
		"1234567":   "¥1,234,567",
		"-98765.4":  "-¥98,765",
		"100000000": "¥100,000,000",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatJPY(decimal.RequireFromString(in)), in)
	}
}
