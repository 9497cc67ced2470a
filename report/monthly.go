package report

import (
	"sort"

	"financeirox/models"

	"github.com/shopspring/decimal"
)

// Slice fatia de um gráfico de rosca
type Slice struct {
	Name       string          `json:"name"`
	Color      string          `json:"color"`
	Total      decimal.Decimal `json:"total"`
	Percentage decimal.Decimal `json:"percentage"`
}

// MonthlySummary saldo do mês e distribuição por categoria/fonte
type MonthlySummary struct {
	Month              string          `json:"month"`
	TotalIncome        decimal.Decimal `json:"totalIncome"`
	TotalExpense       decimal.Decimal `json:"totalExpense"`
	Balance            decimal.Decimal `json:"balance"`
	ExpensesByCategory []Slice         `json:"expensesByCategory"`
	IncomeBySource     []Slice         `json:"incomeBySource"`
}

var hundred = decimal.NewFromInt(100)

// Monthly monta o resumo de month (aaaa-mm) a partir dos lançamentos já filtrados pelo mês
func Monthly(month string, txs []models.Transaction, sources []models.IncomeSource, categories []models.ExpenseCategory) MonthlySummary {
	income, expense := Totals(txs)

	sourceColors := make(map[string]string, len(sources))
	for _, s := range sources {
		sourceColors[s.Name] = s.Color
	}
	categoryColors := make(map[string]string, len(categories))
	for _, c := range categories {
		categoryColors[c.Name] = c.Color
	}

	return MonthlySummary{
		Month:              month,
		TotalIncome:        income,
		TotalExpense:       expense,
		Balance:            income.Sub(expense),
		ExpensesByCategory: groupBy(txs, models.TypeExpense, expense, categoryColors),
		IncomeBySource:     groupBy(txs, models.TypeIncome, income, sourceColors),
	}
}

func groupBy(txs []models.Transaction, typ models.TransactionType, total decimal.Decimal, colors map[string]string) []Slice {
	index := map[string]int{}
	slices := []Slice{}
	for _, tx := range txs {
		if tx.Type != typ || !tx.Amount.IsPositive() {
			continue
		}
		name := tx.Label()
		i, ok := index[name]
		if !ok {
			color := colors[name]
			if color == "" {
				color = models.DefaultColor
			}
			i = len(slices)
			index[name] = i
			slices = append(slices, Slice{Name: name, Color: color, Total: decimal.Zero})
		}
		slices[i].Total = slices[i].Total.Add(tx.Amount)
	}

	for i := range slices {
		if total.IsPositive() {
			slices[i].Percentage = slices[i].Total.Mul(hundred).Div(total).Round(1)
		} else {
			slices[i].Percentage = decimal.Zero
		}
	}
	sort.SliceStable(slices, func(a, b int) bool {
		if c := slices[a].Total.Cmp(slices[b].Total); c != 0 {
			return c > 0
		}
		return slices[a].Name < slices[b].Name
	})
	return slices
}
