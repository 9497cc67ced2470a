// Package report agrega lançamentos para os gráficos, o resumo mensal,
// o calendário de repasses e as exportações.
package report

import (
	"financeirox/calendar"
	"financeirox/models"

	"github.com/shopspring/decimal"
)

// BucketTotal bucket do gráfico com a soma do período
type BucketTotal struct {
	calendar.Bucket
	Total decimal.Decimal `json:"total"`
}

// SumBuckets soma os valores do tipo typ em cada bucket [start, end).
// Valores não positivos são ignorados.
func SumBuckets(buckets []calendar.Bucket, txs []models.Transaction, typ models.TransactionType) []BucketTotal {
	out := make([]BucketTotal, len(buckets))
	for i, b := range buckets {
		out[i] = BucketTotal{Bucket: b, Total: decimal.Zero}
	}
	for _, tx := range txs {
		if tx.Type != typ || !tx.Amount.IsPositive() {
			continue
		}
		for i := range out {
			if out[i].Contains(tx.OccurredAt) {
				out[i].Total = out[i].Total.Add(tx.Amount)
				break
			}
		}
	}
	return out
}

// Sum total de uma série de buckets
func Sum(totals []BucketTotal) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range totals {
		sum = sum.Add(t.Total)
	}
	return sum
}

// Totals soma receitas e despesas positivas
func Totals(txs []models.Transaction) (income, expense decimal.Decimal) {
	income, expense = decimal.Zero, decimal.Zero
	for _, tx := range txs {
		if !tx.Amount.IsPositive() {
			continue
		}
		switch tx.Type {
		case models.TypeIncome:
			income = income.Add(tx.Amount)
		case models.TypeExpense:
			expense = expense.Add(tx.Amount)
		}
	}
	return income, expense
}
