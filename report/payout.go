package report

import (
	"time"

	"financeirox/calendar"
	"financeirox/models"

	"github.com/shopspring/decimal"
)

// SourceBalance valores já pagos e a receber de uma fonte
type SourceBalance struct {
	Source  string          `json:"source"`
	Current decimal.Decimal `json:"current"`
	Future  decimal.Decimal `json:"future"`
}

// PayoutSummary saldo do card principal
type PayoutSummary struct {
	TotalPaid decimal.Decimal `json:"totalPaid"`
	Balances  []SourceBalance `json:"balances"`
}

// PayoutDate primeiro dia estritamente posterior a occurredAt que cai em weekday
func PayoutDate(occurredAt time.Time, weekday time.Weekday) time.Time {
	day := calendar.StartOfDay(occurredAt)
	diff := (int(weekday) - int(day.Weekday()) + 7) % 7
	if diff == 0 {
		diff = 7
	}
	return day.AddDate(0, 0, diff)
}

// Payouts separa as receitas por fonte em pago (repasse <= hoje) e a receber.
// Fontes sem dia de pagamento configurado são ignoradas.
func Payouts(txs []models.Transaction, sources []models.IncomeSource, now time.Time) PayoutSummary {
	weekdays := make(map[string]time.Weekday, len(sources))
	for _, s := range sources {
		if s.PaymentWeekday != nil && models.ValidWeekday(s.PaymentWeekday) {
			weekdays[s.Name] = time.Weekday(*s.PaymentWeekday)
		}
	}

	today := calendar.StartOfDay(now)
	summary := PayoutSummary{TotalPaid: decimal.Zero, Balances: []SourceBalance{}}
	index := map[string]int{}

	for _, tx := range txs {
		if tx.Type != models.TypeIncome {
			continue
		}
		name := tx.Label()
		weekday, ok := weekdays[name]
		if !ok {
			continue
		}
		i, seen := index[name]
		if !seen {
			i = len(summary.Balances)
			index[name] = i
			summary.Balances = append(summary.Balances, SourceBalance{Source: name, Current: decimal.Zero, Future: decimal.Zero})
		}

		payout := PayoutDate(tx.OccurredAt.In(now.Location()), weekday)
		if payout.After(today) {
			summary.Balances[i].Future = summary.Balances[i].Future.Add(tx.Amount)
			continue
		}
		summary.Balances[i].Current = summary.Balances[i].Current.Add(tx.Amount)
		summary.TotalPaid = summary.TotalPaid.Add(tx.Amount)
	}
	return summary
}
