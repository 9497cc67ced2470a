package service

import (
	"fmt"
	"time"

	"financeirox/calendar"
	"financeirox/models"
	"financeirox/report"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const digestTopCategories = 3

// WeeklyDigest números da semana [From, To]
type WeeklyDigest struct {
	Name          string
	From          time.Time
	To            time.Time
	Income        decimal.Decimal
	Expense       decimal.Decimal
	Balance       decimal.Decimal
	TopCategories []report.Slice
}

// Empty semana sem lançamentos
func (d WeeklyDigest) Empty() bool {
	return d.Income.IsZero() && d.Expense.IsZero()
}

// PreviousWeek segunda a domingo da semana anterior a now
func PreviousWeek(now time.Time) (time.Time, time.Time) {
	thisWeek := calendar.StartOfWeek(now)
	return thisWeek.AddDate(0, 0, -7), thisWeek
}

// BuildWeeklyDigest agrega os lançamentos de user na semana anterior a now
func BuildWeeklyDigest(db *gorm.DB, user models.User, now time.Time) (WeeklyDigest, error) {
	start, end := PreviousWeek(now)

	var txs []models.Transaction
	if err := db.Where("user_email = ? AND occurred_at >= ? AND occurred_at < ?", user.Email, start, end).
		Order("occurred_at ASC").
		Find(&txs).Error; err != nil {
		return WeeklyDigest{}, fmt.Errorf("lançamentos da semana: %w", err)
	}

	var categories []models.ExpenseCategory
	if err := db.Where("user_email = ?", user.Email).Find(&categories).Error; err != nil {
		return WeeklyDigest{}, fmt.Errorf("categorias: %w", err)
	}

	summary := report.Monthly(start.Format(calendar.DateLayout), txs, nil, categories)
	top := summary.ExpensesByCategory
	if len(top) > digestTopCategories {
		top = top[:digestTopCategories]
	}
	return WeeklyDigest{
		Name:          user.Name,
		From:          start,
		To:            end.AddDate(0, 0, -1),
		Income:        summary.TotalIncome,
		Expense:       summary.TotalExpense,
		Balance:       summary.Balance,
		TopCategories: top,
	}, nil
}
