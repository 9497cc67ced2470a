package models

import (
	"strings"
	"time"
)

// SourceKind distingue fonte de receita de categoria de despesa em /api/sources
type SourceKind string

const (
	KindIncome  SourceKind = "INCOME"
	KindExpense SourceKind = "EXPENSE"
)

// ParseSourceKind ok=false quando o kind não é INCOME nem EXPENSE
func ParseSourceKind(s string) (SourceKind, bool) {
	switch SourceKind(strings.ToUpper(strings.TrimSpace(s))) {
	case KindIncome:
		return KindIncome, true
	case KindExpense:
		return KindExpense, true
	}
	return "", false
}

// DefaultColor cor usada quando o usuário não escolhe uma
const DefaultColor = "#64748b"

// IncomeSource fonte de receita (Uber, Amazon...) com o calendário de pagamento
type IncomeSource struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	UserEmail      string    `json:"userEmail" gorm:"size:191;not null;uniqueIndex:idx_income_source_user_name,priority:1"`
	Name           string    `json:"name" gorm:"size:100;not null;uniqueIndex:idx_income_source_user_name,priority:2"`
	Color          string    `json:"color" gorm:"size:20;default:#64748b"`
	PaymentWeekday *int      `json:"paymentWeekday"` // 0=domingo ... 6=sábado
	WorkWeekStart  *int      `json:"workWeekStart"`
	WorkWeekEnd    *int      `json:"workWeekEnd"`
	IconURL        *string   `json:"iconUrl" gorm:"size:255"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// TableName nome da tabela
func (IncomeSource) TableName() string {
	return "income_sources"
}

// ExpenseCategory categoria de despesa (Posto, Troca de óleo...)
type ExpenseCategory struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserEmail string    `json:"userEmail" gorm:"size:191;not null;uniqueIndex:idx_expense_category_user_name,priority:1"`
	Name      string    `json:"name" gorm:"size:100;not null;uniqueIndex:idx_expense_category_user_name,priority:2"`
	Color     string    `json:"color" gorm:"size:20;default:#64748b"`
	IconURL   *string   `json:"iconUrl" gorm:"size:255"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName nome da tabela
func (ExpenseCategory) TableName() string {
	return "expense_categories"
}

// ValidWeekday 0..6
func ValidWeekday(d *int) bool {
	return d == nil || (*d >= 0 && *d <= 6)
}

// DefaultIncomeSources fontes criadas no cadastro
func DefaultIncomeSources(email string) []IncomeSource {
	friday := 5
	wednesday := 3
	monday := 1
	return []IncomeSource{
		{UserEmail: email, Name: "Amazon", Color: "#f59e0b", PaymentWeekday: &wednesday, WorkWeekStart: &monday},
		{UserEmail: email, Name: "Uber", Color: "#0f172a", PaymentWeekday: &friday, WorkWeekStart: &monday},
		{UserEmail: email, Name: DefaultLabel, Color: DefaultColor},
	}
}

// DefaultExpenseCategories categorias criadas no cadastro
func DefaultExpenseCategories(email string) []ExpenseCategory {
	return []ExpenseCategory{
		{UserEmail: email, Name: "Posto", Color: "#ef4444"},
		{UserEmail: email, Name: "Troca de óleo", Color: "#a855f7"},
		{UserEmail: email, Name: "Alimentação", Color: "#10b981"},
		{UserEmail: email, Name: DefaultLabel, Color: DefaultColor},
	}
}
