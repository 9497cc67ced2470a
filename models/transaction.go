package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType polaridade do lançamento
type TransactionType string

const (
	TypeIncome  TransactionType = "INCOME"
	TypeExpense TransactionType = "EXPENSE"
)

// ParseTransactionType aceita maiúsculas/minúsculas; ok=false se inválido
func ParseTransactionType(s string) (TransactionType, bool) {
	switch TransactionType(strings.ToUpper(strings.TrimSpace(s))) {
	case TypeIncome:
		return TypeIncome, true
	case TypeExpense:
		return TypeExpense, true
	}
	return "", false
}

// Formas de pagamento de despesas
const (
	PayMethodCash       = "CASH"
	PayMethodCreditCard = "CREDIT_CARD"
	PayMethodApp        = "APP"
)

// Transaction lançamento de receita ou despesa
//
// O tipo decide qual grupo de campos é preenchido: IncomeSource/ReceiptMethod/ReceiptDetail
// para INCOME, ExpenseCategory/PayMethod/PayApp para EXPENSE. O grupo oposto fica NULL.
type Transaction struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	UserEmail  string          `json:"userEmail" gorm:"size:191;not null;index:idx_tx_user_occurred,priority:1"`
	Type       TransactionType `json:"type" gorm:"size:10;not null;index"`
	Amount     decimal.Decimal `json:"amount" gorm:"type:decimal(14,2);not null"`
	OccurredAt time.Time       `json:"occurredAt" gorm:"not null;index:idx_tx_user_occurred,priority:2"`
	Notes      *string         `json:"notes" gorm:"size:500"`

	IncomeSource  *string `json:"incomeSource" gorm:"size:100"`
	ReceiptMethod *string `json:"receiptMethod" gorm:"size:50"`
	ReceiptDetail *string `json:"receiptDetail" gorm:"size:100"`

	ExpenseCategory *string `json:"expenseCategory" gorm:"size:100"`
	PayMethod       *string `json:"payMethod" gorm:"size:20"`
	PayApp          *string `json:"payApp" gorm:"size:50"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName nome da tabela
func (Transaction) TableName() string {
	return "transactions"
}

// NormalizeFields zera o grupo de campos que não pertence ao tipo atual
func (t *Transaction) NormalizeFields() {
	if t.Type == TypeIncome {
		t.ExpenseCategory = nil
		t.PayMethod = nil
		t.PayApp = nil
		return
	}
	t.IncomeSource = nil
	t.ReceiptMethod = nil
	t.ReceiptDetail = nil
}

// Label nome da fonte (receita) ou categoria (despesa); vazio vira "Outros"
func (t Transaction) Label() string {
	var v *string
	if t.Type == TypeIncome {
		v = t.IncomeSource
	} else {
		v = t.ExpenseCategory
	}
	if v == nil || strings.TrimSpace(*v) == "" {
		return DefaultLabel
	}
	return strings.TrimSpace(*v)
}

// DefaultLabel rótulo para lançamentos sem fonte/categoria
const DefaultLabel = "Outros"

// TrimmedOrNil devolve nil para strings vazias após trim
func TrimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
