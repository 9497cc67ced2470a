package api

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"financeirox/calendar"
	"financeirox/config"
	"financeirox/database"
	"financeirox/events"
	"financeirox/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionHandler lançamentos de receita e despesa
type TransactionHandler struct{}

// NewTransactionHandler cria o handler de lançamentos
func NewTransactionHandler() *TransactionHandler {
	return &TransactionHandler{}
}

// TransactionRequest corpo de criação e edição. Amount aceita número ou string.
type TransactionRequest struct {
	Type            *string         `json:"type" example:"EXPENSE"`
	Amount          json.RawMessage `json:"amount" swaggertype:"number" example:"3500"`
	OccurredAt      *string         `json:"occurredAt" example:"2026-01-15"`
	Notes           *string         `json:"notes"`
	IncomeSource    *string         `json:"incomeSource" example:"Uber"`
	ReceiptMethod   *string         `json:"receiptMethod"`
	ReceiptDetail   *string         `json:"receiptDetail"`
	ExpenseCategory *string         `json:"expenseCategory" example:"Posto"`
	PayMethod       *string         `json:"payMethod" example:"CASH"`
	PayApp          *string         `json:"payApp"`
}

// txFilter filtros comuns à listagem, relatórios e exportação
type txFilter struct {
	Type     models.TransactionType
	From     time.Time
	To       time.Time // exclusivo
	Source   string
	Category string
}

// queryTransactions lançamentos do usuário em ordem cronológica
func queryTransactions(email string, f txFilter) ([]models.Transaction, error) {
	q := database.DB.Where("user_email = ?", email)
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if !f.From.IsZero() {
		q = q.Where("occurred_at >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("occurred_at < ?", f.To)
	}
	if f.Source != "" {
		q = q.Where("income_source = ?", f.Source)
	}
	if f.Category != "" {
		q = q.Where("expense_category = ?", f.Category)
	}
	txs := make([]models.Transaction, 0)
	err := q.Order("occurred_at ASC").Order("id ASC").Find(&txs).Error
	return txs, err
}

// parseFilter lê type, from e to (dias inclusivos) da query
func parseFilter(c *gin.Context) (txFilter, string) {
	loc := config.Location()
	var f txFilter
	if raw := strings.TrimSpace(c.Query("type")); raw != "" {
		typ, ok := models.ParseTransactionType(raw)
		if !ok {
			return f, "Tipo inválido."
		}
		f.Type = typ
	}
	if raw := c.Query("from"); raw != "" {
		from, err := calendar.ParseFlexibleDate(raw, loc)
		if err != nil {
			return f, "Data inicial inválida."
		}
		f.From = calendar.StartOfDay(from)
	}
	if raw := c.Query("to"); raw != "" {
		to, err := calendar.ParseFlexibleDate(raw, loc)
		if err != nil {
			return f, "Data final inválida."
		}
		_, f.To = calendar.DayRange(to, to)
	}
	f.Source = strings.TrimSpace(c.Query("source"))
	f.Category = strings.TrimSpace(c.Query("category"))
	return f, ""
}

var errInvalidAmount = errors.New("valor inválido")

// parseAmount aceita 3500, "3500", "3,500.50"; precisa ser > 0
func parseAmount(raw json.RawMessage) (decimal.Decimal, error) {
	s := strings.TrimSpace(string(raw))
	s = strings.Trim(s, `"`)
	s = strings.NewReplacer(",", "", "¥", "", " ", "").Replace(s)
	if s == "" || s == "null" {
		return decimal.Zero, errInvalidAmount
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errInvalidAmount
	}
	// abaixo de 1 sen arredonda para zero
	v = v.Round(2)
	if !v.IsPositive() {
		return decimal.Zero, errInvalidAmount
	}
	return v, nil
}

func validPayMethod(s *string) bool {
	if s == nil {
		return true
	}
	switch strings.ToUpper(*s) {
	case models.PayMethodCash, models.PayMethodCreditCard, models.PayMethodApp:
		return true
	}
	return false
}

// apply copia para tx os campos presentes em req; devolve a mensagem de erro de validação
func (req TransactionRequest) apply(tx *models.Transaction) string {
	if req.Type != nil {
		typ, ok := models.ParseTransactionType(*req.Type)
		if !ok {
			return "Tipo inválido."
		}
		tx.Type = typ
	}
	if len(req.Amount) > 0 {
		amount, err := parseAmount(req.Amount)
		if err != nil {
			return "Valor inválido."
		}
		tx.Amount = amount
	}
	if req.OccurredAt != nil && strings.TrimSpace(*req.OccurredAt) != "" {
		when, err := calendar.ParseFlexibleDate(*req.OccurredAt, config.Location())
		if err != nil {
			return "Data inválida."
		}
		tx.OccurredAt = when
	}
	if req.Notes != nil {
		tx.Notes = models.TrimmedOrNil(req.Notes)
	}
	if req.IncomeSource != nil {
		tx.IncomeSource = models.TrimmedOrNil(req.IncomeSource)
	}
	if req.ReceiptMethod != nil {
		tx.ReceiptMethod = models.TrimmedOrNil(req.ReceiptMethod)
	}
	if req.ReceiptDetail != nil {
		tx.ReceiptDetail = models.TrimmedOrNil(req.ReceiptDetail)
	}
	if req.ExpenseCategory != nil {
		tx.ExpenseCategory = models.TrimmedOrNil(req.ExpenseCategory)
	}
	if req.PayMethod != nil {
		pm := models.TrimmedOrNil(req.PayMethod)
		if !validPayMethod(pm) {
			return "Forma de pagamento inválida."
		}
		if pm != nil {
			upper := strings.ToUpper(*pm)
			pm = &upper
		}
		tx.PayMethod = pm
	}
	if req.PayApp != nil {
		tx.PayApp = models.TrimmedOrNil(req.PayApp)
	}
	tx.NormalizeFields()
	return ""
}

// List lista os lançamentos do usuário
// @Summary Listar lançamentos
// @Tags Lançamentos
// @Produce json
// @Security BearerAuth
// @Param type query string false "INCOME ou EXPENSE"
// @Param from query string false "Data inicial (inclusiva)"
// @Param to query string false "Data final (inclusiva)"
// @Param source query string false "Fonte de receita"
// @Param category query string false "Categoria de despesa"
// @Success 200 {object} Response{data=[]models.Transaction}
// @Failure 400 {object} Response
// @Router /api/transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	f, msg := parseFilter(c)
	if msg != "" {
		BadRequest(c, msg)
		return
	}
	txs, err := queryTransactions(currentEmail(c), f)
	if err != nil {
		internalError(c, err, "Erro ao buscar lançamentos.")
		return
	}
	Success(c, txs)
}

// Create registra um lançamento
// @Summary Criar lançamento
// @Description type padrão EXPENSE; occurredAt padrão agora; aceita aaaa-mm-dd, dd/mm/aaaa, dd-mm-aaaa e RFC3339
// @Tags Lançamentos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TransactionRequest true "Lançamento"
// @Success 201 {object} Response{data=models.Transaction}
// @Failure 400 {object} Response
// @Router /api/transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Requisição inválida.")
		return
	}
	if len(req.Amount) == 0 {
		BadRequest(c, "Valor inválido.")
		return
	}

	tx := models.Transaction{
		UserEmail:  currentEmail(c),
		Type:       models.TypeExpense,
		OccurredAt: time.Now().In(config.Location()),
	}
	if msg := req.apply(&tx); msg != "" {
		BadRequest(c, msg)
		return
	}

	if err := database.DB.Create(&tx).Error; err != nil {
		internalError(c, err, "Erro ao salvar lançamento.")
		return
	}

	notify(c, events.TransactionsChanged)
	Created(c, "Lançamento salvo.", tx)
}

// Update edita parcialmente um lançamento; o grupo de campos segue o tipo resultante
// @Summary Editar lançamento
// @Tags Lançamentos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Param request body TransactionRequest true "Campos a alterar"
// @Success 200 {object} Response{data=models.Transaction}
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Router /api/transactions/{id} [put]
func (h *TransactionHandler) Update(c *gin.Context) {
	id, err := resourceID(c)
	if err != nil {
		BadRequest(c, idErrorMessage(err))
		return
	}
	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Requisição inválida.")
		return
	}

	var tx models.Transaction
	if err := database.DB.Where("id = ? AND user_email = ?", id, currentEmail(c)).First(&tx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "Lançamento não encontrado.")
			return
		}
		internalError(c, err, "Erro ao buscar lançamento.")
		return
	}
	if msg := req.apply(&tx); msg != "" {
		BadRequest(c, msg)
		return
	}

	if err := database.DB.Save(&tx).Error; err != nil {
		internalError(c, err, "Erro ao salvar lançamento.")
		return
	}

	notify(c, events.TransactionsChanged)
	SuccessWithMessage(c, "Lançamento atualizado.", tx)
}

// Delete exclui um lançamento
// @Summary Excluir lançamento
// @Tags Lançamentos
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Router /api/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	id, err := resourceID(c)
	if err != nil {
		BadRequest(c, idErrorMessage(err))
		return
	}

	result := database.DB.Where("id = ? AND user_email = ?", id, currentEmail(c)).Delete(&models.Transaction{})
	if result.Error != nil {
		internalError(c, result.Error, "Erro ao excluir lançamento.")
		return
	}
	if result.RowsAffected == 0 {
		NotFound(c, "Lançamento não encontrado.")
		return
	}

	notify(c, events.TransactionsChanged)
	SuccessWithMessage(c, "Lançamento excluído.", gin.H{"ok": true})
}
