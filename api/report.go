package api

import (
	"strconv"
	"strings"
	"time"

	"financeirox/calendar"
	"financeirox/config"
	"financeirox/database"
	"financeirox/models"
	"financeirox/report"
	"financeirox/tax"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ReportHandler relatórios: imposto, gráficos, resumo mensal e repasses
type ReportHandler struct {
	now func() time.Time
}

// NewReportHandler cria o handler de relatórios
func NewReportHandler() *ReportHandler {
	return &ReportHandler{now: time.Now}
}

func (h *ReportHandler) today() time.Time {
	return h.now().In(config.Location())
}

// TaxResponse estimativa de imposto do ano
type TaxResponse struct {
	Year int       `json:"year"`
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
	tax.Summary
}

// BucketsResponse dados do gráfico de 4 períodos
type BucketsResponse struct {
	Mode      calendar.Granularity   `json:"mode"`
	Type      models.TransactionType `json:"type"`
	Ref       string                 `json:"ref"`
	Label     string                 `json:"label"`
	Buckets   []report.BucketTotal   `json:"buckets"`
	Total     decimal.Decimal        `json:"total"`
	PrevRef   string                 `json:"prevRef"`
	NextRef   string                 `json:"nextRef"`
	CanGoNext bool                   `json:"canGoNext"`
}

type typeTotal struct {
	Type  models.TransactionType
	Total decimal.Decimal
}

// Tax estimativa do imposto de renda progressivo
// @Summary Estimativa de imposto
// @Description Receitas e despesas de 1º de janeiro até hoje (ou até 31/12 em anos anteriores)
// @Tags Relatórios
// @Produce json
// @Security BearerAuth
// @Param year query int false "Ano (padrão: ano atual)"
// @Success 200 {object} Response{data=TaxResponse}
// @Failure 400 {object} Response
// @Router /api/reports/tax [get]
func (h *ReportHandler) Tax(c *gin.Context) {
	now := h.today()
	year := now.Year()
	if raw := strings.TrimSpace(c.Query("year")); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 1970 || y > now.Year() {
			BadRequest(c, "Ano inválido.")
			return
		}
		year = y
	}
	from, to := calendar.YearToDate(year, now)

	var rows []typeTotal
	err := database.DB.Model(&models.Transaction{}).
		Select("type, COALESCE(SUM(amount), 0) AS total").
		Where("user_email = ? AND occurred_at >= ? AND occurred_at < ? AND amount > 0", currentEmail(c), from, to).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		internalError(c, err, "Erro ao calcular imposto.")
		return
	}

	income, expense := decimal.Zero, decimal.Zero
	for _, r := range rows {
		switch r.Type {
		case models.TypeIncome:
			income = income.Add(r.Total)
		case models.TypeExpense:
			expense = expense.Add(r.Total)
		}
	}

	Success(c, TaxResponse{Year: year, From: from, To: to, Summary: tax.Estimate(income, expense)})
}

// Buckets totais dos 4 períodos que terminam em ref
// @Summary Gráfico por período
// @Tags Relatórios
// @Produce json
// @Security BearerAuth
// @Param mode query string false "day, week, month ou year (padrão day)"
// @Param ref query string false "Data de referência (padrão hoje)"
// @Param type query string false "INCOME ou EXPENSE (padrão EXPENSE)"
// @Success 200 {object} Response{data=BucketsResponse}
// @Failure 400 {object} Response
// @Router /api/reports/buckets [get]
func (h *ReportHandler) Buckets(c *gin.Context) {
	mode, err := calendar.ParseGranularity(c.Query("mode"))
	if err != nil {
		BadRequest(c, "Modo inválido.")
		return
	}
	typ := models.TypeExpense
	if raw := strings.TrimSpace(c.Query("type")); raw != "" {
		t, ok := models.ParseTransactionType(raw)
		if !ok {
			BadRequest(c, "Tipo inválido.")
			return
		}
		typ = t
	}
	now := h.today()
	ref := now
	if raw := strings.TrimSpace(c.Query("ref")); raw != "" {
		r, err := calendar.ParseFlexibleDate(raw, config.Location())
		if err != nil {
			BadRequest(c, "Data inválida.")
			return
		}
		ref = r
	}
	// referências futuras são trazidas para o período atual
	if calendar.PeriodStart(mode, ref).After(calendar.PeriodStart(mode, now)) {
		ref = now
	}

	buckets := calendar.BucketsFor(mode, ref)
	from, to := calendar.Window(buckets)
	txs, err := queryTransactions(currentEmail(c), txFilter{Type: typ, From: from, To: to})
	if err != nil {
		internalError(c, err, "Erro ao buscar lançamentos.")
		return
	}
	totals := report.SumBuckets(buckets, txs, typ)
	next := calendar.NextClamped(mode, ref, now)

	Success(c, BucketsResponse{
		Mode:      mode,
		Type:      typ,
		Ref:       ref.Format(calendar.DateLayout),
		Label:     calendar.PeriodLabel(mode, ref),
		Buckets:   totals,
		Total:     report.Sum(totals),
		PrevRef:   calendar.Prev(mode, ref).Format(calendar.DateLayout),
		NextRef:   next.Format(calendar.DateLayout),
		CanGoNext: !next.Equal(ref),
	})
}

// monthParam lê month=aaaa-mm (padrão mês atual)
func (h *ReportHandler) monthParam(c *gin.Context) (time.Time, time.Time, string, bool) {
	month := calendar.StartOfMonth(h.today())
	if raw := strings.TrimSpace(c.Query("month")); raw != "" {
		m, err := calendar.ParseMonth(raw, config.Location())
		if err != nil {
			BadRequest(c, "Mês inválido.")
			return time.Time{}, time.Time{}, "", false
		}
		month = m
	}
	from, to := calendar.MonthRange(month)
	return from, to, month.Format(calendar.MonthLayout), true
}

// Monthly resumo do mês com distribuição por categoria e fonte
// @Summary Resumo mensal
// @Tags Relatórios
// @Produce json
// @Security BearerAuth
// @Param month query string false "aaaa-mm (padrão mês atual)"
// @Success 200 {object} Response{data=report.MonthlySummary}
// @Failure 400 {object} Response
// @Router /api/reports/monthly [get]
func (h *ReportHandler) Monthly(c *gin.Context) {
	from, to, month, ok := h.monthParam(c)
	if !ok {
		return
	}
	email := currentEmail(c)
	txs, err := queryTransactions(email, txFilter{From: from, To: to})
	if err != nil {
		internalError(c, err, "Erro ao buscar lançamentos.")
		return
	}
	var sources []models.IncomeSource
	if err := database.DB.Where("user_email = ?", email).Find(&sources).Error; err != nil {
		internalError(c, err, "Erro ao buscar fontes.")
		return
	}
	var categories []models.ExpenseCategory
	if err := database.DB.Where("user_email = ?", email).Find(&categories).Error; err != nil {
		internalError(c, err, "Erro ao buscar categorias.")
		return
	}

	Success(c, report.Monthly(month, txs, sources, categories))
}

// Payouts valores já repassados e a receber por fonte no mês
// @Summary Repasses por fonte
// @Tags Relatórios
// @Produce json
// @Security BearerAuth
// @Param month query string false "aaaa-mm (padrão mês atual)"
// @Success 200 {object} Response{data=report.PayoutSummary}
// @Failure 400 {object} Response
// @Router /api/reports/payouts [get]
func (h *ReportHandler) Payouts(c *gin.Context) {
	from, to, _, ok := h.monthParam(c)
	if !ok {
		return
	}
	email := currentEmail(c)
	txs, err := queryTransactions(email, txFilter{Type: models.TypeIncome, From: from, To: to})
	if err != nil {
		internalError(c, err, "Erro ao buscar lançamentos.")
		return
	}
	var sources []models.IncomeSource
	if err := database.DB.Where("user_email = ?", email).Find(&sources).Error; err != nil {
		internalError(c, err, "Erro ao buscar fontes.")
		return
	}

	Success(c, report.Payouts(txs, sources, h.today()))
}
