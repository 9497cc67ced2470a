package api

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"financeirox/config"
	"financeirox/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func exportRouter() *gin.Engine {
	h := NewExportHandler()
	r := newTestRouter()
	r.GET("/api/export/csv", h.ExportCSV)
	r.GET("/api/export/xlsx", h.ExportXLSX)
	return r
}

func sampleTransactions() []models.Transaction {
	loc := config.Location()
	uber, posto, notes, cash := "Uber", "Posto", "gasolina; tanque cheio", models.PayMethodCash
	return []models.Transaction{
		{ID: 1, Type: models.TypeIncome, Amount: decimal.NewFromInt(12000), OccurredAt: time.Date(2026, 1, 5, 9, 0, 0, 0, loc), IncomeSource: &uber},
		{ID: 2, Type: models.TypeExpense, Amount: decimal.RequireFromString("3500.5"), OccurredAt: time.Date(2026, 1, 6, 9, 0, 0, 0, loc), ExpenseCategory: &posto, PayMethod: &cash, Notes: &notes},
	}
}

func TestBuildCSV(t *testing.T) {
	data, err := buildCSV(sampleTransactions())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("\xEF\xBB\xBF")))

	lines := strings.Split(strings.TrimSpace(string(data[3:])), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "type;occurredAt;amount;incomeSource;expenseCategory;payMethod;payApp;notes;id", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "INCOME;2026-01-05T09:00:00"), lines[1])
	assert.Contains(t, lines[1], ";12000.00;Uber;;;;;1")
	// campo com ";" vai entre aspas
	assert.Contains(t, lines[2], `;3500.50;;Posto;CASH;;"gasolina; tanque cheio";2`)
}

func TestBuildWorkbook(t *testing.T) {
	f, err := buildWorkbook(sampleTransactions())
	require.NoError(t, err)
	defer f.Close()

	sheet := "Lançamentos"
	v, _ := f.GetCellValue(sheet, "A1")
	assert.Equal(t, "Data", v)
	v, _ = f.GetCellValue(sheet, "B2")
	assert.Equal(t, "Receita", v)
	v, _ = f.GetCellValue(sheet, "D3")
	assert.Equal(t, "Posto", v)

	v, _ = f.GetCellValue(sheet, "A5")
	assert.Equal(t, "Receitas", v)
	v, _ = f.GetCellValue(sheet, "C5")
	assert.Equal(t, "¥12,000", v)
	v, _ = f.GetCellValue(sheet, "C7")
	assert.Equal(t, "¥8,500", v)
}

func TestExportDatesUseConfiguredZone(t *testing.T) {
	loc := config.Location()
	posto := "Posto"
	// 00:30 em Tóquio ainda é o dia anterior em UTC
	at := time.Date(2026, 1, 15, 0, 30, 0, 0, loc).UTC()
	txs := []models.Transaction{
		{ID: 3, Type: models.TypeExpense, Amount: decimal.NewFromInt(900), OccurredAt: at, ExpenseCategory: &posto},
	}

	f, err := buildWorkbook(txs)
	require.NoError(t, err)
	defer f.Close()
	v, _ := f.GetCellValue("Lançamentos", "A2")
	assert.Equal(t, "2026-01-15", v)

	data, err := buildCSV(txs)
	require.NoError(t, err)
	assert.Contains(t, string(data), "EXPENSE;2026-01-15T00:30:00")
}

func TestExportHandler_CSV(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	loc := config.Location()

	mock.ExpectQuery("SELECT .* FROM `transactions`").
		WillReturnRows(sqlmock.NewRows(txColumns).
			AddRow(1, testEmail, "EXPENSE", "500.00", time.Date(2026, 1, 3, 9, 0, 0, 0, loc), nil, "Posto", "CASH"))

	w := doRequest(exportRouter(), http.MethodGet, "/api/export/csv?from=2026-01-01&to=2026-01-31&type=EXPENSE", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "financeirox_2026-01-01_2026-01-31.csv")
	assert.Contains(t, w.Body.String(), "EXPENSE;")
	assert.NoError(t, mock.ExpectationsWereMet())

	w = doRequest(exportRouter(), http.MethodGet, "/api/export/csv?to=32/01/2026", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Data final inválida.", decode(t, w)["message"])
}

func TestExportHandler_XLSX(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `transactions`").WillReturnRows(sqlmock.NewRows(txColumns))

	w := doRequest(exportRouter(), http.MethodGet, "/api/export/xlsx", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "financeirox_inicio_hoje.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	v, _ := f.GetCellValue("Lançamentos", "A5")
	assert.Equal(t, "Saldo", v)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// brokenWriter falha em toda escrita do corpo e guarda o que foi tentado
type brokenWriter struct {
	header   http.Header
	code     int
	attempts [][]byte
}

func (w *brokenWriter) Header() http.Header { return w.header }

func (w *brokenWriter) WriteHeader(code int) { w.code = code }

func (w *brokenWriter) Write(b []byte) (int, error) {
	w.attempts = append(w.attempts, append([]byte(nil), b...))
	return 0, errors.New("conexão encerrada")
}

func TestExportHandler_XLSXWriteFailureDoesNotAppendJSON(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	mock.ExpectQuery("SELECT .* FROM `transactions`").WillReturnRows(sqlmock.NewRows(txColumns))

	gin.SetMode(gin.TestMode)
	bw := &brokenWriter{header: http.Header{}}
	c, _ := gin.CreateTestContext(bw)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/export/xlsx", nil)
	c.Set("userEmail", testEmail)

	NewExportHandler().ExportXLSX(c)

	require.NotEmpty(t, bw.attempts)
	for _, b := range bw.attempts {
		assert.False(t, bytes.HasPrefix(b, []byte(`{"code"`)), "envelope JSON após início do stream")
	}
	assert.Equal(t, xlsxContentType, bw.header.Get("Content-Type"))
}
