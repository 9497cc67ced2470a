package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"financeirox/calendar"
	"financeirox/config"
	"financeirox/logger"
	"financeirox/models"
	"financeirox/report"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler exportação de lançamentos
type ExportHandler struct{}

// NewExportHandler cria o handler de exportação
func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

var csvHeaders = []string{"type", "occurredAt", "amount", "incomeSource", "expenseCategory", "payMethod", "payApp", "notes", "id"}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func exportFilename(f txFilter, ext string) string {
	from, to := "inicio", "hoje"
	if !f.From.IsZero() {
		from = f.From.Format(calendar.DateLayout)
	}
	if !f.To.IsZero() {
		to = f.To.AddDate(0, 0, -1).Format(calendar.DateLayout)
	}
	return fmt.Sprintf("financeirox_%s_%s.%s", from, to, ext)
}

// buildCSV separador ";" e BOM para o Excel abrir acentos corretamente
func buildCSV(txs []models.Transaction) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.WriteString("\xEF\xBB\xBF")

	writer := csv.NewWriter(buf)
	writer.Comma = ';'
	if err := writer.Write(csvHeaders); err != nil {
		return nil, err
	}
	loc := config.Location()
	for _, tx := range txs {
		row := []string{
			string(tx.Type),
			tx.OccurredAt.In(loc).Format(time.RFC3339),
			tx.Amount.StringFixed(2),
			deref(tx.IncomeSource),
			deref(tx.ExpenseCategory),
			deref(tx.PayMethod),
			deref(tx.PayApp),
			deref(tx.Notes),
			strconv.FormatUint(uint64(tx.ID), 10),
		}
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	return buf.Bytes(), writer.Error()
}

// ExportCSV lançamentos em CSV
// @Summary Exportar CSV
// @Tags Exportação
// @Produce text/csv
// @Security BearerAuth
// @Param from query string false "Data inicial (inclusiva)"
// @Param to query string false "Data final (inclusiva)"
// @Param type query string false "INCOME ou EXPENSE"
// @Success 200 {file} file "CSV"
// @Failure 400 {object} Response
// @Router /api/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
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
	data, err := buildCSV(txs)
	if err != nil {
		internalError(c, err, "Erro ao gerar CSV.")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", exportFilename(f, "csv")))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

var cellBorder = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
}

// buildWorkbook uma linha por lançamento e, ao final, receitas, despesas e saldo
func buildWorkbook(txs []models.Transaction) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Lançamentos"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, err
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    cellBorder,
	})
	dataStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "center"},
		Border:    cellBorder,
	})
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 11},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Border: cellBorder,
	})

	headers := []string{"Data", "Tipo", "Valor", "Fonte / Categoria", "Pagamento", "App", "Observações"}
	widths := []float64{14, 10, 14, 22, 14, 14, 36}
	for i, header := range headers {
		col := string(rune('A' + i))
		f.SetColWidth(sheet, col, col, widths[i])
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	loc := config.Location()
	for i, tx := range txs {
		row := i + 2
		tipo := "Despesa"
		if tx.Type == models.TypeIncome {
			tipo = "Receita"
		}
		amount, _ := tx.Amount.Float64()
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), tx.OccurredAt.In(loc).Format(calendar.DateLayout))
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), tipo)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), amount)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), tx.Label())
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), deref(tx.PayMethod))
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), deref(tx.PayApp))
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), deref(tx.Notes))
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("G%d", row), dataStyle)
	}

	income, expense := report.Totals(txs)
	summary := [][2]string{
		{"Receitas", report.FormatJPY(income)},
		{"Despesas", report.FormatJPY(expense)},
		{"Saldo", report.FormatJPY(income.Sub(expense))},
	}
	first := len(txs) + 3
	for i, line := range summary {
		row := first + i
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), line[0])
		f.MergeCell(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row))
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), line[1])
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("C%d", row), summaryStyle)
	}
	return f, nil
}

// ExportXLSX lançamentos em planilha Excel
// @Summary Exportar Excel
// @Tags Exportação
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param from query string false "Data inicial (inclusiva)"
// @Param to query string false "Data final (inclusiva)"
// @Success 200 {file} file "XLSX"
// @Failure 400 {object} Response
// @Router /api/export/xlsx [get]
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
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
	book, err := buildWorkbook(txs)
	if err != nil {
		internalError(c, err, "Erro ao gerar planilha.")
		return
	}
	defer book.Close()

	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(exportFilename(f, "xlsx"))))
	// a resposta já começou a ser enviada; só resta registrar
	if err := book.Write(c.Writer); err != nil {
		logger.Log.WithError(err).WithField("request_id", c.GetString("requestID")).Error("falha ao enviar planilha")
	}
}
