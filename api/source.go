package api

import (
	"errors"
	"strings"

	"financeirox/database"
	"financeirox/events"
	"financeirox/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const kindBoth = "BOTH"

// SourceHandler fontes de receita e categorias de despesa
type SourceHandler struct{}

// NewSourceHandler cria o handler de fontes
func NewSourceHandler() *SourceHandler {
	return &SourceHandler{}
}

// SourcesResponse listagem; kind BOTH traz as duas listas
type SourcesResponse struct {
	Kind              string                    `json:"kind"`
	IncomeSources     *[]models.IncomeSource    `json:"incomeSources,omitempty"`
	ExpenseCategories *[]models.ExpenseCategory `json:"expenseCategories,omitempty"`
}

// SourceRequest corpo de criação e edição; campos ausentes não são alterados na edição
type SourceRequest struct {
	ID             *uint   `json:"id"`
	Kind           string  `json:"kind" example:"INCOME"`
	Name           *string `json:"name" example:"Uber"`
	Color          *string `json:"color" example:"#0f172a"`
	PaymentWeekday *int    `json:"paymentWeekday" example:"5"`
	WorkWeekStart  *int    `json:"workWeekStart" example:"1"`
	WorkWeekEnd    *int    `json:"workWeekEnd" example:"0"`
	IconURL        *string `json:"iconUrl"`
}

// SourceResult item criado ou editado
type SourceResult struct {
	Kind   models.SourceKind `json:"kind"`
	Source interface{}       `json:"source"`
}

// DeleteSourceResult resposta da exclusão
type DeleteSourceResult struct {
	OK   bool              `json:"ok"`
	Kind models.SourceKind `json:"kind"`
}

func (r SourceRequest) validate() string {
	for _, d := range []*int{r.PaymentWeekday, r.WorkWeekStart, r.WorkWeekEnd} {
		if !models.ValidWeekday(d) {
			return "Dia da semana inválido."
		}
	}
	return ""
}

// List lista fontes e/ou categorias do usuário em ordem alfabética
// @Summary Listar fontes e categorias
// @Tags Fontes
// @Produce json
// @Security BearerAuth
// @Param kind query string false "INCOME, EXPENSE ou vazio para ambos"
// @Success 200 {object} Response{data=SourcesResponse}
// @Failure 400 {object} Response
// @Router /api/sources [get]
func (h *SourceHandler) List(c *gin.Context) {
	email := currentEmail(c)
	raw := strings.TrimSpace(c.Query("kind"))

	resp := SourcesResponse{Kind: kindBoth}
	wantIncome, wantExpense := true, true
	if raw != "" && !strings.EqualFold(raw, kindBoth) {
		kind, ok := models.ParseSourceKind(raw)
		if !ok {
			BadRequest(c, "Tipo inválido.")
			return
		}
		resp.Kind = string(kind)
		wantIncome = kind == models.KindIncome
		wantExpense = kind == models.KindExpense
	}

	if wantIncome {
		sources := make([]models.IncomeSource, 0)
		if err := database.DB.Where("user_email = ?", email).Order("name ASC").Find(&sources).Error; err != nil {
			internalError(c, err, "Erro ao buscar fontes.")
			return
		}
		resp.IncomeSources = &sources
	}
	if wantExpense {
		categories := make([]models.ExpenseCategory, 0)
		if err := database.DB.Where("user_email = ?", email).Order("name ASC").Find(&categories).Error; err != nil {
			internalError(c, err, "Erro ao buscar categorias.")
			return
		}
		resp.ExpenseCategories = &categories
	}

	Success(c, resp)
}

// Create cria uma fonte de receita ou categoria de despesa
// @Summary Criar fonte ou categoria
// @Tags Fontes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SourceRequest true "Fonte"
// @Success 201 {object} Response{data=SourceResult}
// @Failure 400 {object} Response
// @Router /api/sources [post]
func (h *SourceHandler) Create(c *gin.Context) {
	var req SourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Requisição inválida.")
		return
	}
	kind, ok := models.ParseSourceKind(req.Kind)
	if !ok {
		BadRequest(c, "Tipo inválido.")
		return
	}
	name := models.TrimmedOrNil(req.Name)
	if name == nil {
		BadRequest(c, "Informe o nome.")
		return
	}
	if msg := req.validate(); msg != "" {
		BadRequest(c, msg)
		return
	}

	email := currentEmail(c)
	color := models.DefaultColor
	if v := models.TrimmedOrNil(req.Color); v != nil {
		color = *v
	}

	var created interface{}
	var err error
	if kind == models.KindIncome {
		src := models.IncomeSource{
			UserEmail:      email,
			Name:           *name,
			Color:          color,
			PaymentWeekday: req.PaymentWeekday,
			WorkWeekStart:  req.WorkWeekStart,
			WorkWeekEnd:    req.WorkWeekEnd,
			IconURL:        models.TrimmedOrNil(req.IconURL),
		}
		err = database.DB.Create(&src).Error
		created = src
	} else {
		cat := models.ExpenseCategory{
			UserEmail: email,
			Name:      *name,
			Color:     color,
			IconURL:   models.TrimmedOrNil(req.IconURL),
		}
		err = database.DB.Create(&cat).Error
		created = cat
	}
	if err != nil {
		if database.IsDuplicateKey(err) {
			BadRequest(c, "Já existe um item com esse nome.")
			return
		}
		internalError(c, err, "Erro ao salvar.")
		return
	}

	notify(c, events.SourcesChanged)
	Created(c, "Salvo com sucesso.", SourceResult{Kind: kind, Source: created})
}

// Update edita parcialmente uma fonte ou categoria
// @Summary Editar fonte ou categoria
// @Tags Fontes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Param kind query string false "INCOME ou EXPENSE (ou no corpo)"
// @Param request body SourceRequest true "Campos a alterar"
// @Success 200 {object} Response{data=SourceResult}
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Router /api/sources/{id} [put]
func (h *SourceHandler) Update(c *gin.Context) {
	id, err := resourceID(c)
	if err != nil {
		BadRequest(c, idErrorMessage(err))
		return
	}
	var req SourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Requisição inválida.")
		return
	}
	rawKind := c.Query("kind")
	if rawKind == "" {
		rawKind = req.Kind
	}
	kind, ok := models.ParseSourceKind(rawKind)
	if !ok {
		BadRequest(c, "Tipo inválido.")
		return
	}
	if req.Name != nil && models.TrimmedOrNil(req.Name) == nil {
		BadRequest(c, "Informe o nome.")
		return
	}
	if msg := req.validate(); msg != "" {
		BadRequest(c, msg)
		return
	}

	email := currentEmail(c)
	var updated interface{}
	if kind == models.KindIncome {
		var src models.IncomeSource
		if err := database.DB.Where("id = ? AND user_email = ?", id, email).First(&src).Error; err != nil {
			sourceLookupError(c, err)
			return
		}
		applySourceFields(req, &src.Name, &src.Color, &src.IconURL)
		if req.PaymentWeekday != nil {
			src.PaymentWeekday = req.PaymentWeekday
		}
		if req.WorkWeekStart != nil {
			src.WorkWeekStart = req.WorkWeekStart
		}
		if req.WorkWeekEnd != nil {
			src.WorkWeekEnd = req.WorkWeekEnd
		}
		err = database.DB.Save(&src).Error
		updated = src
	} else {
		var cat models.ExpenseCategory
		if err := database.DB.Where("id = ? AND user_email = ?", id, email).First(&cat).Error; err != nil {
			sourceLookupError(c, err)
			return
		}
		applySourceFields(req, &cat.Name, &cat.Color, &cat.IconURL)
		err = database.DB.Save(&cat).Error
		updated = cat
	}
	if err != nil {
		if database.IsDuplicateKey(err) {
			BadRequest(c, "Já existe um item com esse nome.")
			return
		}
		internalError(c, err, "Erro ao salvar.")
		return
	}

	notify(c, events.SourcesChanged)
	SuccessWithMessage(c, "Salvo com sucesso.", SourceResult{Kind: kind, Source: updated})
}

func applySourceFields(req SourceRequest, name, color *string, icon **string) {
	if v := models.TrimmedOrNil(req.Name); v != nil {
		*name = *v
	}
	if v := models.TrimmedOrNil(req.Color); v != nil {
		*color = *v
	}
	if req.IconURL != nil {
		*icon = models.TrimmedOrNil(req.IconURL)
	}
}

func sourceLookupError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		NotFound(c, "Item não encontrado.")
		return
	}
	internalError(c, err, "Erro ao buscar item.")
}

// Delete exclui uma fonte ou categoria; id e kind vêm da query, da rota ou do corpo
// @Summary Excluir fonte ou categoria
// @Tags Fontes
// @Produce json
// @Security BearerAuth
// @Param id query int false "ID"
// @Param kind query string false "INCOME ou EXPENSE"
// @Success 200 {object} Response{data=DeleteSourceResult}
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Router /api/sources [delete]
func (h *SourceHandler) Delete(c *gin.Context) {
	var body SourceRequest
	if err := bindOptionalJSON(c, &body); err != nil {
		BadRequest(c, "Requisição inválida.")
		return
	}

	var id uint
	var err error
	if c.Param("id") != "" || c.Query("id") != "" {
		id, err = resourceID(c)
	} else if body.ID != nil {
		id, err = *body.ID, nil
		if id == 0 {
			err = errInvalidID
		}
	} else {
		err = errMissingID
	}
	if err != nil {
		BadRequest(c, idErrorMessage(err))
		return
	}

	rawKind := c.Query("kind")
	if rawKind == "" {
		rawKind = body.Kind
	}
	kind, ok := models.ParseSourceKind(rawKind)
	if !ok {
		BadRequest(c, "Tipo inválido.")
		return
	}

	email := currentEmail(c)
	var result *gorm.DB
	if kind == models.KindIncome {
		result = database.DB.Where("id = ? AND user_email = ?", id, email).Delete(&models.IncomeSource{})
	} else {
		result = database.DB.Where("id = ? AND user_email = ?", id, email).Delete(&models.ExpenseCategory{})
	}
	if result.Error != nil {
		internalError(c, result.Error, "Erro ao excluir.")
		return
	}
	if result.RowsAffected == 0 {
		NotFound(c, "Item não encontrado.")
		return
	}

	notify(c, events.SourcesChanged)
	SuccessWithMessage(c, "Excluído com sucesso.", DeleteSourceResult{OK: true, Kind: kind})
}
