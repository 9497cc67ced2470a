package api

import (
	"errors"
	"strings"
	"time"

	"financeirox/config"
	"financeirox/database"
	"financeirox/logger"
	"financeirox/middleware"
	"financeirox/models"
	"financeirox/service"
	"financeirox/session"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 6

// AuthHandler cadastro, login e sessão
type AuthHandler struct {
	cfg          *config.Config
	emailService *service.EmailService
}

// NewAuthHandler cria o handler de autenticação
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		cfg:          cfg,
		emailService: service.NewEmailService(&cfg.Email),
	}
}

// SignupRequest corpo de POST /api/signup
type SignupRequest struct {
	Name            string  `json:"name" example:"João"`
	Email           string  `json:"email" example:"joao@example.com"`
	Password        string  `json:"password" example:"segredo123"`
	ConfirmPassword string  `json:"confirmPassword" example:"segredo123"`
	JobType         *string `json:"jobType" example:"Uber"`
}

// LoginRequest corpo de POST /api/login
type LoginRequest struct {
	Email    string `json:"email" example:"joao@example.com"`
	Password string `json:"password" example:"segredo123"`
}

// LoginResponse token Bearer e dados públicos do usuário
type LoginResponse struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

// Signup cria uma conta
// @Summary Cadastro
// @Description Cria o usuário, as fontes e categorias padrão e envia o e-mail de boas-vindas
// @Tags Autenticação
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Dados do cadastro"
// @Success 201 {object} Response{data=models.PublicUser}
// @Failure 400 {object} Response
// @Failure 409 {object} Response
// @Router /api/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Requisição inválida.")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	email := models.NormalizeEmail(req.Email)
	if req.Name == "" || email == "" || req.Password == "" || req.ConfirmPassword == "" {
		BadRequest(c, "Preencha todos os campos obrigatórios.")
		return
	}
	if req.Password != req.ConfirmPassword {
		BadRequest(c, "As senhas não conferem.")
		return
	}
	if len(req.Password) < minPasswordLength {
		BadRequest(c, "A senha deve ter pelo menos 6 caracteres.")
		return
	}

	var existing models.User
	err := database.DB.Select("id").Where("email = ?", email).First(&existing).Error
	if err == nil {
		Conflict(c, "Já existe uma conta com esse e-mail.")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		internalError(c, err, "Erro ao criar conta.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		internalError(c, err, "Erro ao criar conta.")
		return
	}

	user := models.User{
		Name:     req.Name,
		Email:    email,
		Password: string(hashed),
		JobType:  models.TrimmedOrNil(req.JobType),
	}
	if err := database.DB.Create(&user).Error; err != nil {
		if database.IsDuplicateKey(err) {
			Conflict(c, "Já existe uma conta com esse e-mail.")
			return
		}
		internalError(c, err, "Erro ao criar conta.")
		return
	}

	if err := database.SeedUserDefaults(database.DB, email); err != nil {
		logger.Log.WithError(err).WithField("email", email).Warn("falha ao criar fontes padrão")
	}

	if h.emailService.Enabled() {
		go func(to, name string) {
			if err := h.emailService.SendWelcomeEmail(to, name); err != nil {
				logger.Log.WithError(err).WithField("email", to).Warn("falha ao enviar e-mail de boas-vindas")
			}
		}(user.Email, user.Name)
	}

	Created(c, "Conta criada com sucesso.", user.Public())
}

// Login autentica por e-mail e senha
// @Summary Login
// @Description Define os cookies fx_session/fx_session_last e devolve um token Bearer
// @Tags Autenticação
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credenciais"
// @Success 200 {object} Response{data=LoginResponse}
// @Failure 400 {object} Response
// @Failure 401 {object} Response
// @Failure 429 {object} Response
// @Router /api/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		BadRequest(c, "Requisição inválida.")
		return
	}

	email := models.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		BadRequest(c, "E-mail e senha são obrigatórios.")
		return
	}

	var user models.User
	if err := database.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			internalError(c, err, "Erro ao fazer login.")
			return
		}
		Unauthorized(c, "E-mail ou senha inválidos.")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		Unauthorized(c, "E-mail ou senha inválidos.")
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Email, h.cfg.JWT.ExpireTime)
	if err != nil {
		internalError(c, err, "Erro ao fazer login.")
		return
	}

	session.Start(c, user.ID, time.Now())
	SuccessWithMessage(c, "Login realizado com sucesso.", LoginResponse{
		Token: token,
		User:  user.Public(),
	})
}

// Logout remove os cookies de sessão
// @Summary Logout
// @Tags Autenticação
// @Produce json
// @Success 200 {object} Response
// @Router /api/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	session.Clear(c)
	SuccessWithMessage(c, "Logout realizado com sucesso.", nil)
}

// Me usuário autenticado
// @Summary Usuário atual
// @Tags Autenticação
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.PublicUser}
// @Failure 401 {object} Response
// @Failure 404 {object} Response
// @Router /api/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	var user models.User
	if err := database.DB.Where("email = ?", currentEmail(c)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "Usuário não encontrado.")
			return
		}
		internalError(c, err, "Erro ao buscar usuário.")
		return
	}
	Success(c, user.Public())
}
