package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"financeirox/config"
	"financeirox/database"
	"financeirox/logger"
	"financeirox/models"
	"financeirox/session"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID    = "userID"
	ctxUserEmail = "userEmail"

	MsgUnauthenticated = "Não autenticado."
	MsgSessionExpired  = "Sessão expirada. Faça login novamente."
)

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":    http.StatusUnauthorized,
		"message": message,
	})
}

// Auth identifica o usuário pela ordem: Authorization Bearer, cookie
// fx_session (com expiração por inatividade) e, por fim, o e-mail fixo
// do modo single-user. Sem nenhum deles responde 401.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); header != "" {
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
				abortUnauthorized(c, "Formato do token inválido.")
				return
			}
			claims, err := ParseToken(strings.TrimSpace(parts[1]))
			if err != nil {
				abortUnauthorized(c, "Token inválido ou expirado.")
				return
			}
			setIdentity(c, claims.UserID, claims.Email)
			c.Next()
			return
		}

		if session.Present(c) {
			now := time.Now()
			userID, err := session.UserID(c, now)
			if err != nil {
				session.Clear(c)
				if errors.Is(err, session.ErrExpired) {
					abortUnauthorized(c, MsgSessionExpired)
					return
				}
				abortUnauthorized(c, MsgUnauthenticated)
				return
			}
			var user models.User
			if err := database.DB.Select("id", "email").First(&user, userID).Error; err != nil {
				session.Clear(c)
				abortUnauthorized(c, MsgUnauthenticated)
				return
			}
			session.Touch(c, now)
			setIdentity(c, user.ID, user.Email)
			c.Next()
			return
		}

		if email := singleUserEmail(); email != "" {
			var user models.User
			if database.DB != nil {
				if err := database.DB.Select("id", "email").Where("email = ?", email).First(&user).Error; err != nil {
					logger.Log.WithField("email", email).Debug("usuário single-user ainda não cadastrado")
				}
			}
			setIdentity(c, user.ID, email)
			c.Next()
			return
		}

		abortUnauthorized(c, MsgUnauthenticated)
	}
}

func singleUserEmail() string {
	if cfg := config.GetConfig(); cfg != nil {
		return cfg.Auth.SingleUserEmail
	}
	return ""
}

func setIdentity(c *gin.Context, userID uint, email string) {
	c.Set(ctxUserID, userID)
	c.Set(ctxUserEmail, models.NormalizeEmail(email))
}

// GetCurrentUserID id do usuário autenticado (0 se ausente)
func GetCurrentUserID(c *gin.Context) uint {
	if v, ok := c.Get(ctxUserID); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// GetCurrentUserEmail e-mail do usuário autenticado, chave de todos os dados
func GetCurrentUserEmail(c *gin.Context) string {
	return c.GetString(ctxUserEmail)
}
