// Package session cuida dos cookies de sessão do navegador: fx_session
// guarda o id do usuário assinado com HMAC-SHA256 e fx_session_last o
// horário da última atividade (unix ms), usado para a expiração por inatividade.
package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"financeirox/config"

	"github.com/gin-gonic/gin"
)

const (
	CookieName     = "fx_session"
	LastCookieName = "fx_session_last"

	defaultSecret      = "financeirox-session-secret"
	defaultMaxAge      = 7 * 24 * time.Hour
	defaultIdleTimeout = 30 * time.Minute
)

var (
	ErrEmpty            = errors.New("session: empty cookie")
	ErrInvalidFormat    = errors.New("session: invalid cookie format")
	ErrInvalidSignature = errors.New("session: invalid signature")
	ErrExpired          = errors.New("session: idle timeout exceeded")
)

func secret() []byte {
	cfg := config.GetConfig()
	if cfg != nil {
		if cfg.Session.Secret != "" {
			return []byte(cfg.Session.Secret)
		}
		if cfg.JWT.Secret != "" {
			return []byte(cfg.JWT.Secret)
		}
	}
	return []byte(defaultSecret)
}

// MaxAge validade dos cookies no navegador
func MaxAge() time.Duration {
	if cfg := config.GetConfig(); cfg != nil && cfg.Session.MaxAge > 0 {
		return cfg.Session.MaxAge
	}
	return defaultMaxAge
}

// IdleTimeout inatividade máxima antes de exigir novo login
func IdleTimeout() time.Duration {
	if cfg := config.GetConfig(); cfg != nil && cfg.Session.IdleTimeout > 0 {
		return cfg.Session.IdleTimeout
	}
	return defaultIdleTimeout
}

func sign(value string) string {
	mac := hmac.New(sha256.New, secret())
	mac.Write([]byte(value))
	return hex.EncodeToString(mac.Sum(nil))
}

// SignValue devolve "value.assinatura"
func SignValue(value string) string {
	return value + "." + sign(value)
}

// VerifyValue confere a assinatura e devolve o valor original
func VerifyValue(signed string) (string, error) {
	if signed == "" {
		return "", ErrEmpty
	}
	idx := strings.LastIndex(signed, ".")
	if idx <= 0 || idx == len(signed)-1 {
		return "", ErrInvalidFormat
	}
	value, sig := signed[:idx], signed[idx+1:]
	if !hmac.Equal([]byte(sig), []byte(sign(value))) {
		return "", ErrInvalidSignature
	}
	return value, nil
}

// CookieOptions Secure só em release; SameSite=Lax sempre
func CookieOptions() (secure bool, sameSite http.SameSite) {
	return config.IsRelease(), http.SameSiteLaxMode
}

func setCookie(c *gin.Context, name, value string, maxAge int) {
	secure, sameSite := CookieOptions()
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   secure,
		HttpOnly: true,
		SameSite: sameSite,
	})
}

// Start grava os dois cookies após o login
func Start(c *gin.Context, userID uint, now time.Time) {
	maxAge := int(MaxAge().Seconds())
	setCookie(c, CookieName, SignValue(strconv.FormatUint(uint64(userID), 10)), maxAge)
	setCookie(c, LastCookieName, strconv.FormatInt(now.UnixMilli(), 10), maxAge)
}

// Touch renova o horário da última atividade
func Touch(c *gin.Context, now time.Time) {
	setCookie(c, LastCookieName, strconv.FormatInt(now.UnixMilli(), 10), int(MaxAge().Seconds()))
}

// Clear apaga os dois cookies
func Clear(c *gin.Context) {
	setCookie(c, CookieName, "", -1)
	setCookie(c, LastCookieName, "", -1)
}

// Present indica se o navegador enviou um cookie de sessão
func Present(c *gin.Context) bool {
	v, err := c.Cookie(CookieName)
	return err == nil && v != ""
}

// UserID valida assinatura e inatividade e devolve o id do usuário.
// Sem fx_session_last válido a sessão é tratada como expirada.
func UserID(c *gin.Context, now time.Time) (uint, error) {
	raw, err := c.Cookie(CookieName)
	if err != nil {
		return 0, ErrEmpty
	}
	value, err := VerifyValue(raw)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidFormat
	}

	lastRaw, err := c.Cookie(LastCookieName)
	if err != nil {
		return 0, ErrExpired
	}
	lastMs, err := strconv.ParseInt(lastRaw, 10, 64)
	if err != nil {
		return 0, ErrExpired
	}
	if now.Sub(time.UnixMilli(lastMs)) > IdleTimeout() {
		return 0, ErrExpired
	}
	return uint(id), nil
}
