package middleware

import (
	"time"

	"financeirox/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RequestIDHeader cabeçalho propagado em requisição e resposta
const RequestIDHeader = "X-Request-ID"

// RequestLogger gera/propaga o X-Request-ID e registra cada requisição no logrus
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("requestID", id)
		c.Header(RequestIDHeader, id)

		start := time.Now()
		c.Next()

		entry := logger.Log.WithFields(logrus.Fields{
			"request_id": id,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
		})
		if email := GetCurrentUserEmail(c); email != "" {
			entry = entry.WithField("user", email)
		}
		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Error("requisição com erro")
		case status >= 400:
			entry.Warn("requisição rejeitada")
		default:
			entry.Info("requisição atendida")
		}
	}
}

// GetRequestID id da requisição atual
func GetRequestID(c *gin.Context) string {
	return c.GetString("requestID")
}
