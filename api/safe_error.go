package api

import (
	"financeirox/config"
	"financeirox/logger"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SafeErrorMessage em produção não expõe detalhes internos ao cliente
func SafeErrorMessage(err error, fallback string) string {
	return config.SafeErrorMessage(err, fallback)
}

// internalError registra o erro com o contexto da requisição e responde 500
func internalError(c *gin.Context, err error, fallback string) {
	logger.Log.WithFields(logrus.Fields{
		"request_id": c.GetString("requestID"),
		"path":       c.FullPath(),
		"user":       c.GetString("userEmail"),
	}).WithError(err).Error(fallback)
	InternalError(c, SafeErrorMessage(err, fallback))
}
