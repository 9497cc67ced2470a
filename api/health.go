package api

import (
	"context"
	"net/http"
	"time"

	"financeirox/database"

	"github.com/gin-gonic/gin"
)

// HealthHandler verificações de saúde
type HealthHandler struct {
	version string
}

// NewHealthHandler cria o handler de saúde
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version}
}

// Live processo no ar
// @Summary Liveness
// @Tags Saúde
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": h.version})
}

// DB faz ping no banco
// @Summary Saúde do banco
// @Tags Saúde
// @Produce json
// @Success 200 {object} Response
// @Failure 503 {object} Response
// @Router /api/db-health [get]
func (h *HealthHandler) DB(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	start := time.Now()
	if err := database.Ping(ctx); err != nil {
		Error(c, http.StatusServiceUnavailable, SafeErrorMessage(err, "Banco de dados indisponível."))
		return
	}
	Success(c, gin.H{"ok": true, "latencyMs": time.Since(start).Milliseconds()})
}
