package api

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"financeirox/events"
	"financeirox/middleware"

	"github.com/gin-gonic/gin"
)

var (
	errMissingID = errors.New("id ausente")
	errInvalidID = errors.New("id inválido")
)

// resourceID lê o id de /:id ou de ?id=
func resourceID(c *gin.Context) (uint, error) {
	raw := strings.TrimSpace(c.Param("id"))
	if raw == "" {
		raw = strings.TrimSpace(c.Query("id"))
	}
	return parseID(raw)
}

func parseID(raw string) (uint, error) {
	if raw == "" {
		return 0, errMissingID
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errInvalidID
	}
	return uint(id), nil
}

func idErrorMessage(err error) string {
	if errors.Is(err, errMissingID) {
		return "ID ausente."
	}
	return "ID inválido."
}

// currentEmail e-mail do usuário autenticado; todos os dados são filtrados por ele
func currentEmail(c *gin.Context) string {
	return middleware.GetCurrentUserEmail(c)
}

func notify(c *gin.Context, typ string) {
	events.Notify(currentEmail(c), typ)
}

// bindOptionalJSON corpo vazio é aceito; corpo presente precisa ser JSON válido
func bindOptionalJSON(c *gin.Context, obj interface{}) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
