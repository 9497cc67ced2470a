package api

import (
	"net/http"

	"financeirox/events"
	"financeirox/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// EventsHandler stream de notificações de alteração
type EventsHandler struct {
	hub      *events.Hub
	upgrader websocket.Upgrader
}

// NewEventsHandler usa o hub global quando hub é nil
func NewEventsHandler(hub *events.Hub) *EventsHandler {
	if hub == nil {
		hub = events.Default
	}
	return &EventsHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Stream abre o WebSocket e repassa os eventos do usuário
// @Summary Notificações em tempo real
// @Description WebSocket com eventos transactions-changed e sources-changed
// @Tags Eventos
// @Security BearerAuth
// @Success 101 {object} events.Event
// @Failure 401 {object} Response
// @Router /api/events [get]
func (h *EventsHandler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade já respondeu com o erro HTTP
		logger.Log.WithError(err).Debug("falha no upgrade do websocket")
		return
	}
	events.Serve(c.Request.Context(), h.hub, conn, currentEmail(c))
}
