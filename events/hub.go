// Package events distribui notificações de alteração por usuário
// (lançamentos ou fontes alterados) para as abas conectadas via WebSocket.
package events

import (
	"sync"
	"time"
)

const (
	TransactionsChanged = "transactions-changed"
	SourcesChanged      = "sources-changed"

	subscriberBuffer = 16
)

// Event mensagem enviada ao cliente
type Event struct {
	Type string    `json:"type"`
	At   time.Time `json:"at"`
}

// Subscriber conexão inscrita nos eventos de um usuário
type Subscriber struct {
	email string
	C     chan Event
}

// Hub pub/sub em memória indexado pelo e-mail do usuário
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[*Subscriber]struct{}
}

// NewHub cria um hub vazio
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*Subscriber]struct{})}
}

// Default hub usado pelos handlers
var Default = NewHub()

// Subscribe registra um novo assinante para email
func (h *Hub) Subscribe(email string) *Subscriber {
	sub := &Subscriber{email: email, C: make(chan Event, subscriberBuffer)}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[email] == nil {
		h.subs[email] = make(map[*Subscriber]struct{})
	}
	h.subs[email][sub] = struct{}{}
	return sub
}

// Unsubscribe remove o assinante e fecha o canal; chamadas repetidas são ignoradas
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subs[sub.email]
	if !ok {
		return
	}
	if _, ok := set[sub]; !ok {
		return
	}
	delete(set, sub)
	close(sub.C)
	if len(set) == 0 {
		delete(h.subs, sub.email)
	}
}

// Publish entrega ev a todos os assinantes de email sem bloquear:
// quem estiver com o buffer cheio perde o evento. Devolve quantos receberam.
func (h *Hub) Publish(email string, ev Event) int {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	delivered := 0
	for sub := range h.subs[email] {
		select {
		case sub.C <- ev:
			delivered++
		default:
		}
	}
	return delivered
}

// Subscribers quantidade de conexões de email
func (h *Hub) Subscribers(email string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[email])
}

// Notify publica um evento do tipo typ no hub padrão
func Notify(email, typ string) {
	Default.Publish(email, Event{Type: typ})
}
