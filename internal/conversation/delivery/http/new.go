package http

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"value-added-framework/internal/conversation"
	"value-added-framework/pkg/log"
)

const (
	timerInterval = time.Second
	writeTimeout  = 5 * time.Second
)

type handler struct {
	l        log.Logger
	uc       conversation.UseCase
	upgrader websocket.Upgrader
	interval time.Duration
}

// New creates the HTTP handler for sessions.
func New(l log.Logger, uc conversation.UseCase) *handler {
	return &handler{
		l:  l,
		uc: uc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// No authentication; any origin may watch a clock.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		interval: timerInterval,
	}
}
