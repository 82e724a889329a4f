package http

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"value-added-framework/pkg/response"
)

// TimerStream godoc
// @Summary     Stream the session clock
// @Description Upgrades to a websocket and pushes the remaining time every second until the session is over.
// @Tags        Sessions
// @Param       id path string true "Session ID"
// @Success     101 {object} timerTick
// @Failure     404 {object} response.Resp "Not Found"
// @Router      /api/v1/sessions/{id}/timer/ws [GET]
func (h *handler) TimerStream(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	// Unknown sessions get a plain HTTP error before upgrading.
	first, err := h.uc.Detail(ctx, id)
	if err != nil {
		h.l.Errorf(ctx, "uc.Detail: %v", err)
		response.Error(c, h.mapError(err))
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.l.Errorf(ctx, "upgrader.Upgrade: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	defer cancel()
	go h.drain(conn, cancel)

	tick := newTimerTick(first)
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(tick); err != nil {
			h.l.Debugf(ctx, "timer ws %s: write: %v", id, err)
			return
		}
		if !tick.Active {
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session over")
			conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeTimeout))
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		out, err := h.uc.Detail(ctx, id)
		if err != nil {
			h.l.Warnf(ctx, "timer ws %s: uc.Detail: %v", id, err)
			msg := websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "session unavailable")
			conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeTimeout))
			return
		}
		tick = newTimerTick(out)
	}
}

// drain reads until the client goes away. Client frames are ignored.
func (h *handler) drain(conn *websocket.Conn, done context.CancelFunc) {
	defer done()
	conn.SetReadLimit(512)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
