package http

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts /sessions on rg.
func RegisterRoutes(rg *gin.RouterGroup, h *handler) {
	sessions := rg.Group("/sessions")
	{
		sessions.POST("", h.Start)
		sessions.GET("/:id", h.Detail)
		sessions.POST("/:id/messages", h.SendMessage)
		sessions.GET("/:id/turns", h.Turns)
		sessions.GET("/:id/transcript", h.Transcript)
		sessions.POST("/:id/end", h.End)
		sessions.GET("/:id/timer/ws", h.TimerStream)
	}
}
