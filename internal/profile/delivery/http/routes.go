package http

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts /profiles on rg.
func RegisterRoutes(rg *gin.RouterGroup, h *handler) {
	profiles := rg.Group("/profiles")
	{
		profiles.GET("/:id", h.Detail)
		profiles.PUT("/:id", h.Update)
	}
}
