package http

import (
	"errors"

	"github.com/gin-gonic/gin"
)

func (h *handler) processUpdateReq(c *gin.Context) (updateReq, error) {
	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, err
	}
	req.ID = c.Param("id")
	if req.ID == "" {
		return req, errors.New("id is required")
	}
	return req, req.validate()
}
