package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"value-added-framework/internal/transcript"
)

func (h *handler) processStartReq(c *gin.Context) (startReq, error) {
	var req startReq
	// An empty body starts a default session.
	if c.Request.ContentLength == 0 {
		return req, nil
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, err
	}
	return req, nil
}

func (h *handler) processMessageReq(c *gin.Context) (messageReq, error) {
	var req messageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, err
	}
	req.SessionID = c.Param("id")
	if req.SessionID == "" {
		return req, errors.New("session id is required")
	}
	return req, nil
}

func (h *handler) processTranscriptReq(c *gin.Context) (transcript.Format, error) {
	return transcript.ParseFormat(c.Query("format"))
}
