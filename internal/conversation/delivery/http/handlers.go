package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"value-added-framework/internal/conversation"
	"value-added-framework/pkg/response"
)

// Start godoc
// @Summary     Start a session
// @Description Opens a bounded session. Empty fields select the demonstration profile, the default duration and the next session number.
// @Tags        Sessions
// @Accept      json
// @Produce     json
// @Param       body body startReq false "Session parameters"
// @Success     200 {object} sessionResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     404 {object} response.Resp "Profile Not Found"
// @Router      /api/v1/sessions [POST]
func (h *handler) Start(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processStartReq(c)
	if err != nil {
		response.ValidationError(c, err)
		return
	}

	out, err := h.uc.StartSession(ctx, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "uc.StartSession: %v", err)
		response.Error(c, h.mapError(err))
		return
	}

	response.OK(c, h.newStartResp(out))
}

// Detail godoc
// @Summary     Get session
// @Description Returns the session with its live remaining time and metrics.
// @Tags        Sessions
// @Produce     json
// @Param       id path string true "Session ID"
// @Success     200 {object} sessionResp
// @Failure     404 {object} response.Resp "Not Found"
// @Router      /api/v1/sessions/{id} [GET]
func (h *handler) Detail(c *gin.Context) {
	ctx := c.Request.Context()

	out, err := h.uc.Detail(ctx, c.Param("id"))
	if err != nil {
		h.l.Errorf(ctx, "uc.Detail: %v", err)
		response.Error(c, h.mapError(err))
		return
	}

	response.OK(c, h.newDetailResp(out))
}

// SendMessage godoc
// @Summary     Send a message
// @Description Enriches the text with session context, calls the model and returns the validated reply.
// @Tags        Sessions
// @Accept      json
// @Produce     json
// @Param       id   path string     true "Session ID"
// @Param       body body messageReq true "Patient message"
// @Success     200 {object} messageResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     404 {object} response.Resp "Not Found"
// @Failure     409 {object} response.Resp "Session Ended"
// @Failure     502 {object} response.Resp "Bad Model Reply"
// @Failure     503 {object} response.Resp "Model Unavailable"
// @Router      /api/v1/sessions/{id}/messages [POST]
func (h *handler) SendMessage(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processMessageReq(c)
	if err != nil {
		response.ValidationError(c, err)
		return
	}

	out, err := h.uc.Process(ctx, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "uc.Process: %v", err)
		response.Error(c, h.mapError(err))
		return
	}
	if out.Warning != nil {
		h.l.Warnf(ctx, "uc.Process: %v", out.Warning)
	}

	response.OK(c, h.newMessageResp(out))
}

// Turns godoc
// @Summary     List turns
// @Description Returns the stored turns of a session in sequence order.
// @Tags        Sessions
// @Produce     json
// @Param       id path string true "Session ID"
// @Success     200 {array} turnResp
// @Failure     404 {object} response.Resp "Not Found"
// @Router      /api/v1/sessions/{id}/turns [GET]
func (h *handler) Turns(c *gin.Context) {
	ctx := c.Request.Context()

	turns, err := h.uc.History(ctx, c.Param("id"))
	if err != nil {
		h.l.Errorf(ctx, "uc.History: %v", err)
		response.Error(c, h.mapError(err))
		return
	}

	response.OK(c, h.newTurnsResp(turns))
}

// Transcript godoc
// @Summary     Export transcript
// @Description Downloads the session transcript as Markdown, JSON or YAML.
// @Tags        Sessions
// @Produce     text/markdown,application/json,application/yaml
// @Param       id     path  string true  "Session ID"
// @Param       format query string false "md, json or yaml" default(md)
// @Success     200 {string} string
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     404 {object} response.Resp "Not Found"
// @Router      /api/v1/sessions/{id}/transcript [GET]
func (h *handler) Transcript(c *gin.Context) {
	ctx := c.Request.Context()

	format, err := h.processTranscriptReq(c)
	if err != nil {
		response.ValidationError(c, err)
		return
	}

	out, err := h.uc.Export(ctx, conversation.ExportInput{SessionID: c.Param("id"), Format: format})
	if err != nil {
		h.l.Errorf(ctx, "uc.Export: %v", err)
		response.Error(c, h.mapError(err))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+out.FileName+`"`)
	c.Data(http.StatusOK, out.ContentType, out.Content)
}

// End godoc
// @Summary     End a session
// @Description Stops the session clock and returns the summary. Ending twice returns the same summary.
// @Tags        Sessions
// @Produce     json
// @Param       id path string true "Session ID"
// @Success     200 {object} summaryResp
// @Failure     404 {object} response.Resp "Not Found"
// @Router      /api/v1/sessions/{id}/end [POST]
func (h *handler) End(c *gin.Context) {
	ctx := c.Request.Context()

	sum, err := h.uc.EndSession(ctx, c.Param("id"))
	if err != nil {
		h.l.Errorf(ctx, "uc.EndSession: %v", err)
		response.Error(c, h.mapError(err))
		return
	}

	response.OK(c, h.newSummaryResp(sum))
}
