package http

import (
	"github.com/gin-gonic/gin"

	"value-added-framework/pkg/response"
)

// Detail godoc
// @Summary     Get patient profile
// @Description Returns a patient profile. PAT001 is the demonstration profile.
// @Tags        Profiles
// @Produce     json
// @Param       id path string true "Profile ID"
// @Success     200 {object} profileResp
// @Failure     404 {object} response.Resp "Not Found"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/profiles/{id} [GET]
func (h *handler) Detail(c *gin.Context) {
	ctx := c.Request.Context()

	p, err := h.uc.Get(ctx, c.Param("id"))
	if err != nil {
		h.l.Errorf(ctx, "uc.Get: %v", err)
		response.Error(c, h.mapError(err))
		return
	}

	response.OK(c, h.newProfileResp(p))
}

// Update godoc
// @Summary     Replace patient profile
// @Description Stores the full profile. Later sessions use the new history.
// @Tags        Profiles
// @Accept      json
// @Produce     json
// @Param       id   path string    true "Profile ID"
// @Param       body body updateReq true "Profile"
// @Success     200 {object} profileResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/profiles/{id} [PUT]
func (h *handler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processUpdateReq(c)
	if err != nil {
		response.ValidationError(c, err)
		return
	}

	p, err := h.uc.Update(ctx, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "uc.Update: %v", err)
		response.Error(c, h.mapError(err))
		return
	}

	response.OK(c, h.newProfileResp(p))
}
