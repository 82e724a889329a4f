package http

import (
	"net/http"

	"value-added-framework/internal/conversation"
	pkgErrors "value-added-framework/pkg/errors"
)

func (h *handler) mapError(err error) error {
	switch conversation.KindOf(err) {
	case conversation.KindInvalidInput:
		return pkgErrors.NewBadRequest(err.Error())
	case conversation.KindSessionNotFound:
		return pkgErrors.NewNotFound("session not found")
	case conversation.KindProfileNotFound:
		return pkgErrors.NewNotFound("profile not found")
	case conversation.KindSessionEnded:
		return pkgErrors.NewHTTPError(http.StatusConflict, "session has ended")
	case conversation.KindTransientGateway:
		return pkgErrors.NewHTTPError(http.StatusServiceUnavailable, "model is temporarily unavailable")
	case conversation.KindFatalGateway:
		return pkgErrors.NewHTTPError(http.StatusBadGateway, "model rejected the request")
	case conversation.KindMalformedReply:
		return pkgErrors.NewHTTPError(http.StatusBadGateway, "model reply did not match the response contract")
	case conversation.KindCancelled:
		return pkgErrors.NewHTTPError(http.StatusRequestTimeout, "request cancelled")
	case conversation.KindStoreUnavailable:
		return pkgErrors.NewHTTPError(http.StatusServiceUnavailable, "session store unavailable")
	default:
		return pkgErrors.ErrInternalServerError
	}
}
