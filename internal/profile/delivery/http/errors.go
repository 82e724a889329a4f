package http

import (
	"errors"

	"value-added-framework/internal/profile"
	pkgErrors "value-added-framework/pkg/errors"
)

func (h *handler) mapError(err error) error {
	switch {
	case errors.Is(err, profile.ErrProfileNotFound):
		return pkgErrors.NewNotFound("profile not found")
	case errors.Is(err, profile.ErrInvalidProfile):
		return pkgErrors.NewBadRequest(err.Error())
	default:
		return pkgErrors.ErrInternalServerError
	}
}
