package http

import (
	"value-added-framework/internal/profile"
	"value-added-framework/pkg/log"
)

type handler struct {
	l  log.Logger
	uc profile.UseCase
}

// New creates the HTTP handler for patient profiles.
func New(l log.Logger, uc profile.UseCase) *handler {
	return &handler{
		l:  l,
		uc: uc,
	}
}
