package usecase

import (
	"value-added-framework/internal/store"
	"value-added-framework/pkg/log"
)

type implUseCase struct {
	repo store.ProfileStore
	l    log.Logger
}

// New creates a new profile UseCase.
func New(repo store.ProfileStore, l log.Logger) *implUseCase {
	return &implUseCase{
		repo: repo,
		l:    l,
	}
}
