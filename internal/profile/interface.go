package profile

import (
	"context"

	"value-added-framework/internal/model"
)

// UseCase manages the patient profiles injected into conversations.
type UseCase interface {
	// Get returns the profile with id. An empty id or DefaultID resolves to the demonstration profile.
	Get(ctx context.Context, id string) (model.PatientProfile, error)
	// Update replaces the stored profile.
	Update(ctx context.Context, input UpdateInput) (model.PatientProfile, error)
}
