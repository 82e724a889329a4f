package profile

import "value-added-framework/internal/model"

// UpdateInput is a full replacement of a profile.
type UpdateInput struct {
	Profile model.PatientProfile
}
