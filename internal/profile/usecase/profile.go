package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"value-added-framework/internal/model"
	"value-added-framework/internal/profile"
	"value-added-framework/internal/store"
)

// Get loads a profile. The demonstration profile is seeded on first use.
func (uc *implUseCase) Get(ctx context.Context, id string) (model.PatientProfile, error) {
	if id == "" {
		id = profile.DefaultID
	}

	p, err := uc.repo.GetProfile(ctx, id)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, store.ErrProfileNotFound) {
		uc.l.Errorf(ctx, "profile.usecase.Get: %v", err)
		return model.PatientProfile{}, err
	}
	if id != profile.DefaultID {
		return model.PatientProfile{}, profile.ErrProfileNotFound
	}

	def := profile.Default()
	if err := uc.repo.SaveProfile(ctx, def); err != nil {
		// The default is still usable without being stored.
		uc.l.Warnf(ctx, "profile.usecase.Get: seeding default profile: %v", err)
	}
	return def, nil
}

// Update validates and stores a full profile.
func (uc *implUseCase) Update(ctx context.Context, input profile.UpdateInput) (model.PatientProfile, error) {
	p := input.Profile
	p.Name = strings.TrimSpace(p.Name)

	switch {
	case strings.TrimSpace(p.ID) == "":
		return model.PatientProfile{}, fmt.Errorf("%w: id is required", profile.ErrInvalidProfile)
	case p.Name == "":
		return model.PatientProfile{}, fmt.Errorf("%w: name is required", profile.ErrInvalidProfile)
	case p.Age < 0:
		return model.PatientProfile{}, fmt.Errorf("%w: age must not be negative", profile.ErrInvalidProfile)
	}

	if err := uc.repo.SaveProfile(ctx, p); err != nil {
		uc.l.Errorf(ctx, "profile.usecase.Update: %v", err)
		return model.PatientProfile{}, err
	}
	return p, nil
}
