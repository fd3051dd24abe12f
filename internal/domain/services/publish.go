package services

import (
	"context"

	"formcraft/internal/domain/models/form"
)

// PublishService turns an edited form into an immutable published version
type PublishService interface {
	// Check runs every pre-publish check without persisting anything.
	// A structurally malformed form returns an error matching domain.ErrValidation;
	// otherwise the logic findings are returned (empty when publishable).
	Check(f *form.Form) ([]form.ValidationError, error)

	// Publish saves the form and records the next version. Forms with findings
	// are refused with a *domain.PublishBlockedError.
	Publish(ctx context.Context, f *form.Form) (*form.Version, error)

	// PublishDraft loads the form's draft and publishes it
	PublishDraft(ctx context.Context, formID string) (*form.Version, error)
}
