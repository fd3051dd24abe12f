package repositories

import (
	"context"

	"formcraft/internal/domain/models/form"
)

// FormRepository stores form documents and their published versions
type FormRepository interface {
	// Get returns the stored form or a domain.NotFoundError
	Get(ctx context.Context, id string) (*form.Form, error)

	// Save inserts or replaces the form, setting CreatedAt/UpdatedAt
	Save(ctx context.Context, f *form.Form) error

	// List returns summaries of every stored form, most recently updated first
	List(ctx context.Context) ([]form.Summary, error)

	// Delete removes the form and its versions
	Delete(ctx context.Context, id string) error

	// CreateVersion appends the next published version of f.
	// The form must already be saved.
	CreateVersion(ctx context.Context, f *form.Form) (*form.Version, error)

	// GetVersion returns a published version or a domain.NotFoundError
	GetVersion(ctx context.Context, formID string, number int) (*form.Version, error)
}
