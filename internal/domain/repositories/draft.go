package repositories

import (
	"context"

	"formcraft/internal/domain/models/form"
)

// DraftStore keeps the latest unpublished editor state of a form.
// Drafts expire; a missing or expired draft is a domain.NotFoundError.
type DraftStore interface {
	SaveDraft(ctx context.Context, f *form.Form) error
	GetDraft(ctx context.Context, formID string) (*form.Form, error)
	DeleteDraft(ctx context.Context, formID string) error
}
