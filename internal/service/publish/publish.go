// Package publish gates publishing on the logic validator and persists the
// published version.
package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"formcraft/internal/domain"
	"formcraft/internal/domain/models/form"
	"formcraft/internal/domain/repositories"
	"formcraft/internal/domain/services"
	"formcraft/internal/service/logic"
)

// publishService implements services.PublishService
type publishService struct {
	forms   repositories.FormRepository
	drafts  repositories.DraftStore
	tx      repositories.TransactionManager
	catalog form.TypeCatalog
	logger  *slog.Logger
}

// NewService creates a publish service. drafts may be nil when no draft store is configured.
func NewService(
	forms repositories.FormRepository,
	drafts repositories.DraftStore,
	tx repositories.TransactionManager,
	catalog form.TypeCatalog,
	logger *slog.Logger,
) services.PublishService {
	return &publishService{
		forms:   forms,
		drafts:  drafts,
		tx:      tx,
		catalog: catalog,
		logger:  logger,
	}
}

// Check validates structure first, then logic
func (s *publishService) Check(f *form.Form) ([]form.ValidationError, error) {
	if f == nil {
		return nil, &domain.ValidationError{Message: "no form to publish"}
	}
	if err := f.Validate(s.catalog); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return logic.ValidateForm(f), nil
}

// Publish saves f and records a new version in one transaction, then drops the draft
func (s *publishService) Publish(ctx context.Context, f *form.Form) (*form.Version, error) {
	findings, err := s.Check(f)
	if err != nil {
		return nil, err
	}
	if len(findings) > 0 {
		s.logger.Info("publish blocked", "form_id", f.ID, "findings", len(findings))
		return nil, &domain.PublishBlockedError{FormID: f.ID, Findings: findings}
	}

	f = f.Clone()
	var version *form.Version
	err = s.tx.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.forms.Save(ctx, f); err != nil {
			return err
		}
		v, err := s.forms.CreateVersion(ctx, f)
		if err != nil {
			return err
		}
		version = v
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("publish form %s: %w", f.ID, err)
	}

	// The version is committed; a stale draft only costs storage until it expires
	if s.drafts != nil {
		if err := s.drafts.DeleteDraft(ctx, f.ID); err != nil {
			s.logger.Warn("failed to delete draft after publish", "form_id", f.ID, "error", err)
		}
	}

	s.logger.Info("form published",
		"form_id", f.ID,
		"version", version.Number,
		"pages", len(f.Pages),
	)
	return version, nil
}

// PublishDraft publishes the stored draft of formID
func (s *publishService) PublishDraft(ctx context.Context, formID string) (*form.Version, error) {
	if s.drafts == nil {
		return nil, errors.New("no draft store configured")
	}
	f, err := s.drafts.GetDraft(ctx, formID)
	if err != nil {
		return nil, err
	}
	return s.Publish(ctx, f)
}
