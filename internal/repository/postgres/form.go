package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"formcraft/internal/domain"
	"formcraft/internal/domain/models/form"
	"formcraft/internal/domain/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresFormRepository stores whole form documents as JSONB
type PostgresFormRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewFormRepository creates a PostgresFormRepository
func NewFormRepository(config *RepositoryConfig) repositories.FormRepository {
	return &PostgresFormRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Get retrieves a form by ID
func (r *PostgresFormRepository) Get(ctx context.Context, id string) (*form.Form, error) {
	query := fmt.Sprintf(`
		SELECT document, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.Forms)

	var (
		doc                  []byte
		createdAt, updatedAt time.Time
	)
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(&doc, &createdAt, &updatedAt)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, domain.NewNotFound("form", id)
		}
		return nil, fmt.Errorf("get form: %w", err)
	}

	f, err := decodeForm(doc)
	if err != nil {
		return nil, fmt.Errorf("decode form %s: %w", id, err)
	}
	f.CreatedAt = createdAt
	f.UpdatedAt = updatedAt
	return f, nil
}

// Save upserts the form. CreatedAt is kept from the first insert.
func (r *PostgresFormRepository) Save(ctx context.Context, f *form.Form) error {
	now := time.Now().UTC()
	if f.CreatedAt.IsZero() {
		f.CreatedAt = now
	}
	f.UpdatedAt = now

	doc, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode form %s: %w", f.ID, err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, title, document, page_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			document = EXCLUDED.document,
			page_count = EXCLUDED.page_count,
			updated_at = EXCLUDED.updated_at
		RETURNING created_at
	`, r.tables.Forms)

	executor := GetExecutor(ctx, r.pool)
	err = executor.QueryRow(ctx, query,
		f.ID,
		f.Title,
		doc,
		len(f.Pages),
		f.CreatedAt,
		f.UpdatedAt,
	).Scan(&f.CreatedAt)
	if err != nil {
		return fmt.Errorf("save form: %w", err)
	}

	r.logger.Debug("form saved", "id", f.ID, "pages", len(f.Pages))
	return nil
}

// List returns form summaries, most recently updated first
func (r *PostgresFormRepository) List(ctx context.Context) ([]form.Summary, error) {
	query := fmt.Sprintf(`
		SELECT id, title, page_count, published_version, updated_at
		FROM %s
		ORDER BY updated_at DESC
	`, r.tables.Forms)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list forms: %w", err)
	}
	defer rows.Close()

	summaries := make([]form.Summary, 0)
	for rows.Next() {
		var s form.Summary
		if err := rows.Scan(&s.ID, &s.Title, &s.PageCount, &s.PublishedVersion, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan form summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate forms: %w", err)
	}

	return summaries, nil
}

// Delete removes the form; versions cascade
func (r *PostgresFormRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Forms)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete form: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("form", id)
	}
	return nil
}

// CreateVersion stores f as the next version number and bumps the form's
// published_version. Run it inside ExecTx together with Save.
func (r *PostgresFormRepository) CreateVersion(ctx context.Context, f *form.Form) (*form.Version, error) {
	doc, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("encode form %s: %w", f.ID, err)
	}

	insert := fmt.Sprintf(`
		INSERT INTO %s (form_id, version, document, published_at)
		SELECT $1, COALESCE(MAX(version), 0) + 1, $2::jsonb, $3::timestamptz
		FROM %s
		WHERE form_id = $1
		RETURNING version, published_at
	`, r.tables.FormVersions, r.tables.FormVersions)

	version := &form.Version{FormID: f.ID, Form: f.Clone()}
	executor := GetExecutor(ctx, r.pool)
	err = executor.QueryRow(ctx, insert, f.ID, doc, time.Now().UTC()).
		Scan(&version.Number, &version.PublishedAt)
	if err != nil {
		if IsPgForeignKeyError(err) {
			return nil, domain.NewNotFound("form", f.ID)
		}
		if IsPgDuplicateError(err) {
			return nil, &domain.ConflictError{
				Message:      fmt.Sprintf("form %s was published concurrently", f.ID),
				ResourceType: "form_version",
				ResourceID:   f.ID,
			}
		}
		return nil, fmt.Errorf("create form version: %w", err)
	}

	update := fmt.Sprintf(`UPDATE %s SET published_version = $2 WHERE id = $1`, r.tables.Forms)
	if _, err := executor.Exec(ctx, update, f.ID, version.Number); err != nil {
		return nil, fmt.Errorf("mark form published: %w", err)
	}

	r.logger.Info("form version created", "id", f.ID, "version", version.Number)
	return version, nil
}

// GetVersion retrieves one published version
func (r *PostgresFormRepository) GetVersion(ctx context.Context, formID string, number int) (*form.Version, error) {
	query := fmt.Sprintf(`
		SELECT document, published_at
		FROM %s
		WHERE form_id = $1 AND version = $2
	`, r.tables.FormVersions)

	var doc []byte
	version := &form.Version{FormID: formID, Number: number}
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, formID, number).Scan(&doc, &version.PublishedAt)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, domain.NewNotFound("form_version", fmt.Sprintf("%s@%d", formID, number))
		}
		return nil, fmt.Errorf("get form version: %w", err)
	}

	if version.Form, err = decodeForm(doc); err != nil {
		return nil, fmt.Errorf("decode form version: %w", err)
	}
	return version, nil
}

func decodeForm(doc []byte) (*form.Form, error) {
	var f form.Form
	if err := json.Unmarshal(doc, &f); err != nil {
		return nil, err
	}
	return &f, nil
}
