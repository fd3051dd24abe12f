package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"

	"formcraft/internal/blocktypes"
	"formcraft/internal/domain"
	"formcraft/internal/domain/models/form"
	"formcraft/internal/domain/repositories"
	"formcraft/internal/formfile"
	"formcraft/internal/repository/postgres"
	"formcraft/internal/repository/redis"
	"formcraft/internal/service/formstate"
	"formcraft/internal/service/logic"
	"formcraft/internal/service/publish"
	"formcraft/internal/service/session"
)

// errFindings signals a non-zero exit after findings were already printed
var errFindings = errors.New("findings reported")

type report struct {
	Valid      bool                   `json:"valid"`
	Structural string                 `json:"structural,omitempty"`
	Findings   []form.ValidationError `json:"findings"`
	Dangling   []form.ValidationError `json:"dangling,omitempty"`
}

func runValidate(_ context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	file := fs.String("file", "", "form document (.json, .yaml, .yml)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return errors.New("-file is required")
	}

	f, err := formfile.Load(*file)
	if err != nil {
		return err
	}
	catalog, err := blocktypes.NewRegistry()
	if err != nil {
		return err
	}

	r := report{Findings: logic.ValidateForm(f), Dangling: logic.ValidateReferences(f)}
	if err := f.Validate(catalog); err != nil {
		r.Structural = err.Error()
	}
	r.Valid = r.Structural == "" && len(r.Findings) == 0

	a.logger.Debug("validated form",
		"form_id", f.ID,
		"findings", len(r.Findings),
		"dangling", len(r.Dangling),
	)
	if err := a.printJSON(r); err != nil {
		return err
	}
	if !r.Valid {
		return errFindings
	}
	return nil
}

func runRefs(_ context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("refs", flag.ContinueOnError)
	file := fs.String("file", "", "form document")
	field := fs.String("field", "", "block ID or field key")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" || *field == "" {
		return errors.New("-file and -field are required")
	}

	f, err := formfile.Load(*file)
	if err != nil {
		return err
	}
	return a.printJSON(logic.FindFieldReferences(f.Logic, *field))
}

// runStrip deletes a field through the editor engine, so the result is exactly
// what the editor would produce. With -draft it edits the stored draft in place.
func runStrip(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("strip", flag.ContinueOnError)
	file := fs.String("file", "", "form document")
	draftID := fs.String("draft", "", "form ID of a stored draft to edit instead of a file")
	field := fs.String("field", "", "block ID to delete")
	out := fs.String("out", "", "write the result here instead of stdout (file mode)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *field == "" || (*file == "") == (*draftID == "") {
		return errors.New("-field and exactly one of -file or -draft are required")
	}

	var (
		f     *form.Form
		saver session.Saver
	)
	if *draftID != "" {
		drafts, err := a.draftStore()
		if err != nil {
			return err
		}
		defer drafts.Close()
		if f, err = drafts.GetDraft(ctx, *draftID); err != nil {
			return err
		}
		saver = drafts.SaveDraft
	} else {
		var err error
		if f, err = formfile.Load(*file); err != nil {
			return err
		}
	}

	if finding := logic.CheckFieldDeletion(f, *field); finding != nil {
		a.logger.Info(finding.Message, "field", *field)
	}

	engine := formstate.NewEngine(a.logger, formstate.WithHistoryCapacity(a.cfg.HistoryCapacity))
	engine.Initialize(f)

	opts := []session.Option{session.WithDebounce(a.cfg.AutosaveDebounce)}
	if saver != nil {
		opts = append(opts, session.WithSaver(saver))
	}
	sess := session.New(engine, a.logger, opts...)
	defer sess.Close()

	if err := sess.Do(ctx, func(e *formstate.Engine) error {
		return e.DeleteField(*field)
	}); err != nil {
		return err
	}
	if err := sess.Flush(ctx); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}

	result, err := sess.Snapshot(ctx)
	if err != nil {
		return err
	}
	if *out != "" {
		return formfile.Save(*out, result)
	}
	return a.printJSON(result)
}

func runPublish(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("publish", flag.ContinueOnError)
	file := fs.String("file", "", "form document to publish")
	draftID := fs.String("draft", "", "form ID whose stored draft should be published")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if (*file == "") == (*draftID == "") {
		return errors.New("exactly one of -file or -draft is required")
	}

	catalog, err := blocktypes.NewRegistry()
	if err != nil {
		return err
	}
	store, err := a.openForms(ctx)
	if err != nil {
		return err
	}
	defer store.close()

	var drafts repositories.DraftStore
	if a.cfg.RedisURL != "" || *draftID != "" {
		ds, err := a.draftStore()
		if err != nil {
			return err
		}
		defer ds.Close()
		drafts = ds
	}
	svc := publish.NewService(store.repo, drafts, store.tx, catalog, a.logger)

	var version *form.Version
	if *draftID != "" {
		version, err = svc.PublishDraft(ctx, *draftID)
	} else {
		var f *form.Form
		if f, err = formfile.Load(*file); err != nil {
			return err
		}
		version, err = svc.Publish(ctx, f)
	}

	var blocked *domain.PublishBlockedError
	if errors.As(err, &blocked) {
		if err := a.printJSON(report{Findings: blocked.Findings}); err != nil {
			return err
		}
		return errFindings
	}
	if err != nil {
		return err
	}

	return a.printJSON(map[string]any{
		"formId":      version.FormID,
		"version":     version.Number,
		"publishedAt": version.PublishedAt,
	})
}

func runDraft(ctx context.Context, a *app, args []string) error {
	if len(args) == 0 {
		return errors.New("draft needs a subcommand: push, get or rm")
	}
	sub, args := args[0], args[1:]

	fs := flag.NewFlagSet("draft "+sub, flag.ContinueOnError)
	file := fs.String("file", "", "form document (push)")
	id := fs.String("id", "", "form ID (get, rm)")
	out := fs.String("out", "", "write the draft here instead of stdout (get)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	drafts, err := a.draftStore()
	if err != nil {
		return err
	}
	defer drafts.Close()

	switch sub {
	case "push":
		if *file == "" {
			return errors.New("-file is required")
		}
		f, err := formfile.Load(*file)
		if err != nil {
			return err
		}
		if err := drafts.SaveDraft(ctx, f); err != nil {
			return err
		}
		a.logger.Info("draft pushed", "form_id", f.ID, "ttl", a.cfg.DraftTTL.String())
		return nil

	case "get":
		if *id == "" {
			return errors.New("-id is required")
		}
		f, err := drafts.GetDraft(ctx, *id)
		if err != nil {
			return err
		}
		if *out != "" {
			return formfile.Save(*out, f)
		}
		return a.printJSON(f)

	case "rm":
		if *id == "" {
			return errors.New("-id is required")
		}
		return drafts.DeleteDraft(ctx, *id)

	default:
		return fmt.Errorf("unknown draft subcommand %q", sub)
	}
}

func runForms(ctx context.Context, a *app, args []string) error {
	if len(args) == 0 {
		return errors.New("forms needs a subcommand: list, get or rm")
	}
	sub, args := args[0], args[1:]

	fs := flag.NewFlagSet("forms "+sub, flag.ContinueOnError)
	id := fs.String("id", "", "form ID (get, rm)")
	version := fs.Int("version", 0, "published version to fetch instead of the current form (get)")
	out := fs.String("out", "", "write the form here instead of stdout (get)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if sub != "list" && *id == "" {
		return errors.New("-id is required")
	}

	store, err := a.openForms(ctx)
	if err != nil {
		return err
	}
	defer store.close()

	switch sub {
	case "list":
		summaries, err := store.repo.List(ctx)
		if err != nil {
			return err
		}
		return a.printJSON(summaries)

	case "get":
		var f *form.Form
		if *version > 0 {
			v, err := store.repo.GetVersion(ctx, *id, *version)
			if err != nil {
				return err
			}
			f = v.Form
		} else if f, err = store.repo.Get(ctx, *id); err != nil {
			return err
		}
		if *out != "" {
			return formfile.Save(*out, f)
		}
		return a.printJSON(f)

	case "rm":
		if err := store.repo.Delete(ctx, *id); err != nil {
			return err
		}
		a.logger.Info("form deleted", "form_id", *id)
		return nil

	default:
		return fmt.Errorf("unknown forms subcommand %q", sub)
	}
}

// formStore is an open Postgres connection with the form repository on top
type formStore struct {
	repo  repositories.FormRepository
	tx    repositories.TransactionManager
	close func()
}

func (a *app) openForms(ctx context.Context) (*formStore, error) {
	if a.cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	pool, err := postgres.CreateConnectionPool(ctx, a.cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	tables := postgres.NewTableNames(a.cfg.TablePrefix)
	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		pool.Close()
		return nil, err
	}
	return &formStore{
		repo: postgres.NewFormRepository(&postgres.RepositoryConfig{
			Pool:   pool,
			Tables: tables,
			Logger: a.logger,
		}),
		tx:    postgres.NewTransactionManager(pool, a.logger),
		close: pool.Close,
	}, nil
}

func (a *app) draftStore() (*redis.DraftStore, error) {
	if a.cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}
	return redis.NewDraftStore(a.cfg.RedisURL, a.cfg.DraftTTL, a.logger)
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
