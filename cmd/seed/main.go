package main

import (
	"context"
	"embed"
	"errors"
	"flag"
	"io/fs"
	"log"
	"os"
	"path"
	"strings"

	"formcraft/internal/blocktypes"
	"formcraft/internal/config"
	"formcraft/internal/domain"
	"formcraft/internal/domain/models/form"
	"formcraft/internal/formfile"
	"formcraft/internal/repository/postgres"
	"formcraft/internal/service/publish"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

//go:embed forms/*.yaml
var seedForms embed.FS

// seedNamespace keeps seeded form IDs stable across runs so reseeding upserts
var seedNamespace = uuid.MustParse("6f1c7a52-3a0e-4d4b-9f7e-1b2f0c9d8e11")

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed forms")
	clearData := flag.Bool("clear-data", false, "Delete all forms and versions (keep schema)")
	noPublish := flag.Bool("no-publish", false, "Save seeded forms without publishing them")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("🚫 BLOCKED: Cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	logger := config.NewLogger(cfg, os.Stdout)

	switch {
	case *clearData:
		log.Printf("🧹 Clearing data only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	case *schemaOnly:
		log.Printf("🏗️  Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	default:
		log.Printf("🌱 Seeding forms (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("🗑️  Dropping all tables...")
		if err := postgres.DropSchema(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	log.Println("📋 Ensuring database schema is up to date...")
	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("✅ Schema ready")

	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	if *clearData {
		if err := clearForms(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		log.Println("✅ Data cleared successfully")
		return
	}

	catalog, err := blocktypes.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load block types: %v", err)
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	formRepo := postgres.NewFormRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)
	publisher := publish.NewService(formRepo, nil, txManager, catalog, logger)

	forms, err := loadSeedForms()
	if err != nil {
		log.Fatalf("Failed to load seed forms: %v", err)
	}

	for i, f := range forms {
		if err := f.Validate(catalog); err != nil {
			log.Printf("❌ Skipping '%s': %v", f.Title, err)
			continue
		}

		if *noPublish {
			if err := formRepo.Save(ctx, f); err != nil {
				log.Printf("❌ Failed to save '%s': %v", f.Title, err)
				continue
			}
			log.Printf("✅ Saved form %d/%d: %s (ID: %s)", i+1, len(forms), f.Title, f.ID)
			continue
		}

		version, err := publisher.Publish(ctx, f)
		var blocked *domain.PublishBlockedError
		if errors.As(err, &blocked) {
			for _, finding := range blocked.Findings {
				log.Printf("⚠️  %s: %s", f.Title, finding.Message)
			}
			continue
		}
		if err != nil {
			log.Printf("❌ Failed to publish '%s': %v", f.Title, err)
			continue
		}

		log.Printf("✅ Published form %d/%d: %s (ID: %s, version %d)",
			i+1, len(forms), f.Title, f.ID, version.Number)
	}

	log.Println("🎉 Seeding complete!")
}

// loadSeedForms decodes every embedded fixture, deriving an ID from the file
// name when the fixture has none
func loadSeedForms() ([]*form.Form, error) {
	names, err := fs.Glob(seedForms, "forms/*.yaml")
	if err != nil {
		return nil, err
	}

	forms := make([]*form.Form, 0, len(names))
	for _, name := range names {
		data, err := seedForms.ReadFile(name)
		if err != nil {
			return nil, err
		}
		f, err := formfile.Decode(data, formfile.FormatYAML)
		if err != nil {
			return nil, err
		}
		if f.ID == "" {
			slug := strings.TrimSuffix(path.Base(name), path.Ext(name))
			f.ID = uuid.NewSHA1(seedNamespace, []byte(slug)).String()
		}
		forms = append(forms, f)
	}
	return forms, nil
}

// clearForms deletes every form; versions cascade
func clearForms(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	_, err := pool.Exec(ctx, "DELETE FROM "+tables.Forms)
	return err
}
