// Package redis keeps editor drafts in Redis so an unsaved session survives a
// restart. Each draft is the whole form as JSON under one expiring key.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"formcraft/internal/domain"
	"formcraft/internal/domain/models/form"
	"formcraft/internal/domain/repositories"

	"github.com/redis/go-redis/v9"
)

const (
	defaultPrefix   = "formcraft:draft:"
	defaultDraftTTL = 7 * 24 * time.Hour
)

// draftEnvelope is what is stored under each key
type draftEnvelope struct {
	Form    *form.Form `json:"form"`
	SavedAt time.Time  `json:"saved_at"`
}

// DraftStore implements repositories.DraftStore on Redis
type DraftStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *slog.Logger
}

var _ repositories.DraftStore = (*DraftStore)(nil)

// NewDraftStore connects to redisURL and verifies the connection
func NewDraftStore(redisURL string, ttl time.Duration, logger *slog.Logger) (*DraftStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewDraftStoreWithClient(client, ttl, logger), nil
}

// NewDraftStoreWithClient wraps an existing client. A ttl <= 0 uses seven days.
func NewDraftStoreWithClient(client *redis.Client, ttl time.Duration, logger *slog.Logger) *DraftStore {
	if ttl <= 0 {
		ttl = defaultDraftTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DraftStore{
		client: client,
		prefix: defaultPrefix,
		ttl:    ttl,
		logger: logger,
	}
}

func (s *DraftStore) key(formID string) string {
	return s.prefix + formID
}

// SaveDraft overwrites the form's draft and restarts its TTL
func (s *DraftStore) SaveDraft(ctx context.Context, f *form.Form) error {
	if f == nil || f.ID == "" {
		return &domain.ValidationError{Message: "draft needs a form with an ID"}
	}

	data, err := json.Marshal(draftEnvelope{Form: f, SavedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}

	if err := s.client.Set(ctx, s.key(f.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}

	s.logger.Debug("draft saved", "form_id", f.ID, "bytes", len(data))
	return nil
}

// GetDraft returns the stored draft or a domain.NotFoundError when it is missing or expired
func (s *DraftStore) GetDraft(ctx context.Context, formID string) (*form.Form, error) {
	data, err := s.client.Get(ctx, s.key(formID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.NewNotFound("draft", formID)
	}
	if err != nil {
		return nil, fmt.Errorf("get draft: %w", err)
	}

	var env draftEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal draft: %w", err)
	}
	if env.Form == nil {
		return nil, domain.NewNotFound("draft", formID)
	}
	return env.Form, nil
}

// DeleteDraft removes the draft; deleting a missing draft is not an error
func (s *DraftStore) DeleteDraft(ctx context.Context, formID string) error {
	if err := s.client.Del(ctx, s.key(formID)).Err(); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (s *DraftStore) Close() error {
	return s.client.Close()
}

// Ping checks that Redis is reachable
func (s *DraftStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
