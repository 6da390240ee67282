package wizard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const defaultSessionTTL = 24 * time.Hour

// Snapshot is the persisted slice of session state.
type Snapshot struct {
	Step  Step  `json:"step"`
	Draft Draft `json:"draft"`
}

// DraftStore persists wizard session snapshots in redis so a booking attempt
// survives a process restart.
type DraftStore struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

// NewDraftStore creates a redis-backed draft store.
func NewDraftStore(client *redis.Client, ttl time.Duration, tracer trace.Tracer) *DraftStore {
	if client == nil {
		panic("wizard: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	if tracer == nil {
		tracer = otel.Tracer("salon.internal.wizard.drafts")
	}
	return &DraftStore{redis: client, ttl: ttl, tracer: tracer}
}

// Save persists a session snapshot, refreshing its TTL.
func (s *DraftStore) Save(ctx context.Context, sessionID string, snap Snapshot) error {
	ctx, span := s.tracer.Start(ctx, "wizard.save_draft")
	defer span.End()

	data, err := json.Marshal(snap)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("wizard: failed to marshal snapshot: %w", err)
	}
	if err := s.redis.Set(ctx, sessionKey(sessionID), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("wizard: failed to persist snapshot: %w", err)
	}
	return nil
}

// Load returns a session snapshot, or ErrSessionNotFound.
func (s *DraftStore) Load(ctx context.Context, sessionID string) (Snapshot, error) {
	ctx, span := s.tracer.Start(ctx, "wizard.load_draft")
	defer span.End()

	data, err := s.redis.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		span.RecordError(err)
		if err == redis.Nil {
			return Snapshot{}, ErrSessionNotFound
		}
		return Snapshot{}, fmt.Errorf("wizard: failed to load snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		span.RecordError(err)
		return Snapshot{}, fmt.Errorf("wizard: failed to decode snapshot: %w", err)
	}
	return snap, nil
}

// Delete removes a session snapshot.
func (s *DraftStore) Delete(ctx context.Context, sessionID string) error {
	ctx, span := s.tracer.Start(ctx, "wizard.delete_draft")
	defer span.End()

	if err := s.redis.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("wizard: failed to delete snapshot: %w", err)
	}
	return nil
}

func sessionKey(id string) string {
	return fmt.Sprintf("wizard:session:%s", id)
}
