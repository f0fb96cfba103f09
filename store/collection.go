package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"workboard-service/logging"
	"workboard-service/models"
)

// SchemaVersion tags every persisted envelope so the payload shape can evolve
// without the adapter mistaking old data for corruption.
const SchemaVersion = 1

// envelope is the persisted form of one collection. Revision increments on
// every save and backs the optimistic concurrency check: two overlapping
// load-then-save sequences against the same key no longer end in a silent
// lost update, the second save fails with models.ErrConflict.
type envelope struct {
	SchemaVersion int             `json:"schemaVersion"`
	Revision      uint64          `json:"revision"`
	Items         json.RawMessage `json:"items"`
}

// LoadCollection reads the collection stored under key and returns its items
// together with the revision to hand back to SaveCollection. An absent key,
// an empty payload, or a payload that does not parse all come back as an empty
// collection at revision 0 — stale or foreign data is tolerated, not fatal.
func LoadCollection[T any](ctx context.Context, s Store, key string) ([]T, uint64, error) {
	raw, err := s.Get(ctx, key)
	if err != nil || raw == "" {
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			logging.Logger.Warnf("Event ID: COLLECTION_READ_FAILED, Description: Reading key '%s' failed, returning empty collection: %v", key, err)
		}
		return []T{}, 0, nil
	}

	env, ok := decodeEnvelope(key, raw)
	if !ok {
		return []T{}, 0, nil
	}

	var items []T
	if len(env.Items) > 0 {
		if err := json.Unmarshal(env.Items, &items); err != nil {
			logging.Logger.Warnf("Event ID: COLLECTION_PARSE_FAILED, Description: Discarding unparsable items under key '%s': %v", key, err)
			return []T{}, env.Revision, nil
		}
	}
	if items == nil {
		items = []T{}
	}
	return items, env.Revision, nil
}

// SaveCollection serializes items and overwrites the collection under key.
// rev must be the revision returned by the LoadCollection call that produced
// items; a mismatch with the currently stored revision fails with
// models.ErrConflict and the mutation must be retried from a fresh load.
func SaveCollection[T any](ctx context.Context, s Store, key string, items []T, rev uint64) error {
	current := currentRevision(ctx, s, key)
	if current != rev {
		return fmt.Errorf("key %q: stored revision %d, expected %d: %w", key, current, rev, models.ErrConflict)
	}

	rawItems, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal collection %q: %w", key, err)
	}
	payload, err := json.Marshal(envelope{
		SchemaVersion: SchemaVersion,
		Revision:      rev + 1,
		Items:         rawItems,
	})
	if err != nil {
		return fmt.Errorf("marshal envelope %q: %w", key, err)
	}

	if err := s.Set(ctx, key, string(payload)); err != nil {
		return fmt.Errorf("key %q: %v: %w", key, err, models.ErrStoreWrite)
	}
	return nil
}

func currentRevision(ctx context.Context, s Store, key string) uint64 {
	raw, err := s.Get(ctx, key)
	if err != nil || raw == "" {
		return 0
	}
	if env, ok := decodeEnvelope(key, raw); ok {
		return env.Revision
	}
	return 0
}

// decodeEnvelope accepts the current envelope version and the legacy layout
// where the payload was a bare JSON array. Any other schema version is treated
// as corrupt rather than guessed at.
func decodeEnvelope(key, raw string) (envelope, bool) {
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err == nil && env.SchemaVersion != 0 {
		if env.SchemaVersion != SchemaVersion {
			logging.Logger.Warnf("Event ID: COLLECTION_VERSION_MISMATCH, Description: Key '%s' carries schema version %d, expected %d, treating as empty collection", key, env.SchemaVersion, SchemaVersion)
			return envelope{}, false
		}
		return env, true
	}

	var legacy json.RawMessage
	if err := json.Unmarshal([]byte(raw), &legacy); err == nil && len(legacy) > 0 && legacy[0] == '[' {
		return envelope{SchemaVersion: SchemaVersion, Revision: 0, Items: legacy}, true
	}

	logging.Logger.Warnf("Event ID: COLLECTION_CORRUPT, Description: Treating corrupt payload under key '%s' as empty collection", key)
	return envelope{}, false
}

// LoadObject reads a single JSON object stored under key, e.g. the current
// session. A missing key is models.ErrNotFound; corruption is too, since the
// caller treats both as "no object".
func LoadObject[T any](ctx context.Context, s Store, key string, out *T) error {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("key %q: %w", key, models.ErrNotFound)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("key %q unparsable: %w", key, models.ErrNotFound)
	}
	return nil
}

// SaveObject overwrites the single JSON object stored under key.
func SaveObject[T any](ctx context.Context, s Store, key string, value T) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal object %q: %w", key, err)
	}
	if err := s.Set(ctx, key, string(payload)); err != nil {
		return fmt.Errorf("key %q: %v: %w", key, err, models.ErrStoreWrite)
	}
	return nil
}

// DeleteObject removes the object under key. Deleting an absent key succeeds.
func DeleteObject(ctx context.Context, s Store, key string) error {
	if err := s.Delete(ctx, key); err != nil && !errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("key %q: %v: %w", key, err, models.ErrStoreWrite)
	}
	return nil
}
