package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Pending snapshots live long enough to survive a checkout redirect plus a
// reasonable pause on the payment page.
const snapshotTTL = 2 * time.Hour

// Store persists wizard snapshots in Redis, keyed by the pending-purchase
// token that rides through checkout as client_reference_id.
type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func snapshotKey(token string) string {
	return "pending:" + token
}

// Save writes the snapshot with a fresh TTL, overwriting any previous value
// for the token.
func (s *Store) Save(ctx context.Context, token string, snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := s.rdb.Set(ctx, snapshotKey(token), data, snapshotTTL).Err(); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	log.Printf("💾 Snapshot saved: token=%s size=%d bytes ttl=%s", token, len(data), snapshotTTL)
	return nil
}

// Load fetches a snapshot. Returns (nil, nil) when the token is unknown or
// the snapshot expired.
func (s *Store) Load(ctx context.Context, token string) (*Snapshot, error) {
	data, err := s.rdb.Get(ctx, snapshotKey(token)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// Delete removes a snapshot once its purchase is settled.
func (s *Store) Delete(ctx context.Context, token string) error {
	if err := s.rdb.Del(ctx, snapshotKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

// MarkProcessed records that a checkout session has been settled. Returns
// true exactly once per session; repeat calls return false so payment-return
// handling stays idempotent.
func (s *Store) MarkProcessed(ctx context.Context, checkoutSessionID string) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, "processed:"+checkoutSessionID, time.Now().UTC().Format(time.RFC3339), 0).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark session processed: %w", err)
	}
	return ok, nil
}

// UnmarkProcessed releases the processed marker so a settlement that failed
// partway can be retried on the next visit.
func (s *Store) UnmarkProcessed(ctx context.Context, checkoutSessionID string) error {
	if err := s.rdb.Del(ctx, "processed:"+checkoutSessionID).Err(); err != nil {
		return fmt.Errorf("failed to unmark session processed: %w", err)
	}
	return nil
}
