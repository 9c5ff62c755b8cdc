package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/payengine/internal/domain"
)

// Hash fields of a stored account snapshot.
const (
	fieldRunID     = "run_id"
	fieldAvailable = "available"
	fieldHeld      = "held"
	fieldTotal     = "total"
	fieldLocked    = "locked"
)

// SnapshotStore caches the latest account snapshot in Redis hashes. The
// <prefix>accounts set always lists exactly the clients of <prefix>last_run.
type SnapshotStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewSnapshotStore creates a new SnapshotStore. A zero ttl keeps keys forever.
func NewSnapshotStore(client redis.UniversalClient, prefix string, ttl time.Duration) *SnapshotStore {
	return &SnapshotStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Name implements usecase.SnapshotSink.
func (s *SnapshotStore) Name() string {
	return "redis"
}

func (s *SnapshotStore) accountKey(client string) string {
	return s.prefix + "account:" + client
}

func (s *SnapshotStore) accountsKey() string {
	return s.prefix + "accounts"
}

func (s *SnapshotStore) lastRunKey() string {
	return s.prefix + "last_run"
}

// Write replaces the stored snapshot with accounts. Hashes of clients absent
// from this run are deleted in the same MULTI/EXEC, which is retried when a
// concurrent writer changes the client set in between.
func (s *SnapshotStore) Write(ctx context.Context, runID string, accounts []domain.AccountSnapshot) error {
	current := make(map[string]struct{}, len(accounts))
	for _, acc := range accounts {
		current[strconv.FormatUint(uint64(acc.Client), 10)] = struct{}{}
	}

	txf := func(tx *redis.Tx) error {
		previous, err := tx.SMembers(ctx, s.accountsKey()).Result()
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, client := range previous {
				if _, ok := current[client]; !ok {
					pipe.Del(ctx, s.accountKey(client))
				}
			}
			pipe.Del(ctx, s.accountsKey())

			for _, acc := range accounts {
				client := strconv.FormatUint(uint64(acc.Client), 10)
				key := s.accountKey(client)
				pipe.HSet(ctx, key,
					fieldRunID, runID,
					fieldAvailable, domain.FormatAmount(acc.Available),
					fieldHeld, domain.FormatAmount(acc.Held),
					fieldTotal, domain.FormatAmount(acc.Total),
					fieldLocked, strconv.FormatBool(acc.Locked),
				)
				pipe.SAdd(ctx, s.accountsKey(), client)
				if s.ttl > 0 {
					pipe.Expire(ctx, key, s.ttl)
				}
			}
			if s.ttl > 0 && len(accounts) > 0 {
				pipe.Expire(ctx, s.accountsKey(), s.ttl)
			}
			pipe.Set(ctx, s.lastRunKey(), runID, s.ttl)
			return nil
		})
		return err
	}

	const maxAttempts = 3
	var err error
	for range maxAttempts {
		err = s.client.Watch(ctx, txf, s.accountsKey())
		if err != redis.TxFailedErr {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("store snapshot %s: %w", runID, err)
	}
	return nil
}
