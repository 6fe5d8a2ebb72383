// Package demostore keeps demo identities and everything they own in redis,
// one JSON document per identity and concern, with no expiry. Writes go
// through optimistic WATCH/MULTI transactions so concurrent requests for the
// same identity serialize on its key.
package demostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clozet/clozet-backend/internal/app/model"
	"github.com/clozet/clozet-backend/internal/app/store"
	"github.com/clozet/clozet-backend/pkg/logger"
	appredis "github.com/clozet/clozet-backend/pkg/redis"
	"github.com/redis/go-redis/v9"
)

const maxTxAttempts = 5

func userKey(id string) string      { return "demoUser:" + id }
func profileKey(id string) string   { return "demoProfile:" + id }
func addressesKey(id string) string { return "demoAddresses:" + id }
func cartKey(id string) string      { return "demoCart:" + id }

type Store struct {
	client *redis.Client
	now    func() time.Time
}

func New(client *redis.Client) *Store {
	return &Store{client: client, now: time.Now}
}

// Stores exposes the demo backends for the store selector.
func (s *Store) Stores() store.Stores {
	return store.Stores{
		Addresses: s,
		Profiles:  s,
		Carts:     s,
	}
}

// SaveIdentity persists a demo identity so later requests resolve it until sign-out.
func (s *Store) SaveIdentity(ctx context.Context, identity *model.Identity) error {
	return appredis.SetJSON(ctx, s.client, userKey(identity.ID), identity, 0)
}

func (s *Store) LoadIdentity(ctx context.Context, id string) (*model.Identity, error) {
	var identity model.Identity
	if err := appredis.GetJSON(ctx, s.client, userKey(id), &identity); err != nil {
		if errors.Is(err, appredis.ErrNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	identity.Demo = true
	return &identity, nil
}

// DeleteIdentity drops the demoUser record. Profile, addresses and cart stay keyed by the id.
func (s *Store) DeleteIdentity(ctx context.Context, id string) error {
	return s.client.Del(ctx, userKey(id)).Err()
}

// readList decodes a JSON array key, treating a missing key as empty.
func readList[T any](ctx context.Context, c appredis.Getter, key string) ([]T, error) {
	var items []T
	err := appredis.GetJSON(ctx, c, key, &items)
	if errors.Is(err, appredis.ErrNotFound) {
		return []T{}, nil
	}
	return items, err
}

// mutateList runs fn over the list stored at key inside a WATCH transaction
// and writes the result back. fn may return an error to abort without writing.
func mutateList[T any](ctx context.Context, c *redis.Client, key string, fn func([]T) ([]T, error)) error {
	txf := func(tx *redis.Tx) error {
		items, err := readList[T](ctx, tx, key)
		if err != nil {
			return err
		}
		updated, err := fn(items)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if len(updated) == 0 {
				pipe.Del(ctx, key)
				return nil
			}
			return appredis.SetJSON(ctx, pipe, key, updated, 0)
		})
		return err
	}

	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err := c.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			logger.Debug("Demo store transaction conflict, retrying", map[string]interface{}{
				"key":     key,
				"attempt": attempt + 1,
			})
			continue
		}
		return err
	}
	return fmt.Errorf("demo store: too much contention on %s", key)
}
