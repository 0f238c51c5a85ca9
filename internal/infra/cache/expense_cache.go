package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mkrupp/expensetracker/internal/domain"
)

const (
	keyOwnerList  = "expenses:owner:"
	suffixVersion = ":version"
)

// ExpenseCache caches each owner's expense list in Redis.
type ExpenseCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewExpenseCache returns a new ExpenseCache.
func NewExpenseCache(rdb *redis.Client, ttl time.Duration) *ExpenseCache {
	return &ExpenseCache{rdb: rdb, ttl: ttl}
}

// ListKey returns the cache key of the owner's expense list.
func ListKey(ownerID int64) string {
	return keyOwnerList + strconv.FormatInt(ownerID, 10)
}

// VersionKey returns the key of the owner's list version, bumped by every Invalidate.
func VersionKey(ownerID int64) string {
	return ListKey(ownerID) + suffixVersion
}

// GetList returns the cached list and true, or false on a miss.
func (c *ExpenseCache) GetList(ctx context.Context, ownerID int64) ([]domain.Expense, bool, error) {
	b, err := c.rdb.Get(ctx, ListKey(ownerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var list []domain.Expense
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, false, fmt.Errorf("unmarshal list: %w", err)
	}

	return list, true, nil
}

// Version returns the owner's current list version. A missing version is zero.
func (c *ExpenseCache) Version(ctx context.Context, ownerID int64) (int64, error) {
	v, err := c.rdb.Get(ctx, VersionKey(ownerID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}

	if err != nil {
		return 0, fmt.Errorf("redis get version: %w", err)
	}

	return v, nil
}

// SetList stores the owner's list if the version is still the one read before loading it.
// A list loaded before a later Invalidate is silently dropped.
func (c *ExpenseCache) SetList(ctx context.Context, ownerID, version int64, list []domain.Expense) error {
	b, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("marshal list: %w", err)
	}

	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, VersionKey(ownerID)).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("get version: %w", err)
		}

		if current != version {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, ListKey(ownerID), b, c.ttl)

			return nil
		})

		return err //nolint:wrapcheck
	}, VersionKey(ownerID))
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}

// Invalidate bumps the owner's list version and drops the cached list.
func (c *ExpenseCache) Invalidate(ctx context.Context, ownerID int64) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, VersionKey(ownerID))
		pipe.Del(ctx, ListKey(ownerID))

		return nil
	})
	if err != nil {
		return fmt.Errorf("redis invalidate: %w", err)
	}

	return nil
}
