package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gabapcia/chainledger/internal/node"

	"github.com/redis/go-redis/v9"
)

// leaseKeyPrefix is the Redis key namespace used for ledger writer leases.
const leaseKeyPrefix = "lease"

// writerLeaseKey builds the Redis key tracking which owner currently holds
// write access to a ledger. The format is:
//
//	"lease:writer:<ledgerID>"
func writerLeaseKey(ledgerID string) string {
	return fmt.Sprintf("%s:writer:%s", leaseKeyPrefix, ledgerID)
}

// AcquireWriter claims the writer lease for a ledger on behalf of owner.
//
// Behavior:
//   - If no lease exists, the owner is recorded with the given TTL.
//   - If the same owner already holds the lease, the TTL is refreshed.
//   - If a different owner holds the lease, it returns node.ErrWriterLeaseHeld.
//
// The claim is a GET followed by SET NX, so two new owners racing for the
// same free lease resolve on the SET NX and the loser gets
// node.ErrWriterLeaseHeld.
//
// Returns:
//   - nil if owner holds the lease when the call returns.
//   - node.ErrWriterLeaseHeld if a different owner holds it.
//   - any other error if the Redis operation fails.
func (c *client) AcquireWriter(ctx context.Context, ledgerID, owner string, ttl time.Duration) error {
	key := writerLeaseKey(ledgerID)

	current, err := c.conn.Get(ctx, key).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}

	if errors.Is(err, redis.Nil) {
		ok, err := c.conn.SetNX(ctx, key, owner, ttl).Result()
		if err != nil {
			return err
		}

		if !ok {
			return node.ErrWriterLeaseHeld
		}

		return nil
	}

	if current != owner {
		return node.ErrWriterLeaseHeld
	}

	return c.conn.Set(ctx, key, owner, ttl).Err()
}

// ReleaseWriter deletes the lease if owner still holds it. Releasing a lease
// that already expired or moved to another owner is not an error.
func (c *client) ReleaseWriter(ctx context.Context, ledgerID, owner string) error {
	key := writerLeaseKey(ledgerID)

	current, err := c.conn.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}

		return err
	}

	if current != owner {
		return nil
	}

	return c.conn.Del(ctx, key).Err()
}

// Ensure the client satisfies the WriterLease interface at compile time.
var _ node.WriterLease = new(client)
