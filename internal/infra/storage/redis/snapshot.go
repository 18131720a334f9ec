package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/gabapcia/chainledger/internal/snapshot"

	"github.com/redis/go-redis/v9"
)

// snapshotKeyPrefix is the namespace prefix for all persisted ledger snapshots.
const snapshotKeyPrefix = "snapshot"

// snapshotLedgerKey constructs the Redis key holding the serialized chain of
// a specific ledger. The format is:
//
//	"snapshot:ledger:<ledgerID>"
func snapshotLedgerKey(ledgerID string) string {
	return fmt.Sprintf("%s:ledger:%s", snapshotKeyPrefix, ledgerID)
}

// WriteSnapshot stores the serialized chain under the ledger's snapshot key,
// replacing any previous snapshot. Snapshots never expire.
//
// Parameters:
//   - ctx: context for timeout and cancellation.
//   - ledgerID: the ledger whose snapshot is being written.
//   - data: the serialized chain.
//
// Returns:
//   - An error if the Redis operation fails.
func (c *client) WriteSnapshot(ctx context.Context, ledgerID string, data []byte) error {
	key := snapshotLedgerKey(ledgerID)
	return c.conn.Set(ctx, key, data, 0).Err()
}

// ReadSnapshot retrieves the serialized chain last written for the given
// ledger.
//
// If no snapshot exists yet, it returns snapshot.ErrSnapshotNotFound.
//
// Parameters:
//   - ctx: context for timeout and cancellation.
//   - ledgerID: the ledger whose snapshot is being read.
//
// Returns:
//   - The serialized chain, or an error if retrieval fails.
func (c *client) ReadSnapshot(ctx context.Context, ledgerID string) ([]byte, error) {
	key := snapshotLedgerKey(ledgerID)

	data, err := c.conn.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			err = snapshot.ErrSnapshotNotFound
		}

		return nil, err
	}

	return data, nil
}

// Compile-time assertion to ensure client implements the Storage interface.
var _ snapshot.Storage = new(client)
