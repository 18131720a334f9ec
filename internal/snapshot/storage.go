package snapshot

import (
	"context"
	"errors"
)

// ErrSnapshotNotFound is returned by Load when no snapshot has been saved
// yet for the requested ledger.
var ErrSnapshotNotFound = errors.New("snapshot not found for ledger")

// Storage persists and retrieves serialized ledger snapshots.
type Storage interface {
	// WriteSnapshot stores the serialized ledger state under the given
	// ledger identifier. Writing the same identifier again overwrites the
	// previous snapshot.
	//
	// ctx controls cancellation and deadlines for any underlying I/O.
	WriteSnapshot(ctx context.Context, ledgerID string, data []byte) error

	// ReadSnapshot returns the serialized ledger state stored under the
	// given ledger identifier.
	//
	// If no snapshot exists for the ledger, ReadSnapshot should return
	// ErrSnapshotNotFound.
	//
	// ctx controls cancellation and deadlines for any underlying I/O.
	ReadSnapshot(ctx context.Context, ledgerID string) ([]byte, error)
}
