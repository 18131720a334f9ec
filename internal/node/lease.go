package node

import (
	"context"
	"errors"
	"time"
)

// ErrWriterLeaseHeld is returned by AcquireWriter when another owner
// currently holds the writer lease for the ledger.
var ErrWriterLeaseHeld = errors.New("writer lease held by another owner")

// WriterLease grants exclusive write access to a ledger across processes.
// Every state-changing operation acquires the lease before loading the
// snapshot and releases it after persisting.
type WriterLease interface {
	// AcquireWriter claims the writer lease for the given ledger on behalf
	// of owner. The lease expires on its own after ttl, so a crashed writer
	// cannot block the ledger forever.
	//
	// Re-acquiring a lease already held by the same owner should succeed
	// and refresh the expiration.
	//
	// If a different owner holds the lease, AcquireWriter should return
	// ErrWriterLeaseHeld.
	AcquireWriter(ctx context.Context, ledgerID, owner string, ttl time.Duration) error

	// ReleaseWriter gives the lease back. Releasing a lease the owner no
	// longer holds is not an error.
	ReleaseWriter(ctx context.Context, ledgerID, owner string) error
}

// nopWriterLease is a no-op WriterLease for single-process setups. Every
// acquire succeeds immediately.
type nopWriterLease struct{}

// AcquireWriter always succeeds.
func (nopWriterLease) AcquireWriter(_ context.Context, _, _ string, _ time.Duration) error {
	return nil
}

// ReleaseWriter is a no-op.
func (nopWriterLease) ReleaseWriter(_ context.Context, _, _ string) error {
	return nil
}
