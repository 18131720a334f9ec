// Package snapshot persists whole-ledger state between process runs. The
// chain aggregate is serialized to JSON and handed to a Storage
// implementation keyed by ledger identifier, optionally retrying transient
// storage failures.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gabapcia/chainledger/internal/ledger"
	"github.com/gabapcia/chainledger/internal/pkg/resilience/retry"
)

// Service saves and restores ledger snapshots.
type Service interface {
	// Save serializes the chain and stores it under the given ledger
	// identifier, replacing any previous snapshot.
	Save(ctx context.Context, ledgerID string, chain *ledger.Chain) error

	// Load restores the chain stored under the given ledger identifier. It
	// returns ErrSnapshotNotFound when no snapshot exists yet.
	Load(ctx context.Context, ledgerID string) (*ledger.Chain, error)
}

type service struct {
	storage Storage
	retry   retry.Retry
}

var _ Service = (*service)(nil)

type config struct {
	retry retry.Retry
}

// Option configures optional snapshot service behavior.
type Option func(*config)

// WithRetry makes storage reads and writes retry transient failures using
// the given retry mechanism. Without it every storage error surfaces on the
// first attempt.
func WithRetry(r retry.Retry) Option {
	return func(c *config) {
		c.retry = r
	}
}

// New builds a snapshot service on top of the given storage.
func New(storage Storage, opts ...Option) *service {
	cfg := config{
		retry: nil,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &service{
		storage: storage,
		retry:   cfg.retry,
	}
}

// execute runs operation directly, or through the configured retry mechanism
// when one is set.
func (s *service) execute(ctx context.Context, operation func() error) error {
	if s.retry == nil {
		return operation()
	}

	return s.retry.Execute(ctx, operation)
}

// Save serializes the chain to JSON and writes it to storage under ledgerID.
func (s *service) Save(ctx context.Context, ledgerID string, chain *ledger.Chain) error {
	data, err := json.Marshal(chain)
	if err != nil {
		return err
	}

	return s.execute(ctx, func() error {
		return s.storage.WriteSnapshot(ctx, ledgerID, data)
	})
}

// Load reads the snapshot stored under ledgerID and rebuilds the chain from
// it. A missing snapshot is terminal; only other storage errors are retried.
func (s *service) Load(ctx context.Context, ledgerID string) (*ledger.Chain, error) {
	var (
		data     []byte
		notFound bool
	)

	err := s.execute(ctx, func() error {
		var err error
		data, err = s.storage.ReadSnapshot(ctx, ledgerID)
		if errors.Is(err, ErrSnapshotNotFound) {
			notFound = true
			return nil
		}

		return err
	})
	if err != nil {
		return nil, err
	}
	if notFound {
		return nil, ErrSnapshotNotFound
	}

	var chain ledger.Chain
	if err := json.Unmarshal(data, &chain); err != nil {
		return nil, err
	}

	return &chain, nil
}
