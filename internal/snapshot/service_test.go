package snapshot

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gabapcia/chainledger/internal/ledger"
	"github.com/gabapcia/chainledger/internal/pkg/resilience/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStorage is an in-memory Storage with failure injection for the first
// N calls of each operation.
type fakeStorage struct {
	mu         sync.Mutex
	snapshots  map[string][]byte
	writeCalls int
	readCalls  int
	failWrites int
	failReads  int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{snapshots: make(map[string][]byte)}
}

func (f *fakeStorage) WriteSnapshot(_ context.Context, ledgerID string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.writeCalls++
	if f.failWrites > 0 {
		f.failWrites--
		return errors.New("storage unavailable")
	}

	f.snapshots[ledgerID] = data
	return nil
}

func (f *fakeStorage) ReadSnapshot(_ context.Context, ledgerID string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.readCalls++
	if f.failReads > 0 {
		f.failReads--
		return nil, errors.New("storage unavailable")
	}

	data, ok := f.snapshots[ledgerID]
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	return data, nil
}

var _ Storage = (*fakeStorage)(nil)

// fastRetry builds a retry mechanism with millisecond delays so tests stay
// quick.
func fastRetry(attempts uint) retry.Retry {
	return retry.New(
		retry.WithAttempts(attempts),
		retry.WithDelay(1*time.Millisecond),
		retry.WithMaxDelay(5*time.Millisecond),
	)
}

// buildChain returns a chain with two funded wallets, one admitted transfer
// and two sealed blocks, enough structure to make round trips meaningful.
func buildChain(t *testing.T) *ledger.Chain {
	t.Helper()

	chain := ledger.New(0, 50, 0.02)

	from := chain.CreateWallet("sender@example.com")
	to := chain.CreateWallet("receiver@example.com")
	chain.Wallets[from].Balance = 500

	_, err := chain.AddTransaction(from, to, 100)
	require.NoError(t, err)

	chain.GenerateNewBlock()

	return chain
}

func TestService_Save(t *testing.T) {
	t.Run("persists the serialized chain", func(t *testing.T) {
		storage := newFakeStorage()
		svc := New(storage)
		chain := buildChain(t)

		err := svc.Save(t.Context(), "ledger-1", chain)
		require.NoError(t, err)

		assert.Equal(t, 1, storage.writeCalls)
		assert.NotEmpty(t, storage.snapshots["ledger-1"])
	})

	t.Run("overwrites a previous snapshot", func(t *testing.T) {
		storage := newFakeStorage()
		svc := New(storage)
		chain := buildChain(t)

		require.NoError(t, svc.Save(t.Context(), "ledger-1", chain))
		first := storage.snapshots["ledger-1"]

		chain.GenerateNewBlock()
		require.NoError(t, svc.Save(t.Context(), "ledger-1", chain))

		assert.NotEqual(t, first, storage.snapshots["ledger-1"])
	})

	t.Run("retries transient write failures", func(t *testing.T) {
		storage := newFakeStorage()
		storage.failWrites = 2
		svc := New(storage, WithRetry(fastRetry(3)))

		err := svc.Save(t.Context(), "ledger-1", buildChain(t))
		require.NoError(t, err)

		assert.Equal(t, 3, storage.writeCalls)
		assert.NotEmpty(t, storage.snapshots["ledger-1"])
	})

	t.Run("fails on the first attempt without retry", func(t *testing.T) {
		storage := newFakeStorage()
		storage.failWrites = 1
		svc := New(storage)

		err := svc.Save(t.Context(), "ledger-1", buildChain(t))
		assert.Error(t, err)
		assert.Equal(t, 1, storage.writeCalls)
	})

	t.Run("surfaces the error when retries are exhausted", func(t *testing.T) {
		storage := newFakeStorage()
		storage.failWrites = 5
		svc := New(storage, WithRetry(fastRetry(3)))

		err := svc.Save(t.Context(), "ledger-1", buildChain(t))
		assert.Error(t, err)
		assert.Equal(t, 3, storage.writeCalls)
	})
}

func TestService_Load(t *testing.T) {
	t.Run("restores a saved chain", func(t *testing.T) {
		storage := newFakeStorage()
		svc := New(storage)
		chain := buildChain(t)

		require.NoError(t, svc.Save(t.Context(), "ledger-1", chain))

		restored, err := svc.Load(t.Context(), "ledger-1")
		require.NoError(t, err)

		assert.Equal(t, chain.GetLastHash(), restored.GetLastHash())
		assert.Equal(t, chain.Address, restored.Address)
		assert.Equal(t, chain.Difficulty, restored.Difficulty)
		assert.Equal(t, chain.Reward, restored.Reward)
		assert.Equal(t, chain.Fee, restored.Fee)
		assert.Len(t, restored.Blocks, len(chain.Blocks))
		assert.Equal(t, chain.Transactions.Keys(), restored.Transactions.Keys())

		for address, wallet := range chain.Wallets {
			restoredWallet, ok := restored.Wallets[address]
			require.True(t, ok, "wallet %s should survive the round trip", address)
			assert.Equal(t, wallet.ID, restoredWallet.ID)
			assert.Equal(t, wallet.Balance, restoredWallet.Balance)
			assert.Equal(t, wallet.TransactionHashes, restoredWallet.TransactionHashes)
		}
	})

	t.Run("restored chain stays operational", func(t *testing.T) {
		storage := newFakeStorage()
		svc := New(storage)
		chain := buildChain(t)

		require.NoError(t, svc.Save(t.Context(), "ledger-1", chain))

		restored, err := svc.Load(t.Context(), "ledger-1")
		require.NoError(t, err)

		previousHeight := len(restored.Blocks)
		block := restored.GenerateNewBlock()

		assert.Len(t, restored.Blocks, previousHeight+1)
		assert.Equal(t, chain.GetLastHash(), block.Header.PreviousHash)
	})

	t.Run("missing snapshot", func(t *testing.T) {
		storage := newFakeStorage()
		svc := New(storage)

		_, err := svc.Load(t.Context(), "unknown")
		assert.ErrorIs(t, err, ErrSnapshotNotFound)
	})

	t.Run("missing snapshot is not retried", func(t *testing.T) {
		storage := newFakeStorage()
		svc := New(storage, WithRetry(fastRetry(3)))

		_, err := svc.Load(t.Context(), "unknown")
		assert.ErrorIs(t, err, ErrSnapshotNotFound)
		assert.Equal(t, 1, storage.readCalls)
	})

	t.Run("retries transient read failures", func(t *testing.T) {
		storage := newFakeStorage()
		svc := New(storage, WithRetry(fastRetry(3)))

		require.NoError(t, svc.Save(t.Context(), "ledger-1", buildChain(t)))

		storage.failReads = 1
		restored, err := svc.Load(t.Context(), "ledger-1")
		require.NoError(t, err)
		assert.NotNil(t, restored)
		assert.Equal(t, 2, storage.readCalls)
	})

	t.Run("corrupted snapshot", func(t *testing.T) {
		storage := newFakeStorage()
		storage.snapshots["ledger-1"] = []byte("{not json")
		svc := New(storage)

		_, err := svc.Load(t.Context(), "ledger-1")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrSnapshotNotFound)
	})
}
