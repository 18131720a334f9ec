// Package node operates a single ledger end to end: it owns the write path
// around the snapshot store, serializes state-changing operations behind a
// cross-process writer lease, runs the periodic sealing loop and fans sealed
// blocks out to the configured notifier.
package node

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gabapcia/chainledger/internal/ledger"
	"github.com/gabapcia/chainledger/internal/pkg/logger"
	"github.com/gabapcia/chainledger/internal/pkg/x/chflow"
	"github.com/gabapcia/chainledger/internal/snapshot"

	"github.com/google/uuid"
)

var (
	// ErrServiceAlreadyStarted is returned by Start when the sealing loop is
	// already running.
	ErrServiceAlreadyStarted = errors.New("service already started")

	// ErrInvalidSealInterval is returned by Start when the sealing interval
	// is not positive.
	ErrInvalidSealInterval = errors.New("seal interval must be positive")
)

const (
	// sealedBlockChannelBufferSize decouples sealing from notification
	// delivery so a slow notifier does not stall the next seal.
	sealedBlockChannelBufferSize = 5

	// defaultWriterLeaseTTL bounds how long a crashed writer can keep the
	// ledger locked.
	defaultWriterLeaseTTL = time.Minute
)

// Service exposes every ledger operation of the node.
type Service interface {
	// InitChain creates the ledger with the given economic parameters and
	// persists its first snapshot. It fails when a snapshot already exists.
	InitChain(ctx context.Context, difficulty, reward, fee float64) (ChainStatus, error)

	// Status summarizes the persisted ledger state.
	Status(ctx context.Context) (ChainStatus, error)

	// SealBlock mines one block onto the chain and persists the result.
	SealBlock(ctx context.Context) (SealedBlock, error)

	// UpdateDifficulty, UpdateReward and UpdateFee replace the economic
	// parameters used by future seals and transfers.
	UpdateDifficulty(ctx context.Context, difficulty float64) error
	UpdateReward(ctx context.Context, reward float64) error
	UpdateFee(ctx context.Context, fee float64) error

	// CreateWallet registers a wallet for the given owner email and returns
	// the stored record, generated address included.
	CreateWallet(ctx context.Context, email string) (ledger.Wallet, error)

	// Wallet, WalletBalance and WalletTransactions read a single wallet, its
	// balance and one page of its transaction history.
	Wallet(ctx context.Context, address string) (ledger.Wallet, error)
	WalletBalance(ctx context.Context, address string) (float64, error)
	WalletTransactions(ctx context.Context, address string, page, size int) ([]ledger.Transaction, error)

	// SendTransaction admits a fee-charged transfer between two wallets.
	SendTransaction(ctx context.Context, from, to string, amount float64) (ledger.Transaction, error)

	// Transaction and Transactions read a single admitted transaction and
	// one page of the chain wide index.
	Transaction(ctx context.Context, hash string) (ledger.Transaction, error)
	Transactions(ctx context.Context, page, size int) ([]ledger.Transaction, error)

	// Start launches the sealing loop, mining one block every sealInterval
	// and pushing each sealed block to the notifier. Close stops it.
	Start(ctx context.Context, sealInterval time.Duration) error
	Close()
}

type closeFunc func()

type service struct {
	mu        sync.Mutex
	isStarted bool
	closeFunc closeFunc

	// opMu serializes load-mutate-persist cycles within this process; the
	// writer lease serializes them across processes.
	opMu sync.Mutex

	ledgerID  string
	snapshots snapshot.Service
	lease     WriterLease
	notifier  BlockNotifier
	leaseTTL  time.Duration
}

var _ Service = (*service)(nil)

type config struct {
	lease    WriterLease
	notifier BlockNotifier
	leaseTTL time.Duration
}

// Option configures optional node collaborators.
type Option func(*config)

// WithWriterLease guards every state-changing operation with the given
// cross-process lease. Without it writes are only serialized within this
// process.
func WithWriterLease(l WriterLease) Option {
	return func(c *config) {
		c.lease = l
	}
}

// WithBlockNotifier delivers every sealed block produced by the sealing loop
// to the given notifier.
func WithBlockNotifier(n BlockNotifier) Option {
	return func(c *config) {
		c.notifier = n
	}
}

// WithWriterLeaseTTL overrides how long an acquired writer lease survives
// without being released. Default: one minute.
func WithWriterLeaseTTL(d time.Duration) Option {
	return func(c *config) {
		c.leaseTTL = d
	}
}

// New builds the node service for the ledger identified by ledgerID, backed
// by the given snapshot service.
func New(ledgerID string, snapshots snapshot.Service, opts ...Option) *service {
	cfg := config{
		lease:    nopWriterLease{},
		notifier: nopBlockNotifier{},
		leaseTTL: defaultWriterLeaseTTL,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &service{
		ledgerID:  ledgerID,
		snapshots: snapshots,
		lease:     cfg.lease,
		notifier:  cfg.notifier,
		leaseTTL:  cfg.leaseTTL,
	}
}

// releaseWriter gives the lease back, logging instead of failing the
// operation whose state change already succeeded.
func (s *service) releaseWriter(ctx context.Context, owner string) {
	if err := s.lease.ReleaseWriter(ctx, s.ledgerID, owner); err != nil {
		logger.Warn(ctx, "failed to release writer lease",
			"ledger.id", s.ledgerID,
			"lease.owner", owner,
			"error", err,
		)
	}
}

// loadChain fetches the persisted chain, mapping a missing snapshot to
// ErrChainNotInitialized.
func (s *service) loadChain(ctx context.Context) (*ledger.Chain, error) {
	chain, err := s.snapshots.Load(ctx, s.ledgerID)
	if err != nil {
		if errors.Is(err, snapshot.ErrSnapshotNotFound) {
			return nil, ErrChainNotInitialized
		}

		return nil, err
	}

	return chain, nil
}

// withWritableChain runs fn against the latest persisted chain while holding
// the writer lease, then persists the mutated chain. The snapshot write is
// skipped when fn fails, so a rejected mutation never reaches storage.
func (s *service) withWritableChain(ctx context.Context, fn func(chain *ledger.Chain) error) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	owner := uuid.NewString()
	if err := s.lease.AcquireWriter(ctx, s.ledgerID, owner, s.leaseTTL); err != nil {
		return err
	}
	defer s.releaseWriter(ctx, owner)

	chain, err := s.loadChain(ctx)
	if err != nil {
		return err
	}

	if err := fn(chain); err != nil {
		return err
	}

	return s.snapshots.Save(ctx, s.ledgerID, chain)
}

// sealOnInterval seals one block per tick and pushes each result to out. It
// owns the output channel and closes it on exit.
func (s *service) sealOnInterval(ctx context.Context, interval time.Duration, out chan<- SealedBlock) {
	defer close(out)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		block, err := s.SealBlock(ctx)
		if err != nil {
			logger.Error(ctx, "failed to seal block",
				"ledger.id", s.ledgerID,
				"error", err,
			)
			continue
		}

		logger.Info(ctx, "block sealed",
			"ledger.id", s.ledgerID,
			"block.height", block.Height,
			"block.hash", block.Hash,
		)

		if ok := chflow.Send(ctx, out, block); !ok {
			return
		}
	}
}

// startSealOnInterval launches sealOnInterval in its own goroutine.
func (s *service) startSealOnInterval(ctx context.Context, interval time.Duration, out chan<- SealedBlock) {
	go s.sealOnInterval(ctx, interval, out)
}

// notifySealedBlocks forwards each sealed block read from in to the
// configured notifier. Delivery failures are logged and never interrupt the
// loop; the block is already part of the chain.
func (s *service) notifySealedBlocks(ctx context.Context, in <-chan SealedBlock) {
	for {
		block, ok := chflow.Receive(ctx, in)
		if !ok {
			return
		}

		if err := s.notifier.NotifySealedBlock(ctx, block); err != nil {
			logger.Error(ctx, "failed to deliver sealed block notification",
				"ledger.id", s.ledgerID,
				"block.height", block.Height,
				"block.hash", block.Hash,
				"error", err,
			)
		}
	}
}

// startNotifySealedBlocks launches notifySealedBlocks in its own goroutine.
func (s *service) startNotifySealedBlocks(ctx context.Context, in <-chan SealedBlock) {
	go s.notifySealedBlocks(ctx, in)
}

// Start launches the background sealing pipeline: one goroutine mining a
// block every sealInterval and one delivering the results to the notifier.
// It fails when the loop is already running, the interval is not positive or
// the ledger was never initialized.
func (s *service) Start(ctx context.Context, sealInterval time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isStarted {
		return ErrServiceAlreadyStarted
	}

	if sealInterval <= 0 {
		return ErrInvalidSealInterval
	}

	if _, err := s.loadChain(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	sealedCh := make(chan SealedBlock, sealedBlockChannelBufferSize)

	s.closeFunc = closeFunc(cancel)

	s.startNotifySealedBlocks(ctx, sealedCh)
	s.startSealOnInterval(ctx, sealInterval, sealedCh)

	s.isStarted = true
	return nil
}

// Close stops the sealing pipeline. It is safe to call on a service that was
// never started.
func (s *service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closeFunc != nil {
		s.closeFunc()
	}
	s.isStarted = false
	s.closeFunc = nil
}
