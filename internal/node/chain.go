package node

import (
	"context"
	"errors"

	"github.com/gabapcia/chainledger/internal/ledger"
	"github.com/gabapcia/chainledger/internal/pkg/validator"
	"github.com/gabapcia/chainledger/internal/snapshot"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

var (
	// ErrChainNotInitialized is returned by every operation that needs an
	// existing ledger when no snapshot was ever saved.
	ErrChainNotInitialized = errors.New("chain not initialized for ledger")

	// ErrChainAlreadyInitialized is returned by InitChain when the ledger
	// already has a persisted snapshot.
	ErrChainAlreadyInitialized = errors.New("chain already initialized for ledger")
)

// chainParameters carries the economic settings a chain is created or
// updated with. Difficulty saturates at the digest length, so anything above
// 64 leading zeros is unmineable and rejected up front.
type chainParameters struct {
	Difficulty float64 `validate:"gte=0,lte=64"`
	Reward     float64 `validate:"gte=0"`
	Fee        float64 `validate:"gte=0"`
}

// ChainStatus summarizes the persisted ledger state.
type ChainStatus struct {
	Address          string  `json:"address"`
	Difficulty       float64 `json:"difficulty"`
	Reward           float64 `json:"reward"`
	Fee              float64 `json:"fee"`
	BlockCount       int     `json:"block_count"`
	WalletCount      int     `json:"wallet_count"`
	TransactionCount int     `json:"transaction_count"`
	LastHash         string  `json:"last_hash"`
}

// chainStatusFrom projects the chain aggregate into its status summary.
func chainStatusFrom(chain *ledger.Chain) ChainStatus {
	var status ChainStatus
	_ = copier.Copy(&status, chain)

	status.BlockCount = len(chain.Blocks)
	status.WalletCount = len(chain.Wallets)
	status.TransactionCount = chain.Transactions.Len()
	status.LastHash = chain.GetLastHash()

	return status
}

// InitChain creates the ledger with the given economic parameters, seals its
// genesis block and persists the first snapshot. The operation holds the
// writer lease while checking that no snapshot exists yet, so two concurrent
// inits cannot both win.
func (s *service) InitChain(ctx context.Context, difficulty, reward, fee float64) (ChainStatus, error) {
	params := chainParameters{Difficulty: difficulty, Reward: reward, Fee: fee}
	if err := validator.Validate(params); err != nil {
		return ChainStatus{}, errors.Join(ledger.ErrInvalidConfiguration, err)
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	owner := uuid.NewString()
	if err := s.lease.AcquireWriter(ctx, s.ledgerID, owner, s.leaseTTL); err != nil {
		return ChainStatus{}, err
	}
	defer s.releaseWriter(ctx, owner)

	_, err := s.snapshots.Load(ctx, s.ledgerID)
	switch {
	case err == nil:
		return ChainStatus{}, ErrChainAlreadyInitialized
	case !errors.Is(err, snapshot.ErrSnapshotNotFound):
		return ChainStatus{}, err
	}

	chain := ledger.New(difficulty, reward, fee)
	if err := s.snapshots.Save(ctx, s.ledgerID, chain); err != nil {
		return ChainStatus{}, err
	}

	return chainStatusFrom(chain), nil
}

// Status summarizes the persisted ledger state.
func (s *service) Status(ctx context.Context) (ChainStatus, error) {
	chain, err := s.loadChain(ctx)
	if err != nil {
		return ChainStatus{}, err
	}

	return chainStatusFrom(chain), nil
}

// SealBlock mines one block onto the chain at the current difficulty and
// persists the grown chain.
func (s *service) SealBlock(ctx context.Context) (SealedBlock, error) {
	var sealed SealedBlock

	err := s.withWritableChain(ctx, func(chain *ledger.Chain) error {
		block := chain.GenerateNewBlock()
		sealed = sealedBlockFrom(len(chain.Blocks)-1, block)
		return nil
	})
	if err != nil {
		return SealedBlock{}, err
	}

	return sealed, nil
}

// UpdateDifficulty replaces the sealing difficulty used by future blocks.
func (s *service) UpdateDifficulty(ctx context.Context, difficulty float64) error {
	if err := validator.Validate(chainParameters{Difficulty: difficulty}); err != nil {
		return errors.Join(ledger.ErrInvalidConfiguration, err)
	}

	return s.withWritableChain(ctx, func(chain *ledger.Chain) error {
		chain.UpdateDifficulty(difficulty)
		return nil
	})
}

// UpdateReward replaces the amount minted by future reward transactions.
func (s *service) UpdateReward(ctx context.Context, reward float64) error {
	if err := validator.Validate(chainParameters{Reward: reward}); err != nil {
		return errors.Join(ledger.ErrInvalidConfiguration, err)
	}

	return s.withWritableChain(ctx, func(chain *ledger.Chain) error {
		chain.UpdateReward(reward)
		return nil
	})
}

// UpdateFee replaces the rate charged on future transfers.
func (s *service) UpdateFee(ctx context.Context, fee float64) error {
	if err := validator.Validate(chainParameters{Fee: fee}); err != nil {
		return errors.Join(ledger.ErrInvalidConfiguration, err)
	}

	return s.withWritableChain(ctx, func(chain *ledger.Chain) error {
		chain.UpdateFee(fee)
		return nil
	})
}
