package node

import (
	"context"

	"github.com/gabapcia/chainledger/internal/ledger"
	"github.com/gabapcia/chainledger/internal/pkg/validator"

	"github.com/jinzhu/copier"
)

// walletRegistration is the validated input for CreateWallet.
type walletRegistration struct {
	Email string `validate:"required,email"`
}

// detachWallet deep copies a wallet out of the chain aggregate, so callers
// never hold references into ledger state.
func detachWallet(wallet *ledger.Wallet) (ledger.Wallet, error) {
	var out ledger.Wallet
	err := copier.CopyWithOption(&out, wallet, copier.Option{DeepCopy: true})
	return out, err
}

// CreateWallet registers a wallet owned by the given email and persists the
// grown wallet set. It returns the stored record, generated address included.
func (s *service) CreateWallet(ctx context.Context, email string) (ledger.Wallet, error) {
	if err := validator.Validate(walletRegistration{Email: email}); err != nil {
		return ledger.Wallet{}, err
	}

	var wallet ledger.Wallet
	err := s.withWritableChain(ctx, func(chain *ledger.Chain) error {
		address := chain.CreateWallet(email)

		var err error
		wallet, err = detachWallet(chain.Wallets[address])
		return err
	})
	if err != nil {
		return ledger.Wallet{}, err
	}

	return wallet, nil
}

// Wallet returns the wallet registered under address.
func (s *service) Wallet(ctx context.Context, address string) (ledger.Wallet, error) {
	chain, err := s.loadChain(ctx)
	if err != nil {
		return ledger.Wallet{}, err
	}

	stored, ok := chain.Wallets[address]
	if !ok {
		return ledger.Wallet{}, ledger.ErrWalletNotFound
	}

	return detachWallet(stored)
}

// WalletBalance returns the current balance of the wallet registered under
// address.
func (s *service) WalletBalance(ctx context.Context, address string) (float64, error) {
	chain, err := s.loadChain(ctx)
	if err != nil {
		return 0, err
	}

	return chain.GetWalletBalance(address)
}

// WalletTransactions returns one page of the wallet's transaction history,
// oldest first.
func (s *service) WalletTransactions(ctx context.Context, address string, page, size int) ([]ledger.Transaction, error) {
	chain, err := s.loadChain(ctx)
	if err != nil {
		return nil, err
	}

	return chain.GetWalletTransactions(address, page, size)
}
