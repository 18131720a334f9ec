package node

import (
	"context"
	"errors"

	"github.com/gabapcia/chainledger/internal/ledger"
	"github.com/gabapcia/chainledger/internal/pkg/validator"
)

// transferOrder is the validated input for SendTransaction.
type transferOrder struct {
	From   string  `validate:"required"`
	To     string  `validate:"required"`
	Amount float64 `validate:"gt=0"`
}

// SendTransaction admits a transfer of amount between two wallets, charging
// the sender the chain fee on top, and persists the mutated balances. The
// admitted record is returned with its hash.
func (s *service) SendTransaction(ctx context.Context, from, to string, amount float64) (ledger.Transaction, error) {
	order := transferOrder{From: from, To: to, Amount: amount}
	if err := validator.Validate(order); err != nil {
		return ledger.Transaction{}, errors.Join(ledger.ErrInvalidTransaction, err)
	}

	var transaction ledger.Transaction
	err := s.withWritableChain(ctx, func(chain *ledger.Chain) error {
		var err error
		transaction, err = chain.AddTransaction(from, to, amount)
		return err
	})
	if err != nil {
		return ledger.Transaction{}, err
	}

	return transaction, nil
}

// Transaction looks up an admitted transaction by hash.
func (s *service) Transaction(ctx context.Context, hash string) (ledger.Transaction, error) {
	chain, err := s.loadChain(ctx)
	if err != nil {
		return ledger.Transaction{}, err
	}

	return chain.GetTransaction(hash)
}

// Transactions returns one page of the chain wide transaction index,
// flattened to a slice in admission order.
func (s *service) Transactions(ctx context.Context, page, size int) ([]ledger.Transaction, error) {
	chain, err := s.loadChain(ctx)
	if err != nil {
		return nil, err
	}

	return chain.GetTransactions(page, size).Values(), nil
}
