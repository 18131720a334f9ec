package ledger

import "errors"

var (
	// ErrTransactionNotFound indicates that no transaction exists under the
	// requested hash.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrInvalidTransaction indicates that a submitted transaction failed the
	// validation predicate and no state was mutated.
	ErrInvalidTransaction = errors.New("invalid transaction")

	// ErrInvalidConfiguration indicates construction-time misconfiguration of
	// the ledger (e.g. negative difficulty, reward or fee).
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInsufficientFunds indicates that the sender's balance could not cover
	// the fee-adjusted total at application time.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrWalletNotFound indicates that no wallet exists under the requested
	// address.
	ErrWalletNotFound = errors.New("wallet not found")
)
