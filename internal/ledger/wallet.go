package ledger

import "github.com/google/uuid"

// Wallet is a mutable account record keyed by its generated address. Balance
// non-negativity is maintained by the chain's admission checks, not by the
// type itself: a wallet mutated from outside the chain can carry any balance.
type Wallet struct {
	ID      uuid.UUID `json:"id"`
	Email   string    `json:"email"`
	Address string    `json:"address"`
	Balance float64   `json:"balance"`

	// TransactionHashes is the append-only history of transactions this
	// wallet took part in, referencing the chain-wide transaction map.
	TransactionHashes []string `json:"transaction_hashes"`
}

// newWallet builds a wallet with a fresh random id, a zero balance and an
// empty history. Email and address are stored as given; uniqueness of the
// email is the caller's responsibility.
func newWallet(email, address string) *Wallet {
	return &Wallet{
		ID:                uuid.New(),
		Email:             email,
		Address:           address,
		Balance:           0,
		TransactionHashes: make([]string, 0),
	}
}
