package ledger

import "time"

// RootAddress is the sentinel sender of reward (coinbase) transactions. It is
// never a valid sender for peer-to-peer transfers.
const RootAddress = "Root"

// Transaction is an immutable value-transfer record. Its Hash is the content
// digest of the remaining fields, computed once at construction; the
// nanosecond timestamp is the per-transaction uniqueness source that keeps two
// otherwise identical transfers from colliding.
type Transaction struct {
	Hash      string  `json:"hash"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	Fee       float64 `json:"fee"`
	Amount    float64 `json:"amount"`
	Timestamp int64   `json:"timestamp"`
}

// transactionContent is the canonical serialized form a transaction's own
// hash is computed over. It mirrors Transaction minus the Hash field.
type transactionContent struct {
	From      string  `json:"from"`
	To        string  `json:"to"`
	Fee       float64 `json:"fee"`
	Amount    float64 `json:"amount"`
	Timestamp int64   `json:"timestamp"`
}

// newTransaction builds a transaction stamped with the current time and its
// content digest. No validation happens here; admission rules belong to the
// chain.
func newTransaction(from, to string, fee, amount float64) Transaction {
	tx := Transaction{
		From:      from,
		To:        to,
		Fee:       fee,
		Amount:    amount,
		Timestamp: time.Now().UnixNano(),
	}

	tx.Hash = Hash(transactionContent{
		From:      tx.From,
		To:        tx.To,
		Fee:       tx.Fee,
		Amount:    tx.Amount,
		Timestamp: tx.Timestamp,
	})

	return tx
}
