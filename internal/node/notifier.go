package node

import (
	"context"

	"github.com/gabapcia/chainledger/internal/ledger"
)

// SealedBlock is the notification payload describing a block right after it
// was sealed onto the chain. Height is the block's position in the chain,
// with genesis at 0, and Hash is the digest of the sealed header.
type SealedBlock struct {
	Height       int                  `json:"height"`
	Hash         string               `json:"hash"`
	Header       ledger.BlockHeader   `json:"header"`
	Transactions []ledger.Transaction `json:"transactions"`
}

// sealedBlockFrom builds the notification payload for the block sealed at
// the given height.
func sealedBlockFrom(height int, block *ledger.Block) SealedBlock {
	return SealedBlock{
		Height:       height,
		Hash:         ledger.Hash(block.Header),
		Header:       block.Header,
		Transactions: block.Transactions.Values(),
	}
}

// BlockNotifier delivers sealed block notifications to interested parties.
type BlockNotifier interface {
	// NotifySealedBlock pushes the sealed block to the notification target.
	// Delivery failures do not undo the sealing; callers decide whether to
	// log or retry.
	NotifySealedBlock(ctx context.Context, block SealedBlock) error
}

// nopBlockNotifier is a no-op BlockNotifier used when no notification target
// is configured.
type nopBlockNotifier struct{}

// NotifySealedBlock accepts the block and does nothing.
func (nopBlockNotifier) NotifySealedBlock(_ context.Context, _ SealedBlock) error {
	return nil
}
