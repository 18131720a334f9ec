package ledger

import "github.com/gabapcia/chainledger/internal/pkg/types"

// MerkleRoot folds the block's transactions into a single commitment digest.
//
// The leaves are the digests of the full transaction records, taken in
// insertion order. An odd leaf count duplicates the last leaf once before
// folding. Pairs are then consumed head first: the two digests are
// concatenated, re-hashed and the result appended to the tail of the queue,
// until one digest remains.
//
// Parameters:
//   - transactions: the admitted transactions keyed by hash, in admission order
//
// Returns:
//   - string: the merkle root, or the all-zeros digest when there are no
//     transactions
func MerkleRoot(transactions *types.OrderedMap[string, Transaction]) string {
	queue := make([]string, 0, transactions.Len())
	for _, tx := range transactions.All() {
		queue = append(queue, Hash(tx))
	}

	if len(queue) == 0 {
		return zeroDigest
	}

	if len(queue)%2 == 1 {
		queue = append(queue, queue[len(queue)-1])
	}

	for len(queue) > 1 {
		combined := queue[0] + queue[1]
		queue = append(queue[2:], Hash(combined))
	}

	return queue[0]
}
