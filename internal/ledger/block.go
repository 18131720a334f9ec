package ledger

import (
	"strings"
	"time"

	"github.com/gabapcia/chainledger/internal/pkg/types"
)

// BlockHeader carries the sealing metadata of a block. The header is the
// hashing unit of the chain: a block's identity and the previous-hash link of
// its successor are both digests of the header alone.
type BlockHeader struct {
	PreviousHash string  `json:"previous_hash"`
	Merkle       string  `json:"merkle"`
	Difficulty   float64 `json:"difficulty"`
	Nonce        uint64  `json:"nonce"`
	Timestamp    int64   `json:"timestamp"`
}

// Block is a sealed batch of transactions. Transactions are keyed by their
// hash and keep the order in which they were admitted to the pending set, so
// the merkle commitment is reproducible after serialization round trips.
type Block struct {
	Header       BlockHeader                             `json:"header"`
	Transactions *types.OrderedMap[string, Transaction] `json:"transactions"`
}

// newBlock builds an unsealed block linked to previousHash, stamped with the
// current time. The merkle root and nonce are zero valued until the block is
// filled and mined.
func newBlock(previousHash string, difficulty float64) *Block {
	return &Block{
		Header: BlockHeader{
			PreviousHash: previousHash,
			Difficulty:   difficulty,
			Timestamp:    time.Now().UnixNano(),
		},
		Transactions: types.NewOrderedMap[string, Transaction](),
	}
}

// difficultyPrefix translates the chain difficulty into the literal prefix a
// sealed header digest must start with. Fractional difficulties truncate, and
// anything beyond the digest length saturates at the full 64 characters.
func difficultyPrefix(difficulty float64) string {
	n := int(difficulty)
	switch {
	case n <= 0:
		return ""
	case n > 64:
		n = 64
	}
	return strings.Repeat("0", n)
}

// mine seals the block by searching nonces in order, starting at zero, until
// the header digest carries the required number of leading zeros. It returns
// the winning digest. With difficulty zero the first candidate wins and the
// nonce stays zero.
func (b *Block) mine() string {
	target := difficultyPrefix(b.Header.Difficulty)

	for nonce := uint64(0); ; nonce++ {
		b.Header.Nonce = nonce

		digest := Hash(b.Header)
		if strings.HasPrefix(digest, target) {
			return digest
		}
	}
}
