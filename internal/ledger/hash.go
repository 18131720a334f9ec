package ledger

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// zeroDigest is the all-zero placeholder digest: the previous-hash link of a
// genesis block and the Merkle root of an empty transaction set.
var zeroDigest = hex.EncodeToString(make([]byte, sha256.Size))

// alphanumeric is the alphabet used for generated wallet and chain addresses.
const alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Hash computes the content digest of item: the SHA-256 sum of its canonical
// JSON form, rendered as lowercase hex. encoding/json emits struct fields in
// declaration order, so the serialized form and the digest derived from it
// are stable across runs for a fixed value.
//
// Every identity in the ledger (transaction hashes, Merkle leaves and nodes,
// block-header hashes) is produced by this function. A value that cannot be
// serialized has no canonical form and no identity; that is a fatal condition,
// not a recoverable error, so Hash panics.
func Hash(item any) string {
	data, err := json.Marshal(item)
	if err != nil {
		panic(fmt.Sprintf("ledger: item is not serializable: %v", err))
	}

	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// generateAddress returns a random alphanumeric string of the given length.
// Uniqueness is probabilistic: with 62 symbols per position a collision at
// address length 42 is not a handled condition.
func generateAddress(length int) string {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("ledger: reading random bytes: %v", err))
	}

	for i, b := range buf {
		buf[i] = alphanumeric[int(b)%len(alphanumeric)]
	}

	return string(buf)
}
