package ledger

import (
	"github.com/gabapcia/chainledger/internal/pkg/types"
)

// addressLength is the size of every generated wallet and chain address.
const addressLength = 42

// Chain is the ledger aggregate: the sealed blocks, the chain wide
// transaction index, the live wallet set and the economic parameters that
// govern admission and sealing.
//
// Chain performs no internal locking. A single goroutine must own each
// instance, or the caller must serialize access around the whole aggregate.
type Chain struct {
	// Blocks is the append-only sequence of sealed blocks, genesis first.
	Blocks []*Block `json:"chain"`

	// Transactions indexes every admitted transaction by hash, in
	// admission order.
	Transactions *types.OrderedMap[string, Transaction] `json:"transactions"`

	// Difficulty is the number of leading zeros a sealed header digest
	// must carry.
	Difficulty float64 `json:"difficulty"`

	// Address receives the reward transaction minted at each sealing.
	Address string `json:"address"`

	// Reward is the amount carried by the reward transaction of each
	// sealed block.
	Reward float64 `json:"reward"`

	// Fee is the rate charged on top of every transfer, applied once at
	// admission time.
	Fee float64 `json:"fee"`

	// Wallets holds the live accounts keyed by address.
	Wallets map[string]*Wallet `json:"wallets"`
}

// New builds a chain with the given economic parameters, mints its own reward
// address and seals the genesis block immediately, so the returned chain
// always holds at least one block.
//
// Parameters:
//   - difficulty: initial sealing difficulty, in leading zero characters
//   - reward: amount minted to the chain address at each sealing
//   - fee: rate charged on every transfer at admission time
//
// Returns:
//   - *Chain: the initialized chain, already holding the genesis block
func New(difficulty, reward, fee float64) *Chain {
	chain := &Chain{
		Blocks:       make([]*Block, 0),
		Transactions: types.NewOrderedMap[string, Transaction](),
		Difficulty:   difficulty,
		Address:      generateAddress(addressLength),
		Reward:       reward,
		Fee:          fee,
		Wallets:      make(map[string]*Wallet),
	}

	chain.GenerateNewBlock()

	return chain
}

// CreateWallet registers a new wallet under a freshly generated address.
// The email is stored as given, without any format or uniqueness check.
//
// Parameters:
//   - email: owner identifier attached to the wallet
//
// Returns:
//   - string: the generated wallet address
func (c *Chain) CreateWallet(email string) string {
	address := generateAddress(addressLength)

	c.Wallets[address] = newWallet(email, address)

	return address
}

// ValidateTransaction reports whether a transfer of amount from one address
// to another would be admitted. It rejects transfers issued from the reward
// address, self transfers, non-positive amounts, unknown sender or receiver
// addresses, and senders whose balance does not cover the amount. It never
// mutates the chain.
//
// Parameters:
//   - from: sender address
//   - to: receiver address
//   - amount: value checked against the sender balance, fee included
//
// Returns:
//   - bool: true when the transfer would be admitted
func (c *Chain) ValidateTransaction(from, to string, amount float64) bool {
	if from == RootAddress {
		return false
	}

	if from == to {
		return false
	}

	if amount <= 0 {
		return false
	}

	sender, ok := c.Wallets[from]
	if !ok {
		return false
	}

	if _, ok := c.Wallets[to]; !ok {
		return false
	}

	return sender.Balance >= amount
}

// AddTransaction validates and applies a transfer. The sender is charged
// amount plus the chain fee (total = amount * fee), the receiver is credited
// the undiscounted amount, both wallet histories record the transaction hash
// and the transaction joins the chain wide index.
//
// The sender is debited before the receiver is credited. Validation already
// checks both wallets and the sender balance against the same total, so the
// later failure paths cannot trigger unless the chain is mutated from outside
// this method between the check and the apply.
//
// Parameters:
//   - from: sender address
//   - to: receiver address
//   - amount: value credited to the receiver, before fees
//
// Returns:
//   - Transaction: the admitted transaction record
//   - error: ErrInvalidTransaction if validation rejects the transfer,
//     ErrWalletNotFound or ErrInsufficientFunds if application diverges from
//     validation
func (c *Chain) AddTransaction(from, to string, amount float64) (Transaction, error) {
	total := amount * c.Fee

	if !c.ValidateTransaction(from, to, total) {
		return Transaction{}, ErrInvalidTransaction
	}
	transaction := newTransaction(from, to, c.Fee, total)

	sender, ok := c.Wallets[from]
	if !ok {
		return Transaction{}, ErrWalletNotFound
	}
	if sender.Balance < total {
		return Transaction{}, ErrInsufficientFunds
	}
	sender.Balance -= total
	sender.TransactionHashes = append(sender.TransactionHashes, transaction.Hash)

	receiver, ok := c.Wallets[to]
	if !ok {
		return Transaction{}, ErrWalletNotFound
	}
	receiver.Balance += amount
	receiver.TransactionHashes = append(receiver.TransactionHashes, transaction.Hash)

	c.Transactions.Set(transaction.Hash, transaction)

	return transaction, nil
}

// GetTransaction looks up an admitted transaction by hash.
//
// Parameters:
//   - hash: the transaction content digest
//
// Returns:
//   - Transaction: the matching record
//   - error: ErrTransactionNotFound if the hash is unknown
func (c *Chain) GetTransaction(hash string) (Transaction, error) {
	transaction, ok := c.Transactions.Get(hash)
	if !ok {
		return Transaction{}, ErrTransactionNotFound
	}

	return transaction, nil
}

// GetTransactions returns one page of the chain wide transaction index, in
// admission order. Pages are 1-indexed; page 0 behaves like page 1. A page
// past the last one, or a non-positive size, yields an empty map.
//
// Parameters:
//   - page: 1-indexed page number
//   - size: maximum entries per page
//
// Returns:
//   - *types.OrderedMap[string, Transaction]: the requested page, keyed by
//     transaction hash
func (c *Chain) GetTransactions(page, size int) *types.OrderedMap[string, Transaction] {
	result := types.NewOrderedMap[string, Transaction]()

	keys := c.Transactions.Keys()

	start, end, ok := pageBounds(len(keys), len(keys), page, size)
	if !ok {
		return result
	}

	for _, hash := range keys[start:end] {
		transaction, _ := c.Transactions.Get(hash)
		result.Set(hash, transaction)
	}

	return result
}

// GetWalletBalance returns the current balance of the wallet registered
// under address.
//
// Parameters:
//   - address: the wallet address
//
// Returns:
//   - float64: the wallet balance
//   - error: ErrWalletNotFound if no wallet exists under address
func (c *Chain) GetWalletBalance(address string) (float64, error) {
	wallet, ok := c.Wallets[address]
	if !ok {
		return 0, ErrWalletNotFound
	}

	return wallet.Balance, nil
}

// GetWalletTransactions returns one page of the wallet's transaction history,
// oldest first. The page bound is computed against the chain wide transaction
// count, not the wallet's own history length, so a wallet page can come back
// empty even when the wallet still has older entries. History hashes that no
// longer resolve in the chain wide index are skipped.
//
// Parameters:
//   - address: the wallet address
//   - page: 1-indexed page number
//   - size: maximum entries per page
//
// Returns:
//   - []Transaction: the requested page of the wallet history
//   - error: ErrWalletNotFound if no wallet exists under address
func (c *Chain) GetWalletTransactions(address string, page, size int) ([]Transaction, error) {
	wallet, ok := c.Wallets[address]
	if !ok {
		return nil, ErrWalletNotFound
	}

	result := make([]Transaction, 0)

	start, end, ok := pageBounds(c.Transactions.Len(), len(wallet.TransactionHashes), page, size)
	if !ok {
		return result, nil
	}

	for _, hash := range wallet.TransactionHashes[start:end] {
		transaction, err := c.GetTransaction(hash)
		if err != nil {
			continue
		}

		result = append(result, transaction)
	}

	return result, nil
}

// GetLastHash returns the digest of the newest block header, or the all-zeros
// placeholder when the chain holds no blocks yet. The placeholder is only
// observable during construction, before the genesis block is sealed.
//
// Returns:
//   - string: the last header digest, or the all-zeros placeholder
func (c *Chain) GetLastHash() string {
	if len(c.Blocks) == 0 {
		return zeroDigest
	}

	return Hash(c.Blocks[len(c.Blocks)-1].Header)
}

// GenerateNewBlock seals a new block onto the chain: it links the block to
// the current last hash, mints the reward transaction into the block's own
// transaction map, commits the merkle root over that map and mines the header
// at the current difficulty. The reward credits no wallet balance and never
// touches the chain wide transaction index.
//
// Sealing cannot fail; it only takes time proportional to the difficulty.
//
// Returns:
//   - *Block: the sealed block, already appended to the chain
func (c *Chain) GenerateNewBlock() *Block {
	block := newBlock(c.GetLastHash(), c.Difficulty)

	reward := newTransaction(RootAddress, c.Address, c.Fee, c.Reward)
	block.Transactions.Set(reward.Hash, reward)

	block.Header.Merkle = MerkleRoot(block.Transactions)
	block.mine()

	c.Blocks = append(c.Blocks, block)

	return block
}

// UpdateDifficulty replaces the sealing difficulty used by future blocks.
func (c *Chain) UpdateDifficulty(difficulty float64) {
	c.Difficulty = difficulty
}

// UpdateReward replaces the amount minted by future reward transactions.
func (c *Chain) UpdateReward(reward float64) {
	c.Reward = reward
}

// UpdateFee replaces the rate charged on future transfers.
func (c *Chain) UpdateFee(fee float64) {
	c.Fee = fee
}

// pageBounds resolves a 1-indexed page request into slice bounds over a
// collection of length collectionLen. The page ceiling is computed against
// total, which may differ from collectionLen. Page 0 and negative pages
// behave like page 1. It reports false when the page falls past the ceiling
// or the size is not positive.
func pageBounds(total, collectionLen, page, size int) (int, int, bool) {
	if size <= 0 {
		return 0, 0, false
	}

	totalPages := (total + size - 1) / size
	if page > totalPages {
		return 0, 0, false
	}

	if page < 1 {
		page = 1
	}

	start := (page - 1) * size
	if start > collectionLen {
		start = collectionLen
	}

	end := start + size
	if end > collectionLen {
		end = collectionLen
	}

	return start, end, true
}
