package store

import (
	"errors"
	"fmt"
	"powledger/blockchain"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	ErrStaleHead     = errors.New("chain head changed while mining")
	ErrBlockNotFound = errors.New("block not found")
)

var log = logrus.WithField("component", "store")

// MemoryChainStore keeps the chain and pending pool in memory. Both are
// guarded by a single lock so block creation, submissions and chain
// replacement never interleave.
type MemoryChainStore struct {
	chain   []*blockchain.Block
	pending []blockchain.Transaction
	mu      sync.RWMutex

	now func() time.Time
}

// NewMemoryChainStore creates a store holding only the genesis block
func NewMemoryChainStore() *MemoryChainStore {
	return &MemoryChainStore{
		chain:   []*blockchain.Block{blockchain.NewGenesisBlock()},
		pending: make([]blockchain.Transaction, 0),
		now:     time.Now,
	}
}

// NewBlock appends a block holding every pending transaction. An empty
// previousHash links the block to the current head. The proof is trusted.
func (m *MemoryChainStore) NewBlock(proof int64, previousHash string) *blockchain.Block {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.newBlockUnsafe(proof, previousHash)
}

// newBlockUnsafe must be called with the write lock held
func (m *MemoryChainStore) newBlockUnsafe(proof int64, previousHash string) *blockchain.Block {
	if previousHash == "" {
		previousHash = blockchain.HashBlock(m.chain[len(m.chain)-1])
	}

	block := &blockchain.Block{
		Index:        int64(len(m.chain) + 1),
		Timestamp:    blockchain.Timestamp(m.now()),
		Transactions: m.pending,
		Proof:        proof,
		PreviousHash: previousHash,
	}

	m.pending = make([]blockchain.Transaction, 0)
	m.chain = append(m.chain, block)

	log.WithFields(logrus.Fields{
		"index":        block.Index,
		"proof":        block.Proof,
		"transactions": len(block.Transactions),
	}).Debug("block appended")

	return block
}

// AppendMinedBlock adds reward to the pool and forges the next block, but only
// if the head still hashes to previousHash. Otherwise the proof was mined
// against a block that is no longer the head and ErrStaleHead is returned
// with the pool untouched.
func (m *MemoryChainStore) AppendMinedBlock(previousHash string, proof int64, reward blockchain.Transaction) (*blockchain.Block, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	head := m.chain[len(m.chain)-1]
	if blockchain.HashBlock(head) != previousHash {
		return nil, ErrStaleHead
	}

	m.pending = append(m.pending, reward)
	return m.newBlockUnsafe(proof, previousHash), nil
}

// SubmitTransaction queues tx for the next block and returns that block's
// index. The index is advisory, another block may be mined first.
func (m *MemoryChainStore) SubmitTransaction(tx blockchain.Transaction) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pending = append(m.pending, tx)
	return int64(len(m.chain) + 1)
}

func (m *MemoryChainStore) LastBlock() *blockchain.Block {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.chain[len(m.chain)-1]
}

func (m *MemoryChainStore) GetBlockByHash(hash string) (*blockchain.Block, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, block := range m.chain {
		if blockchain.HashBlock(block) == hash {
			return block, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrBlockNotFound, hash)
}

func (m *MemoryChainStore) GetChainHeight() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.chain)
}

// GetChain returns a copy of the chain slice. Blocks are never modified
// after they are appended, so they are shared.
func (m *MemoryChainStore) GetChain() []*blockchain.Block {
	m.mu.RLock()
	defer m.mu.RUnlock()

	chain := make([]*blockchain.Block, len(m.chain))
	copy(chain, m.chain)
	return chain
}

func (m *MemoryChainStore) GetPendingTransactions() []blockchain.Transaction {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pending := make([]blockchain.Transaction, len(m.pending))
	copy(pending, m.pending)
	return pending
}

// ReplaceChain atomically replaces the entire chain - caller validates first.
// The pending pool is kept.
func (m *MemoryChainStore) ReplaceChain(newChain []*blockchain.Block) error {
	if len(newChain) == 0 {
		return blockchain.ErrEmptyChain
	}

	chain := make([]*blockchain.Block, len(newChain))
	copy(chain, newChain)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.chain = chain
	return nil
}

// ReplaceChainIfLonger replaces the chain only if newChain is strictly longer
// than the chain held when the lock is taken
func (m *MemoryChainStore) ReplaceChainIfLonger(newChain []*blockchain.Block) (bool, error) {
	if len(newChain) == 0 {
		return false, blockchain.ErrEmptyChain
	}

	chain := make([]*blockchain.Block, len(newChain))
	copy(chain, newChain)

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(chain) <= len(m.chain) {
		return false, nil
	}

	log.WithFields(logrus.Fields{
		"old_height": len(m.chain),
		"new_height": len(chain),
	}).Info("chain replaced")

	m.chain = chain
	return true, nil
}
