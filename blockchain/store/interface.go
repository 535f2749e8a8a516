package store

import (
	"powledger/blockchain"
)

// ChainStore owns a node's chain and pending transaction pool
type ChainStore interface {

	// Update/Add/Put
	NewBlock(proof int64, previousHash string) *blockchain.Block
	AppendMinedBlock(previousHash string, proof int64, reward blockchain.Transaction) (*blockchain.Block, error)
	SubmitTransaction(tx blockchain.Transaction) int64
	ReplaceChain(chain []*blockchain.Block) error
	ReplaceChainIfLonger(chain []*blockchain.Block) (bool, error)

	// Getters
	LastBlock() *blockchain.Block
	GetBlockByHash(hash string) (*blockchain.Block, error)
	GetChainHeight() int
	GetChain() []*blockchain.Block
	GetPendingTransactions() []blockchain.Transaction
}
