package blockchain

// NewGenesisBlock returns the first block of every chain. The timestamp is
// fixed so all nodes agree on the genesis hash.
func NewGenesisBlock() *Block {
	return &Block{
		Index:        1,
		Timestamp:    0,
		Transactions: []Transaction{},
		Proof:        GenesisProof,
		PreviousHash: GenesisPreviousHash,
	}
}
