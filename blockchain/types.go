package blockchain

const (
	// Difficulty is the number of leading hex zeros a proof digest must have
	Difficulty = 4

	// MintSender is the sender of a transaction that creates new coins
	MintSender = "0"

	// GenesisProof and GenesisPreviousHash bootstrap the first block
	GenesisProof        int64 = 100
	GenesisPreviousHash       = "1"
)

type Transaction struct {
	Sender    string  `json:"sender"`
	Recipient string  `json:"recipient"`
	Amount    float64 `json:"amount"`
}

type Block struct {
	Index        int64         `json:"index"`
	Timestamp    float64       `json:"timestamp"`
	Transactions []Transaction `json:"transactions"`
	Proof        int64         `json:"proof"`
	PreviousHash string        `json:"previous_hash"`
}

// ChainResponse is the payload a node serves for its full chain
type ChainResponse struct {
	Chain  []*Block `json:"chain"`
	Length int      `json:"length"`
}

// IsMint reports whether the transaction mints new coins rather than moving them
func (t Transaction) IsMint() bool {
	return t.Sender == MintSender
}
