package blockchain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// canonicalBlock mirrors Block with keys in sorted order. encoding/json emits
// struct fields in declaration order, so the order here is the hash format.
type canonicalBlock struct {
	Index        int64                  `json:"index"`
	PreviousHash string                 `json:"previous_hash"`
	Proof        int64                  `json:"proof"`
	Timestamp    float64                `json:"timestamp"`
	Transactions []canonicalTransaction `json:"transactions"`
}

type canonicalTransaction struct {
	Amount    float64 `json:"amount"`
	Recipient string  `json:"recipient"`
	Sender    string  `json:"sender"`
}

// CanonicalBytes returns the sorted-key compact JSON encoding of a block
func CanonicalBytes(block *Block) []byte {
	cb := canonicalBlock{
		Index:        block.Index,
		PreviousHash: block.PreviousHash,
		Proof:        block.Proof,
		Timestamp:    block.Timestamp,
		Transactions: make([]canonicalTransaction, len(block.Transactions)),
	}
	for i, tx := range block.Transactions {
		cb.Transactions[i] = canonicalTransaction{
			Amount:    tx.Amount,
			Recipient: tx.Recipient,
			Sender:    tx.Sender,
		}
	}

	// Amounts are checked to be finite on submission, so Marshal cannot fail.
	data, err := json.Marshal(cb)
	if err != nil {
		panic("blockchain: canonical encoding failed: " + err.Error())
	}
	return data
}

// HashBlock returns the hex SHA-256 digest of the block's canonical encoding
func HashBlock(block *Block) string {
	sum := sha256.Sum256(CanonicalBytes(block))
	return hex.EncodeToString(sum[:])
}

// Timestamp converts t to Unix seconds rounded to microsecond precision.
// All nodes must use this encoding or their block hashes diverge.
func Timestamp(t time.Time) float64 {
	return float64(t.UnixMicro()) / 1e6
}
