package blockchain

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyChain   = errors.New("chain has no blocks")
	ErrNilBlock     = errors.New("chain contains a nil block")
	ErrBrokenLink   = errors.New("previous hash does not match parent block")
	ErrInvalidProof = errors.New("proof of work does not verify against parent proof")
)

// ValidationError reports the first block of a candidate chain that fails validation
type ValidationError struct {
	Index  int // position in the chain, 0-based
	Reason error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("block %d: %v", e.Index, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Reason
}

// ValidateChain walks the chain checking that every block links to its parent's
// hash and carries a proof that verifies against the parent's proof. It stops
// at the first failing block. A single-block chain is always valid.
func ValidateChain(chain []*Block) error {
	if len(chain) == 0 {
		return ErrEmptyChain
	}
	if chain[0] == nil {
		return &ValidationError{Index: 0, Reason: ErrNilBlock}
	}

	lastBlock := chain[0]
	for i := 1; i < len(chain); i++ {
		block := chain[i]
		if block == nil {
			return &ValidationError{Index: i, Reason: ErrNilBlock}
		}

		if block.PreviousHash != HashBlock(lastBlock) {
			return &ValidationError{Index: i, Reason: ErrBrokenLink}
		}
		if !VerifyProof(lastBlock.Proof, block.Proof) {
			return &ValidationError{Index: i, Reason: ErrInvalidProof}
		}

		lastBlock = block
	}

	return nil
}

// IsValidChain reports whether ValidateChain accepts the chain
func IsValidChain(chain []*Block) bool {
	return ValidateChain(chain) == nil
}
