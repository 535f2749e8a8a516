package blockchain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// How many candidates SearchProofContext tries between context checks
const cancelCheckInterval = 4096

var difficultyPrefix = strings.Repeat("0", Difficulty)

// VerifyProof checks that sha256(lastProof || proof), over the decimal text of
// both numbers, starts with Difficulty hex zeros.
//
// The puzzle only binds the two proofs, not the block's transactions or
// previous hash. Any block after a given parent can reuse the same proof.
func VerifyProof(lastProof, proof int64) bool {
	guess := strconv.AppendInt(strconv.AppendInt(nil, lastProof, 10), proof, 10)
	sum := sha256.Sum256(guess)
	return strings.HasPrefix(hex.EncodeToString(sum[:]), difficultyPrefix)
}

// SearchProof scans proofs upward from 0 until one satisfies VerifyProof.
// It blocks until a proof is found.
func SearchProof(lastProof int64) int64 {
	proof, _ := SearchProofContext(context.Background(), lastProof)
	return proof
}

// SearchProofContext is SearchProof that gives up when ctx is done
func SearchProofContext(ctx context.Context, lastProof int64) (int64, error) {
	for proof := int64(0); ; proof++ {
		if proof%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
		if VerifyProof(lastProof, proof) {
			return proof, nil
		}
	}
}
