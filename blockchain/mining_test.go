package blockchain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestSearchProofVerifies(t *testing.T) {
	for _, lastProof := range []int64{0, 1, GenesisProof, 35293, 987654321} {
		t.Run(fmt.Sprintf("lastProof=%d", lastProof), func(t *testing.T) {
			proof := SearchProof(lastProof)
			if !VerifyProof(lastProof, proof) {
				t.Fatalf("VerifyProof(%d, %d) = false for a searched proof", lastProof, proof)
			}

			// The scan starts at 0, so no smaller proof may verify
			for p := int64(0); p < proof; p++ {
				if VerifyProof(lastProof, p) {
					t.Fatalf("SearchProof(%d) = %d but %d also verifies", lastProof, proof, p)
				}
			}
		})
	}
}

func TestVerifyProofPredicate(t *testing.T) {
	proof := SearchProof(GenesisProof)

	sum := sha256.Sum256([]byte(fmt.Sprintf("%d%d", GenesisProof, proof)))
	digest := hex.EncodeToString(sum[:])
	if !strings.HasPrefix(digest, "0000") {
		t.Errorf("digest %s does not start with four zeros", digest)
	}
}

func TestSearchProofContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := SearchProofContext(ctx, GenesisProof)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("SearchProofContext() error = %v, want context.Canceled", err)
	}
}

func TestSearchProofContextMatchesSearchProof(t *testing.T) {
	proof, err := SearchProofContext(context.Background(), 42)
	if err != nil {
		t.Fatalf("SearchProofContext() unexpected error: %v", err)
	}
	if proof != SearchProof(42) {
		t.Errorf("SearchProofContext() = %d, SearchProof() = %d", proof, SearchProof(42))
	}
}
