package handlers

import (
	"context"
	"errors"
	"net/http"

	"powledger/blockchain"

	"github.com/gin-gonic/gin"
)

// Node is the ledger service the HTTP handlers drive
type Node interface {
	Mine(ctx context.Context) (*blockchain.Block, error)
	SubmitTransaction(sender, recipient string, amount float64) (int64, error)
	Chain() []*blockchain.Block
	PendingTransactions() []blockchain.Transaction
	GetBlockByHash(hash string) (*blockchain.Block, error)
	RegisterPeers(addresses []string) ([]string, error)
	Peers() []string
	Resolve(ctx context.Context) (bool, error)
}

// respondError writes the JSON error body every handler uses
func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// statusForContextErr maps a cancelled or timed out request to 503
func statusForContextErr(err error) int {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
