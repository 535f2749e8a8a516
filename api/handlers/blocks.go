package handlers

import (
	"encoding/hex"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandleMine forges a new block holding the pending pool and the miner's reward
func HandleMine(n Node) gin.HandlerFunc {
	return func(c *gin.Context) {
		block, err := n.Mine(c.Request.Context())
		if err != nil {
			respondError(c, statusForContextErr(err), err.Error())
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       "New Block Forged",
			"index":         block.Index,
			"transactions":  block.Transactions,
			"proof":         block.Proof,
			"previous_hash": block.PreviousHash,
		})
	}
}

// HandleGetBlockByHash serves /blocks/:hash
func HandleGetBlockByHash(n Node) gin.HandlerFunc {
	return func(c *gin.Context) {
		hash := c.Param("hash")
		if decoded, err := hex.DecodeString(hash); err != nil || len(decoded) != 32 {
			respondError(c, http.StatusBadRequest, "Invalid block hash format (must be 64 hex characters)")
			return
		}

		block, err := n.GetBlockByHash(hash)
		if err != nil {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}

		c.JSON(http.StatusOK, block)
	}
}
