package handlers

import (
	"net/http"

	"powledger/blockchain"

	"github.com/gin-gonic/gin"
)

func HandleChain(n Node) gin.HandlerFunc {
	return func(c *gin.Context) {
		chain := n.Chain()
		c.JSON(http.StatusOK, blockchain.ChainResponse{
			Chain:  chain,
			Length: len(chain),
		})
	}
}
