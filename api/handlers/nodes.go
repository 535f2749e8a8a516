package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Nodes []string `json:"nodes"`
}

// HandleRegisterNodes adds peers. Malformed addresses are reported in
// "rejected" without failing the well-formed ones.
func HandleRegisterNodes(n Node) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil || len(req.Nodes) == 0 {
			respondError(c, http.StatusBadRequest, "Error: please supply a valid list of nodes")
			return
		}

		accepted, err := n.RegisterPeers(req.Nodes)
		rejected := splitErrors(err)
		if len(accepted) == 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":    "Error: no valid node addresses supplied",
				"rejected": rejected,
			})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":     "New nodes have been added",
			"total_nodes": n.Peers(),
			"rejected":    rejected,
		})
	}
}

func HandleListNodes(n Node) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"nodes": n.Peers()})
	}
}

// HandleResolve runs consensus against every registered peer
func HandleResolve(n Node) gin.HandlerFunc {
	return func(c *gin.Context) {
		replaced, err := n.Resolve(c.Request.Context())
		if err != nil {
			respondError(c, statusForContextErr(err), err.Error())
			return
		}

		message := "Our chain is authoritative"
		if replaced {
			message = "Our chain was replaced"
		}

		chain := n.Chain()
		c.JSON(http.StatusOK, gin.H{
			"message":  message,
			"replaced": replaced,
			"chain":    chain,
			"length":   len(chain),
		})
	}
}

// splitErrors flattens an errors.Join result into messages
func splitErrors(err error) []string {
	if err == nil {
		return []string{}
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return []string{err.Error()}
	}

	errs := joined.Unwrap()
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		messages = append(messages, e.Error())
	}
	return messages
}
