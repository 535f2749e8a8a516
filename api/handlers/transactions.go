package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"powledger/node"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "api")

// transactionRequest uses pointers so absent keys can be told apart from
// zero values
type transactionRequest struct {
	Sender    *string  `json:"sender"`
	Recipient *string  `json:"recipient"`
	Amount    *float64 `json:"amount"`
}

func HandleNewTransaction(n Node) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req transactionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			log.WithError(err).Debug("failed to decode transaction")
			respondError(c, http.StatusBadRequest, "Invalid JSON format")
			return
		}

		if req.Sender == nil || req.Recipient == nil || req.Amount == nil {
			respondError(c, http.StatusBadRequest, "Missing values")
			return
		}

		index, err := n.SubmitTransaction(*req.Sender, *req.Recipient, *req.Amount)
		if errors.Is(err, node.ErrMissingField) || errors.Is(err, node.ErrInvalidAmount) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		if err != nil {
			respondError(c, http.StatusInternalServerError, err.Error())
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": fmt.Sprintf("Transaction will be added to Block %d", index),
			"index":   index,
		})
	}
}

func HandlePendingTransactions(n Node) gin.HandlerFunc {
	return func(c *gin.Context) {
		pending := n.PendingTransactions()
		c.JSON(http.StatusOK, gin.H{
			"transactions": pending,
			"count":        len(pending),
		})
	}
}
