package mocks

import (
	"context"
	"errors"
	"sync"

	"powledger/blockchain"
)

var ErrUnknownPeer = errors.New("unknown peer")

// MineChain builds a valid chain of the given length on top of genesis. Each
// block carries a single mint to recipient, so chains with different
// recipients hash differently.
func MineChain(length int, recipient string) []*blockchain.Block {
	chain := []*blockchain.Block{blockchain.NewGenesisBlock()}
	for len(chain) < length {
		chain = append(chain, NextBlock(chain[len(chain)-1], recipient))
	}
	return chain
}

// NextBlock mines a valid child of parent
func NextBlock(parent *blockchain.Block, recipient string) *blockchain.Block {
	return &blockchain.Block{
		Index:        parent.Index + 1,
		Timestamp:    parent.Timestamp + 1,
		Transactions: []blockchain.Transaction{{Sender: blockchain.MintSender, Recipient: recipient, Amount: 1}},
		Proof:        blockchain.SearchProof(parent.Proof),
		PreviousHash: blockchain.HashBlock(parent),
	}
}

// ChainFetcher serves canned chains and errors keyed by peer address
type ChainFetcher struct {
	mu     sync.Mutex
	chains map[string][]*blockchain.Block
	errs   map[string]error
	calls  map[string]int
}

func NewChainFetcher() *ChainFetcher {
	return &ChainFetcher{
		chains: make(map[string][]*blockchain.Block),
		errs:   make(map[string]error),
		calls:  make(map[string]int),
	}
}

func (f *ChainFetcher) SetChain(peer string, chain []*blockchain.Block) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chains[peer] = chain
}

func (f *ChainFetcher) SetError(peer string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[peer] = err
}

// Calls returns how many times peer was fetched
func (f *ChainFetcher) Calls(peer string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[peer]
}

func (f *ChainFetcher) FetchChain(ctx context.Context, peer string) (*blockchain.ChainResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[peer]++

	if err, ok := f.errs[peer]; ok {
		return nil, err
	}
	chain, ok := f.chains[peer]
	if !ok {
		return nil, ErrUnknownPeer
	}
	return &blockchain.ChainResponse{Chain: chain, Length: len(chain)}, nil
}
