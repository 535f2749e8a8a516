package p2p

import (
	"context"
	"fmt"

	"powledger/blockchain"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const defaultFetchConcurrency = 8

var log = logrus.WithField("component", "p2p")

// ChainFetcher retrieves a peer's full chain. Implementations report every
// failure as an error, the resolver skips that peer.
type ChainFetcher interface {
	FetchChain(ctx context.Context, peer string) (*blockchain.ChainResponse, error)
}

// ChainReplacer is the part of the chain store the resolver writes to
type ChainReplacer interface {
	GetChainHeight() int
	ReplaceChainIfLonger(chain []*blockchain.Block) (bool, error)
}

// ResolverConfig holds configuration for chain resolution
type ResolverConfig struct {
	Peers       *PeerManager
	Fetcher     ChainFetcher
	Store       ChainReplacer
	Concurrency int // Maximum peers fetched at once
}

// Resolver applies the longest valid chain rule across registered peers
type Resolver struct {
	config ResolverConfig
}

// NewResolver creates a new chain resolver
func NewResolver(config ResolverConfig) *Resolver {
	if config.Concurrency <= 0 {
		config.Concurrency = defaultFetchConcurrency
	}
	return &Resolver{config: config}
}

type fetchResult struct {
	peer  string
	chain []*blockchain.Block
	err   error
}

// Resolve fetches every peer's chain and adopts the longest one that is
// longer than ours and valid. Peers that fail to answer or serve an invalid
// chain are skipped. When two peers offer valid chains of the same greatest
// length, the one whose address sorts first wins.
//
// Resolve returns true if the local chain was replaced.
func (r *Resolver) Resolve(ctx context.Context) (bool, error) {
	peers := r.config.Peers.List()
	results := r.fetchAll(ctx, peers)
	if err := ctx.Err(); err != nil {
		return false, err
	}

	bestLength := r.config.Store.GetChainHeight()
	var best *fetchResult

	for i := range results {
		res := &results[i]
		logger := log.WithField("peer", res.peer)

		if res.err != nil {
			r.config.Peers.MarkFailed(res.peer)
			logger.WithError(res.err).Warn("skipping peer")
			continue
		}
		r.config.Peers.MarkReachable(res.peer)

		if len(res.chain) <= bestLength {
			logger.WithField("length", len(res.chain)).Debug("peer chain not longer")
			continue
		}
		if err := blockchain.ValidateChain(res.chain); err != nil {
			logger.WithError(err).Warn("rejecting invalid peer chain")
			continue
		}

		bestLength = len(res.chain)
		best = res
	}

	if best == nil {
		log.WithField("peers", len(peers)).Info("local chain is authoritative")
		return false, nil
	}

	replaced, err := r.config.Store.ReplaceChainIfLonger(best.chain)
	if err != nil {
		return false, fmt.Errorf("failed to replace chain with %s's: %w", best.peer, err)
	}
	if replaced {
		log.WithFields(logrus.Fields{"peer": best.peer, "length": bestLength}).Info("adopted peer chain")
	}

	return replaced, nil
}

// fetchAll fetches every peer concurrently. Results keep the order of peers.
func (r *Resolver) fetchAll(ctx context.Context, peers []string) []fetchResult {
	results := make([]fetchResult, len(peers))

	var g errgroup.Group
	g.SetLimit(r.config.Concurrency)

	for i, peer := range peers {
		i, peer := i, peer
		g.Go(func() error {
			results[i].peer = peer
			resp, err := r.config.Fetcher.FetchChain(ctx, peer)
			switch {
			case err != nil:
				results[i].err = err
			case resp == nil:
				results[i].err = fmt.Errorf("peer %s returned no chain", peer)
			default:
				results[i].chain = resp.Chain
			}
			return nil
		})
	}

	// Workers never return errors, failures are kept per peer
	_ = g.Wait()
	return results
}
