package node

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"powledger/blockchain"
	"powledger/blockchain/store"
	"powledger/p2p"
	"powledger/p2p/reqresp"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrMissingField  = errors.New("missing required field")
	ErrInvalidAmount = errors.New("amount must be a finite number")
	ErrNoPeers       = errors.New("no peer addresses supplied")
)

// MiningReward is credited to the node for every block it mines
const MiningReward = 1

var log = logrus.WithField("component", "node")

// Config holds all configuration for a full node
type Config struct {
	Port             string
	NodeID           string
	Peers            []string
	FetchTimeout     time.Duration // Per-peer timeout when resolving
	FetchConcurrency int           // Peers fetched at once when resolving
	MineTimeout      time.Duration // Zero means mine until a proof is found
}

// DefaultConfig returns the configuration used when no flags are given
func DefaultConfig() Config {
	return Config{
		Port:             "5000",
		FetchTimeout:     reqresp.DefaultConfig().RequestTimeout,
		FetchConcurrency: 8,
	}
}

// FullNode owns a node's ledger state and peer set. Transport handlers
// receive it explicitly rather than reaching for globals.
type FullNode struct {
	config Config
	nodeID string

	// Core blockchain storage
	store store.ChainStore

	peers    *p2p.PeerManager
	resolver *p2p.Resolver
}

// NewFullNode creates a node with a fresh genesis chain. Peers listed in the
// config are registered, malformed ones are logged and skipped.
func NewFullNode(config Config) *FullNode {
	return newFullNode(config, store.NewMemoryChainStore(), nil)
}

// newFullNode lets tests swap the store and the peer fetcher
func newFullNode(config Config, chainStore store.ChainStore, fetcher p2p.ChainFetcher) *FullNode {
	nodeID := config.NodeID
	if nodeID == "" {
		nodeID = strings.ReplaceAll(uuid.NewString(), "-", "")
	}

	if fetcher == nil {
		reqConfig := reqresp.DefaultConfig()
		if config.FetchTimeout > 0 {
			reqConfig.RequestTimeout = config.FetchTimeout
		}
		fetcher = reqresp.NewClient(reqConfig)
	}

	peers := p2p.NewPeerManager()
	if len(config.Peers) > 0 {
		if _, err := peers.RegisterAll(config.Peers); err != nil {
			log.WithError(err).Warn("ignoring malformed configured peers")
		}
	}

	n := &FullNode{
		config: config,
		nodeID: nodeID,
		store:  chainStore,
		peers:  peers,
		resolver: p2p.NewResolver(p2p.ResolverConfig{
			Peers:       peers,
			Fetcher:     fetcher,
			Store:       chainStore,
			Concurrency: config.FetchConcurrency,
		}),
	}

	log.WithField("node_id", nodeID).Info("node initialized with genesis block")
	return n
}

func (n *FullNode) ID() string {
	return n.nodeID
}

// Mine searches a proof for the current head and forges a block holding the
// pending pool plus this node's reward. The search runs without holding the
// ledger lock. If the head changes before the block is committed the search
// restarts from the new head. When ctx ends first nothing is committed and
// the pool is left as it was.
func (n *FullNode) Mine(ctx context.Context) (*blockchain.Block, error) {
	if n.config.MineTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.config.MineTimeout)
		defer cancel()
	}

	reward := blockchain.Transaction{
		Sender:    blockchain.MintSender,
		Recipient: n.nodeID,
		Amount:    MiningReward,
	}

	for {
		head := n.store.LastBlock()
		headHash := blockchain.HashBlock(head)

		start := time.Now()
		proof, err := blockchain.SearchProofContext(ctx, head.Proof)
		if err != nil {
			log.WithError(err).WithField("index", head.Index+1).Warn("mining abandoned")
			return nil, fmt.Errorf("mining block %d: %w", head.Index+1, err)
		}

		block, err := n.store.AppendMinedBlock(headHash, proof, reward)
		if errors.Is(err, store.ErrStaleHead) {
			log.WithField("index", head.Index+1).Info("chain head moved while mining, restarting")
			continue
		}
		if err != nil {
			return nil, err
		}

		log.WithFields(logrus.Fields{
			"index":        block.Index,
			"proof":        block.Proof,
			"transactions": len(block.Transactions),
			"elapsed":      time.Since(start),
		}).Info("new block forged")
		return block, nil
	}
}

// SubmitTransaction queues a transaction and returns the advisory index of
// the block expected to include it
func (n *FullNode) SubmitTransaction(sender, recipient string, amount float64) (int64, error) {
	if sender == "" {
		return 0, fmt.Errorf("%w: sender", ErrMissingField)
	}
	if recipient == "" {
		return 0, fmt.Errorf("%w: recipient", ErrMissingField)
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, ErrInvalidAmount
	}

	index := n.store.SubmitTransaction(blockchain.Transaction{
		Sender:    sender,
		Recipient: recipient,
		Amount:    amount,
	})

	log.WithFields(logrus.Fields{"sender": sender, "recipient": recipient, "block": index}).Debug("transaction queued")
	return index, nil
}

func (n *FullNode) Chain() []*blockchain.Block {
	return n.store.GetChain()
}

func (n *FullNode) PendingTransactions() []blockchain.Transaction {
	return n.store.GetPendingTransactions()
}

func (n *FullNode) GetBlockByHash(hash string) (*blockchain.Block, error) {
	return n.store.GetBlockByHash(hash)
}

// RegisterPeers adds every well-formed address to the peer set. The returned
// error joins one *p2p.AddressError per rejected entry.
func (n *FullNode) RegisterPeers(addresses []string) ([]string, error) {
	if len(addresses) == 0 {
		return nil, ErrNoPeers
	}

	accepted, err := n.peers.RegisterAll(addresses)
	log.WithFields(logrus.Fields{"accepted": len(accepted), "total": n.peers.Len()}).Info("peers registered")
	return accepted, err
}

func (n *FullNode) Peers() []string {
	return n.peers.List()
}

func (n *FullNode) PeerStates() []p2p.Peer {
	return n.peers.Peers()
}

// Resolve runs longest-chain consensus against all registered peers
func (n *FullNode) Resolve(ctx context.Context) (bool, error) {
	return n.resolver.Resolve(ctx)
}
