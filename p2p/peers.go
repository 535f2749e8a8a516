package p2p

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

var ErrMalformedAddress = errors.New("malformed peer address")

// AddressError reports a peer address that could not be reduced to host:port
type AddressError struct {
	Address string
	Reason  string
}

func (e *AddressError) Error() string {
	return fmt.Sprintf("%v %q: %s", ErrMalformedAddress, e.Address, e.Reason)
}

func (e *AddressError) Unwrap() error {
	return ErrMalformedAddress
}

type PeerStatus int

const (
	PeerUnknown PeerStatus = iota
	PeerReachable
	PeerFailed
)

func (s PeerStatus) String() string {
	switch s {
	case PeerReachable:
		return "reachable"
	case PeerFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type Peer struct {
	Address  string
	AddedAt  time.Time
	LastSeen time.Time
	Status   PeerStatus
}

// PeerManager is the set of peers registered with this node
type PeerManager struct {
	peers map[string]*Peer
	mu    sync.RWMutex
}

func NewPeerManager() *PeerManager {
	return &PeerManager{
		peers: make(map[string]*Peer),
	}
}

// CanonicalAddress reduces raw to host:port, dropping any scheme, path,
// query or credentials. A bare "host:port" is accepted as well as a URL.
func CanonicalAddress(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", &AddressError{Address: raw, Reason: "empty"}
	}

	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return "", &AddressError{Address: raw, Reason: err.Error()}
	}

	host, port := u.Hostname(), u.Port()
	if host == "" {
		return "", &AddressError{Address: raw, Reason: "missing host"}
	}
	if port == "" {
		return "", &AddressError{Address: raw, Reason: "missing port"}
	}
	if n, err := strconv.Atoi(port); err != nil || n < 1 || n > 65535 {
		return "", &AddressError{Address: raw, Reason: "port out of range"}
	}

	return net.JoinHostPort(strings.ToLower(host), port), nil
}

// Register adds the peer at address. Registering an address that is
// already known returns the existing peer.
func (pm *PeerManager) Register(address string) (*Peer, error) {
	canonical, err := CanonicalAddress(address)
	if err != nil {
		return nil, err
	}

	pm.mu.Lock()
	defer pm.mu.Unlock()

	if peer, ok := pm.peers[canonical]; ok {
		return peer, nil
	}

	peer := &Peer{
		Address: canonical,
		AddedAt: time.Now(),
		Status:  PeerUnknown,
	}
	pm.peers[canonical] = peer
	return peer, nil
}

// RegisterAll registers every address. Malformed entries are skipped and
// reported together, the rest of the batch is still registered.
func (pm *PeerManager) RegisterAll(addresses []string) ([]string, error) {
	accepted := make([]string, 0, len(addresses))
	var errs []error

	for _, address := range addresses {
		peer, err := pm.Register(address)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		accepted = append(accepted, peer.Address)
	}

	return accepted, errors.Join(errs...)
}

// List returns the registered addresses in sorted order
func (pm *PeerManager) List() []string {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	addresses := make([]string, 0, len(pm.peers))
	for address := range pm.peers {
		addresses = append(addresses, address)
	}
	sort.Strings(addresses)
	return addresses
}

// Peers returns copies of the registered peers sorted by address
func (pm *PeerManager) Peers() []Peer {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	peers := make([]Peer, 0, len(pm.peers))
	for _, p := range pm.peers {
		peers = append(peers, *p)
	}
	sort.Slice(peers, func(i, j int) bool { return peers[i].Address < peers[j].Address })
	return peers
}

func (pm *PeerManager) Len() int {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return len(pm.peers)
}

// MarkReachable records a successful exchange with the peer
func (pm *PeerManager) MarkReachable(address string) {
	pm.setStatus(address, PeerReachable)
}

// MarkFailed records a failed exchange with the peer
func (pm *PeerManager) MarkFailed(address string) {
	pm.setStatus(address, PeerFailed)
}

func (pm *PeerManager) setStatus(address string, status PeerStatus) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	peer, ok := pm.peers[address]
	if !ok {
		return
	}
	peer.Status = status
	if status == PeerReachable {
		peer.LastSeen = time.Now()
	}
}
