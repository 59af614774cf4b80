package cluster

import (
	"sync"

	"github.com/dkeye/clustchat/internal/domain"
)

// Store is the authoritative, in-memory backing for the Cluster Name
// Registry. register/unregister are serialized by a single mutex so
// name uniqueness is honored under concurrent registration attempts from
// different nodes (spec §4.1's linearizability requirement); enumerate
// is a point-in-time snapshot taken under the same lock.
type Store struct {
	mu      sync.Mutex
	entries map[Entry]Handle
	nodes   map[domain.NodeID]string
}

// NewStore builds an empty registry.
func NewStore() *Store {
	return &Store{entries: make(map[Entry]Handle), nodes: make(map[domain.NodeID]string)}
}

// RegisterNode records that node's RPC surface is reachable at addr. Called
// once at chat-node startup (spec §13); idempotent, since a restarted node
// re-registers at the same address.
func (s *Store) RegisterNode(node domain.NodeID, addr string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes[node] = addr
}

// NodeCount reports how many nodes are currently registered.
func (s *Store) NodeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.nodes)
}

// Register binds entry to handle, failing if entry is already bound.
func (s *Store) Register(entry Entry, handle Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[entry]; exists {
		return domain.ErrAlreadyRegistered
	}
	s.entries[entry] = handle
	return nil
}

// Unregister removes entry; it is idempotent, silently no-oping if entry
// is absent.
func (s *Store) Unregister(entry Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, entry)
}

// Lookup resolves entry to its handle, if bound.
func (s *Store) Lookup(entry Entry) (Handle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.entries[entry]
	return h, ok
}

// Enumerate lists every entry (and its handle) of the given kind. The
// order is unspecified; enumeration converges with the registry's
// register/unregister calls between command completions, per spec §4.1.
func (s *Store) Enumerate(kind EntryKind) ([]Entry, []Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := make([]Entry, 0, len(s.entries))
	handles := make([]Handle, 0, len(s.entries))
	for e, h := range s.entries {
		if e.Kind == kind {
			entries = append(entries, e)
			handles = append(handles, h)
		}
	}
	return entries, handles
}

// UnregisterNode drops every entry currently handled by node, plus node's
// own registration. Used when a node deregisters on graceful shutdown so
// stale room/user entries don't linger for the cluster's lifetime.
func (s *Store) UnregisterNode(node domain.NodeID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for e, h := range s.entries {
		if h.Node == node {
			delete(s.entries, e)
		}
	}
	delete(s.nodes, node)
}
