package core

import (
	"context"
	"sync"

	"github.com/dkeye/clustchat/internal/domain"
	"github.com/rs/zerolog/log"
)

// ClusterRooms is the slice of the Cluster Name Registry a RoomManager
// needs: registering and unregistering the {room, name} -> node entry for
// public rooms only (spec §3: private rooms are never registered
// cluster-wide).
type ClusterRooms interface {
	RegisterRoom(ctx context.Context, name domain.RoomName, node domain.NodeID) error
	UnregisterRoom(ctx context.Context, name domain.RoomName)
}

// RoomManager is the Local Room Registry (spec §4.2) plus the Room State
// Object's create/delete side effects (spec §4.3): a per-node unique-name
// index over every room resident here, public or private.
type RoomManager struct {
	mu      sync.RWMutex
	node    domain.NodeID
	rooms   map[domain.RoomName]*Room
	cluster ClusterRooms
}

func NewRoomManager(node domain.NodeID, cluster ClusterRooms) *RoomManager {
	return &RoomManager{
		node:    node,
		rooms:   make(map[domain.RoomName]*Room),
		cluster: cluster,
	}
}

// Create normalizes rawName per kind, registers it (cluster-wide for
// public, local-only for private), and instantiates the Room. members is
// the list of members to add in addition to owner; owner always leads.
func (m *RoomManager) Create(ctx context.Context, owner domain.User, kind domain.RoomKind, rawName, description string, members []domain.User) (*Room, error) {
	name := domain.NormalizeRoomName(rawName, kind)

	m.mu.Lock()
	if _, exists := m.rooms[name]; exists {
		m.mu.Unlock()
		return nil, domain.ErrRoomAlreadyExists
	}
	// Reserve the name locally before any cluster round trip so a
	// concurrent local Create for the same name fails fast.
	placeholder := &Room{name: name}
	m.rooms[name] = placeholder
	m.mu.Unlock()

	if kind == domain.RoomPublic {
		if err := m.cluster.RegisterRoom(ctx, name, m.node); err != nil {
			m.mu.Lock()
			delete(m.rooms, name)
			m.mu.Unlock()
			return nil, domain.ErrRoomAlreadyExists
		}
	}

	all := append([]domain.User{owner}, members...)
	r := newRoom(name, kind, m.node, description, owner, all)

	m.mu.Lock()
	m.rooms[name] = r
	m.mu.Unlock()

	log.Info().Str("module", "core.room_manager").Str("room", string(name)).
		Str("kind", kindString(kind)).Msg("room created")
	return r, nil
}

// Lookup returns the resident room for name, if any.
func (m *RoomManager) Lookup(name domain.RoomName) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[name]
	return r, ok
}

// Delete tears down the resident room: removes it from the local index
// and, for public rooms, unregisters the cluster entry. It returns the
// room's last snapshot so the caller (the dispatcher) can broadcast a
// notification to the captured member list.
func (m *RoomManager) Delete(ctx context.Context, name domain.RoomName) (domain.Room, error) {
	m.mu.Lock()
	r, ok := m.rooms[name]
	if !ok {
		m.mu.Unlock()
		return domain.Room{}, domain.ErrRoomNotFound
	}
	delete(m.rooms, name)
	m.mu.Unlock()

	snap := r.Snapshot()
	if r.Kind() == domain.RoomPublic {
		m.cluster.UnregisterRoom(ctx, name)
	}
	log.Info().Str("module", "core.room_manager").Str("room", string(name)).Msg("room deleted")
	return snap, nil
}

// List returns every room resident on this node, used for the private half
// of LIST JOINED ROOMS.
func (m *RoomManager) List() []*Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		out = append(out, r)
	}
	return out
}

func kindString(kind domain.RoomKind) string {
	if kind == domain.RoomPrivate {
		return "private"
	}
	return "public"
}
