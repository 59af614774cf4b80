// Package core holds the stateful actors the cluster routes operations to:
// Room and User. Each one owns a mutex and every mutation takes it, so
// operations on a single object are linearizable while different objects
// may interleave freely (spec §5).
package core

import (
	"sync"

	"github.com/dkeye/clustchat/internal/domain"
	"github.com/rs/zerolog/log"
)

// Room is the in-memory state machine behind one room instance: a public
// room's single cluster-wide authority, or one replica of a private room.
// All mutation is serialized through mu; reads snapshot under the same
// lock so callers never see a half-applied mutation.
type Room struct {
	mu          sync.Mutex
	name        domain.RoomName
	kind        domain.RoomKind
	node        domain.NodeID
	description string
	members     []domain.User
	admin       domain.User
}

func newRoom(name domain.RoomName, kind domain.RoomKind, node domain.NodeID, description string, admin domain.User, members []domain.User) *Room {
	return &Room{
		name:        name,
		kind:        kind,
		node:        node,
		description: description,
		admin:       admin,
		members:     append([]domain.User(nil), members...),
	}
}

func (r *Room) Name() domain.RoomName { return r.name }
func (r *Room) Kind() domain.RoomKind { return r.kind }
func (r *Room) Node() domain.NodeID   { return r.node }

// AddMember appends user if not already present.
func (r *Room) AddMember(user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.members {
		if m.UserNumber == user.UserNumber {
			return domain.ErrMemberAlreadyExists
		}
	}
	r.members = append(r.members, user)
	log.Debug().Str("module", "core.room").Str("room", string(r.name)).
		Str("user", string(user.UserNumber)).Msg("member added")
	return nil
}

// RemoveMember removes the member matching user.UserNumber. It does not
// reassign admin; callers handle admin succession.
func (r *Room) RemoveMember(user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, m := range r.members {
		if m.UserNumber == user.UserNumber {
			r.members = append(r.members[:i], r.members[i+1:]...)
			log.Debug().Str("module", "core.room").Str("room", string(r.name)).
				Str("user", string(user.UserNumber)).Msg("member removed")
			return nil
		}
	}
	return domain.ErrMemberNotFound
}

func (r *Room) SetDescription(description string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.description = description
}

func (r *Room) SetAdmin(user domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.admin = user
}

// UpdateMember replaces the stored record for user.UserNumber with user
// (name/description changes propagate this way); if that number is the
// current admin, the admin snapshot is refreshed too.
func (r *Room) UpdateMember(user domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, m := range r.members {
		if m.UserNumber == user.UserNumber {
			r.members[i] = user
			break
		}
	}
	if r.admin.UserNumber == user.UserNumber {
		r.admin = user
	}
}

func (r *Room) Members() []domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.User(nil), r.members...)
}

func (r *Room) Admin() domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.admin
}

func (r *Room) Description() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.description
}

// Snapshot reads description, members, and admin atomically.
func (r *Room) Snapshot() domain.Room {
	r.mu.Lock()
	defer r.mu.Unlock()
	return domain.Room{
		Name:        r.name,
		Description: r.description,
		Members:     append([]domain.User(nil), r.members...),
		Admin:       r.admin,
	}
}

// IsMember checks membership by the entire user record.
func (r *Room) IsMember(user domain.User) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.members {
		if m == user {
			return true
		}
	}
	return false
}

// IsMemberByNumber checks membership by user_number only.
func (r *Room) IsMemberByNumber(number domain.UserNumber) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.members {
		if m.UserNumber == number {
			return true
		}
	}
	return false
}

func (r *Room) IsAdmin(user domain.User) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.admin == user
}
