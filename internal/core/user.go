package core

import (
	"context"
	"sync"

	"github.com/dkeye/clustchat/internal/domain"
	"github.com/rs/zerolog/log"
)

// ClusterUsers is the slice of the Cluster Name Registry a UserManager
// needs: at most one cluster entry per user_number (spec §3 invariant 1).
type ClusterUsers interface {
	RegisterUser(ctx context.Context, number domain.UserNumber, node domain.NodeID) error
	UnregisterUser(ctx context.Context, number domain.UserNumber)
}

// User is the User State Object (spec §4.4): a logged-in user's profile,
// bound to the socket that created it, owned by this node.
type User struct {
	mu   sync.Mutex
	user domain.User
}

func (u *User) Get() domain.User {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.user
}

func (u *User) SetDescription(description string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.user.SetDescription(description)
}

func (u *User) SetUserName(name domain.UserName) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.user.SetUserName(name)
}

// UserManager owns every User resident on this node and mediates LOGIN's
// three failure cases (spec §4.4/§4.6): a socket already bound to the
// same user_number is "user_already_logged_in"; bound to a different
// user_number is "someone_else_already_logged_in"; a cluster-wide clash
// with a user_number bound elsewhere is also "user_already_logged_in".
type UserManager struct {
	mu      sync.RWMutex
	node    domain.NodeID
	cluster ClusterUsers
	users   map[domain.UserNumber]*User
}

func NewUserManager(node domain.NodeID, cluster ClusterUsers) *UserManager {
	return &UserManager{
		node:    node,
		cluster: cluster,
		users:   make(map[domain.UserNumber]*User),
	}
}

// Create logs a user in on this node. boundToSocket is the user currently
// bound to the requesting connection, or nil if the connection has no
// bound user yet.
func (m *UserManager) Create(ctx context.Context, boundToSocket *domain.User, number domain.UserNumber, name domain.UserName, description string) (*User, error) {
	if boundToSocket != nil {
		if boundToSocket.UserNumber == number {
			return nil, domain.ErrUserAlreadyLoggedIn
		}
		return nil, &domain.ErrSomeoneElseLoggedIn{User: *boundToSocket}
	}

	profile, err := domain.NewUser(number, name, m.node, description)
	if err != nil {
		return nil, err
	}
	if err := m.cluster.RegisterUser(ctx, number, m.node); err != nil {
		return nil, domain.ErrUserAlreadyLoggedIn
	}

	st := &User{user: profile}
	m.mu.Lock()
	m.users[number] = st
	m.mu.Unlock()

	log.Info().Str("module", "core.user_manager").Str("user", string(number)).Msg("user logged in")
	return st, nil
}

func (m *UserManager) Get(number domain.UserNumber) (*User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[number]
	return u, ok
}

// Count reports how many users are logged in on this node, used by the
// operator status endpoint.
func (m *UserManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users)
}

// Delete unregisters number cluster-wide and frees the local state.
func (m *UserManager) Delete(ctx context.Context, number domain.UserNumber) {
	m.mu.Lock()
	delete(m.users, number)
	m.mu.Unlock()
	m.cluster.UnregisterUser(ctx, number)
	log.Info().Str("module", "core.user_manager").Str("user", string(number)).Msg("user logged out")
}
