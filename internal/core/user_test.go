package core

import (
	"context"
	"testing"

	"github.com/dkeye/clustchat/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClusterUsers struct {
	registered map[domain.UserNumber]domain.NodeID
	failNext   bool
}

func newFakeClusterUsers() *fakeClusterUsers {
	return &fakeClusterUsers{registered: make(map[domain.UserNumber]domain.NodeID)}
}

func (f *fakeClusterUsers) RegisterUser(ctx context.Context, number domain.UserNumber, node domain.NodeID) error {
	if f.failNext {
		return domain.ErrAlreadyRegistered
	}
	if _, exists := f.registered[number]; exists {
		return domain.ErrAlreadyRegistered
	}
	f.registered[number] = node
	return nil
}

func (f *fakeClusterUsers) UnregisterUser(ctx context.Context, number domain.UserNumber) {
	delete(f.registered, number)
}

func TestUserManagerCreateLogin(t *testing.T) {
	cluster := newFakeClusterUsers()
	m := NewUserManager("node-a", cluster)

	u, err := m.Create(context.Background(), nil, "555", "Alice", "")
	require.NoError(t, err)
	assert.Equal(t, domain.UserName("Alice"), u.Get().UserName)

	_, ok := m.Get("555")
	assert.True(t, ok)
}

func TestUserManagerAlreadyLoggedInSameSocket(t *testing.T) {
	cluster := newFakeClusterUsers()
	m := NewUserManager("node-a", cluster)

	bound := &domain.User{UserNumber: "555"}
	_, err := m.Create(context.Background(), bound, "555", "Alice", "")

	assert.ErrorIs(t, err, domain.ErrUserAlreadyLoggedIn)
}

func TestUserManagerSomeoneElseLoggedInOnSocket(t *testing.T) {
	cluster := newFakeClusterUsers()
	m := NewUserManager("node-a", cluster)

	bound := &domain.User{UserNumber: "111"}
	_, err := m.Create(context.Background(), bound, "555", "Alice", "")

	var target *domain.ErrSomeoneElseLoggedIn
	require.ErrorAs(t, err, &target)
	assert.Equal(t, domain.UserNumber("111"), target.User.UserNumber)
}

func TestUserManagerClusterClash(t *testing.T) {
	cluster := newFakeClusterUsers()
	cluster.registered["555"] = "node-b"
	m := NewUserManager("node-a", cluster)

	_, err := m.Create(context.Background(), nil, "555", "Alice", "")

	assert.ErrorIs(t, err, domain.ErrUserAlreadyLoggedIn)
}

func TestUserManagerDelete(t *testing.T) {
	cluster := newFakeClusterUsers()
	m := NewUserManager("node-a", cluster)
	_, err := m.Create(context.Background(), nil, "555", "Alice", "")
	require.NoError(t, err)

	m.Delete(context.Background(), "555")

	_, ok := m.Get("555")
	assert.False(t, ok)
	_, ok = cluster.registered["555"]
	assert.False(t, ok)
}
