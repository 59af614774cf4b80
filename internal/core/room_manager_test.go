package core

import (
	"context"
	"testing"

	"github.com/dkeye/clustchat/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClusterRooms struct {
	registered map[domain.RoomName]domain.NodeID
}

func newFakeClusterRooms() *fakeClusterRooms {
	return &fakeClusterRooms{registered: make(map[domain.RoomName]domain.NodeID)}
}

func (f *fakeClusterRooms) RegisterRoom(ctx context.Context, name domain.RoomName, node domain.NodeID) error {
	if _, exists := f.registered[name]; exists {
		return domain.ErrAlreadyRegistered
	}
	f.registered[name] = node
	return nil
}

func (f *fakeClusterRooms) UnregisterRoom(ctx context.Context, name domain.RoomName) {
	delete(f.registered, name)
}

func TestRoomManagerCreatePublicRegistersCluster(t *testing.T) {
	cluster := newFakeClusterRooms()
	m := NewRoomManager("node-a", cluster)
	owner := domain.User{UserNumber: "1", UserName: "Alice"}

	r, err := m.Create(context.Background(), owner, domain.RoomPublic, "general", "", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.RoomName("general"), r.Name())
	assert.Equal(t, domain.NodeID("node-a"), cluster.registered["general"])
}

func TestRoomManagerCreatePrivateSkipsCluster(t *testing.T) {
	cluster := newFakeClusterRooms()
	m := NewRoomManager("node-a", cluster)
	owner := domain.User{UserNumber: "1", UserName: "Alice"}

	r, err := m.Create(context.Background(), owner, domain.RoomPrivate, "secret", "", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.RoomName("secret@private"), r.Name())
	assert.Empty(t, cluster.registered)
}

func TestRoomManagerCreateDuplicateFails(t *testing.T) {
	cluster := newFakeClusterRooms()
	m := NewRoomManager("node-a", cluster)
	owner := domain.User{UserNumber: "1", UserName: "Alice"}

	_, err := m.Create(context.Background(), owner, domain.RoomPublic, "general", "", nil)
	require.NoError(t, err)

	_, err = m.Create(context.Background(), owner, domain.RoomPublic, "general", "", nil)
	assert.ErrorIs(t, err, domain.ErrRoomAlreadyExists)
}

func TestRoomManagerDeleteUnregistersPublic(t *testing.T) {
	cluster := newFakeClusterRooms()
	m := NewRoomManager("node-a", cluster)
	owner := domain.User{UserNumber: "1", UserName: "Alice"}
	_, err := m.Create(context.Background(), owner, domain.RoomPublic, "general", "", nil)
	require.NoError(t, err)

	snap, err := m.Delete(context.Background(), "general")
	require.NoError(t, err)
	assert.Equal(t, domain.RoomName("general"), snap.Name)

	_, ok := m.Lookup("general")
	assert.False(t, ok)
	_, ok = cluster.registered["general"]
	assert.False(t, ok)
}

func TestRoomManagerListReturnsResident(t *testing.T) {
	cluster := newFakeClusterRooms()
	m := NewRoomManager("node-a", cluster)
	owner := domain.User{UserNumber: "1", UserName: "Alice"}
	_, err := m.Create(context.Background(), owner, domain.RoomPublic, "general", "", nil)
	require.NoError(t, err)
	_, err = m.Create(context.Background(), owner, domain.RoomPrivate, "secret", "", nil)
	require.NoError(t, err)

	assert.Len(t, m.List(), 2)
}
