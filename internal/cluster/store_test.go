package cluster

import (
	"testing"

	"github.com/dkeye/clustchat/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRegisterLookup(t *testing.T) {
	s := NewStore()
	entry := Entry{Kind: KindRoom, Key: "general"}
	handle := Handle{Node: "node-a", Addr: "http://node-a:4140"}

	require.NoError(t, s.Register(entry, handle))

	got, ok := s.Lookup(entry)
	assert.True(t, ok)
	assert.Equal(t, handle, got)
}

func TestStoreRegisterDuplicateFails(t *testing.T) {
	s := NewStore()
	entry := Entry{Kind: KindUser, Key: "555"}

	require.NoError(t, s.Register(entry, Handle{Node: "node-a"}))
	err := s.Register(entry, Handle{Node: "node-b"})

	assert.ErrorIs(t, err, domain.ErrAlreadyRegistered)
}

func TestStoreUnregisterIsIdempotent(t *testing.T) {
	s := NewStore()
	entry := Entry{Kind: KindUser, Key: "555"}

	s.Unregister(entry)
	s.Unregister(entry)

	_, ok := s.Lookup(entry)
	assert.False(t, ok)
}

func TestStoreEnumerateFiltersByKind(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Register(Entry{Kind: KindRoom, Key: "general"}, Handle{Node: "node-a"}))
	require.NoError(t, s.Register(Entry{Kind: KindUser, Key: "555"}, Handle{Node: "node-a"}))

	entries, handles := s.Enumerate(KindRoom)

	assert.Len(t, entries, 1)
	assert.Len(t, handles, 1)
	assert.Equal(t, "general", entries[0].Key)
}

func TestStoreUnregisterNode(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Register(Entry{Kind: KindRoom, Key: "general"}, Handle{Node: "node-a"}))
	require.NoError(t, s.Register(Entry{Kind: KindUser, Key: "555"}, Handle{Node: "node-b"}))

	s.UnregisterNode("node-a")

	_, ok := s.Lookup(Entry{Kind: KindRoom, Key: "general"})
	assert.False(t, ok)
	_, ok = s.Lookup(Entry{Kind: KindUser, Key: "555"})
	assert.True(t, ok)
}
