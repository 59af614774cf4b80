package cluster

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientRegisterLookupEnumerateAgainstRealServer(t *testing.T) {
	store := NewStore()
	srv := httptest.NewServer(NewServer("debug", store))
	defer srv.Close()

	client := NewClient(srv.URL)
	ctx := context.Background()

	require.NoError(t, client.RegisterRoom(ctx, "general", "node-a", "http://node-a:4140"))

	node, addr, ok, err := lookupRoom(t, client, ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "node-a", string(node))
	assert.Equal(t, "http://node-a:4140", addr)

	entries, handles, err := client.Enumerate(ctx, KindRoom)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "general", entries[0].Key)
	assert.Len(t, handles, 1)
}

func lookupRoom(t *testing.T, client *Client, ctx context.Context) (string, string, bool, error) {
	t.Helper()
	h, ok, err := client.Lookup(ctx, Entry{Kind: KindRoom, Key: "general"})
	return string(h.Node), h.Addr, ok, err
}

func TestClientRegisterDuplicateSurfacesAsError(t *testing.T) {
	store := NewStore()
	srv := httptest.NewServer(NewServer("debug", store))
	defer srv.Close()

	client := NewClient(srv.URL)
	ctx := context.Background()

	require.NoError(t, client.RegisterUser(ctx, "555", "node-a", "http://node-a:4140"))
	err := client.RegisterUser(ctx, "555", "node-b", "http://node-b:4140")

	assert.Error(t, err)
}

func TestClientUnregisterUser(t *testing.T) {
	store := NewStore()
	srv := httptest.NewServer(NewServer("debug", store))
	defer srv.Close()

	client := NewClient(srv.URL)
	ctx := context.Background()

	require.NoError(t, client.RegisterUser(ctx, "555", "node-a", "http://node-a:4140"))
	require.NoError(t, client.UnregisterUser(ctx, "555"))

	_, ok, err := client.Lookup(ctx, Entry{Kind: KindUser, Key: "555"})
	require.NoError(t, err)
	assert.False(t, ok)
}
