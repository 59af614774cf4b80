package cluster

import (
	"context"
	"fmt"
	"net/url"

	"github.com/dkeye/clustchat/internal/domain"
)

// Client is the chat node's view of a remote Cluster Name Registry. It
// implements the register/unregister/lookup/enumerate contract of §4.1
// over the HTTP wire protocol in types.go.
type Client struct {
	BaseURL string
}

// NewClient targets the registry reachable at baseURL (e.g.
// "http://127.0.0.1:4141").
func NewClient(baseURL string) *Client {
	return &Client{BaseURL: baseURL}
}

func (c *Client) Register(ctx context.Context, entry Entry, handle Handle) error {
	return postJSON(ctx, c.BaseURL+"/registry/register", registerRequest{Entry: entry, Handle: handle}, nil)
}

// Unregister is idempotent at the store; errors here are network errors
// only, logged by the caller and otherwise ignored (unregister is
// best-effort cleanup, not on the hot path of any client-visible op).
func (c *Client) Unregister(ctx context.Context, entry Entry) error {
	return postJSON(ctx, c.BaseURL+"/registry/unregister", registerRequest{Entry: entry}, nil)
}

func (c *Client) Lookup(ctx context.Context, entry Entry) (Handle, bool, error) {
	u := fmt.Sprintf("%s/registry/lookup?kind=%s&key=%s", c.BaseURL, url.QueryEscape(string(entry.Kind)), url.QueryEscape(entry.Key))
	var resp lookupResponse
	if err := getJSON(ctx, u, &resp); err != nil {
		return Handle{}, false, err
	}
	return resp.Handle, resp.Found, nil
}

func (c *Client) Enumerate(ctx context.Context, kind EntryKind) ([]Entry, []Handle, error) {
	u := fmt.Sprintf("%s/registry/enumerate?kind=%s", c.BaseURL, url.QueryEscape(string(kind)))
	var resp enumerateResponse
	if err := getJSON(ctx, u, &resp); err != nil {
		return nil, nil, err
	}
	return resp.Entries, resp.Handles, nil
}

// RegisterNode records this node's RPC address with the registry, called
// once at chat-node startup (spec §13).
func (c *Client) RegisterNode(ctx context.Context, node domain.NodeID, addr string) error {
	return postJSON(ctx, c.BaseURL+"/registry/node/register", registerNodeRequest{Node: node, Addr: addr}, nil)
}

// UnregisterNode deregisters this node and every room/user entry it owns,
// called best-effort on graceful shutdown.
func (c *Client) UnregisterNode(ctx context.Context, node domain.NodeID) error {
	return postJSON(ctx, c.BaseURL+"/registry/node/unregister", unregisterNodeRequest{Node: node}, nil)
}

// RegisterRoom and UnregisterRoom are the room-entry calls that
// app.ClusterAdapter wraps to satisfy core.ClusterRooms.
func (c *Client) RegisterRoom(ctx context.Context, name domain.RoomName, node domain.NodeID, addr string) error {
	return c.Register(ctx, Entry{Kind: KindRoom, Key: string(name)}, Handle{Node: node, Addr: addr})
}

func (c *Client) UnregisterRoom(ctx context.Context, name domain.RoomName) error {
	return c.Unregister(ctx, Entry{Kind: KindRoom, Key: string(name)})
}

// RegisterUser and UnregisterUser are the user-entry calls that
// app.ClusterAdapter wraps to satisfy core.ClusterUsers.
func (c *Client) RegisterUser(ctx context.Context, number domain.UserNumber, node domain.NodeID, addr string) error {
	return c.Register(ctx, Entry{Kind: KindUser, Key: string(number)}, Handle{Node: node, Addr: addr})
}

func (c *Client) UnregisterUser(ctx context.Context, number domain.UserNumber) error {
	return c.Unregister(ctx, Entry{Kind: KindUser, Key: string(number)})
}
