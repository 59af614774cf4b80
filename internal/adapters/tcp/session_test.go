package tcp

import (
	"bufio"
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/dkeye/clustchat/internal/app"
	"github.com/dkeye/clustchat/internal/core"
	"github.com/dkeye/clustchat/internal/domain"
	"github.com/stretchr/testify/require"
)

// stubRegistry records public room registrations so the Dispatcher's
// LOG OUT flow can find them through EnumerateRooms; user registrations
// always succeed and lookups never resolve.
type stubRegistry struct {
	mu    sync.Mutex
	rooms map[domain.RoomName]bool
}

func newStubRegistry() *stubRegistry {
	return &stubRegistry{rooms: make(map[domain.RoomName]bool)}
}

func (r *stubRegistry) RegisterRoom(ctx context.Context, name domain.RoomName, node domain.NodeID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rooms[name] {
		return domain.ErrAlreadyRegistered
	}
	r.rooms[name] = true
	return nil
}
func (r *stubRegistry) UnregisterRoom(ctx context.Context, name domain.RoomName) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rooms, name)
}
func (r *stubRegistry) RegisterUser(ctx context.Context, number domain.UserNumber, node domain.NodeID) error {
	return nil
}
func (r *stubRegistry) UnregisterUser(ctx context.Context, number domain.UserNumber) {}
func (r *stubRegistry) LookupRoom(ctx context.Context, name domain.RoomName) (domain.NodeID, string, bool) {
	return "", "", false
}
func (r *stubRegistry) LookupUser(ctx context.Context, number domain.UserNumber) (domain.NodeID, string, bool) {
	return "", "", false
}
func (r *stubRegistry) EnumerateRooms(ctx context.Context) []domain.RoomName {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.RoomName, 0, len(r.rooms))
	for name := range r.rooms {
		out = append(out, name)
	}
	return out
}

type nullRPC struct{}

func (nullRPC) InvokeRoom(ctx context.Context, addr string, req app.RoomRequest) (app.RoomResponse, error) {
	return app.RoomResponse{}, nil
}
func (nullRPC) Deliver(ctx context.Context, addr string, req app.DeliverRequest) error { return nil }

func startTestListener(t *testing.T) (string, func()) {
	t.Helper()
	reg := newStubRegistry()
	rooms := core.NewRoomManager("node-a", reg)
	users := core.NewUserManager("node-a", reg)
	sessions := app.NewSessions()
	router := app.NewRouter("node-a", rooms, reg, nullRPC{})
	fanout := app.NewFanout("node-a", sessions, nullRPC{}, reg)
	dispatcher := app.NewDispatcher("node-a", rooms, users, router, fanout, sessions, reg)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	listener := &Listener{dispatcher: dispatcher, limiter: NewCommandRateLimiter(1000, time.Minute)}
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go listener.handle(ctx, conn)
		}
	}()

	return ln.Addr().String(), func() {
		cancel()
		ln.Close()
	}
}

func TestSessionRejectsCommandsBeforeLogin(t *testing.T) {
	addr, stop := startTestListener(t)
	defer stop()

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte("LIST JOINED ROOMS\n"))
	require.NoError(t, err)

	reader := bufio.NewReader(conn)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, "You are not logged in\r\n", line)
}

func TestSessionLoginThenCreateRoom(t *testing.T) {
	addr, stop := startTestListener(t)
	defer stop()

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	reader := bufio.NewReader(conn)

	_, err = conn.Write([]byte("LOGIN 1 Alice\n"))
	require.NoError(t, err)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	require.Contains(t, line, "glorious")

	_, err = conn.Write([]byte("CREATE ROOM general\n"))
	require.NoError(t, err)
	line, err = reader.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, "(general): ## room created ##\r\n", line)
}

func TestSessionCloseTriggersLogOutCleanup(t *testing.T) {
	addr, stop := startTestListener(t)
	defer stop()

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)

	reader := bufio.NewReader(conn)
	_, err = conn.Write([]byte("LOGIN 1 Alice\n"))
	require.NoError(t, err)
	_, err = reader.ReadString('\n')
	require.NoError(t, err)

	_, err = conn.Write([]byte("CREATE ROOM general\n"))
	require.NoError(t, err)
	_, err = reader.ReadString('\n')
	require.NoError(t, err)

	conn.Close()
	// Give the server's deferred cleanup a moment to run before asserting.
	time.Sleep(50 * time.Millisecond)

	conn2, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn2.Close()
	reader2 := bufio.NewReader(conn2)

	_, err = conn2.Write([]byte("LOGIN 2 Bob\n"))
	require.NoError(t, err)
	_, err = reader2.ReadString('\n')
	require.NoError(t, err)

	_, err = conn2.Write([]byte("CREATE ROOM general\n"))
	require.NoError(t, err)
	line, err := reader2.ReadString('\n')
	require.NoError(t, err)
	// If LOG OUT on close hadn't cleaned up Alice's rooms, general would
	// still exist and this would fail with the "already taken" reply.
	require.Equal(t, "(general): ## room created ##\r\n", line)
}
