package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	. "github.com/dkeye/clustchat/internal/app"
	"github.com/dkeye/clustchat/internal/app/mocks"
	"github.com/dkeye/clustchat/internal/domain"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type fakeConn struct {
	mu    sync.Mutex
	lines []string
	err   error
}

func (c *fakeConn) WriteLine(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.lines = append(c.lines, line)
	return nil
}

func (c *fakeConn) written() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.lines...)
}

func TestFanoutBroadcastDeliversLocalMembers(t *testing.T) {
	ctrl := gomock.NewController(t)
	rpc := mocks.NewMockRoomRPC(ctrl)
	dir := mocks.NewMockDirectory(ctrl)

	sessions := NewSessions()
	alice := &fakeConn{}
	sessions.Bind("1", alice)

	f := NewFanout("node-a", sessions, rpc, dir)
	members := []domain.User{{UserNumber: "1", Node: "node-a"}}

	f.Broadcast(context.Background(), members, "Alice (general): hi\r\n")

	assert.Equal(t, []string{"Alice (general): hi\r\n"}, alice.written())
}

func TestFanoutBroadcastSkipsMemberWithNoBoundConnection(t *testing.T) {
	ctrl := gomock.NewController(t)
	rpc := mocks.NewMockRoomRPC(ctrl)
	dir := mocks.NewMockDirectory(ctrl)

	sessions := NewSessions()
	f := NewFanout("node-a", sessions, rpc, dir)
	members := []domain.User{{UserNumber: "1", Node: "node-a"}}

	assert.NotPanics(t, func() {
		f.Broadcast(context.Background(), members, "payload\r\n")
	})
}

func TestFanoutBroadcastDeliversRemoteMembersViaRPC(t *testing.T) {
	ctrl := gomock.NewController(t)
	rpc := mocks.NewMockRoomRPC(ctrl)
	dir := mocks.NewMockDirectory(ctrl)

	dir.EXPECT().LookupUser(gomock.Any(), domain.UserNumber("2")).
		Return(domain.NodeID("node-b"), "http://node-b:4140", true)
	rpc.EXPECT().Deliver(gomock.Any(), "http://node-b:4140", DeliverRequest{
		UserNumbers: []domain.UserNumber{"2"},
		Payload:     "Alice (general): hi\r\n",
	}).Return(nil)

	sessions := NewSessions()
	f := NewFanout("node-a", sessions, rpc, dir)
	members := []domain.User{{UserNumber: "2", Node: "node-b"}}

	f.Broadcast(context.Background(), members, "Alice (general): hi\r\n")
}

func TestFanoutBroadcastToleratesOneNodeFailingWhileDeliveringToOthers(t *testing.T) {
	ctrl := gomock.NewController(t)
	rpc := mocks.NewMockRoomRPC(ctrl)
	dir := mocks.NewMockDirectory(ctrl)

	sessions := NewSessions()
	local := &fakeConn{}
	sessions.Bind("1", local)

	dir.EXPECT().LookupUser(gomock.Any(), domain.UserNumber("2")).
		Return(domain.NodeID("node-b"), "http://node-b:4140", true)
	rpc.EXPECT().Deliver(gomock.Any(), "http://node-b:4140", gomock.Any()).
		Return(errors.New("node-b unreachable"))

	f := NewFanout("node-a", sessions, rpc, dir)
	members := []domain.User{
		{UserNumber: "1", Node: "node-a"},
		{UserNumber: "2", Node: "node-b"},
	}

	f.Broadcast(context.Background(), members, "payload\r\n")

	// The remote failure is logged and swallowed; the local member still
	// gets the line.
	assert.Equal(t, []string{"payload\r\n"}, local.written())
}

func TestFanoutBroadcastSkipsRemoteNodeWithNoResolvableAddress(t *testing.T) {
	ctrl := gomock.NewController(t)
	rpc := mocks.NewMockRoomRPC(ctrl)
	dir := mocks.NewMockDirectory(ctrl)

	dir.EXPECT().LookupUser(gomock.Any(), domain.UserNumber("3")).
		Return(domain.NodeID(""), "", false)

	f := NewFanout("node-a", NewSessions(), rpc, dir)
	members := []domain.User{{UserNumber: "3", Node: "node-c"}}

	assert.NotPanics(t, func() {
		f.Broadcast(context.Background(), members, "payload\r\n")
	})
}
