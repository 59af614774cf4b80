package app

import (
	"context"

	"github.com/dkeye/clustchat/internal/core"
	"github.com/dkeye/clustchat/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Directory is the slice of the Cluster Name Registry the Router needs:
// where the authoritative copy of a public room lives, and where a given
// user_number's owning node can be reached, the latter used to address
// private-room replicas by member rather than by room (spec §4.1/§4.5).
type Directory interface {
	LookupRoom(ctx context.Context, name domain.RoomName) (node domain.NodeID, addr string, found bool)
	LookupUser(ctx context.Context, number domain.UserNumber) (node domain.NodeID, addr string, found bool)
	EnumerateRooms(ctx context.Context) []domain.RoomName
}

// Router is the Router component (spec §4.5): given a room name it
// resolves whether the operation runs against the Room resident on this
// node or must be shipped to the node that owns it, and executes either
// way behind one call so the Command Dispatcher never has to know which.
type Router struct {
	node      domain.NodeID
	exec      *Executor
	rooms     *core.RoomManager
	directory Directory
	rpc       RoomRPC
}

func NewRouter(node domain.NodeID, rooms *core.RoomManager, directory Directory, rpc RoomRPC) *Router {
	return &Router{
		node:      node,
		exec:      NewExecutor(rooms),
		rooms:     rooms,
		directory: directory,
		rpc:       rpc,
	}
}

// Invoke runs req against the room it names, locally if this node owns
// that room (or it's a private room resident here), remotely otherwise.
// Private rooms never resolve through lookup: every member node holds its
// own replica, so the caller is responsible for invoking each replica it
// cares about (see ApplyToAllMembers).
func (rt *Router) Invoke(ctx context.Context, req RoomRequest) (RoomResponse, error) {
	if req.CorrelationID == "" {
		req.CorrelationID = uuid.NewString()
	}

	if domain.IsPrivateName(req.RoomName) {
		return rt.exec.Exec(ctx, req), nil
	}

	if _, ok := rt.rooms.Lookup(domain.RoomName(req.RoomName)); ok {
		return rt.exec.Exec(ctx, req), nil
	}

	node, addr, found := rt.directory.LookupRoom(ctx, domain.RoomName(req.RoomName))
	if !found {
		return RoomResponse{Error: domain.ErrRoomNotFound.Error()}, nil
	}
	if node == rt.node {
		// Registry says it's ours but it isn't resident; treat as not found
		// rather than looping back into a remote call to ourselves.
		return RoomResponse{Error: domain.ErrRoomNotFound.Error()}, nil
	}

	resp, err := rt.rpc.InvokeRoom(ctx, addr, req)
	if err != nil {
		log.Warn().Str("module", "app.router").Str("room", req.RoomName).Str("node", string(node)).
			Err(err).Msg("remote room invocation failed")
		return RoomResponse{}, domain.ErrRouteTimeout
	}
	return resp, nil
}

// RouteTo invokes req directly on node (spec §4.5's route_to), used to
// migrate a public room or spawn a private replica. Since the target room
// may not exist on node yet, the address is resolved via a user already
// known to be resident there (the migration's new admin, or an invitee)
// rather than via the room lookup Invoke uses.
func (rt *Router) RouteTo(ctx context.Context, node domain.NodeID, viaUser domain.UserNumber, req RoomRequest) (RoomResponse, error) {
	if req.CorrelationID == "" {
		req.CorrelationID = uuid.NewString()
	}
	if node == rt.node {
		return rt.exec.Exec(ctx, req), nil
	}
	_, addr, ok := rt.directory.LookupUser(ctx, viaUser)
	if !ok {
		return RoomResponse{}, domain.ErrRouteTimeout
	}
	resp, err := rt.rpc.InvokeRoom(ctx, addr, req)
	if err != nil {
		log.Warn().Str("module", "app.router").Str("room", req.RoomName).Str("node", string(node)).
			Err(err).Msg("route_to remote invocation failed")
		return RoomResponse{}, domain.ErrRouteTimeout
	}
	return resp, nil
}

// CreateRoom places a new room: public rooms are always created on this
// node (the creator's node becomes the authoritative node, spec §3), and
// private rooms are created locally too. Replicas on other members' nodes
// are not created here: INVITE spawns each one through RouteTo(OpCreate).
func (rt *Router) CreateRoom(ctx context.Context, owner domain.User, kind domain.RoomKind, rawName, description string, members []domain.User) (*core.Room, error) {
	return rt.rooms.Create(ctx, owner, kind, rawName, description, members)
}

// ApplyToAllMembers runs req once per distinct node among room's current
// members plus this node, locally for this node and via RPC for every
// other, one node after another (spec §4.5's replication fanout for
// private rooms; broadcasts go through Fanout instead). Failures on
// individual remote nodes are logged and do not prevent req from running
// against the others.
func (rt *Router) ApplyToAllMembers(ctx context.Context, room domain.Room, req RoomRequest) []RoomResponse {
	nodes := distinctMemberNodes(room.Members, rt.node)

	responses := make([]RoomResponse, 0, len(nodes))
	for _, node := range nodes {
		if node == rt.node {
			responses = append(responses, rt.exec.Exec(ctx, req))
			continue
		}
		addr, ok := rt.addrFor(ctx, node, room.Members)
		if !ok {
			continue
		}
		resp, err := rt.rpc.InvokeRoom(ctx, addr, req)
		if err != nil {
			log.Warn().Str("module", "app.router").Str("room", req.RoomName).Str("node", string(node)).
				Err(err).Msg("apply_to_all_members remote call failed")
			continue
		}
		responses = append(responses, resp)
	}
	return responses
}

// addrFor finds the RPC address of node by resolving the cluster-registry
// handle of any member currently resident there (domain.User carries a
// node ID but not an address, so the per-user registry entry is the only
// place that address is recorded).
func (rt *Router) addrFor(ctx context.Context, node domain.NodeID, members []domain.User) (string, bool) {
	for _, m := range members {
		if m.Node != node {
			continue
		}
		if _, addr, ok := rt.directory.LookupUser(ctx, m.UserNumber); ok {
			return addr, true
		}
	}
	return "", false
}

func distinctMemberNodes(members []domain.User, self domain.NodeID) []domain.NodeID {
	seen := make(map[domain.NodeID]bool)
	var nodes []domain.NodeID
	seen[self] = true
	nodes = append(nodes, self)
	for _, m := range members {
		if !seen[m.Node] {
			seen[m.Node] = true
			nodes = append(nodes, m.Node)
		}
	}
	return nodes
}
