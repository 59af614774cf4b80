package app

import (
	"context"
	"fmt"

	"github.com/dkeye/clustchat/internal/core"
	"github.com/dkeye/clustchat/internal/domain"
	"github.com/dkeye/clustchat/internal/protocol"
)

// ConnState is the per-connection state the Connection Session hands to
// the Dispatcher on every line: which User, if any, this socket is bound
// to. Nil until a successful LOGIN.
type ConnState struct {
	User *core.User
}

// Dispatcher is the Command Dispatcher (spec §4.6): it turns one parsed
// Command into router/room/user operations and the response envelope(s)
// to write back, broadcasting via Fanout wherever the operation's result
// is member-visible.
type Dispatcher struct {
	node     domain.NodeID
	rooms    *core.RoomManager
	users    *core.UserManager
	router   *Router
	fanout   *Fanout
	sessions *Sessions
	dir      Directory
}

func NewDispatcher(node domain.NodeID, rooms *core.RoomManager, users *core.UserManager, router *Router, fanout *Fanout, sessions *Sessions, dir Directory) *Dispatcher {
	return &Dispatcher{node: node, rooms: rooms, users: users, router: router, fanout: fanout, sessions: sessions, dir: dir}
}

// Handle runs cmd and returns the direct reply line(s) to write to conn.
// Any broadcast side effects are already sent by the time Handle returns.
func (d *Dispatcher) Handle(ctx context.Context, conn Conn, state *ConnState, cmd protocol.Command) string {
	switch cmd.Name {
	case protocol.CmdLogin:
		return d.handleLogin(ctx, conn, state, cmd)
	case protocol.CmdCreateRoom:
		return d.handleCreateRoom(ctx, state, cmd.RoomName, domain.RoomPublic)
	case protocol.CmdCreatePrivateRoom:
		return d.handleCreateRoom(ctx, state, cmd.RoomName, domain.RoomPrivate)
	case protocol.CmdJoinRoom:
		return d.handleJoinRoom(ctx, state, cmd.RoomName)
	case protocol.CmdRoomLeave:
		return d.handleLeave(ctx, state, cmd.RoomName)
	case protocol.CmdRoomRemoveMember:
		return d.handleRemoveMember(ctx, state, cmd.RoomName, domain.UserNumber(cmd.UserNumber))
	case protocol.CmdRoomSetDescription:
		return d.handleSetRoomDescription(ctx, state, cmd.RoomName, cmd.Description)
	case protocol.CmdRoomGetDescription:
		return d.handleGetRoomDescription(ctx, state, cmd.RoomName)
	case protocol.CmdRoomGetMembers:
		return d.handleGetRoomMembers(ctx, state, cmd.RoomName)
	case protocol.CmdRoomInspect:
		return d.handleRoomInspect(ctx, state, cmd.RoomName)
	case protocol.CmdRoomOnWhichNode:
		return d.handleOnWhichNode(ctx, cmd.RoomName)
	case protocol.CmdRoomDelete:
		return d.handleDelete(ctx, state, cmd.RoomName)
	case protocol.CmdRoomSend:
		return d.handleSend(ctx, state, cmd.RoomName, cmd.Message)
	case protocol.CmdRoomInvite:
		return d.handleInvite(ctx, state, cmd.RoomName, domain.UserNumber(cmd.UserNumber))
	case protocol.CmdListJoinedRooms:
		return d.handleListJoinedRooms(ctx, state)
	case protocol.CmdListAccessibleRooms:
		return d.handleListAccessibleRooms(ctx)
	case protocol.CmdGetMyself:
		return d.handleGetMyself(state)
	case protocol.CmdSetMyDescription:
		return d.handleSetMyDescription(ctx, state, cmd.Description)
	case protocol.CmdSetMyUserName:
		return d.handleSetMyUserName(ctx, state, domain.UserName(cmd.UserName))
	case protocol.CmdLogOut:
		return d.handleLogOut(ctx, conn, state)
	default:
		return protocol.UnknownCommand
	}
}

func (d *Dispatcher) handleLogin(ctx context.Context, conn Conn, state *ConnState, cmd protocol.Command) string {
	var bound *domain.User
	if state.User != nil {
		u := state.User.Get()
		bound = &u
	}
	u, err := d.users.Create(ctx, bound, domain.UserNumber(cmd.UserNumber), domain.UserName(cmd.UserName), "")
	if err != nil {
		return protocol.Direct(err.Error())
	}
	state.User = u
	d.sessions.Bind(domain.UserNumber(cmd.UserNumber), conn)
	return protocol.Direct(fmt.Sprintf("We welcome the glorious %s !", cmd.UserName))
}

func (d *Dispatcher) handleLogOut(ctx context.Context, conn Conn, state *ConnState) string {
	if state.User == nil {
		return protocol.NotLoggedIn
	}
	me := state.User.Get()
	for _, room := range d.joinedRoomNames(ctx, me) {
		d.leaveRoom(ctx, me, string(room))
	}
	d.sessions.Unbind(me.UserNumber)
	d.users.Delete(ctx, me.UserNumber)
	state.User = nil
	return protocol.Direct("goodbye")
}

func (d *Dispatcher) handleGetMyself(state *ConnState) string {
	if state.User == nil {
		return protocol.NotLoggedIn
	}
	me := state.User.Get()
	return protocol.Direct(fmt.Sprintf("%s (%s): %s", me.UserName, me.UserNumber, me.Description))
}

func (d *Dispatcher) handleSetMyDescription(ctx context.Context, state *ConnState, description string) string {
	if state.User == nil {
		return protocol.NotLoggedIn
	}
	state.User.SetDescription(description)
	d.propagateProfile(ctx, state.User.Get())
	return protocol.Direct("description updated")
}

func (d *Dispatcher) handleSetMyUserName(ctx context.Context, state *ConnState, name domain.UserName) string {
	if state.User == nil {
		return protocol.NotLoggedIn
	}
	if err := state.User.SetUserName(name); err != nil {
		return protocol.Direct(err.Error())
	}
	d.propagateProfile(ctx, state.User.Get())
	return protocol.Direct("user name updated")
}

// propagateProfile walks every room the user belongs to and pushes the
// refreshed record via update_member (spec §4.6's SET MY ... rule).
func (d *Dispatcher) propagateProfile(ctx context.Context, me domain.User) {
	for _, name := range d.joinedRoomNames(ctx, me) {
		req := RoomRequest{Op: OpUpdateMember, RoomName: string(name), User: me}
		if domain.IsPrivateName(string(name)) {
			if snap, err := d.inspect(ctx, string(name)); err == nil {
				d.router.ApplyToAllMembers(ctx, snap, req)
			}
			continue
		}
		_, _ = d.router.Invoke(ctx, req)
	}
}

func (d *Dispatcher) handleListJoinedRooms(ctx context.Context, state *ConnState) string {
	if state.User == nil {
		return protocol.NotLoggedIn
	}
	me := state.User.Get()
	names := d.joinedRoomNames(ctx, me)
	return protocol.Direct(fmt.Sprintf("joined rooms: %v", names))
}

func (d *Dispatcher) handleListAccessibleRooms(ctx context.Context) string {
	names := d.dir.EnumerateRooms(ctx)
	return protocol.Direct(fmt.Sprintf("accessible rooms: %v", names))
}

// joinedRoomNames is the union of: public rooms (via the cluster registry,
// checked for membership through the router) and private rooms resident
// on this node that list me as a member (spec §4.6's LIST JOINED ROOMS).
func (d *Dispatcher) joinedRoomNames(ctx context.Context, me domain.User) []domain.RoomName {
	var out []domain.RoomName
	for _, name := range d.dir.EnumerateRooms(ctx) {
		resp, err := d.router.Invoke(ctx, RoomRequest{Op: OpIsMemberByNum, RoomName: string(name), UserNumber: me.UserNumber})
		if err == nil && resp.Error == "" && resp.Bool {
			out = append(out, name)
		}
	}
	for _, r := range d.rooms.List() {
		if r.Kind() != domain.RoomPrivate {
			continue
		}
		if r.IsMemberByNumber(me.UserNumber) {
			out = append(out, r.Name())
		}
	}
	return out
}

func (d *Dispatcher) inspect(ctx context.Context, roomName string) (domain.Room, error) {
	resp, err := d.router.Invoke(ctx, RoomRequest{Op: OpInspect, RoomName: roomName})
	if err != nil {
		return domain.Room{}, err
	}
	if resp.Error != "" {
		return domain.Room{}, fmt.Errorf("%s", resp.Error)
	}
	if resp.Room == nil {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	return *resp.Room, nil
}
