package app

import (
	"context"
	"fmt"

	"github.com/dkeye/clustchat/internal/domain"
	"github.com/dkeye/clustchat/internal/protocol"
)

func (d *Dispatcher) handleCreateRoom(ctx context.Context, state *ConnState, rawName string, kind domain.RoomKind) string {
	if state.User == nil {
		return protocol.NotLoggedIn
	}
	me := state.User.Get()
	r, err := d.router.CreateRoom(ctx, me, kind, rawName, "", nil)
	if err != nil {
		if kind == domain.RoomPublic {
			return protocol.Direct(fmt.Sprintf("Name '%s' is taken by an already existing public room.", rawName))
		}
		return protocol.Direct(err.Error())
	}
	return protocol.RoomScoped(string(r.Name()), "room created")
}

// handleJoinRoom rejects private-named input unconditionally, per the
// open-question resolution: JOIN ROOM on a private-looking name returns
// the same "can't join a private room" response whether or not a room by
// that name exists.
func (d *Dispatcher) handleJoinRoom(ctx context.Context, state *ConnState, roomName string) string {
	if state.User == nil {
		return protocol.NotLoggedIn
	}
	if domain.IsPrivateName(roomName) {
		return protocol.Direct(domain.ErrPrivateRoomJoin.Error())
	}
	me := state.User.Get()
	resp, err := d.router.Invoke(ctx, RoomRequest{Op: OpAddMember, RoomName: roomName, User: me})
	if err != nil {
		return protocol.Direct(err.Error())
	}
	if resp.Error != "" {
		return protocol.Direct(resp.Error)
	}
	if resp.Room != nil {
		d.fanout.Broadcast(ctx, resp.Room.Members, protocol.RoomScoped(roomName, fmt.Sprintf("%s joined the room", me.UserName)))
	}
	return protocol.RoomScoped(roomName, "you joined the room")
}

func (d *Dispatcher) handleLeave(ctx context.Context, state *ConnState, roomName string) string {
	if state.User == nil {
		return protocol.NotLoggedIn
	}
	me := state.User.Get()
	if !d.leaveRoom(ctx, me, roomName) {
		return protocol.RoomScoped(roomName, domain.ErrNotMember.Error())
	}
	return protocol.RoomScoped(roomName, "you left the room")
}

// leaveRoom implements LEAVE's fan-out/migration discipline (spec §4.6),
// shared with LOG OUT, which runs it against every room the user belongs
// to. It reports whether the caller was actually a member.
func (d *Dispatcher) leaveRoom(ctx context.Context, me domain.User, roomName string) bool {
	snap, err := d.inspect(ctx, roomName)
	if err != nil {
		return false
	}
	if !containsByNumber(snap.Members, me.UserNumber) {
		return false
	}

	if len(snap.Members) == 1 {
		d.deleteRoom(ctx, snap, roomName)
		return true
	}

	wasAdmin := snap.Admin.UserNumber == me.UserNumber
	remaining := removeByNumber(snap.Members, me.UserNumber)

	if domain.IsPrivateName(roomName) {
		d.router.ApplyToAllMembers(ctx, snap, RoomRequest{Op: OpRemoveMember, RoomName: roomName, User: me})
		if wasAdmin && len(remaining) > 0 {
			d.router.ApplyToAllMembers(ctx, snap, RoomRequest{Op: OpSetAdmin, RoomName: roomName, User: remaining[0]})
		}
		// The leaver's own replica has no further reason to exist once
		// they're no longer a member; every other replica keeps theirs.
		_, _ = d.rooms.Delete(ctx, domain.NormalizeRoomName(roomName, domain.RoomPrivate))
		d.fanout.Broadcast(ctx, remaining, protocol.RoomScoped(roomName, fmt.Sprintf("%s left the room", me.UserName)))
		return true
	}

	// Public room.
	if !wasAdmin {
		_, _ = d.router.Invoke(ctx, RoomRequest{Op: OpRemoveMember, RoomName: roomName, User: me})
		d.fanout.Broadcast(ctx, remaining, protocol.RoomScoped(roomName, fmt.Sprintf("%s left the room", me.UserName)))
		return true
	}

	// Admin is leaving: migrate the room to the new admin's node.
	newAdmin := remaining[0]
	members := removeByNumber(remaining, newAdmin.UserNumber)
	_, _ = d.router.Invoke(ctx, RoomRequest{Op: OpDelete, RoomName: roomName})
	_, err = d.router.RouteTo(ctx, newAdmin.Node, newAdmin.UserNumber, RoomRequest{
		Op:       OpCreate,
		RoomName: roomName,
		Create:   &CreateArgs{Owner: newAdmin, Kind: domain.RoomPublic, Description: snap.Description, Members: members},
	})
	if err != nil {
		d.fanout.Broadcast(ctx, remaining, protocol.RoomScoped(roomName, "room migration failed"))
		return true
	}
	d.fanout.Broadcast(ctx, remaining, protocol.RoomScoped(roomName, fmt.Sprintf("%s left the room; %s is now admin", me.UserName, newAdmin.UserName)))
	return true
}

func (d *Dispatcher) handleRemoveMember(ctx context.Context, state *ConnState, roomName string, target domain.UserNumber) string {
	if state.User == nil {
		return protocol.NotLoggedIn
	}
	me := state.User.Get()
	if target == me.UserNumber {
		return protocol.RoomScoped(roomName, domain.ErrCannotRemoveSelf.Error())
	}
	snap, err := d.inspect(ctx, roomName)
	if err != nil {
		return protocol.RoomScoped(roomName, err.Error())
	}
	if snap.Admin.UserNumber != me.UserNumber {
		return protocol.RoomScoped(roomName, domain.ErrNotAdmin.Error())
	}
	removed, ok := findByNumber(snap.Members, target)
	if !ok {
		return protocol.RoomScoped(roomName, domain.ErrMemberNotFound.Error())
	}

	req := RoomRequest{Op: OpRemoveMember, RoomName: roomName, User: removed}
	if domain.IsPrivateName(roomName) {
		d.router.ApplyToAllMembers(ctx, snap, req)
	} else {
		_, _ = d.router.Invoke(ctx, req)
	}
	remaining := removeByNumber(snap.Members, target)
	d.fanout.Broadcast(ctx, remaining, protocol.RoomScoped(roomName, fmt.Sprintf("%s was removed from the room", removed.UserName)))
	return protocol.RoomScoped(roomName, "member removed")
}

func (d *Dispatcher) handleSetRoomDescription(ctx context.Context, state *ConnState, roomName, description string) string {
	if state.User == nil {
		return protocol.NotLoggedIn
	}
	me := state.User.Get()
	snap, err := d.inspect(ctx, roomName)
	if err != nil {
		return protocol.RoomScoped(roomName, err.Error())
	}
	if snap.Admin.UserNumber != me.UserNumber {
		return protocol.RoomScoped(roomName, domain.ErrNotAdmin.Error())
	}

	req := RoomRequest{Op: OpSetDescription, RoomName: roomName, Description: description}
	if domain.IsPrivateName(roomName) {
		d.router.ApplyToAllMembers(ctx, snap, req)
	} else {
		_, _ = d.router.Invoke(ctx, req)
	}
	d.fanout.Broadcast(ctx, snap.Members, protocol.RoomScoped(roomName, "description updated"))
	return protocol.RoomScoped(roomName, "description updated")
}

func (d *Dispatcher) handleGetRoomDescription(ctx context.Context, state *ConnState, roomName string) string {
	if err := d.requireMember(ctx, state, roomName); err != "" {
		return err
	}
	snap, err := d.inspect(ctx, roomName)
	if err != nil {
		return protocol.RoomScoped(roomName, err.Error())
	}
	return protocol.RoomScoped(roomName, snap.Description)
}

func (d *Dispatcher) handleGetRoomMembers(ctx context.Context, state *ConnState, roomName string) string {
	if err := d.requireMember(ctx, state, roomName); err != "" {
		return err
	}
	snap, err := d.inspect(ctx, roomName)
	if err != nil {
		return protocol.RoomScoped(roomName, err.Error())
	}
	return protocol.RoomScoped(roomName, fmt.Sprintf("%v", memberNames(snap.Members)))
}

func (d *Dispatcher) handleRoomInspect(ctx context.Context, state *ConnState, roomName string) string {
	if err := d.requireMember(ctx, state, roomName); err != "" {
		return err
	}
	snap, err := d.inspect(ctx, roomName)
	if err != nil {
		return protocol.RoomScoped(roomName, err.Error())
	}
	return protocol.RoomScoped(roomName, fmt.Sprintf("description=%q admin=%s members=%v", snap.Description, snap.Admin.UserName, memberNames(snap.Members)))
}

func (d *Dispatcher) handleOnWhichNode(ctx context.Context, roomName string) string {
	if domain.IsPrivateName(roomName) {
		return protocol.RoomScoped(roomName, "nil")
	}
	node, _, found := d.dir.LookupRoom(ctx, domain.RoomName(roomName))
	if !found {
		return protocol.RoomScoped(roomName, "nil")
	}
	return protocol.RoomScoped(roomName, string(node))
}

func (d *Dispatcher) handleDelete(ctx context.Context, state *ConnState, roomName string) string {
	if state.User == nil {
		return protocol.NotLoggedIn
	}
	me := state.User.Get()
	snap, err := d.inspect(ctx, roomName)
	if err != nil {
		return protocol.RoomScoped(roomName, err.Error())
	}
	if snap.Admin.UserNumber != me.UserNumber {
		return protocol.RoomScoped(roomName, domain.ErrNotAdmin.Error())
	}
	d.deleteRoom(ctx, snap, roomName)
	return protocol.RoomScoped(roomName, "room deleted")
}

func (d *Dispatcher) deleteRoom(ctx context.Context, snap domain.Room, roomName string) {
	req := RoomRequest{Op: OpDelete, RoomName: roomName}
	if domain.IsPrivateName(roomName) {
		d.router.ApplyToAllMembers(ctx, snap, req)
	} else {
		_, _ = d.router.Invoke(ctx, req)
	}
	d.fanout.Broadcast(ctx, snap.Members, protocol.RoomScoped(roomName, "room deleted"))
}

func (d *Dispatcher) handleSend(ctx context.Context, state *ConnState, roomName, message string) string {
	if state.User == nil {
		return protocol.NotLoggedIn
	}
	me := state.User.Get()
	snap, err := d.inspect(ctx, roomName)
	if err != nil {
		return protocol.RoomScoped(roomName, err.Error())
	}
	if !containsByNumber(snap.Members, me.UserNumber) {
		return protocol.RoomScoped(roomName, domain.ErrNotMember.Error())
	}
	line := protocol.Broadcast(string(me.UserName), roomName, message)
	d.fanout.Broadcast(ctx, snap.Members, line)
	return ""
}

// handleInvite implements the three-step private-room replication: add
// the invitee to the caller's local replica, spawn a fresh replica on the
// invitee's node via route_to(create, ...), then fan the new member out
// to every pre-existing replica so all of them converge (spec §4.6).
func (d *Dispatcher) handleInvite(ctx context.Context, state *ConnState, roomName string, target domain.UserNumber) string {
	if state.User == nil {
		return protocol.NotLoggedIn
	}
	me := state.User.Get()
	snap, err := d.inspect(ctx, roomName)
	if err != nil {
		return protocol.RoomScoped(roomName, err.Error())
	}
	if !containsByNumber(snap.Members, me.UserNumber) {
		return protocol.RoomScoped(roomName, domain.ErrNotMember.Error())
	}
	if containsByNumber(snap.Members, target) {
		return protocol.RoomScoped(roomName, domain.ErrMemberAlreadyExists.Error())
	}

	targetNode, _, found := d.dir.LookupUser(ctx, target)
	if !found {
		return protocol.RoomScoped(roomName, domain.ErrUserNotFound.Error())
	}
	invitee := domain.User{UserNumber: target, Node: targetNode}

	if !domain.IsPrivateName(roomName) {
		resp, err := d.router.Invoke(ctx, RoomRequest{Op: OpAddMember, RoomName: roomName, User: invitee})
		if err != nil {
			return protocol.RoomScoped(roomName, err.Error())
		}
		if resp.Error != "" {
			return protocol.RoomScoped(roomName, resp.Error)
		}
		if resp.Room != nil {
			d.fanout.Broadcast(ctx, resp.Room.Members, protocol.RoomScoped(roomName, fmt.Sprintf("%s was invited", target)))
		}
		return protocol.RoomScoped(roomName, "invited")
	}

	// Private: add locally, spawn the invitee's replica, then converge
	// every other existing replica.
	_, _ = d.router.Invoke(ctx, RoomRequest{Op: OpAddMember, RoomName: roomName, User: invitee})
	priorWithoutAdmin := removeByNumber(snap.Members, snap.Admin.UserNumber)
	membersForReplica := append(append([]domain.User{}, priorWithoutAdmin...), invitee)
	_, err = d.router.RouteTo(ctx, targetNode, target, RoomRequest{
		Op:       OpCreate,
		RoomName: roomName,
		Create:   &CreateArgs{Owner: snap.Admin, Kind: domain.RoomPrivate, Description: snap.Description, Members: membersForReplica},
	})
	if err != nil {
		return protocol.RoomScoped(roomName, "could not reach invitee's node")
	}
	d.router.ApplyToAllMembers(ctx, snap, RoomRequest{Op: OpAddMember, RoomName: roomName, User: invitee})

	notify := append([]domain.User{invitee}, snap.Members...)
	d.fanout.Broadcast(ctx, notify, protocol.RoomScoped(roomName, fmt.Sprintf("%s was invited", target)))
	return protocol.RoomScoped(roomName, "invited")
}

func (d *Dispatcher) requireMember(ctx context.Context, state *ConnState, roomName string) string {
	if state.User == nil {
		return protocol.NotLoggedIn
	}
	me := state.User.Get()
	snap, err := d.inspect(ctx, roomName)
	if err != nil {
		return protocol.RoomScoped(roomName, err.Error())
	}
	if !containsByNumber(snap.Members, me.UserNumber) {
		return protocol.RoomScoped(roomName, domain.ErrNotMember.Error())
	}
	return ""
}

func containsByNumber(members []domain.User, number domain.UserNumber) bool {
	_, ok := findByNumber(members, number)
	return ok
}

func findByNumber(members []domain.User, number domain.UserNumber) (domain.User, bool) {
	for _, m := range members {
		if m.UserNumber == number {
			return m, true
		}
	}
	return domain.User{}, false
}

func removeByNumber(members []domain.User, number domain.UserNumber) []domain.User {
	out := make([]domain.User, 0, len(members))
	for _, m := range members {
		if m.UserNumber != number {
			out = append(out, m)
		}
	}
	return out
}

func memberNames(members []domain.User) []domain.UserName {
	out := make([]domain.UserName, 0, len(members))
	for _, m := range members {
		out = append(out, m.UserName)
	}
	return out
}
