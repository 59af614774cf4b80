package app

import (
	"context"

	"github.com/dkeye/clustchat/internal/core"
	"github.com/dkeye/clustchat/internal/domain"
)

// Executor runs a RoomRequest against the Room/RoomManager resident on
// this node. It is the single place that translates the wire Op enum into
// core.Room method calls, shared by the Router's local fast path and the
// RPC server's handling of requests that arrived from a peer node.
type Executor struct {
	rooms *core.RoomManager
}

func NewExecutor(rooms *core.RoomManager) *Executor {
	return &Executor{rooms: rooms}
}

func (e *Executor) Exec(ctx context.Context, req RoomRequest) RoomResponse {
	switch req.Op {
	case OpCreate:
		return e.execCreate(ctx, req)
	case OpDelete:
		return e.execDelete(ctx, req)
	default:
		return e.execOnExisting(req)
	}
}

func (e *Executor) execCreate(ctx context.Context, req RoomRequest) RoomResponse {
	if req.Create == nil {
		return errResponse(domain.ErrRoomAlreadyExists)
	}
	r, err := e.rooms.Create(ctx, req.Create.Owner, req.Create.Kind, req.RoomName, req.Create.Description, req.Create.Members)
	if err != nil {
		return errResponse(err)
	}
	snap := r.Snapshot()
	return RoomResponse{Room: &snap}
}

func (e *Executor) execDelete(ctx context.Context, req RoomRequest) RoomResponse {
	snap, err := e.rooms.Delete(ctx, domain.RoomName(req.RoomName))
	if err != nil {
		return errResponse(err)
	}
	return RoomResponse{Room: &snap}
}

func (e *Executor) execOnExisting(req RoomRequest) RoomResponse {
	r, ok := e.rooms.Lookup(domain.RoomName(req.RoomName))
	if !ok {
		return errResponse(domain.ErrRoomNotFound)
	}

	switch req.Op {
	case OpAddMember:
		if err := r.AddMember(req.User); err != nil {
			return errResponse(err)
		}
	case OpRemoveMember:
		if err := r.RemoveMember(req.User); err != nil {
			return errResponse(err)
		}
	case OpSetDescription:
		r.SetDescription(req.Description)
	case OpSetAdmin:
		r.SetAdmin(req.User)
	case OpUpdateMember:
		r.UpdateMember(req.User)
	case OpInspect:
		// read-only, snapshot below
	case OpIsMember:
		snap := r.Snapshot()
		return RoomResponse{Bool: r.IsMember(req.User), Room: &snap}
	case OpIsMemberByNum:
		snap := r.Snapshot()
		return RoomResponse{Bool: r.IsMemberByNumber(req.UserNumber), Room: &snap}
	case OpIsAdmin:
		snap := r.Snapshot()
		return RoomResponse{Bool: r.IsAdmin(req.User), Room: &snap}
	default:
		return errResponse(domain.ErrUnknownCommand)
	}

	snap := r.Snapshot()
	return RoomResponse{Room: &snap}
}

func errResponse(err error) RoomResponse {
	return RoomResponse{Error: err.Error()}
}
