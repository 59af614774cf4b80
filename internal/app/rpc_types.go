// Package app is the node-local orchestration layer: the Router, the
// Command Dispatcher, and the Broadcast Fanout (spec §4.5, §4.6, §4.8).
// It sits between the transport adapters (internal/adapters) and the
// stateful actors (internal/core), and is the one layer that knows how to
// reach a peer node.
package app

import "github.com/dkeye/clustchat/internal/domain"

// Op names a Room operation that can be invoked locally or shipped to a
// peer node's RPC surface. Read-only ops return a snapshot; mutating ops
// return a snapshot of the room *after* the mutation, which the Command
// Dispatcher uses to build broadcast notifications.
type Op string

const (
	OpCreate         Op = "create"
	OpAddMember      Op = "add_member"
	OpRemoveMember   Op = "remove_member"
	OpSetDescription Op = "set_description"
	OpSetAdmin       Op = "set_admin"
	OpUpdateMember   Op = "update_member"
	OpDelete         Op = "delete"
	OpInspect        Op = "inspect"
	OpIsMember       Op = "is_member"
	OpIsMemberByNum  Op = "is_member_by_number"
	OpIsAdmin        Op = "is_admin"
)

// CreateArgs carries what OpCreate needs beyond the target room name.
type CreateArgs struct {
	Owner       domain.User     `json:"owner"`
	Kind        domain.RoomKind `json:"kind"`
	Description string          `json:"description"`
	Members     []domain.User   `json:"members"`
}

// RoomRequest is the full wire request for one room RPC call.
type RoomRequest struct {
	CorrelationID string          `json:"correlation_id"`
	Op            Op              `json:"op"`
	RoomName      string          `json:"room_name"`
	User          domain.User     `json:"user,omitempty"`
	UserNumber    domain.UserNumber `json:"user_number,omitempty"`
	Description   string          `json:"description,omitempty"`
	Create        *CreateArgs     `json:"create,omitempty"`
}

// RoomResponse is the full wire response. Error is empty on success.
type RoomResponse struct {
	Error string      `json:"error,omitempty"`
	Bool  bool        `json:"bool,omitempty"`
	Room  *domain.Room `json:"room,omitempty"`
}

// DeliverRequest fans a single payload out to every UserNumbers entry
// that has a live connection on the receiving node (spec §4.8).
type DeliverRequest struct {
	CorrelationID string              `json:"correlation_id"`
	UserNumbers   []domain.UserNumber `json:"user_numbers"`
	Payload       string              `json:"payload"`
}
