package domain

import "errors"

// Sentinel errors surfaced to clients as response envelopes (see
// internal/protocol). Named after the error kinds spec.md's error-handling
// section enumerates.
var (
	ErrRoomAlreadyExists    = errors.New("room_already_exists")
	ErrRoomNotFound         = errors.New("room_not_found")
	ErrMemberAlreadyExists  = errors.New("member_already_exists")
	ErrMemberNotFound       = errors.New("member_not_found")
	ErrUserAlreadyLoggedIn  = errors.New("user_already_logged_in")
	ErrUserNotFound         = errors.New("user_not_found")
	ErrNotAdmin             = errors.New("you must be the admin of this room")
	ErrNotMember            = errors.New("you must be a member of this room")
	ErrCannotRemoveSelf     = errors.New("use ROOM ... LEAVE")
	ErrPrivateRoomJoin      = errors.New("you can't join a private room")
	ErrUnknownCommand       = errors.New("unknown_command")
	ErrNotLoggedIn          = errors.New("you are not logged in")
	ErrRouteTimeout         = errors.New("the remote node did not respond in time")
	ErrAlreadyRegistered    = errors.New("already_registered")
	ErrSoleMemberUseDelete  = errors.New("you are the only member; use DELETE")
)

// ErrSomeoneElseLoggedIn is returned by a LOGIN attempt on a socket that is
// already bound to a different user_number than the one being logged in.
// It carries the currently-bound user so the dispatcher can report who.
type ErrSomeoneElseLoggedIn struct {
	User User
}

func (e *ErrSomeoneElseLoggedIn) Error() string {
	return "someone_else_already_logged_in"
}
