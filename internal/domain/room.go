package domain

import "strings"

// RoomName is the unique key for a room. Private rooms always carry the
// PrivateSuffix; public rooms never do.
type RoomName string

// PrivateSuffix marks a room name as private. A private room has one
// replica per current member's node; a public room has exactly one
// authoritative instance cluster-wide.
const PrivateSuffix = "@private"

// RoomKind distinguishes placement and replication rules.
type RoomKind int

const (
	RoomPublic RoomKind = iota
	RoomPrivate
)

// IsPrivateName reports whether a name (as typed by a client, before
// normalization) refers to a private room.
func IsPrivateName(name string) bool {
	return strings.Contains(name, PrivateSuffix)
}

// NormalizeRoomName appends PrivateSuffix to private room names that lack
// it. Public names are returned unchanged.
func NormalizeRoomName(name string, kind RoomKind) RoomName {
	if kind == RoomPrivate && !strings.HasSuffix(name, PrivateSuffix) {
		return RoomName(name + PrivateSuffix)
	}
	return RoomName(name)
}

// Room is a point-in-time snapshot of a room's state: its description,
// the ordered member list, and the current admin. Members is ordered
// because JOIN/INVITE append and LIST responses are expected to reflect
// join order.
type Room struct {
	Name        RoomName `json:"name"`
	Description string   `json:"description"`
	Members     []User   `json:"members"`
	Admin       User     `json:"admin"`
}

// Kind reports public vs. private based on the (already normalized) name.
func (r Room) Kind() RoomKind {
	if IsPrivateName(string(r.Name)) {
		return RoomPrivate
	}
	return RoomPublic
}
