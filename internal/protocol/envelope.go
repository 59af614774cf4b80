package protocol

import "fmt"

// Direct formats a reply addressed to the connection itself, not scoped to
// any room (spec §6: "## <text> ##\r\n").
func Direct(text string) string {
	return fmt.Sprintf("## %s ##\r\n", text)
}

// RoomScoped formats a reply about a specific room (spec §6:
// "(<room_name>): ## <text> ##\r\n").
func RoomScoped(room, text string) string {
	return fmt.Sprintf("(%s): ## %s ##\r\n", room, text)
}

// Broadcast formats a chat line delivered to every member of a room (spec
// §6: "<user_name> (<room_name>): <message>\r\n").
func Broadcast(userName, room, message string) string {
	return fmt.Sprintf("%s (%s): %s\r\n", userName, room, message)
}

// UnknownCommand is the fixed line for a line that parsed to CmdUnknown.
const UnknownCommand = "Unknown command !\r\n"

// NotLoggedIn is the fixed line for any command but LOGIN sent before the
// login gate has been passed.
const NotLoggedIn = "You are not logged in\r\n"

// TransportError is written once before a non-"closed" read/write error
// terminates the session (spec §7).
const TransportError = "ERROR\r\n"
