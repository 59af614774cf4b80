// Package protocol parses the line grammar (spec §6) into command records
// and formats the response envelopes clients expect back.
package protocol

import "strings"

// CommandName enumerates the grammar's verbs. The Command Dispatcher
// switches on this.
type CommandName string

const (
	CmdLogin              CommandName = "LOGIN"
	CmdCreateRoom         CommandName = "CREATE_ROOM"
	CmdCreatePrivateRoom  CommandName = "CREATE_PRIVATE_ROOM"
	CmdJoinRoom           CommandName = "JOIN_ROOM"
	CmdRoomLeave          CommandName = "ROOM_LEAVE"
	CmdRoomRemoveMember   CommandName = "ROOM_REMOVE_MEMBER"
	CmdRoomSetDescription CommandName = "ROOM_SET_DESCRIPTION"
	CmdRoomGetDescription CommandName = "ROOM_GET_DESCRIPTION"
	CmdRoomGetMembers     CommandName = "ROOM_GET_MEMBERS"
	CmdRoomInspect        CommandName = "ROOM_INSPECT"
	CmdRoomOnWhichNode    CommandName = "ROOM_ON_WHICH_NODE"
	CmdRoomDelete         CommandName = "ROOM_DELETE"
	CmdRoomSend           CommandName = "ROOM_SEND"
	CmdRoomInvite         CommandName = "ROOM_INVITE"
	CmdListJoinedRooms    CommandName = "LIST_JOINED_ROOMS"
	CmdListAccessibleRooms CommandName = "LIST_ACCESSIBLE_ROOMS"
	CmdGetMyself          CommandName = "GET_MYSELF"
	CmdSetMyDescription   CommandName = "SET_MY_DESCRIPTION"
	CmdSetMyUserName      CommandName = "SET_MY_USER_NAME"
	CmdLogOut             CommandName = "LOG_OUT"
	CmdUnknown            CommandName = "UNKNOWN"
)

// Command is one parsed line: the verb plus whatever positional/free-text
// arguments that verb needs. Not every field is populated for every verb;
// the dispatcher reads only the ones its case uses.
type Command struct {
	Name        CommandName
	UserNumber  string
	UserName    string
	RoomName    string
	Description string
	Message     string
}

// Parse tokenizes one line per the grammar in spec §6. A line that matches
// no pattern parses to CmdUnknown.
func Parse(line string) Command {
	line = strings.TrimRight(line, "\r\n")
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{Name: CmdUnknown}
	}

	switch strings.ToUpper(fields[0]) {
	case "LOGIN":
		if len(fields) >= 3 {
			return Command{Name: CmdLogin, UserNumber: fields[1], UserName: joinRest(fields, 2)}
		}
	case "CREATE":
		return parseCreate(fields)
	case "JOIN":
		if len(fields) >= 3 && strings.ToUpper(fields[1]) == "ROOM" {
			return Command{Name: CmdJoinRoom, RoomName: fields[2]}
		}
	case "ROOM":
		return parseRoom(fields, line)
	case "LIST":
		if len(fields) >= 3 && strings.ToUpper(fields[1]) == "JOINED" && strings.ToUpper(fields[2]) == "ROOMS" {
			return Command{Name: CmdListJoinedRooms}
		}
		if len(fields) >= 3 && strings.ToUpper(fields[1]) == "ACCESSIBLE" && strings.ToUpper(fields[2]) == "ROOMS" {
			return Command{Name: CmdListAccessibleRooms}
		}
	case "GET":
		if len(fields) >= 2 && strings.ToUpper(fields[1]) == "MYSELF" {
			return Command{Name: CmdGetMyself}
		}
	case "SET":
		return parseSetMy(fields, line)
	case "LOG":
		if len(fields) >= 2 && strings.ToUpper(fields[1]) == "OUT" {
			return Command{Name: CmdLogOut}
		}
	}
	return Command{Name: CmdUnknown}
}

func parseCreate(fields []string) Command {
	// CREATE ROOM <name>  |  CREATE PRIVATE ROOM <name>
	if len(fields) >= 3 && strings.ToUpper(fields[1]) == "ROOM" {
		return Command{Name: CmdCreateRoom, RoomName: fields[2]}
	}
	if len(fields) >= 4 && strings.ToUpper(fields[1]) == "PRIVATE" && strings.ToUpper(fields[2]) == "ROOM" {
		return Command{Name: CmdCreatePrivateRoom, RoomName: fields[3]}
	}
	return Command{Name: CmdUnknown}
}

func parseRoom(fields []string, rawLine string) Command {
	if len(fields) < 3 {
		return Command{Name: CmdUnknown}
	}
	room := fields[1]
	switch strings.ToUpper(fields[2]) {
	case "LEAVE":
		return Command{Name: CmdRoomLeave, RoomName: room}
	case "DELETE":
		return Command{Name: CmdRoomDelete, RoomName: room}
	case "REMOVE":
		if len(fields) >= 5 && strings.ToUpper(fields[3]) == "MEMBER" {
			return Command{Name: CmdRoomRemoveMember, RoomName: room, UserNumber: fields[4]}
		}
	case "SET":
		if len(fields) >= 5 && strings.ToUpper(fields[3]) == "DESCRIPTION" && strings.ToUpper(fields[4]) == "TO" {
			return Command{Name: CmdRoomSetDescription, RoomName: room, Description: joinRest(fields, 5)}
		}
	case "GET":
		if len(fields) >= 4 && strings.ToUpper(fields[3]) == "DESCRIPTION" {
			return Command{Name: CmdRoomGetDescription, RoomName: room}
		}
		if len(fields) >= 4 && strings.ToUpper(fields[3]) == "MEMBERS" {
			return Command{Name: CmdRoomGetMembers, RoomName: room}
		}
	case "INSPECT":
		return Command{Name: CmdRoomInspect, RoomName: room}
	case "ON":
		if len(fields) >= 6 && strings.ToUpper(fields[3]) == "WHICH" && strings.ToUpper(fields[4]) == "NODE" && fields[5] == "?" {
			return Command{Name: CmdRoomOnWhichNode, RoomName: room}
		}
	case "SEND":
		return Command{Name: CmdRoomSend, RoomName: room, Message: messageAfter(rawLine, room, "SEND")}
	case "INVITE":
		if len(fields) >= 4 {
			return Command{Name: CmdRoomInvite, RoomName: room, UserNumber: fields[3]}
		}
	}
	return Command{Name: CmdUnknown}
}

func parseSetMy(fields []string, rawLine string) Command {
	if len(fields) < 4 || strings.ToUpper(fields[1]) != "MY" {
		return Command{Name: CmdUnknown}
	}
	switch strings.ToUpper(fields[2]) {
	case "DESCRIPTION":
		if strings.ToUpper(fields[3]) == "TO" {
			return Command{Name: CmdSetMyDescription, Description: joinRest(fields, 4)}
		}
	case "USER":
		if len(fields) >= 6 && strings.ToUpper(fields[3]) == "NAME" && strings.ToUpper(fields[4]) == "TO" {
			return Command{Name: CmdSetMyUserName, UserName: joinRest(fields, 5)}
		}
	}
	return Command{Name: CmdUnknown}
}

func joinRest(fields []string, from int) string {
	if from >= len(fields) {
		return ""
	}
	return strings.Join(fields[from:], " ")
}

// messageAfter recovers the free-text message after "ROOM <room> SEND ",
// preserving internal whitespace that strings.Fields would have collapsed.
func messageAfter(rawLine, room, verb string) string {
	prefix := "ROOM " + room + " " + verb + " "
	idx := indexFold(rawLine, prefix)
	if idx < 0 {
		return ""
	}
	return rawLine[idx+len(prefix):]
}

func indexFold(s, prefix string) int {
	if len(s) < len(prefix) {
		return -1
	}
	if strings.EqualFold(s[:len(prefix)], prefix) {
		return 0
	}
	return -1
}
