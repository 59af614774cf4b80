package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirect(t *testing.T) {
	assert.Equal(t, "## hello ##\r\n", Direct("hello"))
}

func TestRoomScoped(t *testing.T) {
	assert.Equal(t, "(general): ## hello ##\r\n", RoomScoped("general", "hello"))
}

func TestBroadcast(t *testing.T) {
	assert.Equal(t, "Alice (general): hi there\r\n", Broadcast("Alice", "general", "hi there"))
}
