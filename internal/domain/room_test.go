package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPrivateName(t *testing.T) {
	assert.True(t, IsPrivateName("secret@private"))
	assert.False(t, IsPrivateName("general"))
}

func TestNormalizeRoomName(t *testing.T) {
	assert.Equal(t, RoomName("secret@private"), NormalizeRoomName("secret", RoomPrivate))
	assert.Equal(t, RoomName("secret@private"), NormalizeRoomName("secret@private", RoomPrivate))
	assert.Equal(t, RoomName("general"), NormalizeRoomName("general", RoomPublic))
}

func TestRoomKind(t *testing.T) {
	assert.Equal(t, RoomPublic, Room{Name: "general"}.Kind())
	assert.Equal(t, RoomPrivate, Room{Name: "secret@private"}.Kind())
}
