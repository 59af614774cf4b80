package core

import (
	"testing"

	"github.com/dkeye/clustchat/internal/domain"
	"github.com/stretchr/testify/assert"
)

func newTestRoom() *Room {
	owner := domain.User{UserNumber: "1", UserName: "Alice", Node: "node-a"}
	member := domain.User{UserNumber: "2", UserName: "Bob", Node: "node-a"}
	return newRoom("general", domain.RoomPublic, "node-a", "desc", owner, []domain.User{owner, member})
}

func TestRoomAddMember(t *testing.T) {
	r := newTestRoom()
	carol := domain.User{UserNumber: "3", UserName: "Carol", Node: "node-b"}

	assert.NoError(t, r.AddMember(carol))
	assert.True(t, r.IsMemberByNumber("3"))

	assert.ErrorIs(t, r.AddMember(carol), domain.ErrMemberAlreadyExists)
}

func TestRoomRemoveMember(t *testing.T) {
	r := newTestRoom()
	bob := domain.User{UserNumber: "2", UserName: "Bob", Node: "node-a"}

	assert.NoError(t, r.RemoveMember(bob))
	assert.False(t, r.IsMemberByNumber("2"))
	assert.ErrorIs(t, r.RemoveMember(bob), domain.ErrMemberNotFound)
}

func TestRoomUpdateMemberRefreshesAdmin(t *testing.T) {
	r := newTestRoom()
	renamed := domain.User{UserNumber: "1", UserName: "Alicia", Node: "node-a"}

	r.UpdateMember(renamed)

	assert.Equal(t, renamed, r.Admin())
	members := r.Members()
	assert.Contains(t, members, renamed)
}

func TestRoomIsMemberByWholeRecord(t *testing.T) {
	r := newTestRoom()
	stale := domain.User{UserNumber: "2", UserName: "Bob", Node: "node-a", Description: "stale"}

	// Differs by description field, so whole-record equality fails even
	// though the user_number matches.
	assert.False(t, r.IsMember(stale))
	assert.True(t, r.IsMemberByNumber("2"))
}

func TestRoomSnapshotIsIndependentCopy(t *testing.T) {
	r := newTestRoom()
	snap := r.Snapshot()

	carol := domain.User{UserNumber: "3", UserName: "Carol"}
	assert.NoError(t, r.AddMember(carol))

	assert.Len(t, snap.Members, 2, "snapshot must not see mutations made after it was taken")
}

func TestRoomSetAdminDoesNotValidateMembership(t *testing.T) {
	r := newTestRoom()
	outsider := domain.User{UserNumber: "99", UserName: "Mallory"}

	r.SetAdmin(outsider)

	assert.Equal(t, outsider, r.Admin())
}
