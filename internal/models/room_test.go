package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoomIsFreeIgnoresOwnGroup(t *testing.T) {
	room := NewRoom("F-101", "F", 1, 40)
	slot := TimeInterval{Day: Monday, Start: 7 * 60, End: 9 * 60}
	room.Occupy("301", slot, "Morning")

	// Re-marking the slot for the same group stays idempotent.
	assert.True(t, room.IsFree(slot, "301"))
	assert.False(t, room.IsFree(slot, "302"))
	assert.True(t, room.IsFree(TimeInterval{Day: Monday, Start: 9 * 60, End: 11 * 60}, "302"))
}

func TestRoomIsFreeExcludingMultipleGroups(t *testing.T) {
	room := NewRoom("E-201", "E", 2, 40)
	slot := TimeInterval{Day: Tuesday, Start: 10 * 60, End: 12 * 60}
	room.Occupy("301", slot, "Morning")
	room.Occupy("402", TimeInterval{Day: Tuesday, Start: 12 * 60, End: 14 * 60}, "Afternoon")

	assert.False(t, room.IsFreeExcluding(slot, "402"))
	assert.True(t, room.IsFreeExcluding(slot, "301", "402"))
}

func TestRoomReleaseGroupClearsFixedMarker(t *testing.T) {
	room := NewRoom("D-103", "D", 1, 40)
	room.Occupy("501", TimeInterval{Day: Monday, Start: 7 * 60, End: 9 * 60}, "Morning")
	room.Occupy("502", TimeInterval{Day: Monday, Start: 9 * 60, End: 11 * 60}, "Morning")
	room.FixedOccupantGroup = "501"

	room.ReleaseGroup("501")

	assert.Empty(t, room.FixedOccupantGroup)
	assert.Len(t, room.Occupied, 1)
	assert.Equal(t, "502", room.Occupied[0].GroupID)
}

func TestRoomNumber(t *testing.T) {
	assert.Equal(t, 103, NewRoom("F-103", "F", 1, 40).Number())
	assert.Equal(t, 0, NewRoom("annex", "F", 1, 40).Number())
}

func TestNewRoomFlagsFirstFloorAccessible(t *testing.T) {
	assert.True(t, NewRoom("F-101", "F", 1, 40).Accessible)
	assert.False(t, NewRoom("F-201", "F", 2, 40).Accessible)
}
