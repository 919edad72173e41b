package models

import (
	"strconv"
	"strings"
)

// Occupancy records one reserved interval in a room.
type Occupancy struct {
	GroupID  string       `json:"group_id"`
	Interval TimeInterval `json:"interval"`
	Block    string       `json:"block"`
}

// Room is a physical space with a mutable occupancy set. FixedOccupantGroup is
// advisory: it marks a group committed to the room for its whole week and only
// influences later ranking, it is not an exclusivity lock.
type Room struct {
	ID                 string      `json:"id"`
	Building           string      `json:"building"`
	Floor              int         `json:"floor"`
	Capacity           int         `json:"capacity"`
	Accessible         bool        `json:"accessible"`
	Occupied           []Occupancy `json:"occupied"`
	FixedOccupantGroup string      `json:"fixed_occupant_group,omitempty"`
}

// NewRoom constructs a room; floor 1 rooms are the accessible ones.
func NewRoom(id, building string, floor, capacity int) *Room {
	return &Room{
		ID:         id,
		Building:   building,
		Floor:      floor,
		Capacity:   capacity,
		Accessible: floor == 1,
	}
}

// IsFree reports whether the interval collides with an existing occupancy.
// Entries belonging to the same group are ignored so re-marking a slot for the
// group that already holds it stays idempotent.
func (r *Room) IsFree(interval TimeInterval, groupID string) bool {
	return r.IsFreeExcluding(interval, groupID)
}

// IsFreeExcluding is IsFree with several groups ignored at once. The
// floor-exchange pass uses it to test a swap as if both parties had already
// released their rooms.
func (r *Room) IsFreeExcluding(interval TimeInterval, groupIDs ...string) bool {
	for _, occ := range r.Occupied {
		skip := false
		for _, id := range groupIDs {
			if occ.GroupID == id {
				skip = true
				break
			}
		}
		if skip {
			continue
		}
		if occ.Interval.Overlaps(interval) {
			return false
		}
	}
	return true
}

// Occupy reserves the interval for a group.
func (r *Room) Occupy(groupID string, interval TimeInterval, block string) {
	r.Occupied = append(r.Occupied, Occupancy{GroupID: groupID, Interval: interval, Block: block})
}

// ReleaseGroup drops every occupancy held by the group and clears the fixed
// occupant marker when it pointed at that group.
func (r *Room) ReleaseGroup(groupID string) {
	kept := r.Occupied[:0]
	for _, occ := range r.Occupied {
		if occ.GroupID != groupID {
			kept = append(kept, occ)
		}
	}
	r.Occupied = kept
	if r.FixedOccupantGroup == groupID {
		r.FixedOccupantGroup = ""
	}
}

// Number extracts the numeric suffix of the room ID ("F-103" -> 103). Used by
// the split proximity score; unknown formats count as zero.
func (r *Room) Number() int {
	idx := strings.LastIndex(r.ID, "-")
	if idx < 0 || idx+1 >= len(r.ID) {
		return 0
	}
	n, err := strconv.Atoi(r.ID[idx+1:])
	if err != nil {
		return 0
	}
	return n
}
