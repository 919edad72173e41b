package service

import (
	"sort"

	"github.com/noah-isme/sma-rooms-api/internal/models"
)

// Named campus time blocks. A group's daily envelope is labelled with the
// first block that fully contains it.
var namedBlocks = []struct {
	Name  string
	Start int
	End   int
}{
	{"Morning", 7 * 60, 13 * 60},
	{"Afternoon", 12 * 60, 18 * 60},
	{"Evening", 18 * 60, 22 * 60},
}

// RunState owns every mutable structure of one allocation run: the room
// inventory, the group and session sets, and the append-only result logs.
// It is built once per run and never shared across runs.
type RunState struct {
	Rooms    []*models.Room
	Groups   map[string]*models.Group
	Sessions []*models.ClassSession

	Assignments []models.Assignment
	Unresolved  []models.Unresolved
	Splits      map[string]models.GroupSplit

	OptimizerFixes int
	FloorExchanges int

	byGroupDay map[string]map[models.Weekday][]*models.ClassSession
}

// NewRunState indexes the in-person sessions by group and day. Sessions here
// must already have passed the classifier: virtual and lab entries never reach
// the allocator.
func NewRunState(rooms []*models.Room, groups map[string]*models.Group, sessions []*models.ClassSession) *RunState {
	st := &RunState{
		Rooms:      rooms,
		Groups:     groups,
		Sessions:   sessions,
		Splits:     make(map[string]models.GroupSplit),
		byGroupDay: make(map[string]map[models.Weekday][]*models.ClassSession),
	}
	for _, session := range sessions {
		days, ok := st.byGroupDay[session.GroupID]
		if !ok {
			days = make(map[models.Weekday][]*models.ClassSession)
			st.byGroupDay[session.GroupID] = days
		}
		days[session.Day] = append(days[session.Day], session)
	}
	return st
}

// GroupDaySessions returns the group's in-person sessions on one day.
func (st *RunState) GroupDaySessions(groupID string, day models.Weekday) []*models.ClassSession {
	return st.byGroupDay[groupID][day]
}

// GroupBlocks derives the group's weekly requirement: one envelope per class
// day spanning from its earliest start to its latest end, sorted by day.
func (st *RunState) GroupBlocks(groupID string) []models.DayBlock {
	days := st.byGroupDay[groupID]
	blocks := make([]models.DayBlock, 0, len(days))
	for day, sessions := range days {
		start, end := sessions[0].Start, sessions[0].End
		for _, session := range sessions[1:] {
			if session.Start < start {
				start = session.Start
			}
			if session.End > end {
				end = session.End
			}
		}
		interval := models.TimeInterval{Day: day, Start: start, End: end}
		blocks = append(blocks, models.DayBlock{Day: day, Interval: interval, Block: blockName(start, end)})
	}
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].Day < blocks[j].Day })
	return blocks
}

// FindRoom looks a room up by ID.
func (st *RunState) FindRoom(id string) *models.Room {
	for _, room := range st.Rooms {
		if room.ID == id {
			return room
		}
	}
	return nil
}

// commitBlocks reserves the room for the given blocks, propagates the room
// onto every matching session and appends one assignment record per session.
func (st *RunState) commitBlocks(group *models.Group, room *models.Room, blocks []models.DayBlock, note string) {
	for _, block := range blocks {
		room.Occupy(group.ID, block.Interval, block.Block)
		for _, session := range st.GroupDaySessions(group.ID, block.Day) {
			session.AssignedRoom = room.ID
			session.AssignedBuilding = room.Building
			st.Assignments = append(st.Assignments, models.Assignment{
				Session: session,
				Room:    room,
				Block:   block.Block,
				Note:    note,
			})
		}
	}
}

// reassignGroup rewrites the room on every existing assignment record and
// session of a group. Used by the floor-exchange pass, which moves an already
// committed group rather than appending a second commit.
func (st *RunState) reassignGroup(groupID string, room *models.Room, note string) {
	for i := range st.Assignments {
		if st.Assignments[i].Session != nil && st.Assignments[i].Session.GroupID == groupID && st.Assignments[i].Room != nil {
			st.Assignments[i].Room = room
			st.Assignments[i].Note = note
		}
	}
	for _, session := range st.Sessions {
		if session.GroupID == groupID && session.AssignedRoom != "" {
			session.AssignedRoom = room.ID
			session.AssignedBuilding = room.Building
		}
	}
}

// dropAssignments removes every room-backed assignment record of a group.
// Direct records (virtual and lab sessions, logged with a nil room) stay.
func (st *RunState) dropAssignments(groupID string) {
	kept := st.Assignments[:0]
	for _, assignment := range st.Assignments {
		if assignment.Session != nil && assignment.Session.GroupID == groupID && assignment.Room != nil {
			continue
		}
		kept = append(kept, assignment)
	}
	st.Assignments = kept
}

// dropUnresolved removes every unresolved entry of a repaired group.
func (st *RunState) dropUnresolved(groupID string) {
	kept := st.Unresolved[:0]
	for _, entry := range st.Unresolved {
		if entry.GroupID != groupID {
			kept = append(kept, entry)
		}
	}
	st.Unresolved = kept
}

func blockName(start, end int) string {
	for _, block := range namedBlocks {
		if start >= block.Start && end <= block.End {
			return block.Name
		}
	}
	return "Custom"
}
