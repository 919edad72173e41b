package models

import "time"

// Assignment is one append-only log entry per placed session. Room is nil for
// virtual and lab sessions, which are recorded for reporting symmetry.
type Assignment struct {
	Session *ClassSession `json:"session"`
	Room    *Room         `json:"room,omitempty"`
	Block   string        `json:"block,omitempty"`
	Note    string        `json:"note"`
}

// Unresolved records a session or group that exhausted every strategy. Code
// carries the error-taxonomy identifier, Reason the human-readable message.
type Unresolved struct {
	GroupID string        `json:"group_id"`
	Session *ClassSession `json:"session,omitempty"`
	Code    string        `json:"code"`
	Reason  string        `json:"reason"`
}

// GroupSplit records a week divided across two rooms along a contiguous-day
// boundary. Informational, consumed by reporting.
type GroupSplit struct {
	GroupID string    `json:"group_id"`
	RoomA   string    `json:"room_a"`
	DaysA   []Weekday `json:"days_a"`
	RoomB   string    `json:"room_b"`
	DaysB   []Weekday `json:"days_b"`
}

// DayBlock is a group's derived requirement for one day: the envelope of its
// in-person sessions, tagged with the named time block that encloses it.
type DayBlock struct {
	Day      Weekday      `json:"day"`
	Interval TimeInterval `json:"interval"`
	Block    string       `json:"block"`
}

// AllocationRun is a completed engine run persisted for audit.
type AllocationRun struct {
	ID              string    `db:"id" json:"id"`
	PriorityGroups  []string  `db:"-" json:"priority_groups"`
	TotalSessions   int       `db:"total_sessions" json:"total_sessions"`
	InPerson        int       `db:"in_person" json:"in_person"`
	Virtual         int       `db:"virtual" json:"virtual"`
	Lab             int       `db:"lab" json:"lab"`
	Assigned        int       `db:"assigned" json:"assigned"`
	UnresolvedCount int       `db:"unresolved" json:"unresolved"`
	SplitGroups     int       `db:"split_groups" json:"split_groups"`
	OptimizerFixes  int       `db:"optimizer_fixes" json:"optimizer_fixes"`
	FloorExchanges  int       `db:"floor_exchanges" json:"floor_exchanges"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
