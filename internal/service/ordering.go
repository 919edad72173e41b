package service

import (
	"sort"

	"github.com/noah-isme/sma-rooms-api/internal/models"
)

// Early-morning start times (minutes since midnight) that promote a group to
// the front of the allocation order.
var earlyMorningStarts = map[int]struct{}{
	7 * 60: {},
	8 * 60: {},
	9 * 60: {},
}

// OrderGroups produces the deterministic total order the allocator consumes.
// Key, most significant first: early-morning groups, operator priority set,
// ascending level, descending student count, lexicographic ID. Pure and
// stable: identical inputs always yield the identical sequence.
func OrderGroups(sessions []*models.ClassSession, groups map[string]*models.Group, priority map[string]struct{}) []string {
	seen := make(map[string]struct{}, len(groups))
	early := make(map[string]bool, len(groups))
	order := make([]string, 0, len(groups))

	for _, session := range sessions {
		if _, ok := seen[session.GroupID]; !ok {
			seen[session.GroupID] = struct{}{}
			order = append(order, session.GroupID)
		}
		if _, ok := earlyMorningStarts[session.Start]; ok {
			early[session.GroupID] = true
		}
	}
	// Seed order is sorted by ID so the result never depends on the incoming
	// session ordering or map iteration.
	sort.Strings(order)

	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if early[a] != early[b] {
			return early[a]
		}
		_, aPrio := priority[a]
		_, bPrio := priority[b]
		if aPrio != bPrio {
			return aPrio
		}
		ga, gb := groups[a], groups[b]
		if ga != nil && gb != nil {
			if ga.Level != gb.Level {
				return ga.Level < gb.Level
			}
			if ga.StudentCount != gb.StudentCount {
				return ga.StudentCount > gb.StudentCount
			}
		}
		return a < b
	})

	return order
}

// IsEarlyMorningGroup reports whether any of the group's sessions starts at
// 07:00, 08:00 or 09:00. Used by ordering and by the floor-exchange pass.
func IsEarlyMorningGroup(groupID string, sessions []*models.ClassSession) bool {
	for _, session := range sessions {
		if session.GroupID != groupID {
			continue
		}
		if _, ok := earlyMorningStarts[session.Start]; ok {
			return true
		}
	}
	return false
}
