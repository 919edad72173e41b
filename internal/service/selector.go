package service

import (
	"fmt"
	"sort"

	"github.com/noah-isme/sma-rooms-api/internal/models"
	appErrors "github.com/noah-isme/sma-rooms-api/pkg/errors"
)

// SelectionPolicy controls the candidate ranking bias.
type SelectionPolicy int

const (
	// PolicyStrict prefers rooms without a fixed occupant before ranking by
	// capacity fit and floor.
	PolicyStrict SelectionPolicy = iota
	// PolicyPermissive drops the unfixed-room bias: every room competes,
	// ranked purely by capacity fit then floor.
	PolicyPermissive
)

// RoomSelector filters rooms down to feasible candidates and ranks them. A
// priority group is hard-restricted to first-floor rooms: if none survive the
// restriction the attempt reports no candidate instead of falling back.
type RoomSelector struct {
	checker  *ConflictChecker
	priority map[string]struct{}
}

// NewRoomSelector constructs a selector bound to an operator priority set.
func NewRoomSelector(checker *ConflictChecker, priority map[string]struct{}) *RoomSelector {
	if checker == nil {
		checker = NewConflictChecker()
	}
	return &RoomSelector{checker: checker, priority: priority}
}

// Candidates returns every room that passes the conflict checker for all
// blocks, with the priority floor restriction applied.
func (s *RoomSelector) Candidates(rooms []*models.Room, group *models.Group, blocks []models.DayBlock) []*models.Room {
	candidates := make([]*models.Room, 0, len(rooms))
	for _, room := range rooms {
		if err := s.checker.AvailableAll(room, blocks, group); err == nil {
			candidates = append(candidates, room)
		}
	}
	if _, mandatory := s.priority[group.ID]; mandatory {
		restricted := candidates[:0]
		for _, room := range candidates {
			if room.Floor == 1 {
				restricted = append(restricted, room)
			}
		}
		candidates = restricted
	}
	return candidates
}

// SelectBest picks the highest-ranked feasible room, or nil when none exists.
// The tie-break ladder is applied as successive stable sorts with the most
// significant criterion sorted last.
func (s *RoomSelector) SelectBest(rooms []*models.Room, group *models.Group, blocks []models.DayBlock, policy SelectionPolicy) *models.Room {
	candidates := s.Candidates(rooms, group, blocks)
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Floor < candidates[j].Floor
	})
	sort.SliceStable(candidates, func(i, j int) bool {
		return capacityFit(candidates[i], group) < capacityFit(candidates[j], group)
	})
	if policy == PolicyStrict {
		sort.SliceStable(candidates, func(i, j int) bool {
			return (candidates[i].FixedOccupantGroup == "") && (candidates[j].FixedOccupantGroup != "")
		})
	}

	return candidates[0]
}

// FailureReason explains an empty candidate set. A priority group that would
// have had feasible rooms off floor 1 gets the floor-restriction reason; every
// other exhaustion is a plain no-room-available.
func (s *RoomSelector) FailureReason(rooms []*models.Room, group *models.Group, blocks []models.DayBlock) *appErrors.Error {
	if _, mandatory := s.priority[group.ID]; mandatory {
		for _, room := range rooms {
			if room.Floor != 1 && s.checker.AvailableAll(room, blocks, group) == nil {
				return appErrors.Clone(appErrors.ErrPriorityFloor,
					fmt.Sprintf("group %s is priority-restricted to floor 1 and no first-floor room is free", group.ID))
			}
		}
	}
	return appErrors.Clone(appErrors.ErrNoRoom,
		fmt.Sprintf("no room available for group %s", group.ID))
}

func capacityFit(room *models.Room, group *models.Group) int {
	fit := room.Capacity - group.StudentCount
	if fit < 0 {
		return -fit
	}
	return fit
}
