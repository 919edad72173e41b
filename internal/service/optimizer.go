package service

import (
	"sort"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-rooms-api/internal/models"
	appErrors "github.com/noah-isme/sma-rooms-api/pkg/errors"
)

// Optimizer is a bounded repair pass over groups that exhausted the cascade
// with a no-room failure. Each iteration reattempts every such group against
// rooms with no fixed occupant, for the group's entire weekly requirement.
// No splitting, no exchanges: plain reattempt only.
type Optimizer struct {
	selector   *RoomSelector
	iterations int
	logger     *zap.Logger
}

// NewOptimizer constructs the optimizer. Iterations below 1 fall back to the
// default of 3.
func NewOptimizer(selector *RoomSelector, iterations int, logger *zap.Logger) *Optimizer {
	if iterations < 1 {
		iterations = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Optimizer{selector: selector, iterations: iterations, logger: logger}
}

// Optimize runs the repair loop and returns the number of repaired groups.
// It stops early when an iteration produces zero repairs, so rerunning it
// with no newly freed rooms is a no-op.
func (o *Optimizer) Optimize(st *RunState) int {
	total := 0
	for iter := 0; iter < o.iterations; iter++ {
		repaired := 0
		for _, groupID := range o.retryable(st) {
			if o.repairGroup(st, groupID) {
				repaired++
			}
		}
		total += repaired
		o.logger.Debug("optimizer iteration",
			zap.Int("iteration", iter+1),
			zap.Int("repaired", repaired),
		)
		if repaired == 0 {
			break
		}
	}
	st.OptimizerFixes += total
	return total
}

// retryable returns the distinct groups whose unresolved entries indicate a
// no-room failure, sorted by ID for a deterministic repair order.
func (o *Optimizer) retryable(st *RunState) []string {
	seen := make(map[string]struct{})
	groups := make([]string, 0)
	for _, entry := range st.Unresolved {
		if entry.Code != appErrors.ErrNoRoom.Code && entry.Code != appErrors.ErrPriorityFloor.Code {
			continue
		}
		if _, ok := seen[entry.GroupID]; ok {
			continue
		}
		seen[entry.GroupID] = struct{}{}
		groups = append(groups, entry.GroupID)
	}
	sort.Strings(groups)
	return groups
}

func (o *Optimizer) repairGroup(st *RunState, groupID string) bool {
	group := st.Groups[groupID]
	if group == nil {
		return false
	}
	blocks := st.GroupBlocks(groupID)
	if len(blocks) == 0 {
		return false
	}

	unfixed := make([]*models.Room, 0, len(st.Rooms))
	for _, room := range st.Rooms {
		if room.FixedOccupantGroup == "" {
			unfixed = append(unfixed, room)
		}
	}
	room := o.selector.SelectBest(unfixed, group, blocks, PolicyStrict)
	if room == nil {
		return false
	}

	// A per-day fallback may have placed some of the group's days already.
	// The whole-week repair supersedes them: release those occupancies and
	// their assignment records so no room keeps a slot nobody uses.
	for _, held := range st.Rooms {
		held.ReleaseGroup(group.ID)
	}
	st.dropAssignments(group.ID)

	st.commitBlocks(group, room, blocks, "optimizer repair")
	room.FixedOccupantGroup = group.ID
	st.dropUnresolved(groupID)
	o.logger.Info("group repaired",
		zap.String("group_id", groupID),
		zap.String("room_id", room.ID),
	)
	return true
}
