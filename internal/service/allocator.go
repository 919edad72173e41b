package service

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-rooms-api/internal/models"
	appErrors "github.com/noah-isme/sma-rooms-api/pkg/errors"
)

// Allocator walks the ordered group sequence and drives the strategy cascade
// for each group: whole-week single room, exhaustive single room, two-room
// split, then (when enabled) per-day independent assignment. A group that
// exhausts every strategy is logged unresolved; the run itself never aborts.
type Allocator struct {
	selector       *RoomSelector
	perDayFallback bool
	logger         *zap.Logger
}

// NewAllocator constructs the allocator.
func NewAllocator(selector *RoomSelector, perDayFallback bool, logger *zap.Logger) *Allocator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Allocator{selector: selector, perDayFallback: perDayFallback, logger: logger}
}

// Allocate processes every group in the given order, mutating room occupancy
// and the run logs as it goes.
func (a *Allocator) Allocate(st *RunState, order []string) {
	for _, groupID := range order {
		a.allocateGroup(st, groupID)
	}
}

// allocateGroup runs the cascade for one group. Any panic during evaluation is
// confined to this group: its sessions are logged unresolved with the panic
// value and the run continues with the next group.
func (a *Allocator) allocateGroup(st *RunState, groupID string) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("group evaluation panicked",
				zap.String("group_id", groupID),
				zap.Any("panic", r),
			)
			for _, block := range st.GroupBlocks(groupID) {
				for _, session := range st.GroupDaySessions(groupID, block.Day) {
					st.Unresolved = append(st.Unresolved, models.Unresolved{
						GroupID: groupID,
						Session: session,
						Code:    appErrors.ErrEvaluation.Code,
						Reason:  fmt.Sprintf("evaluation failed: %v", r),
					})
				}
			}
		}
	}()

	group := st.Groups[groupID]
	if group == nil {
		panic(fmt.Sprintf("group %s has sessions but no group record", groupID))
	}
	blocks := st.GroupBlocks(groupID)
	if len(blocks) == 0 {
		return
	}

	if room := a.selector.SelectBest(st.Rooms, group, blocks, PolicyStrict); room != nil {
		st.commitBlocks(group, room, blocks, "weekly single room")
		room.FixedOccupantGroup = group.ID
		a.logger.Debug("weekly assignment",
			zap.String("group_id", group.ID), zap.String("room_id", room.ID))
		return
	}

	// Exhaustive retry: same hard filters, ranking without the unfixed-room
	// bias. A room already serving another group all week keeps its marker.
	if room := a.selector.SelectBest(st.Rooms, group, blocks, PolicyPermissive); room != nil {
		st.commitBlocks(group, room, blocks, "weekly single room (exhaustive)")
		if room.FixedOccupantGroup == "" {
			room.FixedOccupantGroup = group.ID
		}
		a.logger.Debug("exhaustive assignment",
			zap.String("group_id", group.ID), zap.String("room_id", room.ID))
		return
	}

	if a.allocateSplit(st, group, blocks) {
		return
	}

	if a.perDayFallback && a.allocatePerDay(st, group, blocks) {
		return
	}

	reason := a.selector.FailureReason(st.Rooms, group, blocks)
	for _, block := range blocks {
		for _, session := range st.GroupDaySessions(group.ID, block.Day) {
			st.Unresolved = append(st.Unresolved, models.Unresolved{
				GroupID: group.ID,
				Session: session,
				Code:    reason.Code,
				Reason:  reason.Message,
			})
		}
	}
	a.logger.Warn("group unassigned",
		zap.String("group_id", group.ID),
		zap.String("code", reason.Code),
	)
}

// allocateSplit tries every contiguous two-way partition of the group's class
// days, earliest cut first, and commits the first partition where both halves
// have a feasible room. Among feasible room pairs for a partition the pair
// with the lowest proximity penalty wins.
func (a *Allocator) allocateSplit(st *RunState, group *models.Group, blocks []models.DayBlock) bool {
	if len(blocks) < 2 {
		return false
	}
	for cut := 1; cut < len(blocks); cut++ {
		blocksA, blocksB := blocks[:cut], blocks[cut:]
		candidatesA := a.selector.Candidates(st.Rooms, group, blocksA)
		if len(candidatesA) == 0 {
			continue
		}
		candidatesB := a.selector.Candidates(st.Rooms, group, blocksB)
		if len(candidatesB) == 0 {
			continue
		}

		var bestA, bestB *models.Room
		bestScore := -1
		for _, roomA := range candidatesA {
			for _, roomB := range candidatesB {
				if roomA == roomB {
					// Same room both halves means a plain weekly assignment
					// was feasible; the earlier passes would have taken it.
					continue
				}
				score := proximityScore(roomA, roomB)
				if bestScore < 0 || score < bestScore {
					bestA, bestB, bestScore = roomA, roomB, score
				}
			}
		}
		if bestA == nil {
			continue
		}

		st.commitBlocks(group, bestA, blocksA, "split assignment, first half")
		st.commitBlocks(group, bestB, blocksB, "split assignment, second half")
		st.Splits[group.ID] = models.GroupSplit{
			GroupID: group.ID,
			RoomA:   bestA.ID,
			DaysA:   blockDays(blocksA),
			RoomB:   bestB.ID,
			DaysB:   blockDays(blocksB),
		}
		a.logger.Info("split assignment",
			zap.String("group_id", group.ID),
			zap.String("room_a", bestA.ID),
			zap.String("room_b", bestB.ID),
		)
		return true
	}
	return false
}

// allocatePerDay assigns each day independently. Days without any feasible
// room are logged unresolved; the group counts as handled when at least one
// day got a room.
func (a *Allocator) allocatePerDay(st *RunState, group *models.Group, blocks []models.DayBlock) bool {
	assignedDays := 0
	var missed []models.Unresolved
	for _, block := range blocks {
		dayBlocks := []models.DayBlock{block}
		room := a.selector.SelectBest(st.Rooms, group, dayBlocks, PolicyPermissive)
		if room == nil {
			reason := a.selector.FailureReason(st.Rooms, group, dayBlocks)
			for _, session := range st.GroupDaySessions(group.ID, block.Day) {
				missed = append(missed, models.Unresolved{
					GroupID: group.ID,
					Session: session,
					Code:    reason.Code,
					Reason:  fmt.Sprintf("%s on %s", reason.Message, block.Day),
				})
			}
			continue
		}
		st.commitBlocks(group, room, dayBlocks, "per-day assignment")
		assignedDays++
	}
	if assignedDays == 0 {
		// Nothing placed: the caller logs the whole group unresolved.
		return false
	}
	st.Unresolved = append(st.Unresolved, missed...)
	a.logger.Debug("per-day assignment",
		zap.String("group_id", group.ID),
		zap.Int("days_assigned", assignedDays),
		zap.Int("days_total", len(blocks)),
	)
	return true
}

// proximityScore penalises distance between the two halves of a split. Lower
// is better: same building and floor compares room numbers, same building
// compares floor distance, different buildings dominate everything.
func proximityScore(roomA, roomB *models.Room) int {
	score := 0
	if roomA.Building != roomB.Building {
		score += 1000
	}
	if roomA.Floor != roomB.Floor {
		score += 100
	}
	if roomA.Building == roomB.Building {
		score += 10 * absInt(roomA.Floor-roomB.Floor)
		if roomA.Floor == roomB.Floor {
			score += absInt(roomA.Number() - roomB.Number())
		}
	}
	return score
}

func blockDays(blocks []models.DayBlock) []models.Weekday {
	days := make([]models.Weekday, 0, len(blocks))
	for _, block := range blocks {
		days = append(days, block.Day)
	}
	return days
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
