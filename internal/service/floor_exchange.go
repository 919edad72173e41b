package service

import (
	"go.uber.org/zap"

	"github.com/noah-isme/sma-rooms-api/internal/models"
)

// FloorExchanger is the final adjustment pass. An early-morning group that
// ended up as the fixed occupant of an upper-floor room is swapped with a
// ground-floor fixed occupant when the exchange is feasible in both
// directions for both groups' entire weeks. First feasible partner wins.
type FloorExchanger struct {
	checker  *ConflictChecker
	priority map[string]struct{}
	logger   *zap.Logger
}

// NewFloorExchanger constructs the exchanger.
func NewFloorExchanger(checker *ConflictChecker, priority map[string]struct{}, logger *zap.Logger) *FloorExchanger {
	if checker == nil {
		checker = NewConflictChecker()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FloorExchanger{checker: checker, priority: priority, logger: logger}
}

// Adjust scans fixed occupancies on floors 2 through 4 and swaps each
// early-morning occupant with the first feasible ground-floor partner.
// Returns the number of exchanges performed.
func (f *FloorExchanger) Adjust(st *RunState) int {
	swaps := 0
	for _, upper := range st.Rooms {
		if upper.Floor < 2 || upper.Floor > 4 || upper.FixedOccupantGroup == "" {
			continue
		}
		groupID := upper.FixedOccupantGroup
		if !IsEarlyMorningGroup(groupID, st.Sessions) {
			continue
		}
		group := st.Groups[groupID]
		if group == nil {
			continue
		}
		blocks := st.GroupBlocks(groupID)
		if len(blocks) == 0 {
			continue
		}

		for _, ground := range st.Rooms {
			if ground.Floor != 1 || ground.FixedOccupantGroup == "" {
				continue
			}
			partnerID := ground.FixedOccupantGroup
			partner := st.Groups[partnerID]
			if partner == nil {
				continue
			}
			if !f.swappable(group, blocks, partner, st.GroupBlocks(partnerID), upper, ground) {
				continue
			}

			f.swap(st, group, upper, partner, ground)
			swaps++
			break
		}
	}
	st.FloorExchanges += swaps
	return swaps
}

// swappable checks the exchange in both directions: each group must fit the
// other's room for its whole week, ignoring the occupancies both groups would
// vacate. A partner that must stay on floor 1 (accessibility need or priority
// designation) never leaves it.
func (f *FloorExchanger) swappable(group *models.Group, blocks []models.DayBlock, partner *models.Group, partnerBlocks []models.DayBlock, upper, ground *models.Room) bool {
	if partner.RequiresAccessibility {
		return false
	}
	if _, mandatory := f.priority[partner.ID]; mandatory {
		return false
	}
	if ground.Capacity < group.StudentCount || upper.Capacity < partner.StudentCount {
		return false
	}
	for _, block := range blocks {
		if !ground.IsFreeExcluding(block.Interval, group.ID, partner.ID) {
			return false
		}
	}
	for _, block := range partnerBlocks {
		if !upper.IsFreeExcluding(block.Interval, group.ID, partner.ID) {
			return false
		}
	}
	return true
}

func (f *FloorExchanger) swap(st *RunState, group *models.Group, upper *models.Room, partner *models.Group, ground *models.Room) {
	groupBlocks := st.GroupBlocks(group.ID)
	partnerBlocks := st.GroupBlocks(partner.ID)

	upper.ReleaseGroup(group.ID)
	ground.ReleaseGroup(partner.ID)

	for _, block := range groupBlocks {
		ground.Occupy(group.ID, block.Interval, block.Block)
	}
	for _, block := range partnerBlocks {
		upper.Occupy(partner.ID, block.Interval, block.Block)
	}
	ground.FixedOccupantGroup = group.ID
	upper.FixedOccupantGroup = partner.ID

	st.reassignGroup(group.ID, ground, "floor exchange to ground floor")
	st.reassignGroup(partner.ID, upper, "floor exchange from ground floor")

	f.logger.Info("floor exchange",
		zap.String("morning_group", group.ID),
		zap.String("partner_group", partner.ID),
		zap.String("ground_room", ground.ID),
		zap.String("upper_room", upper.ID),
	)
}
