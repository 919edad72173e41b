package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-rooms-api/internal/models"
	appErrors "github.com/noah-isme/sma-rooms-api/pkg/errors"
)

func weeklyBlocks(days []models.Weekday, start, end int) []models.DayBlock {
	blocks := make([]models.DayBlock, 0, len(days))
	for _, day := range days {
		blocks = append(blocks, models.DayBlock{
			Day:      day,
			Interval: models.TimeInterval{Day: day, Start: start, End: end},
			Block:    "Morning",
		})
	}
	return blocks
}

func TestSelectBestPrefersTighterCapacityFitOverFloor(t *testing.T) {
	// 15 students, a floor-1 room for 20 and a floor-3 room for 16: the
	// tighter fit on floor 3 wins when the group is not priority-restricted.
	selector := NewRoomSelector(NewConflictChecker(), nil)
	group := testGroup("301", 3, 15)
	rooms := []*models.Room{
		testRoom("F-101", "F", 1, 20),
		testRoom("F-301", "F", 3, 16),
	}
	blocks := weeklyBlocks([]models.Weekday{models.Monday, models.Wednesday, models.Friday}, 8*60, 9*60)

	best := selector.SelectBest(rooms, group, blocks, PolicyStrict)
	require.NotNil(t, best)
	assert.Equal(t, "F-301", best.ID)
}

func TestSelectBestPriorityGroupRestrictedToFirstFloor(t *testing.T) {
	selector := NewRoomSelector(NewConflictChecker(), prioritySet("301"))
	group := testGroup("301", 3, 15)
	blocks := weeklyBlocks([]models.Weekday{models.Monday}, 8*60, 9*60)

	// Only a floor-3 room free: the group stays unassigned.
	onlyUpper := []*models.Room{testRoom("F-301", "F", 3, 16)}
	assert.Nil(t, selector.SelectBest(onlyUpper, group, blocks, PolicyStrict))

	reason := selector.FailureReason(onlyUpper, group, blocks)
	assert.Equal(t, appErrors.ErrPriorityFloor.Code, reason.Code)

	// A feasible floor-1 room is taken even when a tighter fit sits upstairs.
	withGround := []*models.Room{testRoom("F-301", "F", 3, 16), testRoom("F-101", "F", 1, 20)}
	best := selector.SelectBest(withGround, group, blocks, PolicyStrict)
	require.NotNil(t, best)
	assert.Equal(t, "F-101", best.ID)
}

func TestSelectBestStrictPrefersUnfixedRooms(t *testing.T) {
	selector := NewRoomSelector(NewConflictChecker(), nil)
	group := testGroup("301", 3, 20)
	fixed := testRoom("F-101", "F", 1, 20)
	fixed.FixedOccupantGroup = "999"
	unfixed := testRoom("F-102", "F", 1, 20)
	rooms := []*models.Room{fixed, unfixed}
	blocks := weeklyBlocks([]models.Weekday{models.Tuesday}, 10*60, 12*60)

	best := selector.SelectBest(rooms, group, blocks, PolicyStrict)
	require.NotNil(t, best)
	assert.Equal(t, "F-102", best.ID)

	// The permissive policy drops the bias and falls back to list order on a
	// full tie.
	best = selector.SelectBest(rooms, group, blocks, PolicyPermissive)
	require.NotNil(t, best)
	assert.Equal(t, "F-101", best.ID)
}

func TestFailureReasonPlainNoRoom(t *testing.T) {
	selector := NewRoomSelector(NewConflictChecker(), nil)
	group := testGroup("301", 3, 50)
	rooms := []*models.Room{testRoom("F-101", "F", 1, 40)}
	blocks := weeklyBlocks([]models.Weekday{models.Monday}, 8*60, 9*60)

	assert.Nil(t, selector.SelectBest(rooms, group, blocks, PolicyStrict))
	reason := selector.FailureReason(rooms, group, blocks)
	assert.Equal(t, appErrors.ErrNoRoom.Code, reason.Code)
}
