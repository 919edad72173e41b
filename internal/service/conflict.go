package service

import (
	"fmt"

	"github.com/noah-isme/sma-rooms-api/internal/models"
	appErrors "github.com/noah-isme/sma-rooms-api/pkg/errors"
)

// ConflictChecker is the single source of truth for "is this room free". It is
// a pure predicate: no call mutates room state.
type ConflictChecker struct{}

// NewConflictChecker constructs the checker.
func NewConflictChecker() *ConflictChecker {
	return &ConflictChecker{}
}

// Available applies the hard filters in order: capacity, accessibility, time
// conflict. It returns nil when the room can host the interval, otherwise the
// taxonomy error for the first failing filter.
func (c *ConflictChecker) Available(room *models.Room, interval models.TimeInterval, groupID string, requiredCapacity int, requiresAccessibility bool) error {
	if room.Capacity < requiredCapacity {
		return appErrors.Clone(appErrors.ErrCapacity,
			fmt.Sprintf("room %s holds %d, group %s needs %d", room.ID, room.Capacity, groupID, requiredCapacity))
	}
	if requiresAccessibility && room.Floor != 1 {
		return appErrors.Clone(appErrors.ErrAccessibility,
			fmt.Sprintf("group %s requires a first-floor room, %s is on floor %d", groupID, room.ID, room.Floor))
	}
	if !room.IsFree(interval, groupID) {
		return appErrors.Clone(appErrors.ErrTimeConflict,
			fmt.Sprintf("room %s already occupied during %s", room.ID, interval))
	}
	return nil
}

// AvailableAll verifies the room against every block of a group's weekly
// requirement.
func (c *ConflictChecker) AvailableAll(room *models.Room, blocks []models.DayBlock, group *models.Group) error {
	for _, block := range blocks {
		if err := c.Available(room, block.Interval, group.ID, group.StudentCount, group.RequiresAccessibility); err != nil {
			return err
		}
	}
	return nil
}
