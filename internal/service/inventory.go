package service

import (
	"fmt"

	"github.com/noah-isme/sma-rooms-api/internal/models"
)

// Campus layout: rooms per floor, indexed by floor (1-based). Room IDs follow
// the signage convention "F-103" = building F, floor 1, room 3.
var campusBuildings = []struct {
	Building      string
	RoomsPerFloor []int
}{
	{"F", []int{4, 4, 4, 4}},
	{"E", []int{6, 6, 6, 5}},
	{"D", []int{6, 6, 6, 6}},
}

// BuildInventory constructs the static room set for a run. Capacity is uniform
// across the campus; floor 1 rooms are flagged accessible by NewRoom.
func BuildInventory(capacity int) []*models.Room {
	rooms := make([]*models.Room, 0, 64)
	for _, building := range campusBuildings {
		for floorIdx, count := range building.RoomsPerFloor {
			floor := floorIdx + 1
			for n := 1; n <= count; n++ {
				id := fmt.Sprintf("%s-%d", building.Building, floor*100+n)
				rooms = append(rooms, models.NewRoom(id, building.Building, floor, capacity))
			}
		}
	}
	return rooms
}
