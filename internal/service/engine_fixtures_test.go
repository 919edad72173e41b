package service

import (
	"github.com/noah-isme/sma-rooms-api/internal/models"
)

// Shared builders for the engine tests.

func testGroup(id string, level, studentCount int) *models.Group {
	return &models.Group{
		ID:           id,
		Program:      int(id[0]-'0') * 100,
		Level:        level,
		Sequence:     int(id[2] - '0'),
		StudentCount: studentCount,
	}
}

func testSession(groupID string, day models.Weekday, start, end, capacity int) *models.ClassSession {
	return &models.ClassSession{
		GroupID:          groupID,
		SubjectCode:      "SUBJ-" + groupID,
		SubjectName:      "Materia " + groupID,
		Day:              day,
		Start:            start,
		End:              end,
		Modality:         models.ModalityInPerson,
		RequiredCapacity: capacity,
	}
}

func testRoom(id, building string, floor, capacity int) *models.Room {
	return models.NewRoom(id, building, floor, capacity)
}

func groupMap(groups ...*models.Group) map[string]*models.Group {
	result := make(map[string]*models.Group, len(groups))
	for _, group := range groups {
		result[group.ID] = group
	}
	return result
}

func prioritySet(ids ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
