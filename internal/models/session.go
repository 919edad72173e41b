package models

// Modality classifies how a session meets.
type Modality string

const (
	ModalityInPerson Modality = "IN_PERSON"
	ModalityVirtual  Modality = "VIRTUAL"
	ModalityLab      Modality = "LAB"
)

// ClassSession is one weekly recurring meeting of a group. AssignedRoom and
// AssignedBuilding are the only fields the allocator mutates.
type ClassSession struct {
	GroupID          string   `json:"group_id"`
	SubjectCode      string   `json:"subject_code"`
	SubjectName      string   `json:"subject_name"`
	Teacher          string   `json:"teacher,omitempty"`
	Day              Weekday  `json:"day"`
	Start            int      `json:"start"`
	End              int      `json:"end"`
	Modality         Modality `json:"modality"`
	RequiredCapacity int      `json:"required_capacity"`
	AssignedRoom     string   `json:"assigned_room,omitempty"`
	AssignedBuilding string   `json:"assigned_building,omitempty"`
}

// Interval returns the session's time interval.
func (s *ClassSession) Interval() TimeInterval {
	return TimeInterval{Day: s.Day, Start: s.Start, End: s.End}
}
