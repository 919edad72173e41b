package models

// Group is a cohort of students sharing a weekly schedule. StudentCount is the
// only field mutated after construction: ingestion raises it to the largest
// capacity requirement seen across the group's sessions.
type Group struct {
	ID                    string `json:"id"`
	Program               int    `json:"program"`
	Level                 int    `json:"level"`
	Sequence              int    `json:"sequence"`
	StudentCount          int    `json:"student_count"`
	RequiresAccessibility bool   `json:"requires_accessibility"`
}
