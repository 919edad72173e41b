package dto

import (
	"time"

	"github.com/noah-isme/sma-rooms-api/internal/models"
)

// SessionRow mirrors one row of a normalized schedule CSV.
type SessionRow struct {
	UniqueID    string `json:"id_unico"`
	SubjectCode string `json:"codigo_asignatura"`
	SubjectName string `json:"nombre_asignatura"`
	Teacher     string `json:"maestro"`
	Building    string `json:"edificio"`
	Room        string `json:"salon"`
	Capacity    int    `json:"capacidad"`
	Group       string `json:"grupo"`
	Day         string `json:"dia_semana"`
	StartTime   string `json:"hora_inicio"`
	EndTime     string `json:"hora_fin"`
	DurationMin int    `json:"duracion_min"`
	Modality    string `json:"modalidad"`
	Type        string `json:"tipo"`
}

// IngestResponse summarises a completed schedule upload.
type IngestResponse struct {
	Files      []string  `json:"files"`
	Rows       int       `json:"rows"`
	Sessions   int       `json:"sessions"`
	Groups     int       `json:"groups"`
	IngestedAt time.Time `json:"ingested_at"`
}

// AllocateRequest triggers an allocation run over the ingested dataset.
type AllocateRequest struct {
	PriorityGroups []string `json:"priorityGroups" validate:"omitempty,dive,len=3"`
	Persist        bool     `json:"persist"`
}

// AllocateResponse carries the run identifier and its summary counters.
type AllocateResponse struct {
	RunID          string               `json:"run_id"`
	Summary        models.AllocationRun `json:"summary"`
	Unresolved     []models.Unresolved  `json:"unresolved"`
	Splits         []models.GroupSplit  `json:"splits"`
	OptimizerFixes int                  `json:"optimizer_fixes"`
	FloorExchanges int                  `json:"floor_exchanges"`
}

// RoomOccupancyView renders one room's calendar for reporting.
type RoomOccupancyView struct {
	RoomID             string             `json:"room_id"`
	Building           string             `json:"building"`
	Floor              int                `json:"floor"`
	Capacity           int                `json:"capacity"`
	Accessible         bool               `json:"accessible"`
	FixedOccupantGroup string             `json:"fixed_occupant_group,omitempty"`
	Occupied           []models.Occupancy `json:"occupied"`
}

// RunReportResponse is the full report for a completed run.
type RunReportResponse struct {
	Summary     models.AllocationRun `json:"summary"`
	Assignments []models.Assignment  `json:"assignments"`
	Unresolved  []models.Unresolved  `json:"unresolved"`
	Splits      []models.GroupSplit  `json:"splits"`
}

// PriorityGroupsRequest replaces the operator-selected priority set.
type PriorityGroupsRequest struct {
	GroupIDs []string `json:"groupIds" validate:"required,min=1,dive,len=3"`
}

// PriorityGroupsResponse returns the stored priority set.
type PriorityGroupsResponse struct {
	GroupIDs []string `json:"groupIds"`
}
