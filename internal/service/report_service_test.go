package service

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-rooms-api/internal/models"
	appErrors "github.com/noah-isme/sma-rooms-api/pkg/errors"
)

type stubRunFinder struct {
	run *completedRun
}

func (s *stubRunFinder) findRun(string) (*completedRun, error) {
	if s.run == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "allocation run not found or expired")
	}
	return s.run, nil
}

func reportFixture() *completedRun {
	room := testRoom("F-101", "F", 1, 40)
	assigned := testSession("311", models.Monday, 8*60, 10*60, 25)
	assigned.AssignedRoom = room.ID
	assigned.AssignedBuilding = room.Building
	missing := testSession("411", models.Tuesday, 10*60, 12*60, 30)

	st := newEngineState([]*models.Room{room},
		groupMap(testGroup("311", 1, 25), testGroup("411", 1, 30)),
		assigned, missing,
	)
	st.Assignments = append(st.Assignments, models.Assignment{
		Session: assigned,
		Room:    room,
		Block:   "Morning",
		Note:    "weekly single room",
	})
	st.Unresolved = append(st.Unresolved, models.Unresolved{
		GroupID: "411",
		Session: missing,
		Code:    appErrors.ErrNoRoom.Code,
		Reason:  "no feasible room",
	})

	return &completedRun{
		Summary:     models.AllocationRun{ID: "run-1"},
		State:       st,
		CompletedAt: time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC),
	}
}

func TestReportServiceExportCSV(t *testing.T) {
	svc := NewReportService(&stubRunFinder{run: reportFixture()}, nil, nil, nil)

	payload, name, err := svc.ExportCSV("run-1")
	require.NoError(t, err)
	assert.Equal(t, "asignacion_salones_2026-02-14.csv", name)

	records, err := csv.NewReader(bytes.NewReader(payload)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, exportHeaders, records[0])

	// Rows sort by group: the assigned 311 row precedes the unresolved 411 row.
	assigned := records[1]
	assert.Equal(t, "311", assigned[0])
	assert.Equal(t, "300", assigned[1])
	assert.Equal(t, "Lunes", assigned[4])
	assert.Equal(t, "08:00", assigned[5])
	assert.Equal(t, "F-101", assigned[9])
	assert.Equal(t, "Sí", assigned[13])
	assert.Equal(t, "Morning", assigned[14])

	unassigned := records[2]
	assert.Equal(t, "411", unassigned[0])
	assert.Equal(t, "NO ASIGNADO", unassigned[9])
	assert.Equal(t, "N/A", unassigned[10])
}

func TestReportServiceExportPDF(t *testing.T) {
	svc := NewReportService(&stubRunFinder{run: reportFixture()}, nil, nil, nil)

	payload, name, err := svc.ExportPDF("run-1")
	require.NoError(t, err)
	assert.Equal(t, "asignacion_salones_2026-02-14.pdf", name)
	assert.True(t, bytes.HasPrefix(payload, []byte("%PDF")))
}

func TestReportServiceMissingRun(t *testing.T) {
	svc := NewReportService(&stubRunFinder{}, nil, nil, nil)

	_, _, err := svc.ExportCSV("gone")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
