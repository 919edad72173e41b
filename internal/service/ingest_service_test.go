package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-rooms-api/internal/models"
	appErrors "github.com/noah-isme/sma-rooms-api/pkg/errors"
)

func scheduleCSV(rows ...string) string {
	lines := append([]string{strings.Join(csvHeaders, ",")}, rows...)
	return strings.Join(lines, "\n")
}

func scheduleRow(group, day, start, end string, capacity int) string {
	return fmt.Sprintf("H1,MAT101,Materia %s,Profesor,E,E-101,%d,%s,%s,%s,%s,120,Presencial,Clase",
		group, capacity, group, day, start, end)
}

func scheduleFiles(contents map[string]string) []ScheduleFile {
	files := make([]ScheduleFile, 0, len(contents))
	for name, content := range contents {
		files = append(files, ScheduleFile{Name: name, Content: strings.NewReader(content)})
	}
	return files
}

func fullUpload(laeRows ...string) []ScheduleFile {
	if len(laeRows) == 0 {
		laeRows = []string{scheduleRow("311", "Lunes", "07:00", "09:00", 25)}
	}
	return scheduleFiles(map[string]string{
		"horarios_LAE.csv": scheduleCSV(laeRows...),
		"horarios_LC.csv":  scheduleCSV(scheduleRow("411", "Martes", "09:00", "11:00", 30)),
		"horarios_LIN.csv": scheduleCSV(scheduleRow("511", "Miércoles", "10:00", "12:00", 20)),
		"horarios_LNI.csv": scheduleCSV(scheduleRow("611", "Jueves", "11:00", "13:00", 22)),
		"horarios_TC.csv":  scheduleCSV(scheduleRow("911", "Viernes", "12:00", "14:00", 18)),
	})
}

func TestIngestParsesAndMergesFiles(t *testing.T) {
	svc := NewIngestService(nil)

	resp, err := svc.Ingest(context.Background(), fullUpload())
	require.NoError(t, err)

	assert.Equal(t, 5, resp.Rows)
	assert.Equal(t, 5, resp.Sessions)
	assert.Equal(t, 5, resp.Groups)
	assert.Equal(t, []string{
		"horarios_LAE.csv", "horarios_LC.csv", "horarios_LIN.csv",
		"horarios_LNI.csv", "horarios_TC.csv",
	}, resp.Files)

	dataset, err := svc.Current()
	require.NoError(t, err)

	group := dataset.Groups["911"]
	require.NotNil(t, group)
	assert.Equal(t, 900, group.Program)
	assert.Equal(t, 1, group.Level)
	assert.Equal(t, 1, group.Sequence)
	assert.Equal(t, 18, group.StudentCount)

	// Spanish day names and HH:MM clocks come through as minute offsets.
	first := dataset.Sessions[0]
	assert.Equal(t, models.Monday, first.Day)
	assert.Equal(t, 7*60, first.Start)
	assert.Equal(t, 9*60, first.End)
}

func TestIngestStudentCountIsMaxAcrossSessions(t *testing.T) {
	svc := NewIngestService(nil)

	upload := fullUpload(
		scheduleRow("311", "Lunes", "07:00", "09:00", 25),
		scheduleRow("311", "Miércoles", "07:00", "09:00", 32),
		scheduleRow("311", "Viernes", "07:00", "09:00", 28),
	)
	_, err := svc.Ingest(context.Background(), upload)
	require.NoError(t, err)

	dataset, err := svc.Current()
	require.NoError(t, err)
	assert.Equal(t, 32, dataset.Groups["311"].StudentCount)
}

func TestIngestVirtualGroupCodeDerivesNoGroup(t *testing.T) {
	svc := NewIngestService(nil)

	upload := fullUpload(scheduleRow("VIR", "Lunes", "07:00", "09:00", 25))
	resp, err := svc.Ingest(context.Background(), upload)
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Groups)

	dataset, err := svc.Current()
	require.NoError(t, err)
	for _, session := range dataset.Sessions {
		if session.GroupID == "VIR" {
			assert.Equal(t, models.ModalityVirtual, session.Modality)
		}
	}
}

func TestIngestRejectsWrongFileCount(t *testing.T) {
	svc := NewIngestService(nil)

	files := scheduleFiles(map[string]string{
		"horarios_LAE.csv": scheduleCSV(scheduleRow("311", "Lunes", "07:00", "09:00", 25)),
	})
	_, err := svc.Ingest(context.Background(), files)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestIngestRejectsDuplicateProgram(t *testing.T) {
	svc := NewIngestService(nil)

	files := scheduleFiles(map[string]string{
		"horarios_LAE.csv":  scheduleCSV(scheduleRow("311", "Lunes", "07:00", "09:00", 25)),
		"horarios2_LAE.csv": scheduleCSV(scheduleRow("312", "Lunes", "07:00", "09:00", 25)),
		"horarios_LC.csv":   scheduleCSV(scheduleRow("411", "Martes", "09:00", "11:00", 30)),
		"horarios_LIN.csv":  scheduleCSV(scheduleRow("511", "Miércoles", "10:00", "12:00", 20)),
		"horarios_LNI.csv":  scheduleCSV(scheduleRow("611", "Jueves", "11:00", "13:00", 22)),
	})
	_, err := svc.Ingest(context.Background(), files)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LAE")
}

func TestIngestRejectsUnknownProgram(t *testing.T) {
	svc := NewIngestService(nil)

	files := scheduleFiles(map[string]string{
		"horarios_LAE.csv": scheduleCSV(scheduleRow("311", "Lunes", "07:00", "09:00", 25)),
		"horarios_LC.csv":  scheduleCSV(scheduleRow("411", "Martes", "09:00", "11:00", 30)),
		"horarios_LIN.csv": scheduleCSV(scheduleRow("511", "Miércoles", "10:00", "12:00", 20)),
		"horarios_LNI.csv": scheduleCSV(scheduleRow("611", "Jueves", "11:00", "13:00", 22)),
		"horarios_XYZ.csv": scheduleCSV(scheduleRow("911", "Viernes", "12:00", "14:00", 18)),
	})
	_, err := svc.Ingest(context.Background(), files)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestProgramTokenMatchesStandaloneSegments(t *testing.T) {
	assert.Equal(t, "LIN", programToken("horarios_LIN.csv"))
	assert.Equal(t, "LNI", programToken("horarios_LNI.csv"))
	assert.Equal(t, "TC", programToken("TC-2026.csv"))
	assert.Equal(t, "", programToken("LINEA.csv"))
	assert.Equal(t, "", programToken("horarios.csv"))
}

func TestIngestRejectsMalformedRows(t *testing.T) {
	base := map[string]string{
		"horarios_LC.csv":  scheduleCSV(scheduleRow("411", "Martes", "09:00", "11:00", 30)),
		"horarios_LIN.csv": scheduleCSV(scheduleRow("511", "Miércoles", "10:00", "12:00", 20)),
		"horarios_LNI.csv": scheduleCSV(scheduleRow("611", "Jueves", "11:00", "13:00", 22)),
		"horarios_TC.csv":  scheduleCSV(scheduleRow("911", "Viernes", "12:00", "14:00", 18)),
	}

	cases := map[string]string{
		"bad group code":        scheduleRow("31", "Lunes", "07:00", "09:00", 25),
		"bad modality":          strings.Replace(scheduleRow("311", "Lunes", "07:00", "09:00", 25), "Presencial", "Remota", 1),
		"zero capacity":         scheduleRow("311", "Lunes", "07:00", "09:00", 0),
		"start after end":       scheduleRow("311", "Lunes", "11:00", "09:00", 25),
		"unknown day":           scheduleRow("311", "Festivo", "07:00", "09:00", 25),
		"empty file":            "",
		"missing column header": "id_unico,grupo\nH1,311",
	}
	for name, laeContent := range cases {
		t.Run(name, func(t *testing.T) {
			svc := NewIngestService(nil)
			files := scheduleFiles(base)
			content := laeContent
			if name != "empty file" && name != "missing column header" {
				content = scheduleCSV(laeContent)
			}
			files = append(files, ScheduleFile{Name: "horarios_LAE.csv", Content: strings.NewReader(content)})

			_, err := svc.Ingest(context.Background(), files)
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
		})
	}
}

func TestCurrentBeforeIngest(t *testing.T) {
	svc := NewIngestService(nil)
	_, err := svc.Current()
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestDatasetCloneSessionsIsolatesRuns(t *testing.T) {
	svc := NewIngestService(nil)
	_, err := svc.Ingest(context.Background(), fullUpload())
	require.NoError(t, err)

	dataset, err := svc.Current()
	require.NoError(t, err)

	cloned := dataset.CloneSessions()
	require.Len(t, cloned, len(dataset.Sessions))
	cloned[0].AssignedRoom = "F-101"
	assert.Empty(t, dataset.Sessions[0].AssignedRoom)
}
