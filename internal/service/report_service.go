package service

import (
	"fmt"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-rooms-api/internal/models"
	"github.com/noah-isme/sma-rooms-api/pkg/export"
)

// exportHeaders is the column contract of the assignment export, shared by
// the CSV and PDF renderings. Headers stay in Spanish: the files are consumed
// by the same staff that produces the schedule CSVs.
var exportHeaders = []string{
	"Grupo", "Carrera", "Semestre", "Número Grupo", "Día",
	"Hora Inicio", "Hora Fin", "Asignatura", "Capacidad Requerida",
	"Salón Asignado", "Edificio", "Piso", "Capacidad Salón",
	"Accesible", "Bloque",
}

var spanishDays = map[models.Weekday]string{
	models.Monday:    "Lunes",
	models.Tuesday:   "Martes",
	models.Wednesday: "Miércoles",
	models.Thursday:  "Jueves",
	models.Friday:    "Viernes",
	models.Saturday:  "Sábado",
	models.Sunday:    "Domingo",
}

type runFinder interface {
	findRun(runID string) (*completedRun, error)
}

// ReportService renders completed runs into downloadable documents.
type ReportService struct {
	runs   runFinder
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	logger *zap.Logger
}

// NewReportService wires the exporters.
func NewReportService(runs runFinder, csvExporter *export.CSVExporter, pdfExporter *export.PDFExporter, logger *zap.Logger) *ReportService {
	if csvExporter == nil {
		csvExporter = export.NewCSVExporter()
	}
	if pdfExporter == nil {
		pdfExporter = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{runs: runs, csv: csvExporter, pdf: pdfExporter, logger: logger}
}

// ExportCSV renders the assignment table of a run as CSV bytes plus a
// download file name.
func (s *ReportService) ExportCSV(runID string) ([]byte, string, error) {
	run, err := s.runs.findRun(runID)
	if err != nil {
		return nil, "", err
	}
	payload, err := s.csv.Render(buildExportDataset(run))
	if err != nil {
		return nil, "", err
	}
	return payload, exportFileName(run, "csv"), nil
}

// ExportPDF renders the assignment table of a run as a tabular PDF.
func (s *ReportService) ExportPDF(runID string) ([]byte, string, error) {
	run, err := s.runs.findRun(runID)
	if err != nil {
		return nil, "", err
	}
	payload, err := s.pdf.Render(buildExportDataset(run), "Asignación de Salones")
	if err != nil {
		return nil, "", err
	}
	return payload, exportFileName(run, "pdf"), nil
}

func exportFileName(run *completedRun, extension string) string {
	return fmt.Sprintf("asignacion_salones_%s.%s", run.CompletedAt.Format("2006-01-02"), extension)
}

// buildExportDataset flattens a run into one row per session: committed
// assignments first-class, unresolved sessions with a NO ASIGNADO marker.
// Rows are sorted by group, day and start time.
func buildExportDataset(run *completedRun) export.Dataset {
	rows := make([]map[string]string, 0, len(run.State.Assignments)+len(run.State.Unresolved))
	for _, assignment := range run.State.Assignments {
		if assignment.Session == nil {
			continue
		}
		rows = append(rows, assignmentRow(run, assignment))
	}
	for _, entry := range run.State.Unresolved {
		if entry.Session == nil {
			continue
		}
		rows = append(rows, unresolvedRow(run, entry))
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i]["Grupo"] != rows[j]["Grupo"] {
			return rows[i]["Grupo"] < rows[j]["Grupo"]
		}
		if rows[i]["_day"] != rows[j]["_day"] {
			return rows[i]["_day"] < rows[j]["_day"]
		}
		return rows[i]["Hora Inicio"] < rows[j]["Hora Inicio"]
	})
	for _, row := range rows {
		delete(row, "_day")
	}
	return export.Dataset{Headers: exportHeaders, Rows: rows}
}

func assignmentRow(run *completedRun, assignment models.Assignment) map[string]string {
	session := assignment.Session
	row := baseRow(run, session)
	if assignment.Room != nil {
		row["Salón Asignado"] = assignment.Room.ID
		row["Edificio"] = assignment.Room.Building
		row["Piso"] = strconv.Itoa(assignment.Room.Floor)
		row["Capacidad Salón"] = strconv.Itoa(assignment.Room.Capacity)
		row["Accesible"] = yesNo(assignment.Room.Accessible)
		row["Bloque"] = assignment.Block
	} else {
		// Lab and virtual sessions are exported for symmetry with no room.
		row["Salón Asignado"] = string(session.Modality)
		row["Edificio"] = "N/A"
		row["Piso"] = "N/A"
		row["Capacidad Salón"] = "N/A"
		row["Accesible"] = "N/A"
		row["Bloque"] = "N/A"
	}
	return row
}

func unresolvedRow(run *completedRun, entry models.Unresolved) map[string]string {
	row := baseRow(run, entry.Session)
	row["Salón Asignado"] = "NO ASIGNADO"
	row["Edificio"] = "N/A"
	row["Piso"] = "N/A"
	row["Capacidad Salón"] = "N/A"
	row["Accesible"] = "N/A"
	row["Bloque"] = "N/A"
	return row
}

func baseRow(run *completedRun, session *models.ClassSession) map[string]string {
	row := map[string]string{
		"Grupo":               session.GroupID,
		"Carrera":             "N/A",
		"Semestre":            "N/A",
		"Número Grupo":        "N/A",
		"Día":                 spanishDays[session.Day],
		"Hora Inicio":         models.FormatClock(session.Start),
		"Hora Fin":            models.FormatClock(session.End),
		"Asignatura":          session.SubjectName,
		"Capacidad Requerida": strconv.Itoa(session.RequiredCapacity),
		"_day":                strconv.Itoa(int(session.Day)),
	}
	if group, ok := run.State.Groups[session.GroupID]; ok {
		row["Carrera"] = strconv.Itoa(group.Program)
		row["Semestre"] = strconv.Itoa(group.Level)
		row["Número Grupo"] = strconv.Itoa(group.Sequence)
	}
	return row
}

func yesNo(v bool) string {
	if v {
		return "Sí"
	}
	return "No"
}
