package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-rooms-api/internal/dto"
	"github.com/noah-isme/sma-rooms-api/internal/models"
	appErrors "github.com/noah-isme/sma-rooms-api/pkg/errors"
)

// csvHeaders is the required column set of a normalized schedule CSV, in the
// order the exporter emits them.
var csvHeaders = []string{
	"id_unico", "codigo_asignatura", "nombre_asignatura", "maestro",
	"edificio", "salon", "capacidad", "grupo", "dia_semana",
	"hora_inicio", "hora_fin", "duracion_min", "modalidad", "tipo",
}

// programTokens are the five degree programs; one schedule file per program
// must be present in every upload.
var programTokens = []string{"LAE", "LC", "LIN", "LNI", "TC"}

var groupCodePattern = regexp.MustCompile(`^\d{3}$`)

// virtualGroupCode marks rows that belong to no physical cohort.
const virtualGroupCode = "VIR"

// ScheduleFile is one uploaded CSV.
type ScheduleFile struct {
	Name    string
	Content io.Reader
}

// Dataset is the ingested input of an allocation run: the session list and
// the group map derived from it. Built once per upload, never mutated by the
// engine (sessions are copied into each run).
type Dataset struct {
	Sessions   []*models.ClassSession
	Groups     map[string]*models.Group
	Files      []string
	IngestedAt time.Time
}

// IngestService parses schedule uploads and holds the current dataset for
// subsequent allocation runs.
type IngestService struct {
	logger *zap.Logger

	mu      sync.RWMutex
	dataset *Dataset
}

// NewIngestService constructs the service.
func NewIngestService(logger *zap.Logger) *IngestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IngestService{logger: logger}
}

// Ingest validates and parses one schedule file per program, merges them in
// file-name order and replaces the current dataset. Files are parsed
// concurrently; the merge order never depends on goroutine scheduling.
func (s *IngestService) Ingest(ctx context.Context, files []ScheduleFile) (*dto.IngestResponse, error) {
	if err := validateFileSet(files); err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	parsed := make([][]dto.SessionRow, len(files))
	errs := make([]error, len(files))
	var wg sync.WaitGroup
	for i := range files {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			parsed[idx], errs[idx] = parseScheduleCSV(files[idx].Name, files[idx].Content)
		}(i)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "ingest cancelled")
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	rows := 0
	sessions := make([]*models.ClassSession, 0)
	groups := make(map[string]*models.Group)
	for i, fileRows := range parsed {
		rows += len(fileRows)
		for rowIdx, row := range fileRows {
			session, group, err := buildSession(row)
			if err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
					fmt.Sprintf("file %s row %d: %v", files[i].Name, rowIdx+1, err))
			}
			sessions = append(sessions, session)
			if group != nil {
				if existing, ok := groups[group.ID]; ok {
					// A group's student count is the maximum capacity
					// requirement across all of its sessions.
					if group.StudentCount > existing.StudentCount {
						existing.StudentCount = group.StudentCount
					}
				} else {
					groups[group.ID] = group
				}
			}
		}
	}

	names := make([]string, 0, len(files))
	for _, file := range files {
		names = append(names, file.Name)
	}
	dataset := &Dataset{
		Sessions:   sessions,
		Groups:     groups,
		Files:      names,
		IngestedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.dataset = dataset
	s.mu.Unlock()

	s.logger.Info("schedule dataset ingested",
		zap.Int("files", len(files)),
		zap.Int("rows", rows),
		zap.Int("sessions", len(sessions)),
		zap.Int("groups", len(groups)),
	)

	return &dto.IngestResponse{
		Files:      names,
		Rows:       rows,
		Sessions:   len(sessions),
		Groups:     len(groups),
		IngestedAt: dataset.IngestedAt,
	}, nil
}

// Current returns the active dataset, or an error when nothing has been
// ingested yet.
func (s *IngestService) Current() (*Dataset, error) {
	s.mu.RLock()
	dataset := s.dataset
	s.mu.RUnlock()
	if dataset == nil {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "no schedule dataset ingested yet")
	}
	return dataset, nil
}

// CloneSessions copies the dataset's sessions so a run can mutate assignment
// fields without touching the ingested originals.
func (d *Dataset) CloneSessions() []*models.ClassSession {
	cloned := make([]*models.ClassSession, 0, len(d.Sessions))
	for _, session := range d.Sessions {
		copied := *session
		cloned = append(cloned, &copied)
	}
	return cloned
}

func validateFileSet(files []ScheduleFile) error {
	if len(files) != len(programTokens) {
		return appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("expected %d schedule files (one per program), got %d", len(programTokens), len(files)))
	}
	matched := make(map[string]string, len(programTokens))
	for _, file := range files {
		if !strings.HasSuffix(strings.ToLower(file.Name), ".csv") {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file %s must be a CSV", file.Name))
		}
		token := programToken(file.Name)
		if token == "" {
			return appErrors.Clone(appErrors.ErrValidation,
				fmt.Sprintf("file %s does not name a known program (%s)", file.Name, strings.Join(programTokens, ", ")))
		}
		if other, ok := matched[token]; ok {
			return appErrors.Clone(appErrors.ErrValidation,
				fmt.Sprintf("program %s appears in both %s and %s", token, other, file.Name))
		}
		matched[token] = file.Name
	}
	return nil
}

// programToken matches a program abbreviation as a standalone segment of the
// file name, so LIN never matches inside LNI or vice versa.
func programToken(name string) string {
	base := strings.TrimSuffix(name, ".csv")
	base = strings.TrimSuffix(base, ".CSV")
	segments := strings.FieldsFunc(base, func(r rune) bool {
		return !('A' <= r && r <= 'Z' || 'a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})
	for _, segment := range segments {
		upper := strings.ToUpper(segment)
		for _, token := range programTokens {
			if upper == token {
				return token
			}
		}
	}
	return ""
}

func parseScheduleCSV(name string, content io.Reader) ([]dto.SessionRow, error) {
	reader := csv.NewReader(content)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
			fmt.Sprintf("file %s has no header row", name))
	}
	index := make(map[string]int, len(header))
	for i, column := range header {
		index[strings.TrimSpace(column)] = i
	}
	for _, required := range csvHeaders {
		if _, ok := index[required]; !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation,
				fmt.Sprintf("file %s is missing required column %q", name, required))
		}
	}

	rows := make([]dto.SessionRow, 0)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
				fmt.Sprintf("file %s line %d is malformed", name, line))
		}
		row, err := recordToRow(record, index)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
				fmt.Sprintf("file %s line %d: %v", name, line, err))
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("file %s must contain at least one data row", name))
	}
	return rows, nil
}

func recordToRow(record []string, index map[string]int) (dto.SessionRow, error) {
	field := func(column string) string {
		return strings.TrimSpace(record[index[column]])
	}

	capacity, err := strconv.Atoi(field("capacidad"))
	if err != nil || capacity <= 0 {
		return dto.SessionRow{}, fmt.Errorf("invalid capacidad %q", field("capacidad"))
	}
	duration, err := strconv.Atoi(field("duracion_min"))
	if err != nil || duration <= 0 {
		return dto.SessionRow{}, fmt.Errorf("invalid duracion_min %q", field("duracion_min"))
	}
	group := field("grupo")
	if group != virtualGroupCode && !groupCodePattern.MatchString(group) {
		return dto.SessionRow{}, fmt.Errorf("invalid grupo %q", group)
	}
	modality := field("modalidad")
	if modality != "Presencial" && modality != "Virtual" {
		return dto.SessionRow{}, fmt.Errorf("invalid modalidad %q", modality)
	}

	return dto.SessionRow{
		UniqueID:    field("id_unico"),
		SubjectCode: field("codigo_asignatura"),
		SubjectName: field("nombre_asignatura"),
		Teacher:     field("maestro"),
		Building:    field("edificio"),
		Room:        field("salon"),
		Capacity:    capacity,
		Group:       group,
		Day:         field("dia_semana"),
		StartTime:   field("hora_inicio"),
		EndTime:     field("hora_fin"),
		DurationMin: duration,
		Modality:    modality,
		Type:        field("tipo"),
	}, nil
}

// buildSession converts one CSV row into a session plus, for physical cohort
// codes, the group it derives. The three-digit group code encodes program
// (first digit times 100), semester and group number.
func buildSession(row dto.SessionRow) (*models.ClassSession, *models.Group, error) {
	day, err := models.ParseWeekday(row.Day)
	if err != nil {
		return nil, nil, err
	}
	start, err := models.ParseClock(row.StartTime)
	if err != nil {
		return nil, nil, err
	}
	end, err := models.ParseClock(row.EndTime)
	if err != nil {
		return nil, nil, err
	}
	if start >= end {
		return nil, nil, fmt.Errorf("hora_inicio %s must precede hora_fin %s", row.StartTime, row.EndTime)
	}

	modality := models.ModalityInPerson
	if row.Modality == "Virtual" {
		modality = models.ModalityVirtual
	}

	session := &models.ClassSession{
		GroupID:          row.Group,
		SubjectCode:      row.SubjectCode,
		SubjectName:      row.SubjectName,
		Teacher:          row.Teacher,
		Day:              day,
		Start:            start,
		End:              end,
		Modality:         modality,
		RequiredCapacity: row.Capacity,
	}

	if row.Group == virtualGroupCode {
		session.Modality = models.ModalityVirtual
		return session, nil, nil
	}

	program := int(row.Group[0]-'0') * 100
	level := int(row.Group[1] - '0')
	sequence := int(row.Group[2] - '0')
	group := &models.Group{
		ID:           row.Group,
		Program:      program,
		Level:        level,
		Sequence:     sequence,
		StudentCount: row.Capacity,
	}
	return session, group, nil
}
