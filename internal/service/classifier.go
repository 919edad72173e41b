package service

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-rooms-api/internal/models"
)

// systemsProgram is the program whose upper-semester subjects run in the
// computer labs and therefore never consume a regular room.
const systemsProgram = 900

// coreLabSubjects lists lab subjects from the shared core curriculum. They
// apply to every program, keyed by semester.
var coreLabSubjects = map[int][]string{
	1: {"Herramientas Digitales"},
	2: {"Introducción a la Inteligencia de Negocios"},
}

// programLabSubjects lists lab subjects specific to the systems program,
// keyed by semester.
var programLabSubjects = map[int][]string{
	3: {
		"Analisis de procesos",
		"Datos de negocios",
		"Programacion",
		"Estadistica inferencial",
		"Fundamentos de redes",
	},
	4: {
		"Base datos",
		"Analisis infraestructura tecnologica",
		"Programacion estadistica",
		"Fundamentos de Análisis y Modelado para Negocios",
		"Programación Avanzada",
		"Paradigmas de Programación y Gestión de Datos",
	},
	5: {
		"Base datos Avanzada",
		"Programacion para la extraccion de datos",
		"Seguridad informatica",
		"Tecnologia digital para la informacion",
		"Tecnologías Digitales para la Innovación",
	},
	6: {
		"Big data",
		"Metodologías y Herramientas para la Innovación",
	},
	7: {
		"Ciencias de datos",
		"Patrones de comportamiento de datos",
	},
	8: {
		"Computacion en la nube",
		"Machine learning",
	},
}

// Classifier routes sessions into in-person, virtual and lab sets. Virtual and
// lab sessions bypass the allocator and are logged with a nil room.
type Classifier struct {
	core    map[int]map[string]struct{}
	program map[int]map[string]struct{}
	logger  *zap.Logger
}

// NewClassifier builds the lookup sets from the curriculum tables.
func NewClassifier(logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{
		core:    buildLookup(coreLabSubjects),
		program: buildLookup(programLabSubjects),
		logger:  logger,
	}
}

// IsLab reports whether the session matches a lab lookup table. A table match
// wins regardless of the session's declared modality.
func (c *Classifier) IsLab(session *models.ClassSession, group *models.Group) bool {
	if group == nil || group.Level == 0 {
		return false
	}
	name := normalizeSubject(session.SubjectName)
	if set, ok := c.core[group.Level]; ok {
		if _, hit := set[name]; hit {
			return true
		}
	}
	if group.Program != systemsProgram {
		return false
	}
	set, ok := c.program[group.Level]
	if !ok {
		return false
	}
	_, hit := set[name]
	return hit
}

// Classify partitions sessions. In-person sessions come back for allocation;
// virtual and lab sessions are returned as ready-made assignment records.
// Saturday sessions always count as virtual: the campus runs them remotely.
func (c *Classifier) Classify(sessions []*models.ClassSession, groups map[string]*models.Group) ([]*models.ClassSession, []models.Assignment) {
	inPerson := make([]*models.ClassSession, 0, len(sessions))
	direct := make([]models.Assignment, 0)

	for _, session := range sessions {
		group := groups[session.GroupID]
		switch {
		case c.IsLab(session, group):
			session.Modality = models.ModalityLab
			direct = append(direct, models.Assignment{
				Session: session,
				Note:    fmt.Sprintf("lab subject %s: no room required", session.SubjectName),
			})
		case session.Modality == models.ModalityVirtual || session.Day == models.Saturday:
			session.Modality = models.ModalityVirtual
			direct = append(direct, models.Assignment{
				Session: session,
				Note:    fmt.Sprintf("virtual session %s: no room required", session.SubjectName),
			})
		default:
			inPerson = append(inPerson, session)
		}
	}

	c.logger.Debug("sessions classified",
		zap.Int("in_person", len(inPerson)),
		zap.Int("direct", len(direct)),
	)
	return inPerson, direct
}

func buildLookup(table map[int][]string) map[int]map[string]struct{} {
	result := make(map[int]map[string]struct{}, len(table))
	for semester, subjects := range table {
		set := make(map[string]struct{}, len(subjects))
		for _, subject := range subjects {
			set[normalizeSubject(subject)] = struct{}{}
		}
		result[semester] = set
	}
	return result
}

func normalizeSubject(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
