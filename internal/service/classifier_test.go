package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-rooms-api/internal/models"
)

func TestClassifierSystemsProgramLabSubjects(t *testing.T) {
	classifier := NewClassifier(nil)
	systems := testGroup("931", 3, 25)
	other := testGroup("331", 3, 25)

	session := testSession("931", models.Monday, 8*60, 10*60, 25)
	session.SubjectName = "Programacion"
	assert.True(t, classifier.IsLab(session, systems))

	// The same subject outside the systems program is a regular class.
	session = testSession("331", models.Monday, 8*60, 10*60, 25)
	session.SubjectName = "Programacion"
	assert.False(t, classifier.IsLab(session, other))
}

func TestClassifierCoreLabSubjectsApplyToEveryProgram(t *testing.T) {
	classifier := NewClassifier(nil)
	group := testGroup("311", 1, 25)

	session := testSession("311", models.Monday, 8*60, 10*60, 25)
	session.SubjectName = "Herramientas Digitales"
	assert.True(t, classifier.IsLab(session, group))

	// Subject matching ignores case and surrounding whitespace.
	session.SubjectName = "  HERRAMIENTAS DIGITALES "
	assert.True(t, classifier.IsLab(session, group))

	// Wrong semester, no match.
	assert.False(t, classifier.IsLab(session, testGroup("321", 2, 25)))
}

func TestClassifyPartitionsSessions(t *testing.T) {
	classifier := NewClassifier(nil)
	groups := groupMap(testGroup("931", 3, 25), testGroup("311", 1, 25))

	lab := testSession("931", models.Monday, 8*60, 10*60, 25)
	lab.SubjectName = "Datos de negocios"
	virtual := testSession("311", models.Tuesday, 8*60, 10*60, 25)
	virtual.Modality = models.ModalityVirtual
	saturday := testSession("311", models.Saturday, 8*60, 10*60, 25)
	regular := testSession("311", models.Wednesday, 8*60, 10*60, 25)

	inPerson, direct := classifier.Classify(
		[]*models.ClassSession{lab, virtual, saturday, regular}, groups)

	require.Len(t, inPerson, 1)
	assert.Same(t, regular, inPerson[0])

	require.Len(t, direct, 3)
	for _, assignment := range direct {
		assert.Nil(t, assignment.Room)
	}

	// A lab table match overrides the declared modality; Saturday sessions
	// always run remotely.
	assert.Equal(t, models.ModalityLab, lab.Modality)
	assert.Equal(t, models.ModalityVirtual, saturday.Modality)
	assert.Equal(t, models.ModalityVirtual, virtual.Modality)
}
