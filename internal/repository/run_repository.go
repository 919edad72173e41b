package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/sma-rooms-api/internal/models"
)

// RunRepository persists completed allocation runs for audit. The in-memory
// run cache serves reporting; rows written here are the durable trail.
type RunRepository struct {
	db *sqlx.DB
}

// NewRunRepository constructs the repository.
func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{db: db}
}

// SaveRun writes the run summary plus one row per assignment and unresolved
// entry in a single transaction.
func (r *RunRepository) SaveRun(ctx context.Context, run *models.AllocationRun, assignments []models.Assignment, unresolved []models.Unresolved) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin run transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const runQuery = `INSERT INTO allocation_runs
		(id, priority_groups, total_sessions, in_person, virtual, lab, assigned, unresolved, split_groups, optimizer_fixes, floor_exchanges, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	if _, err = tx.ExecContext(ctx, runQuery,
		run.ID, pq.Array(run.PriorityGroups), run.TotalSessions, run.InPerson, run.Virtual, run.Lab,
		run.Assigned, run.UnresolvedCount, run.SplitGroups, run.OptimizerFixes, run.FloorExchanges, run.CreatedAt,
	); err != nil {
		err = fmt.Errorf("insert allocation run: %w", err)
		return err
	}

	const assignmentQuery = `INSERT INTO run_assignments
		(id, run_id, group_id, subject_code, subject_name, day, start_minute, end_minute, modality, room_id, building, block, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	for _, assignment := range assignments {
		session := assignment.Session
		if session == nil {
			continue
		}
		roomID, building := "", ""
		if assignment.Room != nil {
			roomID = assignment.Room.ID
			building = assignment.Room.Building
		}
		if _, err = tx.ExecContext(ctx, assignmentQuery,
			uuid.NewString(), run.ID, session.GroupID, session.SubjectCode, session.SubjectName,
			int(session.Day), session.Start, session.End, string(session.Modality),
			roomID, building, assignment.Block, assignment.Note,
		); err != nil {
			err = fmt.Errorf("insert run assignment: %w", err)
			return err
		}
	}

	const unresolvedQuery = `INSERT INTO run_unresolved
		(id, run_id, group_id, subject_code, day, start_minute, end_minute, code, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for _, entry := range unresolved {
		subjectCode := ""
		day, start, end := 0, 0, 0
		if entry.Session != nil {
			subjectCode = entry.Session.SubjectCode
			day, start, end = int(entry.Session.Day), entry.Session.Start, entry.Session.End
		}
		if _, err = tx.ExecContext(ctx, unresolvedQuery,
			uuid.NewString(), run.ID, entry.GroupID, subjectCode, day, start, end, entry.Code, entry.Reason,
		); err != nil {
			err = fmt.Errorf("insert run unresolved: %w", err)
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit run transaction: %w", err)
	}
	return nil
}

// ListRuns returns recent run summaries, newest first.
func (r *RunRepository) ListRuns(ctx context.Context, limit int) ([]models.AllocationRun, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `SELECT id, total_sessions, in_person, virtual, lab, assigned, unresolved, split_groups, optimizer_fixes, floor_exchanges, created_at
		FROM allocation_runs ORDER BY created_at DESC LIMIT $1`
	runs := make([]models.AllocationRun, 0, limit)
	if err := r.db.SelectContext(ctx, &runs, query, limit); err != nil {
		return nil, fmt.Errorf("list allocation runs: %w", err)
	}
	return runs, nil
}

// FindRun returns one persisted run summary.
func (r *RunRepository) FindRun(ctx context.Context, id string) (*models.AllocationRun, error) {
	const query = `SELECT id, total_sessions, in_person, virtual, lab, assigned, unresolved, split_groups, optimizer_fixes, floor_exchanges, created_at
		FROM allocation_runs WHERE id = $1`
	var run models.AllocationRun
	if err := r.db.GetContext(ctx, &run, query, id); err != nil {
		return nil, err
	}
	return &run, nil
}
