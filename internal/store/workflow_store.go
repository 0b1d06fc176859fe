package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/soyeahso/dugout/internal/domain"
)

// WorkflowRun is one recorded execution of a workflow.
type WorkflowRun struct {
	ID         string
	Name       string
	MatchInfo  string
	PlayerName string
	Status     string
	Tasks      []domain.Task
	TaskCount  int
	CreatedAt  time.Time
}

// WorkflowStore persists workflow runs and their tasks.
type WorkflowStore struct {
	db *DB
}

// NewWorkflowStore creates a workflow store using the given database.
func NewWorkflowStore(db *DB) *WorkflowStore {
	return &WorkflowStore{db: db}
}

// Save inserts a run with its tasks in one transaction.
func (s *WorkflowStore) Save(ctx context.Context, run WorkflowRun) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	tx, err := s.db.sql.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO workflow_runs (id, name, match_info, player_name, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Name, run.MatchInfo, run.PlayerName, run.Status, run.CreatedAt.UTC().Format(time.DateTime),
	); err != nil {
		return fmt.Errorf("inserting workflow %s: %w", run.ID, err)
	}

	for i, t := range run.Tasks {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO workflow_tasks (workflow_id, seq, id, agent, method, status, result, full_result)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, i, t.ID, t.AgentType, t.Method, string(t.Status), nullString(t.Result), nullString(t.FullResult),
		); err != nil {
			return fmt.Errorf("inserting task %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit workflow %s: %w", run.ID, err)
	}
	s.db.log.Debug().Str("id", run.ID).Int("tasks", len(run.Tasks)).Msg("workflow run stored")
	return nil
}

// Get returns a run with its tasks in pipeline order.
func (s *WorkflowStore) Get(ctx context.Context, id string) (WorkflowRun, error) {
	var run WorkflowRun
	var created string
	err := s.db.sql.QueryRowContext(ctx,
		`SELECT id, name, match_info, player_name, status, created_at FROM workflow_runs WHERE id = ?`, id,
	).Scan(&run.ID, &run.Name, &run.MatchInfo, &run.PlayerName, &run.Status, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return WorkflowRun{}, fmt.Errorf("workflow %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return WorkflowRun{}, fmt.Errorf("loading workflow %s: %w", id, err)
	}
	run.CreatedAt, _ = time.Parse(time.DateTime, created)

	rows, err := s.db.sql.QueryContext(ctx,
		`SELECT id, agent, method, status, result, full_result
		 FROM workflow_tasks WHERE workflow_id = ? ORDER BY seq`, id)
	if err != nil {
		return WorkflowRun{}, fmt.Errorf("loading tasks for %s: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var t domain.Task
		var status string
		var result, full sql.NullString
		if err := rows.Scan(&t.ID, &t.AgentType, &t.Method, &status, &result, &full); err != nil {
			return WorkflowRun{}, err
		}
		t.Status = domain.TaskStatus(status)
		t.Result = stringPtr(result)
		t.FullResult = stringPtr(full)
		run.Tasks = append(run.Tasks, t)
	}
	if err := rows.Err(); err != nil {
		return WorkflowRun{}, err
	}
	run.TaskCount = len(run.Tasks)
	return run, nil
}

// List returns every run, newest first, with task counts but no tasks.
func (s *WorkflowStore) List(ctx context.Context) ([]WorkflowRun, error) {
	rows, err := s.db.sql.QueryContext(ctx,
		`SELECT r.id, r.name, r.match_info, r.player_name, r.status, r.created_at,
		        (SELECT COUNT(*) FROM workflow_tasks t WHERE t.workflow_id = r.id)
		 FROM workflow_runs r ORDER BY r.created_at DESC, r.rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing workflows: %w", err)
	}
	defer rows.Close()

	var out []WorkflowRun
	for rows.Next() {
		var run WorkflowRun
		var created string
		if err := rows.Scan(&run.ID, &run.Name, &run.MatchInfo, &run.PlayerName, &run.Status, &created, &run.TaskCount); err != nil {
			return nil, err
		}
		run.CreatedAt, _ = time.Parse(time.DateTime, created)
		out = append(out, run)
	}
	return out, rows.Err()
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
