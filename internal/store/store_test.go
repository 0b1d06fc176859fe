package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/soyeahso/dugout/internal/domain"
	"github.com/soyeahso/dugout/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:", logging.New(nil, "silent"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// --- DB/Migration tests ---

func TestOpen_InMemory(t *testing.T) {
	db := testDB(t)
	assert.NotNil(t, db.SQL())
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dugout.db")
	db, err := Open(path, logging.New(nil, "silent"))
	require.NoError(t, err)
	require.NoError(t, NewAgentStore(db).Create(context.Background(), scout("agent-1")))
	require.NoError(t, db.Close())

	db, err = Open(path, logging.New(nil, "silent"))
	require.NoError(t, err)
	defer db.Close()
	list, err := NewAgentStore(db).List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestMigrations_AppliedOnce(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.migrate())

	var count int
	require.NoError(t, db.sql.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, len(migrations), count)
}

func TestSchema_TablesExist(t *testing.T) {
	db := testDB(t)
	for _, table := range []string{"custom_agents", "workflow_runs", "workflow_tasks"} {
		var name string
		err := db.sql.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, table)
	}
}

// --- AgentStore tests ---

func scout(id string) domain.Agent {
	return domain.Agent{
		ID: id, Type: "talent_scout", Name: "Talent Scout", Role: "Scouting",
		Description: "Finds young talent", Icon: "🔥", Color: domain.ColorRed,
		Capabilities: []string{"Video analysis", "Domestic circuit"},
	}
}

func TestAgentStore_CreateGetList(t *testing.T) {
	s := NewAgentStore(testDB(t))
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, scout("agent-1")))
	require.NoError(t, s.Create(ctx, scout("agent-2")))

	got, err := s.Get(ctx, "agent-1")
	require.NoError(t, err)
	assert.Equal(t, scout("agent-1"), got)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "agent-1", list[0].ID)
	assert.Equal(t, "agent-2", list[1].ID)
}

func TestAgentStore_Duplicate(t *testing.T) {
	s := NewAgentStore(testDB(t))
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, scout("agent-1")))
	assert.ErrorIs(t, s.Create(ctx, scout("agent-1")), ErrDuplicate)
}

func TestAgentStore_Delete(t *testing.T) {
	s := NewAgentStore(testDB(t))
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, scout("agent-1")))
	require.NoError(t, s.Delete(ctx, "agent-1"))
	assert.ErrorIs(t, s.Delete(ctx, "agent-1"), ErrNotFound)

	_, err := s.Get(ctx, "agent-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAgentStore_UnknownColorReadsAsDefault(t *testing.T) {
	db := testDB(t)
	s := NewAgentStore(db)
	a := scout("agent-1")
	a.Color = "magenta"
	require.NoError(t, s.Create(context.Background(), a))

	got, err := s.Get(context.Background(), "agent-1")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultColor, got.Color)
}

func TestDSN(t *testing.T) {
	assert.Equal(t, ":memory:?_pragma=foreign_keys%281%29&_pragma=busy_timeout%285000%29", dsn(":memory:"))
	assert.Contains(t, dsn("/tmp/x.db"), "_pragma=journal_mode%28WAL%29")
}

func TestForeignKeysCascade(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	require.NoError(t, NewWorkflowStore(db).Save(ctx, sampleRun("wf-1", time.Now())))

	var fk int
	require.NoError(t, db.SQL().QueryRow("PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)

	_, err := db.SQL().Exec("DELETE FROM workflow_runs WHERE id = ?", "wf-1")
	require.NoError(t, err)

	var tasks int
	require.NoError(t, db.SQL().QueryRow("SELECT COUNT(*) FROM workflow_tasks").Scan(&tasks))
	assert.Zero(t, tasks)
}

// --- WorkflowStore tests ---

func sampleRun(id string, at time.Time) WorkflowRun {
	return WorkflowRun{
		ID:         id,
		Name:       "Team Preparation",
		MatchInfo:  "Final vs CSK",
		PlayerName: "Virat Kohli",
		Status:     "completed",
		CreatedAt:  at,
		Tasks: []domain.Task{
			{ID: "t1", AgentType: "head_coach", Method: "plan_strategy", Status: domain.TaskCompleted,
				Result: domain.StringPtr("short"), FullResult: domain.StringPtr("long")},
			{ID: "t2", AgentType: "player", Method: "report_performance", Status: domain.TaskPending},
		},
	}
}

func TestWorkflowStore_SaveGet(t *testing.T) {
	s := NewWorkflowStore(testDB(t))
	ctx := context.Background()

	run := sampleRun("wf-1", time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, s.Save(ctx, run))

	got, err := s.Get(ctx, "wf-1")
	require.NoError(t, err)
	assert.Equal(t, "Final vs CSK", got.MatchInfo)
	assert.Equal(t, 2, got.TaskCount)
	assert.Equal(t, run.Tasks, got.Tasks)
	assert.Nil(t, got.Tasks[1].Result)
	assert.True(t, run.CreatedAt.Equal(got.CreatedAt))
}

func TestWorkflowStore_GetMissing(t *testing.T) {
	_, err := NewWorkflowStore(testDB(t)).Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWorkflowStore_ListNewestFirst(t *testing.T) {
	s := NewWorkflowStore(testDB(t))
	ctx := context.Background()
	base := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.Save(ctx, sampleRun("wf-old", base)))
	require.NoError(t, s.Save(ctx, sampleRun("wf-new", base.Add(time.Hour))))

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "wf-new", list[0].ID)
	assert.Equal(t, 2, list[0].TaskCount)
	assert.Empty(t, list[0].Tasks)
}

func TestWorkflowStore_SaveIsAtomic(t *testing.T) {
	s := NewWorkflowStore(testDB(t))
	ctx := context.Background()

	run := sampleRun("wf-1", time.Now())
	require.NoError(t, s.Save(ctx, run))
	require.Error(t, s.Save(ctx, run))

	got, err := s.Get(ctx, "wf-1")
	require.NoError(t, err)
	assert.Len(t, got.Tasks, 2)
}
