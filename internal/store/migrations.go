package store

// migration represents a single schema migration.
type migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered list of all schema migrations.
var migrations = []migration{
	{
		Version: 1,
		Name:    "create custom agents",
		SQL: `
			CREATE TABLE custom_agents (
				id           TEXT PRIMARY KEY,
				type         TEXT NOT NULL,
				name         TEXT NOT NULL,
				role         TEXT NOT NULL,
				description  TEXT NOT NULL,
				icon         TEXT NOT NULL DEFAULT '',
				color        TEXT NOT NULL DEFAULT 'blue',
				capabilities TEXT NOT NULL,
				created_at   TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE INDEX idx_custom_agents_type ON custom_agents (type);
		`,
	},
	{
		Version: 2,
		Name:    "create workflow runs and tasks",
		SQL: `
			CREATE TABLE workflow_runs (
				id           TEXT PRIMARY KEY,
				name         TEXT NOT NULL,
				match_info   TEXT NOT NULL,
				player_name  TEXT NOT NULL,
				status       TEXT NOT NULL,
				created_at   TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE TABLE workflow_tasks (
				workflow_id  TEXT NOT NULL REFERENCES workflow_runs(id) ON DELETE CASCADE,
				seq          INTEGER NOT NULL,
				id           TEXT NOT NULL,
				agent        TEXT NOT NULL,
				method       TEXT NOT NULL,
				status       TEXT NOT NULL,
				result       TEXT,
				full_result  TEXT,
				PRIMARY KEY (workflow_id, seq)
			);

			CREATE INDEX idx_workflow_runs_created ON workflow_runs (created_at);
		`,
	},
}
