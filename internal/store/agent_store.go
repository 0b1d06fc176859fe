package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/soyeahso/dugout/internal/domain"
)

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when inserting an id that already exists.
	ErrDuplicate = errors.New("already exists")
)

// AgentStore persists user-defined agents.
type AgentStore struct {
	db *DB
}

// NewAgentStore creates an agent store using the given database.
func NewAgentStore(db *DB) *AgentStore {
	return &AgentStore{db: db}
}

// Create inserts a custom agent.
func (s *AgentStore) Create(ctx context.Context, a domain.Agent) error {
	caps, err := json.Marshal(a.Capabilities)
	if err != nil {
		return fmt.Errorf("encoding capabilities: %w", err)
	}

	_, err = s.db.sql.ExecContext(ctx,
		`INSERT INTO custom_agents (id, type, name, role, description, icon, color, capabilities)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Type, a.Name, a.Role, a.Description, a.Icon, string(a.Color), string(caps),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("agent %s: %w", a.ID, ErrDuplicate)
		}
		return fmt.Errorf("inserting agent %s: %w", a.ID, err)
	}
	s.db.log.Debug().Str("id", a.ID).Msg("custom agent stored")
	return nil
}

// Get returns a custom agent by id.
func (s *AgentStore) Get(ctx context.Context, id string) (domain.Agent, error) {
	row := s.db.sql.QueryRowContext(ctx,
		`SELECT id, type, name, role, description, icon, color, capabilities
		 FROM custom_agents WHERE id = ?`, id)
	a, err := scanAgent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Agent{}, fmt.Errorf("agent %s: %w", id, ErrNotFound)
	}
	return a, err
}

// List returns every custom agent in creation order.
func (s *AgentStore) List(ctx context.Context) ([]domain.Agent, error) {
	rows, err := s.db.sql.QueryContext(ctx,
		`SELECT id, type, name, role, description, icon, color, capabilities
		 FROM custom_agents ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("listing agents: %w", err)
	}
	defer rows.Close()

	var out []domain.Agent
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Delete removes a custom agent.
func (s *AgentStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.sql.ExecContext(ctx, `DELETE FROM custom_agents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting agent %s: %w", id, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("agent %s: %w", id, ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAgent(row scanner) (domain.Agent, error) {
	var a domain.Agent
	var color, caps string
	if err := row.Scan(&a.ID, &a.Type, &a.Name, &a.Role, &a.Description, &a.Icon, &color, &caps); err != nil {
		return domain.Agent{}, err
	}
	a.Color = domain.ParseColor(color)
	if err := json.Unmarshal([]byte(caps), &a.Capabilities); err != nil {
		return domain.Agent{}, fmt.Errorf("decoding capabilities for %s: %w", a.ID, err)
	}
	return a, nil
}
