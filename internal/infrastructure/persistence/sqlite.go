package persistence

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/agentkit/agentlearn/internal/domain/learning"
	"github.com/agentkit/agentlearn/internal/domain/policy"
)

// Store persists learning records in SQLite. Records are stored as JSON
// documents keyed by id, with the owning agent indexed for listing.
type Store struct {
	mu     sync.RWMutex
	db     *sql.DB
	closed bool
}

// Open creates or opens a store at the given path, creating parent
// directories and the schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("%w: failed to create store directory: %v", ErrStoreInit, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %v", ErrStoreInit, err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS patterns (
			id TEXT PRIMARY KEY,
			agent_id TEXT NOT NULL,
			data BLOB NOT NULL,
			updated_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_patterns_agent ON patterns(agent_id);

		CREATE TABLE IF NOT EXISTS solutions (
			id TEXT PRIMARY KEY,
			agent_id TEXT NOT NULL,
			data BLOB NOT NULL,
			updated_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_solutions_agent ON solutions(agent_id);

		CREATE TABLE IF NOT EXISTS decisions (
			id TEXT PRIMARY KEY,
			agent_id TEXT NOT NULL,
			data BLOB NOT NULL,
			updated_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_decisions_agent ON decisions(agent_id);

		CREATE TABLE IF NOT EXISTS qtables (
			agent_id TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			updated_at INTEGER NOT NULL
		);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("%w: failed to create schema: %v", ErrStoreInit, err)
	}
	return nil
}

func (s *Store) guard() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	return nil
}

func (s *Store) saveDoc(table, id, agentID string, doc interface{}) error {
	if err := s.guard(); err != nil {
		return err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreError, err)
	}

	query := fmt.Sprintf(`INSERT OR REPLACE INTO %s (id, agent_id, data, updated_at) VALUES (?, ?, ?, ?)`, table)
	if _, err := s.db.Exec(query, id, agentID, data, time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreError, err)
	}
	return nil
}

func (s *Store) loadDoc(table, id string, doc interface{}) error {
	if err := s.guard(); err != nil {
		return err
	}

	var data []byte
	query := fmt.Sprintf(`SELECT data FROM %s WHERE id = ?`, table)
	err := s.db.QueryRow(query, id).Scan(&data)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreError, err)
	}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreError, err)
	}
	return nil
}

// SavePattern upserts a pattern record.
func (s *Store) SavePattern(p *learning.Pattern) error {
	return s.saveDoc("patterns", p.ID, p.AgentID, p)
}

// GetPattern loads a pattern by id, ErrNotFound when absent.
func (s *Store) GetPattern(id string) (*learning.Pattern, error) {
	var p learning.Pattern
	if err := s.loadDoc("patterns", id, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPatterns returns all patterns for an agent, every agent when
// agentID is empty.
func (s *Store) ListPatterns(agentID string) ([]*learning.Pattern, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}

	query := `SELECT data FROM patterns`
	args := []interface{}{}
	if agentID != "" {
		query += ` WHERE agent_id = ?`
		args = append(args, agentID)
	}
	query += ` ORDER BY updated_at DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreError, err)
	}
	defer rows.Close()

	var patterns []*learning.Pattern
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreError, err)
		}
		var p learning.Pattern
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreError, err)
		}
		patterns = append(patterns, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreError, err)
	}
	return patterns, nil
}

// SaveSolution upserts a solution record.
func (s *Store) SaveSolution(sol *learning.Solution) error {
	return s.saveDoc("solutions", sol.ID, sol.AgentID, sol)
}

// GetSolution loads a solution by id, ErrNotFound when absent.
func (s *Store) GetSolution(id string) (*learning.Solution, error) {
	var sol learning.Solution
	if err := s.loadDoc("solutions", id, &sol); err != nil {
		return nil, err
	}
	return &sol, nil
}

// SaveDecision upserts a decision record.
func (s *Store) SaveDecision(d *learning.Decision) error {
	return s.saveDoc("decisions", d.ID, d.AgentID, d)
}

// GetDecision loads a decision by id, ErrNotFound when absent.
func (s *Store) GetDecision(id string) (*learning.Decision, error) {
	var d learning.Decision
	if err := s.loadDoc("decisions", id, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// SaveQTable stores an exported Q-table snapshot for an agent.
func (s *Store) SaveQTable(agentID string, export policy.QTableExport) error {
	if err := s.guard(); err != nil {
		return err
	}

	data, err := json.Marshal(export)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreError, err)
	}
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO qtables (agent_id, data, updated_at) VALUES (?, ?, ?)`,
		agentID, data, time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreError, err)
	}
	return nil
}

// LoadQTable loads the stored snapshot for an agent, ErrNotFound when
// none exists.
func (s *Store) LoadQTable(agentID string) (policy.QTableExport, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}

	var data []byte
	err := s.db.QueryRow(`SELECT data FROM qtables WHERE agent_id = ?`, agentID).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreError, err)
	}

	var export policy.QTableExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreError, err)
	}
	return export, nil
}

// Close closes the underlying database. Further calls fail with
// ErrStoreClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
