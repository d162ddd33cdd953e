// Package transcript persists a record of every agent invocation.
package transcript

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Invocation status values.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Invocation is one agent invocation triggered from a Slack thread.
type Invocation struct {
	ID               int64
	InvocationID     string
	ThreadKey        string
	Channel          string
	UserID           string
	Prompt           string
	Reply            string
	ErrorText        string
	Status           string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	StartedAt        time.Time
	FinishedAt       *time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS invocations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	invocation_id TEXT UNIQUE NOT NULL,
	thread_key TEXT NOT NULL,
	channel TEXT NOT NULL,
	user_id TEXT DEFAULT '',
	prompt TEXT DEFAULT '',
	reply TEXT DEFAULT '',
	error_text TEXT DEFAULT '',
	status TEXT NOT NULL DEFAULT 'running',
	prompt_tokens INTEGER NOT NULL DEFAULT 0,
	completion_tokens INTEGER NOT NULL DEFAULT 0,
	total_tokens INTEGER NOT NULL DEFAULT 0,
	started_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	finished_at DATETIME
);
CREATE INDEX IF NOT EXISTS idx_invocations_thread ON invocations(thread_key);
CREATE INDEX IF NOT EXISTS idx_invocations_status ON invocations(status);
`

// Store records invocations in a sqlite database.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the transcript database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", "file:"+dbPath+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open transcript db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Begin inserts a running invocation row. The InvocationID is generated
// if empty and the populated record is returned.
func (s *Store) Begin(inv *Invocation) (*Invocation, error) {
	if inv.InvocationID == "" {
		inv.InvocationID = uuid.NewString()
	}
	if inv.Status == "" {
		inv.Status = StatusRunning
	}

	_, err := s.db.Exec(`
	INSERT INTO invocations (invocation_id, thread_key, channel, user_id, prompt, status)
	VALUES (?, ?, ?, ?, ?, ?)
	`, inv.InvocationID, inv.ThreadKey, inv.Channel, inv.UserID, inv.Prompt, inv.Status)
	if err != nil {
		return nil, fmt.Errorf("begin invocation: %w", err)
	}
	return s.Get(inv.InvocationID)
}

// Complete marks an invocation as completed and stores the reply and usage.
func (s *Store) Complete(invocationID, reply string, promptTokens, completionTokens, totalTokens int) error {
	_, err := s.db.Exec(`UPDATE invocations SET
		status = ?, reply = ?,
		prompt_tokens = ?, completion_tokens = ?, total_tokens = ?,
		finished_at = datetime('now')
	WHERE invocation_id = ?`,
		StatusCompleted, reply, promptTokens, completionTokens, totalTokens, invocationID)
	return err
}

// Fail marks an invocation as failed and stores the error text.
func (s *Store) Fail(invocationID, errorText string) error {
	_, err := s.db.Exec(`UPDATE invocations SET
		status = ?, error_text = ?, finished_at = datetime('now')
	WHERE invocation_id = ?`,
		StatusFailed, errorText, invocationID)
	return err
}

// Get returns an invocation by invocation_id.
func (s *Store) Get(invocationID string) (*Invocation, error) {
	query := `SELECT id, invocation_id, thread_key, channel,
		COALESCE(user_id,''), COALESCE(prompt,''), COALESCE(reply,''), COALESCE(error_text,''),
		status, prompt_tokens, completion_tokens, total_tokens,
		started_at, finished_at
	FROM invocations WHERE invocation_id = ?`

	var inv Invocation
	var finishedAt sql.NullTime
	err := s.db.QueryRow(query, invocationID).Scan(
		&inv.ID, &inv.InvocationID, &inv.ThreadKey, &inv.Channel,
		&inv.UserID, &inv.Prompt, &inv.Reply, &inv.ErrorText,
		&inv.Status, &inv.PromptTokens, &inv.CompletionTokens, &inv.TotalTokens,
		&inv.StartedAt, &finishedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("invocation not found: %s", invocationID)
	}
	if err != nil {
		return nil, fmt.Errorf("get invocation: %w", err)
	}
	if finishedAt.Valid {
		inv.FinishedAt = &finishedAt.Time
	}
	return &inv, nil
}

// List returns invocations filtered by optional status and thread key.
func (s *Store) List(status, threadKey string, limit, offset int) ([]Invocation, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, invocation_id, thread_key, channel,
		COALESCE(user_id,''), COALESCE(prompt,''), COALESCE(reply,''), COALESCE(error_text,''),
		status, prompt_tokens, completion_tokens, total_tokens,
		started_at, finished_at
	FROM invocations WHERE 1=1`
	args := []interface{}{}

	if status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}
	if threadKey != "" {
		query += " AND thread_key = ?"
		args = append(args, threadKey)
	}
	query += " ORDER BY started_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invocations: %w", err)
	}
	defer rows.Close()

	var out []Invocation
	for rows.Next() {
		var inv Invocation
		var finishedAt sql.NullTime
		if err := rows.Scan(
			&inv.ID, &inv.InvocationID, &inv.ThreadKey, &inv.Channel,
			&inv.UserID, &inv.Prompt, &inv.Reply, &inv.ErrorText,
			&inv.Status, &inv.PromptTokens, &inv.CompletionTokens, &inv.TotalTokens,
			&inv.StartedAt, &finishedAt,
		); err != nil {
			return nil, err
		}
		if finishedAt.Valid {
			inv.FinishedAt = &finishedAt.Time
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// Stats summarizes recorded invocations.
type Stats struct {
	ByStatus    map[string]int
	Last24h     int
	TotalTokens int
}

// GetStats returns aggregated invocation statistics.
func (s *Store) GetStats() (*Stats, error) {
	stats := &Stats{ByStatus: make(map[string]int)}

	rows, err := s.db.Query(`SELECT COALESCE(status,'unknown'), COUNT(*) FROM invocations GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.ByStatus[status] = count
	}

	_ = s.db.QueryRow(`SELECT COUNT(*) FROM invocations WHERE started_at >= datetime('now', '-1 day')`).Scan(&stats.Last24h)
	_ = s.db.QueryRow(`SELECT COALESCE(SUM(total_tokens), 0) FROM invocations`).Scan(&stats.TotalTokens)

	return stats, nil
}
