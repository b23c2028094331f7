package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/onboard-hub/onboard/internal/domain"
	"github.com/onboard-hub/onboard/internal/progress"
)

// SQLiteStore implements Repository using SQLite. Progress records and
// the chat transcript are persisted as JSON columns on the session row,
// so every mutation is a single atomic row replacement — the same
// last-write-wins semantics as the in-memory store, but durable across
// restarts.
type SQLiteStore struct {
	db *sql.DB
	// sessionMu serializes read-modify-write cycles on session rows
	// to prevent SQLITE_BUSY under concurrent mutations.
	sessionMu sync.Mutex
	now       func() time.Time
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &SQLiteStore{db: db, now: time.Now}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS sessions (
		session_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		role TEXT NOT NULL,
		progress_json TEXT NOT NULL DEFAULT '[]',
		chat_json TEXT NOT NULL DEFAULT '[]',
		created_at INTEGER NOT NULL,
		last_activity_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_last_activity ON sessions(last_activity_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

// CreateSession creates a new session for a learner.
func (s *SQLiteStore) CreateSession(ctx context.Context, name string, role domain.Role) (*domain.Session, error) {
	now := s.now()
	session := &domain.Session{
		ID:             uuid.New().String(),
		Name:           name,
		Role:           role,
		Progress:       []domain.Progress{},
		ChatHistory:    []domain.ChatMessage{},
		CreatedAt:      now,
		LastActivityAt: now,
	}

	query := `
	INSERT INTO sessions (session_id, name, role, progress_json, chat_json, created_at, last_activity_at)
	VALUES (?, ?, ?, '[]', '[]', ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		session.ID, session.Name, string(session.Role),
		session.CreatedAt.Unix(), session.LastActivityAt.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	return session, nil
}

// GetSession retrieves a session by ID, or (nil, nil) when absent.
func (s *SQLiteStore) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	query := `
		SELECT session_id, name, role, progress_json, chat_json, created_at, last_activity_at
		FROM sessions WHERE session_id = ?`

	return scanSession(s.db.QueryRowContext(ctx, query, id))
}

// DeleteSession removes a session, reporting whether it existed.
func (s *SQLiteStore) DeleteSession(ctx context.Context, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE session_id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}
	return rows > 0, nil
}

// ApplyProgressEvent runs the shared progress rules and writes the full
// updated record set back in one statement.
func (s *SQLiteStore) ApplyProgressEvent(ctx context.Context, sessionID string, ev progress.Event) (*domain.Progress, error) {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()

	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	now := s.now()
	next := progress.Apply(findProgress(session, ev.Module()), ev, sessionID, now)
	replaceProgress(session, next)

	progressJSON, err := json.Marshal(session.Progress)
	if err != nil {
		return nil, fmt.Errorf("marshal progress: %w", err)
	}

	query := `UPDATE sessions SET progress_json = ?, last_activity_at = ? WHERE session_id = ?`
	if _, err := s.db.ExecContext(ctx, query, string(progressJSON), now.Unix(), sessionID); err != nil {
		return nil, fmt.Errorf("update progress: %w", err)
	}

	out := next.Clone()
	return &out, nil
}

// AppendChatMessage appends to the transcript, or (nil, nil) when the
// session is absent.
func (s *SQLiteStore) AppendChatMessage(ctx context.Context, sessionID string, msg domain.ChatMessage) ([]domain.ChatMessage, error) {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()

	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	session.ChatHistory = append(session.ChatHistory, msg)
	chatJSON, err := json.Marshal(session.ChatHistory)
	if err != nil {
		return nil, fmt.Errorf("marshal chat history: %w", err)
	}

	query := `UPDATE sessions SET chat_json = ?, last_activity_at = ? WHERE session_id = ?`
	if _, err := s.db.ExecContext(ctx, query, string(chatJSON), s.now().Unix(), sessionID); err != nil {
		return nil, fmt.Errorf("update chat history: %w", err)
	}
	return session.ChatHistory, nil
}

// GetProgress returns all progress records for a session.
func (s *SQLiteStore) GetProgress(ctx context.Context, sessionID string) ([]domain.Progress, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil || session == nil {
		return nil, err
	}
	return session.Progress, nil
}

// GetChatHistory returns the session's chat transcript in order.
func (s *SQLiteStore) GetChatHistory(ctx context.Context, sessionID string) ([]domain.ChatMessage, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil || session == nil {
		return nil, err
	}
	return session.ChatHistory, nil
}

func scanSession(row *sql.Row) (*domain.Session, error) {
	var session domain.Session
	var role string
	var progressJSON, chatJSON string
	var createdAt, lastActivity int64

	err := row.Scan(&session.ID, &session.Name, &role, &progressJSON, &chatJSON, &createdAt, &lastActivity)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan session row: %w", err)
	}

	session.Role = domain.Role(role)
	session.CreatedAt = time.Unix(createdAt, 0)
	session.LastActivityAt = time.Unix(lastActivity, 0)

	if err := json.Unmarshal([]byte(progressJSON), &session.Progress); err != nil {
		return nil, fmt.Errorf("unmarshal progress: %w", err)
	}
	if err := json.Unmarshal([]byte(chatJSON), &session.ChatHistory); err != nil {
		return nil, fmt.Errorf("unmarshal chat history: %w", err)
	}
	if session.Progress == nil {
		session.Progress = []domain.Progress{}
	}
	if session.ChatHistory == nil {
		session.ChatHistory = []domain.ChatMessage{}
	}
	return &session, nil
}

// interface guards
var (
	_ Repository = (*SQLiteStore)(nil)
	_ Repository = (*MemoryStore)(nil)
)
