package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/onboard-hub/onboard/internal/domain"
	"github.com/onboard-hub/onboard/internal/progress"
)

// MemoryStore implements Repository with an in-process map: sessions
// live for the process lifetime and are lost on restart. Mutations
// replace the whole session entry under the write lock, so a call
// either fully applies or not at all.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
	now      func() time.Time
}

// NewMemory creates an empty in-memory repository.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*domain.Session),
		now:      time.Now,
	}
}

// CreateSession creates a new session for a learner.
func (s *MemoryStore) CreateSession(_ context.Context, name string, role domain.Role) (*domain.Session, error) {
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

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	out := cloneSession(session)
	return &out, nil
}

// GetSession retrieves a session by ID, or (nil, nil) when absent.
func (s *MemoryStore) GetSession(_ context.Context, id string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	out := cloneSession(session)
	return &out, nil
}

// DeleteSession removes a session, reporting whether it existed.
func (s *MemoryStore) DeleteSession(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return false, nil
	}
	delete(s.sessions, id)
	return true, nil
}

// ApplyProgressEvent runs the shared progress rules and swaps in the
// resulting record. Last write wins per session key.
func (s *MemoryStore) ApplyProgressEvent(_ context.Context, sessionID string, ev progress.Event) (*domain.Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}

	now := s.now()
	next := progress.Apply(findProgress(session, ev.Module()), ev, sessionID, now)
	replaceProgress(session, next)
	session.LastActivityAt = now

	out := next.Clone()
	return &out, nil
}

// AppendChatMessage appends to the transcript, or (nil, nil) when the
// session is absent.
func (s *MemoryStore) AppendChatMessage(_ context.Context, sessionID string, msg domain.ChatMessage) ([]domain.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}

	session.ChatHistory = append(session.ChatHistory, msg)
	session.LastActivityAt = s.now()

	return append([]domain.ChatMessage(nil), session.ChatHistory...), nil
}

// GetProgress returns all progress records for a session.
func (s *MemoryStore) GetProgress(_ context.Context, sessionID string) ([]domain.Progress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	out := make([]domain.Progress, len(session.Progress))
	for i := range session.Progress {
		out[i] = session.Progress[i].Clone()
	}
	return out, nil
}

// GetChatHistory returns the session's chat transcript in order.
func (s *MemoryStore) GetChatHistory(_ context.Context, sessionID string) ([]domain.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	return append([]domain.ChatMessage(nil), session.ChatHistory...), nil
}

// Ping always succeeds for the in-memory backend.
func (s *MemoryStore) Ping(_ context.Context) error { return nil }

// Close is a no-op for the in-memory backend.
func (s *MemoryStore) Close() error { return nil }

func findProgress(session *domain.Session, moduleID string) *domain.Progress {
	for i := range session.Progress {
		if session.Progress[i].ModuleID == moduleID {
			return &session.Progress[i]
		}
	}
	return nil
}

func replaceProgress(session *domain.Session, rec domain.Progress) {
	for i := range session.Progress {
		if session.Progress[i].ModuleID == rec.ModuleID {
			session.Progress[i] = rec
			return
		}
	}
	session.Progress = append(session.Progress, rec)
}

func cloneSession(in *domain.Session) domain.Session {
	out := *in
	out.Progress = make([]domain.Progress, len(in.Progress))
	for i := range in.Progress {
		out.Progress[i] = in.Progress[i].Clone()
	}
	out.ChatHistory = append([]domain.ChatMessage(nil), in.ChatHistory...)
	return out
}
