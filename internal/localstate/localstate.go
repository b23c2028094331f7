// Package localstate persists the client's view of its onboarding
// session on disk so a restarted client can resume without asking the
// server. The server stays authoritative; the mirror applies the same
// progress rules locally for optimistic updates and reconciles by
// simply replacing itself with whatever the server returns.
package localstate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/onboard-hub/onboard/internal/domain"
	"github.com/onboard-hub/onboard/internal/progress"
)

const stateFile = "session.json"

// Store reads and writes the mirrored session at a fixed path.
type Store struct {
	path string
	now  func() time.Time
}

// New returns a store rooted at the user config directory
// (e.g. ~/.config/onboard/session.json).
func New() (*Store, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}
	return NewAt(filepath.Join(dir, "onboard", stateFile)), nil
}

// NewAt returns a store using an explicit file path.
func NewAt(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the mirrored session. A missing or unreadable file is not
// an error: the mirror is a cache, so corrupt state is discarded and
// (nil, nil) returned, same as no state at all.
func (s *Store) Load() (*domain.Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read local state: %w", err)
	}
	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, nil
	}
	if session.ID == "" {
		return nil, nil
	}
	return &session, nil
}

// Save replaces the mirrored session. The write goes through a temp
// file and rename so a crash never leaves a half-written mirror.
func (s *Store) Save(session *domain.Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write local state: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace local state: %w", err)
	}
	return nil
}

// Clear removes the mirrored session. Clearing an absent mirror is a
// no-op.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear local state: %w", err)
	}
	return nil
}

// Apply runs a progress event against the mirrored session using the
// same transition rules the server uses, then persists the result.
// Returns the updated record, or (nil, nil) when no session is mirrored.
func (s *Store) Apply(ev progress.Event) (*domain.Progress, error) {
	session, err := s.Load()
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	now := s.now()
	var current *domain.Progress
	idx := -1
	for i := range session.Progress {
		if session.Progress[i].ModuleID == ev.Module() {
			current = &session.Progress[i]
			idx = i
			break
		}
	}

	next := progress.Apply(current, ev, session.ID, now)
	if idx >= 0 {
		session.Progress[idx] = next
	} else {
		session.Progress = append(session.Progress, next)
	}
	session.LastActivityAt = now

	if err := s.Save(session); err != nil {
		return nil, err
	}
	return &next, nil
}

// AppendChatMessage appends to the mirrored transcript and persists.
// Returns false when no session is mirrored.
func (s *Store) AppendChatMessage(msg domain.ChatMessage) (bool, error) {
	session, err := s.Load()
	if err != nil {
		return false, err
	}
	if session == nil {
		return false, nil
	}
	session.ChatHistory = append(session.ChatHistory, msg)
	session.LastActivityAt = s.now()
	if err := s.Save(session); err != nil {
		return false, err
	}
	return true, nil
}
