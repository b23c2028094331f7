// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"github.com/onboard-hub/onboard/internal/domain"
	"github.com/onboard-hub/onboard/internal/progress"
)

// Repository is the single point of truth for onboarding sessions and
// their progress records. Lookups return (nil, nil) when the session
// does not exist so callers can distinguish "not found" from a storage
// failure without sentinel errors.
type Repository interface {
	// CreateSession creates a new session for a learner. Never fails
	// for a valid name and role.
	CreateSession(ctx context.Context, name string, role domain.Role) (*domain.Session, error)

	// GetSession retrieves a session by ID, or (nil, nil) when absent.
	GetSession(ctx context.Context, id string) (*domain.Session, error)

	// DeleteSession removes a session, reporting whether it existed.
	DeleteSession(ctx context.Context, id string) (bool, error)

	// ApplyProgressEvent runs the progress rules against the session's
	// record for the event's module and persists the result. Returns
	// (nil, nil) when the session does not exist.
	ApplyProgressEvent(ctx context.Context, sessionID string, ev progress.Event) (*domain.Progress, error)

	// AppendChatMessage appends to the session transcript and returns
	// the updated transcript, or (nil, nil) when the session is absent.
	AppendChatMessage(ctx context.Context, sessionID string, msg domain.ChatMessage) ([]domain.ChatMessage, error)

	// GetProgress returns all progress records for a session.
	GetProgress(ctx context.Context, sessionID string) ([]domain.Progress, error)

	// GetChatHistory returns the session's chat transcript in order.
	GetChatHistory(ctx context.Context, sessionID string) ([]domain.ChatMessage, error)

	// Ping verifies the backing storage is reachable.
	Ping(ctx context.Context) error

	// Close releases storage resources.
	Close() error
}
