// Package chat implements the AI onboarding assistant collaborator.
// The core treats it as an opaque reply generator; provider failures
// propagate to the caller, which surfaces a generic chat error.
package chat

import (
	"context"

	"github.com/onboard-hub/onboard/internal/domain"
)

// Context carries the optional learner details woven into the system prompt.
type Context struct {
	Role domain.Role
	Name string
}

// Client generates assistant replies. Implementations must not retry;
// a failed call is surfaced to the user as a generic chat error.
type Client interface {
	GenerateReply(ctx context.Context, message string, convCtx Context) (string, error)
}
