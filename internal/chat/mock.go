package chat

import (
	"context"
	"fmt"
)

// Mock is a deterministic Client for tests and local development.
type Mock struct {
	// Err, when set, is returned by every call.
	Err error
	// Reply, when set, overrides the default echo response.
	Reply string
}

// NewMock returns a Mock that echoes the incoming message.
func NewMock() *Mock {
	return &Mock{}
}

// GenerateReply implements Client.
func (m *Mock) GenerateReply(_ context.Context, message string, convCtx Context) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	if m.Reply != "" {
		return m.Reply, nil
	}
	if convCtx.Name != "" {
		return fmt.Sprintf("Hi %s! You asked: %q. Check the training modules for details.", convCtx.Name, message), nil
	}
	return fmt.Sprintf("You asked: %q. Check the training modules for details.", message), nil
}
