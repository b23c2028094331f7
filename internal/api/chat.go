package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/onboard-hub/onboard/internal/chat"
	"github.com/onboard-hub/onboard/internal/domain"
)

type chatContext struct {
	SessionID string `json:"sessionId,omitempty"`
	Role      string `json:"role,omitempty"`
	Name      string `json:"name,omitempty"`
}

type chatRequest struct {
	Message string       `json:"message"`
	Context *chatContext `json:"context,omitempty"`
}

// Chat forwards a learner message to the assistant provider. When the
// request names a session, both the user message and the reply are
// appended to that session's transcript. No retries; provider failures
// surface as a generic chat error and never touch the transcript.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var details []FieldError
	if req.Message == "" {
		details = append(details, FieldError{Field: "message", Message: "message is required"})
	}
	if req.Context != nil && req.Context.Role != "" && !domain.Role(req.Context.Role).Valid() {
		details = append(details, FieldError{Field: "context.role", Message: "unknown role"})
	}
	if len(details) > 0 {
		ValidationError(w, details)
		return
	}

	convCtx := chat.Context{}
	sessionID := ""
	if req.Context != nil {
		convCtx.Role = domain.Role(req.Context.Role)
		convCtx.Name = req.Context.Name
		sessionID = req.Context.SessionID
	}

	if sessionID != "" {
		session, err := h.repo.GetSession(r.Context(), sessionID)
		if err != nil {
			slog.Error("Failed to load session for chat", "error", err, "session_id", sessionID)
			Error(w, http.StatusInternalServerError, "Failed to process chat message")
			return
		}
		if session == nil {
			Error(w, http.StatusNotFound, "Session not found")
			return
		}
		// Session context wins over whatever the client sent.
		convCtx.Role = session.Role
		convCtx.Name = session.Name
	}

	if h.chat == nil {
		slog.Warn("Chat requested but no provider configured")
		Error(w, http.StatusInternalServerError, "Failed to process chat message")
		return
	}

	reply, err := h.chat.GenerateReply(r.Context(), req.Message, convCtx)
	if err != nil {
		slog.Error("Chat provider failed", "error", err)
		Error(w, http.StatusInternalServerError, "Failed to process chat message")
		return
	}

	if sessionID != "" {
		if _, err := h.repo.AppendChatMessage(r.Context(), sessionID, domain.ChatMessage{
			Role: domain.ChatRoleUser, Content: req.Message,
		}); err != nil {
			slog.Error("Failed to append user message", "error", err, "session_id", sessionID)
		}
		if _, err := h.repo.AppendChatMessage(r.Context(), sessionID, domain.ChatMessage{
			Role: domain.ChatRoleAssistant, Content: reply,
		}); err != nil {
			slog.Error("Failed to append assistant message", "error", err, "session_id", sessionID)
		}
	}

	JSON(w, http.StatusOK, map[string]string{"message": reply})
}

// GetChatHistory returns a session's transcript. Unknown sessions yield
// an empty list so a fresh client can always render a transcript pane.
func (h *Handler) GetChatHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.repo.GetChatHistory(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		slog.Error("Failed to get chat history", "error", err)
		Error(w, http.StatusInternalServerError, "Failed to get chat history")
		return
	}
	if history == nil {
		history = []domain.ChatMessage{}
	}
	JSON(w, http.StatusOK, history)
}
