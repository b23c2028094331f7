package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/onboard-hub/onboard/internal/domain"
	"github.com/onboard-hub/onboard/internal/progress"
)

// RegisterRoutes registers all onboarding API routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/sessions", h.CreateSession)
		r.Get("/sessions/{id}", h.GetSession)
		r.Delete("/sessions/{id}", h.DeleteSession)

		r.Post("/progress", h.UpdateProgress)
		r.Get("/progress/{sessionID}", h.GetProgress)
		r.Post("/quiz", h.SubmitQuiz)
		r.Get("/stats/{sessionID}", h.GetStats)

		r.Post("/chat", h.Chat)
		r.Get("/chat/{sessionID}", h.GetChatHistory)

		r.Get("/modules", h.ListModules)
		r.Get("/modules/{id}", h.GetModule)
		r.Get("/resources", h.ListResources)
		r.Get("/roles", h.ListRoles)
		r.Get("/config", h.GetConfig)
	})
}

type createSessionRequest struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// CreateSession starts a new onboarding session for a learner.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var details []FieldError
	if req.Name == "" {
		details = append(details, FieldError{Field: "name", Message: "name is required"})
	}
	if len(req.Name) > 100 {
		details = append(details, FieldError{Field: "name", Message: "name must be at most 100 characters"})
	}
	if !domain.Role(req.Role).Valid() {
		details = append(details, FieldError{Field: "role", Message: "unknown role"})
	}
	if len(details) > 0 {
		ValidationError(w, details)
		return
	}

	session, err := h.repo.CreateSession(r.Context(), req.Name, domain.Role(req.Role))
	if err != nil {
		slog.Error("Failed to create session", "error", err)
		Error(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	slog.Info("Session created", "session_id", session.ID, "role", session.Role)
	JSON(w, http.StatusOK, session)
}

// GetSession returns a session by ID.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.repo.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		slog.Error("Failed to get session", "error", err)
		Error(w, http.StatusInternalServerError, "Failed to get session")
		return
	}
	if session == nil {
		Error(w, http.StatusNotFound, "Session not found")
		return
	}
	JSON(w, http.StatusOK, session)
}

// DeleteSession removes a session.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	deleted, err := h.repo.DeleteSession(r.Context(), id)
	if err != nil {
		slog.Error("Failed to delete session", "error", err, "session_id", id)
		Error(w, http.StatusInternalServerError, "Failed to delete session")
		return
	}
	if !deleted {
		Error(w, http.StatusNotFound, "Session not found")
		return
	}
	slog.Info("Session deleted", "session_id", id)
	JSON(w, http.StatusOK, map[string]bool{"success": true})
}

type updateProgressRequest struct {
	SessionID string `json:"sessionId"`
	ModuleID  string `json:"moduleId"`
	SectionID string `json:"sectionId,omitempty"`
	Status    string `json:"status,omitempty"`
}

// UpdateProgress applies a section-view or module-completion intent.
func (h *Handler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	var req updateProgressRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var details []FieldError
	if req.SessionID == "" {
		details = append(details, FieldError{Field: "sessionId", Message: "sessionId is required"})
	}
	if req.ModuleID == "" {
		details = append(details, FieldError{Field: "moduleId", Message: "moduleId is required"})
	}
	if req.Status != "" && req.Status != string(domain.StatusCompleted) && req.Status != string(domain.StatusInProgress) {
		details = append(details, FieldError{Field: "status", Message: "unknown status"})
	}
	if req.SectionID == "" && req.Status != string(domain.StatusCompleted) {
		details = append(details, FieldError{Field: "sectionId", Message: "sectionId or status=completed is required"})
	}
	if len(details) > 0 {
		ValidationError(w, details)
		return
	}

	var ev progress.Event
	if req.Status == string(domain.StatusCompleted) {
		ev = progress.ModuleCompleted{ModuleID: req.ModuleID}
	} else {
		ev = progress.SectionViewed{ModuleID: req.ModuleID, SectionID: req.SectionID}
	}

	rec, err := h.repo.ApplyProgressEvent(r.Context(), req.SessionID, ev)
	if err != nil {
		slog.Error("Failed to update progress", "error", err, "session_id", req.SessionID)
		Error(w, http.StatusInternalServerError, "Failed to update progress")
		return
	}
	if rec == nil {
		Error(w, http.StatusNotFound, "Session not found")
		return
	}
	JSON(w, http.StatusOK, rec)
}

// GetProgress returns all progress records for a session. An unknown
// session yields an empty list, matching the read-only chat endpoint.
func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	records, err := h.repo.GetProgress(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		slog.Error("Failed to get progress", "error", err)
		Error(w, http.StatusInternalServerError, "Failed to get progress")
		return
	}
	if records == nil {
		records = []domain.Progress{}
	}
	JSON(w, http.StatusOK, records)
}

type submitQuizRequest struct {
	SessionID string `json:"sessionId"`
	ModuleID  string `json:"moduleId"`
	QuizID    string `json:"quizId"`
	Answers   []int  `json:"answers"`
}

// SubmitQuiz grades a quiz submission server-side and applies the
// result to the session's progress record.
func (h *Handler) SubmitQuiz(w http.ResponseWriter, r *http.Request) {
	var req submitQuizRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var details []FieldError
	if req.SessionID == "" {
		details = append(details, FieldError{Field: "sessionId", Message: "sessionId is required"})
	}
	if req.ModuleID == "" {
		details = append(details, FieldError{Field: "moduleId", Message: "moduleId is required"})
	}
	if req.Answers == nil {
		details = append(details, FieldError{Field: "answers", Message: "answers is required"})
	}

	module := h.catalog.Module(req.ModuleID)
	if req.ModuleID != "" && module == nil {
		details = append(details, FieldError{Field: "moduleId", Message: "unknown module"})
	}
	if module != nil {
		if module.Quiz == nil {
			details = append(details, FieldError{Field: "moduleId", Message: "module has no quiz"})
		} else if req.QuizID != module.Quiz.ID {
			details = append(details, FieldError{Field: "quizId", Message: "quizId does not match module quiz"})
		}
	}
	if len(details) > 0 {
		ValidationError(w, details)
		return
	}

	// Quiz gating: every catalog section must be viewed first. The
	// progress rules themselves tolerate out-of-order events; the
	// gate lives here at the request boundary.
	session, err := h.repo.GetSession(r.Context(), req.SessionID)
	if err != nil {
		slog.Error("Failed to load session for quiz gating", "error", err, "session_id", req.SessionID)
		Error(w, http.StatusInternalServerError, "Failed to submit quiz")
		return
	}
	if session == nil {
		Error(w, http.StatusNotFound, "Session not found")
		return
	}
	var completed []string
	for i := range session.Progress {
		if session.Progress[i].ModuleID == req.ModuleID {
			completed = session.Progress[i].CompletedSections
			break
		}
	}
	if !module.AllSectionsCompleted(completed) {
		Error(w, http.StatusConflict, "All sections must be completed before taking the quiz")
		return
	}

	rec, err := h.repo.ApplyProgressEvent(r.Context(), req.SessionID, progress.QuizSubmitted{
		ModuleID:       req.ModuleID,
		QuizID:         module.Quiz.ID,
		Answers:        req.Answers,
		CorrectAnswers: module.Quiz.CorrectAnswers(),
		PassingScore:   module.Quiz.PassingScore,
	})
	if err != nil {
		slog.Error("Failed to submit quiz", "error", err, "session_id", req.SessionID)
		Error(w, http.StatusInternalServerError, "Failed to submit quiz")
		return
	}
	if rec == nil {
		Error(w, http.StatusNotFound, "Session not found")
		return
	}

	slog.Info("Quiz submitted", "session_id", req.SessionID, "module_id", req.ModuleID,
		"score", rec.QuizResult.Score, "passed", rec.QuizResult.Passed)
	JSON(w, http.StatusOK, rec)
}

// GetStats returns dashboard statistics for a session.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	session, err := h.repo.GetSession(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		slog.Error("Failed to get session for stats", "error", err)
		Error(w, http.StatusInternalServerError, "Failed to get stats")
		return
	}
	if session == nil {
		Error(w, http.StatusNotFound, "Session not found")
		return
	}
	JSON(w, http.StatusOK, h.catalog.StatsFor(session.Role, session.Progress))
}
