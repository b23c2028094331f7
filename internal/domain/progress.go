package domain

import "time"

// ModuleStatus tracks how far a learner has gotten through a module.
// Absence of a Progress record means not_started; once a record exists
// its status only ever moves forward.
type ModuleStatus string

const (
	StatusNotStarted ModuleStatus = "not_started"
	StatusInProgress ModuleStatus = "in_progress"
	StatusCompleted  ModuleStatus = "completed"
)

// QuizResult records the outcome of the most recent quiz submission for
// a module. A retry overwrites the previous result, pass or fail.
type QuizResult struct {
	QuizID         string    `json:"quizId"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	Passed         bool      `json:"passed"`
	AnsweredAt     time.Time `json:"answeredAt"`
}

// Progress is the per-module completion record for a session. Exactly
// one record exists per (session, module) pair. CompletedSections is a
// grow-only set; Status never regresses from completed.
type Progress struct {
	ID                string       `json:"id"`
	SessionID         string       `json:"sessionId"`
	ModuleID          string       `json:"moduleId"`
	Status            ModuleStatus `json:"status"`
	CompletedSections []string     `json:"completedSections"`
	QuizResult        *QuizResult  `json:"quizResult,omitempty"`
	StartedAt         time.Time    `json:"startedAt"`
	CompletedAt       *time.Time   `json:"completedAt,omitempty"`
}

// HasSection reports whether the section is already in the completed set.
func (p *Progress) HasSection(sectionID string) bool {
	for _, s := range p.CompletedSections {
		if s == sectionID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can hand out records without
// exposing the store's internal state to mutation.
func (p *Progress) Clone() Progress {
	out := *p
	out.CompletedSections = append([]string(nil), p.CompletedSections...)
	if p.QuizResult != nil {
		qr := *p.QuizResult
		out.QuizResult = &qr
	}
	if p.CompletedAt != nil {
		t := *p.CompletedAt
		out.CompletedAt = &t
	}
	return out
}
