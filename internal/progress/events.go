// Package progress implements the rules that evolve a learner's
// per-module completion record. The transition function is pure: both
// the server store and the client-side mirror run the exact same code,
// so the two stay behaviorally identical by construction.
package progress

// Event is an intent issued by the presentation layer against a
// (session, module) pair.
type Event interface {
	// Module returns the ID of the module the event targets.
	Module() string
}

// SectionViewed records that the learner viewed a content section.
type SectionViewed struct {
	ModuleID  string
	SectionID string
}

func (e SectionViewed) Module() string { return e.ModuleID }

// ModuleCompleted force-completes the whole module. Used when a module
// has no quiz, or when completion is granted directly.
type ModuleCompleted struct {
	ModuleID string
}

func (e ModuleCompleted) Module() string { return e.ModuleID }

// QuizSubmitted carries the learner's selected option indices together
// with the quiz metadata resolved from the catalog by the caller. The
// state machine never performs catalog lookups itself.
type QuizSubmitted struct {
	ModuleID string
	QuizID   string
	// Answers holds the submitted option index per question, in
	// question order. Missing entries count as incorrect.
	Answers []int
	// CorrectAnswers holds the correct option index per question.
	CorrectAnswers []int
	// PassingScore is the inclusive pass threshold (0-100).
	PassingScore int
}

func (e QuizSubmitted) Module() string { return e.ModuleID }
