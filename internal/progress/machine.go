package progress

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/onboard-hub/onboard/internal/domain"
)

// Apply computes the next progress record for a module given the
// current record (nil when no record exists yet) and an event. It is a
// pure function of (current, event, now); callers persist the result.
//
// Invariants preserved for any event order:
//   - the completed-section set only grows, duplicates impossible
//   - status never regresses from completed
//   - a quiz result always reflects the most recent submission
func Apply(current *domain.Progress, ev Event, sessionID string, now time.Time) domain.Progress {
	var next domain.Progress
	if current != nil {
		next = current.Clone()
	} else {
		next = domain.Progress{
			ID:        uuid.New().String(),
			SessionID: sessionID,
			ModuleID:  ev.Module(),
			Status:    domain.StatusInProgress,
			StartedAt: now,
		}
	}

	switch e := ev.(type) {
	case SectionViewed:
		if !next.HasSection(e.SectionID) {
			next.CompletedSections = append(next.CompletedSections, e.SectionID)
		}
		if next.Status == domain.StatusNotStarted {
			next.Status = domain.StatusInProgress
		}

	case ModuleCompleted:
		complete(&next, now)

	case QuizSubmitted:
		score, total := Score(e.CorrectAnswers, e.Answers)
		result := domain.QuizResult{
			QuizID:         e.QuizID,
			Score:          score,
			TotalQuestions: total,
			Passed:         score >= e.PassingScore,
			AnsweredAt:     now,
		}
		// Latest submission wins, pass or fail.
		next.QuizResult = &result
		if result.Passed {
			complete(&next, now)
		}
	}

	return next
}

func complete(p *domain.Progress, now time.Time) {
	if p.Status == domain.StatusCompleted {
		return
	}
	p.Status = domain.StatusCompleted
	t := now
	p.CompletedAt = &t
}

// Score grades a submission against the correct option indices and
// returns the rounded percentage score plus the question count.
// Unanswered or out-of-range answers count as incorrect; a submission
// longer than the question list is truncated. An empty quiz scores 0.
func Score(correctAnswers, answers []int) (score, total int) {
	total = len(correctAnswers)
	if total == 0 {
		return 0, 0
	}
	correct := 0
	for i, want := range correctAnswers {
		if i < len(answers) && answers[i] == want {
			correct++
		}
	}
	score = int(math.Round(float64(correct) * 100 / float64(total)))
	return score, total
}
