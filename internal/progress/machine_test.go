package progress

import (
	"testing"
	"time"

	"github.com/onboard-hub/onboard/internal/domain"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func TestFirstSectionViewStartsModule(t *testing.T) {
	p := Apply(nil, SectionViewed{ModuleID: "m1", SectionID: "s1"}, "sess", testNow)

	if p.Status != domain.StatusInProgress {
		t.Errorf("Expected status in_progress, got %s", p.Status)
	}
	if len(p.CompletedSections) != 1 || p.CompletedSections[0] != "s1" {
		t.Errorf("Expected completed sections [s1], got %v", p.CompletedSections)
	}
	if !p.StartedAt.Equal(testNow) {
		t.Errorf("Expected startedAt = %v, got %v", testNow, p.StartedAt)
	}
	if p.CompletedAt != nil {
		t.Error("Expected no completedAt on a fresh in-progress record")
	}
	if p.ID == "" || p.SessionID != "sess" || p.ModuleID != "m1" {
		t.Errorf("Record identity not set: %+v", p)
	}
}

func TestSectionViewIsIdempotent(t *testing.T) {
	once := Apply(nil, SectionViewed{ModuleID: "m1", SectionID: "s1"}, "sess", testNow)
	twice := Apply(&once, SectionViewed{ModuleID: "m1", SectionID: "s1"}, "sess", testNow.Add(time.Minute))

	if len(twice.CompletedSections) != 1 {
		t.Errorf("Expected 1 section after duplicate view, got %v", twice.CompletedSections)
	}
	if twice.Status != domain.StatusInProgress {
		t.Errorf("Expected status unchanged, got %s", twice.Status)
	}
}

func TestSectionSetIsMonotonic(t *testing.T) {
	events := []Event{
		SectionViewed{ModuleID: "m1", SectionID: "s1"},
		SectionViewed{ModuleID: "m1", SectionID: "s2"},
		SectionViewed{ModuleID: "m1", SectionID: "s1"},
		ModuleCompleted{ModuleID: "m1"},
		SectionViewed{ModuleID: "m1", SectionID: "s3"},
	}

	var cur *domain.Progress
	prevLen := 0
	for i, ev := range events {
		next := Apply(cur, ev, "sess", testNow.Add(time.Duration(i)*time.Minute))
		if len(next.CompletedSections) < prevLen {
			t.Fatalf("Section set shrank at event %d: %v", i, next.CompletedSections)
		}
		prevLen = len(next.CompletedSections)
		cur = &next
	}

	if cur.Status != domain.StatusCompleted {
		t.Errorf("Expected completed, got %s", cur.Status)
	}
	if len(cur.CompletedSections) != 3 {
		t.Errorf("Expected 3 sections, got %v", cur.CompletedSections)
	}
}

func TestModuleCompletedSetsCompletionTimestamp(t *testing.T) {
	p := Apply(nil, ModuleCompleted{ModuleID: "m1"}, "sess", testNow)

	if p.Status != domain.StatusCompleted {
		t.Errorf("Expected completed, got %s", p.Status)
	}
	if p.CompletedAt == nil || !p.CompletedAt.Equal(testNow) {
		t.Errorf("Expected completedAt = %v, got %v", testNow, p.CompletedAt)
	}
}

func TestStatusNeverRegressesFromCompleted(t *testing.T) {
	done := Apply(nil, ModuleCompleted{ModuleID: "m1"}, "sess", testNow)
	completedAt := *done.CompletedAt

	// A failing quiz submission after completion keeps the module completed
	// and keeps the original completion timestamp.
	after := Apply(&done, QuizSubmitted{
		ModuleID:       "m1",
		QuizID:         "q1",
		Answers:        []int{0, 0, 0},
		CorrectAnswers: []int{1, 1, 1},
		PassingScore:   70,
	}, "sess", testNow.Add(time.Hour))

	if after.Status != domain.StatusCompleted {
		t.Errorf("Status regressed to %s", after.Status)
	}
	if after.CompletedAt == nil || !after.CompletedAt.Equal(completedAt) {
		t.Errorf("Completion timestamp changed: %v", after.CompletedAt)
	}
	if after.QuizResult == nil || after.QuizResult.Passed {
		t.Errorf("Expected recorded failing result, got %+v", after.QuizResult)
	}
}

func TestQuizScoring(t *testing.T) {
	tests := []struct {
		name      string
		correct   []int
		answers   []int
		wantScore int
		wantTotal int
	}{
		{"all correct", []int{1, 2, 0}, []int{1, 2, 0}, 100, 3},
		{"two of three rounds to 67", []int{1, 2, 0}, []int{1, 2, 3}, 67, 3},
		{"one of three rounds to 33", []int{1, 2, 0}, []int{1, 0, 3}, 33, 3},
		{"unanswered count as incorrect", []int{1, 2, 0}, []int{1}, 33, 3},
		{"extra answers ignored", []int{1}, []int{1, 2, 3}, 100, 1},
		{"empty submission", []int{1, 2}, nil, 0, 2},
		{"empty quiz", nil, []int{1}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, total := Score(tt.correct, tt.answers)
			if score != tt.wantScore || total != tt.wantTotal {
				t.Errorf("Score() = (%d, %d), want (%d, %d)", score, total, tt.wantScore, tt.wantTotal)
			}
		})
	}
}

func TestPassBoundaryIsInclusive(t *testing.T) {
	// 7 of 10 correct = exactly the 70% threshold.
	correct := []int{0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	answers := []int{0, 0, 0, 0, 0, 0, 0, 1, 1, 1}

	p := Apply(nil, QuizSubmitted{
		ModuleID:       "m1",
		QuizID:         "q1",
		Answers:        answers,
		CorrectAnswers: correct,
		PassingScore:   70,
	}, "sess", testNow)

	if p.QuizResult == nil {
		t.Fatal("Expected a quiz result")
	}
	if p.QuizResult.Score != 70 {
		t.Errorf("Expected score 70, got %d", p.QuizResult.Score)
	}
	if !p.QuizResult.Passed {
		t.Error("Score equal to passing threshold must pass")
	}
	if p.Status != domain.StatusCompleted {
		t.Errorf("Expected completed after pass, got %s", p.Status)
	}
}

func TestFailedQuizLeavesStatusUnchanged(t *testing.T) {
	started := Apply(nil, SectionViewed{ModuleID: "m1", SectionID: "s1"}, "sess", testNow)

	failed := Apply(&started, QuizSubmitted{
		ModuleID:       "m1",
		QuizID:         "q1",
		Answers:        []int{0},
		CorrectAnswers: []int{1},
		PassingScore:   70,
	}, "sess", testNow.Add(time.Minute))

	if failed.Status != domain.StatusInProgress {
		t.Errorf("Expected in_progress after failed quiz, got %s", failed.Status)
	}
	if failed.CompletedAt != nil {
		t.Error("Failed quiz must not set completion timestamp")
	}
	if failed.QuizResult == nil || failed.QuizResult.Score != 0 {
		t.Errorf("Expected failing result recorded, got %+v", failed.QuizResult)
	}
}

func TestQuizRetryOverwritesResult(t *testing.T) {
	first := Apply(nil, QuizSubmitted{
		ModuleID:       "m1",
		QuizID:         "q1",
		Answers:        []int{0, 0},
		CorrectAnswers: []int{1, 1},
		PassingScore:   70,
	}, "sess", testNow)

	retry := Apply(&first, QuizSubmitted{
		ModuleID:       "m1",
		QuizID:         "q1",
		Answers:        []int{1, 0},
		CorrectAnswers: []int{1, 1},
		PassingScore:   70,
	}, "sess", testNow.Add(time.Minute))

	if retry.QuizResult == nil {
		t.Fatal("Expected a quiz result")
	}
	if retry.QuizResult.Score != 50 {
		t.Errorf("Expected retry score 50 to replace 0, got %d", retry.QuizResult.Score)
	}
	if !retry.QuizResult.AnsweredAt.Equal(testNow.Add(time.Minute)) {
		t.Errorf("Expected answeredAt of latest attempt, got %v", retry.QuizResult.AnsweredAt)
	}
}

func TestApplyDoesNotMutateCurrent(t *testing.T) {
	cur := Apply(nil, SectionViewed{ModuleID: "m1", SectionID: "s1"}, "sess", testNow)
	snapshot := cur.Clone()

	_ = Apply(&cur, SectionViewed{ModuleID: "m1", SectionID: "s2"}, "sess", testNow.Add(time.Minute))

	if len(cur.CompletedSections) != len(snapshot.CompletedSections) {
		t.Errorf("Apply mutated its input: %v", cur.CompletedSections)
	}
}
