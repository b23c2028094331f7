package store

import (
	"context"
	"testing"
	"time"

	"github.com/onboard-hub/onboard/internal/domain"
	"github.com/onboard-hub/onboard/internal/progress"
)

func TestCreateAndGetSession(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	created, err := s.CreateSession(ctx, "Dana", domain.RoleQA)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("Expected generated session ID")
	}
	if len(created.Progress) != 0 || len(created.ChatHistory) != 0 {
		t.Errorf("Expected empty progress and chat, got %+v", created)
	}
	if created.CreatedAt.IsZero() || !created.LastActivityAt.Equal(created.CreatedAt) {
		t.Errorf("Expected matching timestamps, got %v / %v", created.CreatedAt, created.LastActivityAt)
	}

	got, err := s.GetSession(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got == nil || got.Name != "Dana" || got.Role != domain.RoleQA {
		t.Errorf("Unexpected session: %+v", got)
	}
}

func TestGetSessionAbsent(t *testing.T) {
	s := NewMemory()

	got, err := s.GetSession(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("Expected no error for absent session, got %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil for absent session, got %+v", got)
	}
}

func TestDeleteSession(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	created, _ := s.CreateSession(ctx, "Dana", domain.RoleQA)

	deleted, err := s.DeleteSession(ctx, created.ID)
	if err != nil || !deleted {
		t.Fatalf("Expected delete to succeed, got (%v, %v)", deleted, err)
	}

	deleted, err = s.DeleteSession(ctx, created.ID)
	if err != nil {
		t.Fatalf("Second delete errored: %v", err)
	}
	if deleted {
		t.Error("Expected false when deleting an already-removed session")
	}
}

func TestApplyProgressEventAbsentSession(t *testing.T) {
	s := NewMemory()

	rec, err := s.ApplyProgressEvent(context.Background(), "nonexistent",
		progress.SectionViewed{ModuleID: "m1", SectionID: "s1"})
	if err != nil {
		t.Fatalf("Expected no error for absent session, got %v", err)
	}
	if rec != nil {
		t.Errorf("Expected nil record for absent session, got %+v", rec)
	}
}

func TestApplyProgressEventRefreshesActivity(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	current := base
	s.now = func() time.Time { return current }

	created, _ := s.CreateSession(ctx, "Dana", domain.RoleQA)

	current = base.Add(10 * time.Minute)
	if _, err := s.ApplyProgressEvent(ctx, created.ID, progress.SectionViewed{ModuleID: "m1", SectionID: "s1"}); err != nil {
		t.Fatalf("ApplyProgressEvent failed: %v", err)
	}

	got, _ := s.GetSession(ctx, created.ID)
	if !got.LastActivityAt.Equal(current) {
		t.Errorf("Expected lastActivityAt %v, got %v", current, got.LastActivityAt)
	}
}

// Full onboarding flow: section views then an all-correct quiz at a 70%
// threshold completes the module.
func TestOnboardingFlow(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	session, _ := s.CreateSession(ctx, "Dana", domain.RoleQA)

	rec, err := s.ApplyProgressEvent(ctx, session.ID, progress.SectionViewed{ModuleID: "m1", SectionID: "s1"})
	if err != nil {
		t.Fatalf("SectionViewed failed: %v", err)
	}
	if rec.Status != domain.StatusInProgress {
		t.Errorf("Expected in_progress, got %s", rec.Status)
	}
	if len(rec.CompletedSections) != 1 || rec.CompletedSections[0] != "s1" {
		t.Errorf("Expected sections [s1], got %v", rec.CompletedSections)
	}

	rec, err = s.ApplyProgressEvent(ctx, session.ID, progress.QuizSubmitted{
		ModuleID:       "m1",
		QuizID:         "q1",
		Answers:        []int{1, 2, 0},
		CorrectAnswers: []int{1, 2, 0},
		PassingScore:   70,
	})
	if err != nil {
		t.Fatalf("QuizSubmitted failed: %v", err)
	}
	if rec.Status != domain.StatusCompleted {
		t.Errorf("Expected completed after passing quiz, got %s", rec.Status)
	}
	if rec.QuizResult == nil || rec.QuizResult.Score != 100 || !rec.QuizResult.Passed {
		t.Errorf("Expected passing result with score 100, got %+v", rec.QuizResult)
	}
	if rec.CompletedAt == nil {
		t.Error("Expected completedAt set")
	}

	// The session holds exactly one record for the module.
	records, _ := s.GetProgress(ctx, session.ID)
	if len(records) != 1 {
		t.Fatalf("Expected 1 progress record, got %d", len(records))
	}
}

func TestAppendChatMessage(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	session, _ := s.CreateSession(ctx, "Dana", domain.RoleQA)

	transcript, err := s.AppendChatMessage(ctx, session.ID, domain.ChatMessage{
		Role: domain.ChatRoleUser, Content: "What tools do we use?",
	})
	if err != nil {
		t.Fatalf("AppendChatMessage failed: %v", err)
	}
	if len(transcript) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(transcript))
	}

	transcript, _ = s.AppendChatMessage(ctx, session.ID, domain.ChatMessage{
		Role: domain.ChatRoleAssistant, Content: "Replit, Bolt, Lovable, and more.",
	})
	if len(transcript) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(transcript))
	}
	if transcript[0].Role != domain.ChatRoleUser || transcript[1].Role != domain.ChatRoleAssistant {
		t.Errorf("Transcript order wrong: %+v", transcript)
	}

	// Absent session returns (nil, nil), not an error.
	transcript, err = s.AppendChatMessage(ctx, "nonexistent", domain.ChatMessage{Role: domain.ChatRoleUser, Content: "x"})
	if err != nil || transcript != nil {
		t.Errorf("Expected (nil, nil) for absent session, got (%v, %v)", transcript, err)
	}
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	session, _ := s.CreateSession(ctx, "Dana", domain.RoleQA)
	_, _ = s.ApplyProgressEvent(ctx, session.ID, progress.SectionViewed{ModuleID: "m1", SectionID: "s1"})

	records, _ := s.GetProgress(ctx, session.ID)
	records[0].CompletedSections[0] = "tampered"
	records[0].Status = domain.StatusCompleted

	fresh, _ := s.GetProgress(ctx, session.ID)
	if fresh[0].CompletedSections[0] != "s1" || fresh[0].Status != domain.StatusInProgress {
		t.Error("Store state mutated through a returned copy")
	}
}
