package localstate

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/onboard-hub/onboard/internal/domain"
	"github.com/onboard-hub/onboard/internal/progress"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewAt(filepath.Join(t.TempDir(), "onboard", "session.json"))
	s.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func testSession() *domain.Session {
	return &domain.Session{
		ID:             "session-1",
		Name:           "Dana",
		Role:           domain.RoleQA,
		CreatedAt:      time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		LastActivityAt: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestLoadMissingFile(t *testing.T) {
	s := newTestStore(t)
	session, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if session != nil {
		t.Errorf("expected nil session for missing file, got %+v", session)
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save(testSession()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected a session")
	}
	if loaded.ID != "session-1" || loaded.Name != "Dana" || loaded.Role != domain.RoleQA {
		t.Errorf("unexpected session %+v", loaded)
	}
}

func TestCorruptFileIsDiscarded(t *testing.T) {
	s := newTestStore(t)
	if err := os.MkdirAll(filepath.Dir(s.Path()), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(s.Path(), []byte("{truncated"), 0o600); err != nil {
		t.Fatal(err)
	}

	session, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if session != nil {
		t.Errorf("corrupt state must be discarded, got %+v", session)
	}
}

func TestApplyWithoutSession(t *testing.T) {
	s := newTestStore(t)
	rec, err := s.Apply(progress.SectionViewed{ModuleID: "culture-101", SectionID: "culture-1-1"})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if rec != nil {
		t.Errorf("expected nil record without a mirrored session, got %+v", rec)
	}
}

func TestApplyPersistsProgress(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save(testSession()); err != nil {
		t.Fatal(err)
	}

	rec, err := s.Apply(progress.SectionViewed{ModuleID: "culture-101", SectionID: "culture-1-1"})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if rec == nil {
		t.Fatal("expected a progress record")
	}
	if rec.Status != domain.StatusInProgress {
		t.Errorf("expected in_progress, got %s", rec.Status)
	}

	// The update must survive a reload.
	loaded, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Progress) != 1 {
		t.Fatalf("expected one record, got %d", len(loaded.Progress))
	}
	if !loaded.Progress[0].HasSection("culture-1-1") {
		t.Errorf("section not persisted: %+v", loaded.Progress[0])
	}
	if !loaded.LastActivityAt.Equal(s.now()) {
		t.Errorf("lastActivityAt not refreshed: %v", loaded.LastActivityAt)
	}
}

func TestApplySameRulesAsServer(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save(testSession()); err != nil {
		t.Fatal(err)
	}

	// Repeat views stay idempotent through the persisted mirror too.
	for i := 0; i < 3; i++ {
		if _, err := s.Apply(progress.SectionViewed{ModuleID: "culture-101", SectionID: "culture-1-1"}); err != nil {
			t.Fatal(err)
		}
	}
	loaded, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if got := len(loaded.Progress[0].CompletedSections); got != 1 {
		t.Errorf("expected one section after repeats, got %d", got)
	}
}

func TestAppendChatMessage(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save(testSession()); err != nil {
		t.Fatal(err)
	}

	ok, err := s.AppendChatMessage(domain.ChatMessage{Role: domain.ChatRoleUser, Content: "hi"})
	if err != nil {
		t.Fatalf("AppendChatMessage: %v", err)
	}
	if !ok {
		t.Fatal("expected append to succeed")
	}

	loaded, _ := s.Load()
	if len(loaded.ChatHistory) != 1 || loaded.ChatHistory[0].Content != "hi" {
		t.Errorf("unexpected transcript %+v", loaded.ChatHistory)
	}
}

func TestClear(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save(testSession()); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if session, _ := s.Load(); session != nil {
		t.Error("expected no session after clear")
	}
	// Clearing again is fine.
	if err := s.Clear(); err != nil {
		t.Errorf("second Clear: %v", err)
	}
}
