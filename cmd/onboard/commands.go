package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/onboard-hub/onboard/internal/domain"
	"github.com/onboard-hub/onboard/internal/progress"
)

var (
	startName string
	startRole string

	modulesRole string

	quizAnswers string
)

// startCmd creates a session on the server and mirrors it locally.
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a new onboarding session",
	Long: `Create an onboarding session on the server and save it locally.

Roles: ` + strings.Join(roleIDs(), ", "),
	RunE: runStart,
}

// statusCmd shows the mirrored session, refreshed from the server.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show onboarding progress",
	RunE:  runStatus,
}

// modulesCmd lists training modules.
var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "List training modules",
	RunE:  runModules,
}

// viewCmd marks a section as viewed.
var viewCmd = &cobra.Command{
	Use:   "view <module-id> <section-id>",
	Short: "Mark a module section as viewed",
	Args:  cobra.ExactArgs(2),
	RunE:  runView,
}

// completeCmd marks a module as completed.
var completeCmd = &cobra.Command{
	Use:   "complete <module-id>",
	Short: "Mark a module as completed",
	Args:  cobra.ExactArgs(1),
	RunE:  runComplete,
}

// quizCmd submits quiz answers for grading.
var quizCmd = &cobra.Command{
	Use:   "quiz <module-id>",
	Short: "Submit quiz answers for a module",
	Long: `Submit quiz answers for server-side grading.

Answers are zero-based option indexes in question order, e.g.
'onboard quiz culture-101 --answers 1,2,2'.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuiz,
}

// chatCmd sends a message to the onboarding assistant.
var chatCmd = &cobra.Command{
	Use:   "chat <message>",
	Short: "Ask the onboarding assistant",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runChat,
}

// resetCmd deletes the session on the server and locally.
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the current session",
	RunE:  runReset,
}

func init() {
	startCmd.Flags().StringVar(&startName, "name", "", "your name (required)")
	startCmd.Flags().StringVar(&startRole, "role", "", "your role (required)")
	modulesCmd.Flags().StringVar(&modulesRole, "role", "", "filter modules by role (defaults to your session's role)")
	quizCmd.Flags().StringVar(&quizAnswers, "answers", "", "comma-separated answer indexes (required)")
}

func roleIDs() []string {
	ids := make([]string, 0, len(domain.Roles))
	for _, r := range domain.Roles {
		ids = append(ids, string(r))
	}
	return ids
}

// requireSession loads the mirrored session or explains how to get one.
func requireSession() (*domain.Session, error) {
	session, err := mirror.Load()
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, errors.New("no active session; run 'onboard start --name <you> --role <role>' first")
	}
	return session, nil
}

func runStart(cmd *cobra.Command, args []string) error {
	if startName == "" {
		return errors.New("--name is required")
	}
	if !domain.Role(startRole).Valid() {
		return fmt.Errorf("--role must be one of: %s", strings.Join(roleIDs(), ", "))
	}
	if existing, err := mirror.Load(); err != nil {
		return err
	} else if existing != nil {
		return fmt.Errorf("a session for %s already exists; run 'onboard reset' first", existing.Name)
	}

	session, err := newAPIClient(serverURL).CreateSession(startName, domain.Role(startRole))
	if err != nil {
		return err
	}
	if err := mirror.Save(session); err != nil {
		return err
	}

	fmt.Printf("Welcome, %s! Session %s created as %s.\n", session.Name, session.ID, session.Role.Label())
	fmt.Println("Run 'onboard modules' to see your training plan.")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	session, err := requireSession()
	if err != nil {
		return err
	}

	client := newAPIClient(serverURL)
	// The server copy wins when reachable; otherwise show the mirror.
	if fresh, err := client.GetSession(session.ID); err == nil {
		session = fresh
		if err := mirror.Save(session); err != nil {
			return err
		}
	} else {
		fmt.Println("(server unreachable, showing local state)")
	}

	fmt.Printf("%s (%s)\n", session.Name, session.Role.Label())
	if len(session.Progress) == 0 {
		fmt.Println("No modules started yet.")
	}
	for _, rec := range session.Progress {
		line := fmt.Sprintf("  %-20s %-12s %d sections", rec.ModuleID, rec.Status, len(rec.CompletedSections))
		if rec.QuizResult != nil {
			verdict := "failed"
			if rec.QuizResult.Passed {
				verdict = "passed"
			}
			line += fmt.Sprintf(", quiz %d%% (%s)", rec.QuizResult.Score, verdict)
		}
		fmt.Println(line)
	}

	if stats, err := client.GetStats(session.ID); err == nil {
		fmt.Printf("Completed %d of %d modules", stats.CompletedModules, stats.TotalModules)
		if stats.AverageQuizScore > 0 {
			fmt.Printf(", average quiz score %d%%", stats.AverageQuizScore)
		}
		fmt.Println()
	}
	return nil
}

func runModules(cmd *cobra.Command, args []string) error {
	role := modulesRole
	if role == "" {
		if session, err := mirror.Load(); err == nil && session != nil {
			role = string(session.Role)
		}
	}

	modules, err := newAPIClient(serverURL).ListModules(role)
	if err != nil {
		return err
	}
	for _, m := range modules {
		quiz := ""
		if m.Quiz != nil {
			quiz = fmt.Sprintf(", quiz: %d questions", len(m.Quiz.Questions))
		}
		fmt.Printf("%-20s %s (%s, %d min, %d sections%s)\n",
			m.ID, m.Title, m.Difficulty, m.DurationMinutes, len(m.Sections), quiz)
	}
	return nil
}

func runView(cmd *cobra.Command, args []string) error {
	session, err := requireSession()
	if err != nil {
		return err
	}
	moduleID, sectionID := args[0], args[1]

	// Optimistic local update, then the server's copy replaces it.
	if _, err := mirror.Apply(progress.SectionViewed{ModuleID: moduleID, SectionID: sectionID}); err != nil {
		return err
	}
	rec, err := newAPIClient(serverURL).UpdateProgress(session.ID, moduleID, sectionID, "")
	if err != nil {
		return err
	}
	if err := syncRecord(session.ID, rec); err != nil {
		return err
	}

	fmt.Printf("Viewed %s/%s (%d sections done)\n", moduleID, sectionID, len(rec.CompletedSections))
	return nil
}

func runComplete(cmd *cobra.Command, args []string) error {
	session, err := requireSession()
	if err != nil {
		return err
	}
	moduleID := args[0]

	if _, err := mirror.Apply(progress.ModuleCompleted{ModuleID: moduleID}); err != nil {
		return err
	}
	rec, err := newAPIClient(serverURL).UpdateProgress(session.ID, moduleID, "", string(domain.StatusCompleted))
	if err != nil {
		return err
	}
	if err := syncRecord(session.ID, rec); err != nil {
		return err
	}

	fmt.Printf("Module %s completed.\n", moduleID)
	return nil
}

func runQuiz(cmd *cobra.Command, args []string) error {
	session, err := requireSession()
	if err != nil {
		return err
	}
	moduleID := args[0]

	answers, err := parseAnswers(quizAnswers)
	if err != nil {
		return err
	}

	client := newAPIClient(serverURL)
	module, err := client.GetModule(moduleID)
	if err != nil {
		return err
	}
	if module.Quiz == nil {
		return fmt.Errorf("module %s has no quiz", moduleID)
	}

	rec, err := client.SubmitQuiz(session.ID, moduleID, module.Quiz.ID, answers)
	if err != nil {
		return err
	}
	if err := syncRecord(session.ID, rec); err != nil {
		return err
	}

	result := rec.QuizResult
	if result.Passed {
		fmt.Printf("Passed! Score %d%% (%d questions).\n", result.Score, result.TotalQuestions)
	} else {
		fmt.Printf("Score %d%% — below the passing score of %d%%. You can retake the quiz.\n",
			result.Score, module.Quiz.PassingScore)
	}
	return nil
}

func runChat(cmd *cobra.Command, args []string) error {
	session, err := requireSession()
	if err != nil {
		return err
	}
	message := strings.Join(args, " ")

	reply, err := newAPIClient(serverURL).Chat(session.ID, message)
	if err != nil {
		return err
	}

	// The server already recorded the exchange; mirror it.
	if _, err := mirror.AppendChatMessage(domain.ChatMessage{Role: domain.ChatRoleUser, Content: message}); err != nil {
		return err
	}
	if _, err := mirror.AppendChatMessage(domain.ChatMessage{Role: domain.ChatRoleAssistant, Content: reply}); err != nil {
		return err
	}

	fmt.Println(reply)
	return nil
}

func runReset(cmd *cobra.Command, args []string) error {
	session, err := mirror.Load()
	if err != nil {
		return err
	}
	if session != nil {
		var apiErr *apiError
		err := newAPIClient(serverURL).DeleteSession(session.ID)
		// A session the server no longer knows still gets cleared locally.
		if err != nil && !(errors.As(err, &apiErr) && apiErr.Status == 404) {
			return err
		}
	}
	if err := mirror.Clear(); err != nil {
		return err
	}
	fmt.Println("Session deleted.")
	return nil
}

// syncRecord replaces the mirrored record for rec's module with the
// server's authoritative copy.
func syncRecord(sessionID string, rec *domain.Progress) error {
	session, err := mirror.Load()
	if err != nil || session == nil || session.ID != sessionID {
		return err
	}
	replaced := false
	for i := range session.Progress {
		if session.Progress[i].ModuleID == rec.ModuleID {
			session.Progress[i] = *rec
			replaced = true
			break
		}
	}
	if !replaced {
		session.Progress = append(session.Progress, *rec)
	}
	return mirror.Save(session)
}

func parseAnswers(s string) ([]int, error) {
	if s == "" {
		return nil, errors.New("--answers is required, e.g. --answers 1,2,0")
	}
	parts := strings.Split(s, ",")
	answers := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid answer %q: %w", p, err)
		}
		answers = append(answers, n)
	}
	return answers, nil
}
