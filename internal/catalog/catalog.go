// Package catalog provides the static training-content catalog: modules
// with their sections and quizzes, plus the resource library. The
// catalog is loaded once at startup from embedded YAML and is read-only
// afterwards; the progress rules receive module and quiz metadata as
// plain input parameters and never reach into the catalog themselves.
package catalog

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/onboard-hub/onboard/internal/domain"
)

//go:embed data/modules.yaml data/resources.yaml
var dataFS embed.FS

// Tool identifies an AI building tool covered by the training content.
type Tool string

const (
	ToolReplit  Tool = "replit"
	ToolBolt    Tool = "bolt"
	ToolLovable Tool = "lovable"
	ToolSoftr   Tool = "softr"
	ToolBubble  Tool = "bubble"
	ToolFramer  Tool = "framer"
)

// ToolLabels maps tools to display names.
var ToolLabels = map[Tool]string{
	ToolReplit:  "Replit",
	ToolBolt:    "Bolt",
	ToolLovable: "Lovable",
	ToolSoftr:   "Softr",
	ToolBubble:  "Bubble",
	ToolFramer:  "Framer AI",
}

// Section is an atomic content unit within a module.
type Section struct {
	ID      string `yaml:"id" json:"id"`
	Title   string `yaml:"title" json:"title"`
	Content string `yaml:"content" json:"content"`
	Type    string `yaml:"type" json:"type"` // text | video | code | interactive
}

// Question is a single quiz question with one correct option.
type Question struct {
	ID            string   `yaml:"id" json:"id"`
	Question      string   `yaml:"question" json:"question"`
	Options       []string `yaml:"options" json:"options"`
	CorrectAnswer int      `yaml:"correctAnswer" json:"correctAnswer"`
	Explanation   string   `yaml:"explanation" json:"explanation"`
}

// Quiz gates module completion behind a passing score.
type Quiz struct {
	ID           string     `yaml:"id" json:"id"`
	ModuleID     string     `yaml:"moduleId" json:"moduleId"`
	Title        string     `yaml:"title" json:"title"`
	PassingScore int        `yaml:"passingScore" json:"passingScore"`
	Questions    []Question `yaml:"questions" json:"questions"`
}

// CorrectAnswers returns the correct option index per question, in
// question order, for handing to the progress rules.
func (q *Quiz) CorrectAnswers() []int {
	out := make([]int, len(q.Questions))
	for i, question := range q.Questions {
		out[i] = question.CorrectAnswer
	}
	return out
}

// Module is a catalog-defined unit of training content.
type Module struct {
	ID              string        `yaml:"id" json:"id"`
	Title           string        `yaml:"title" json:"title"`
	Description     string        `yaml:"description" json:"description"`
	Category        string        `yaml:"category" json:"category"` // culture | tools | role_specific | best_practices
	Roles           []domain.Role `yaml:"roles" json:"roles"`
	Tools           []Tool        `yaml:"tools,omitempty" json:"tools,omitempty"`
	Difficulty      string        `yaml:"difficulty" json:"difficulty"` // beginner | intermediate | advanced
	DurationMinutes int           `yaml:"durationMinutes" json:"durationMinutes"`
	Sections        []Section     `yaml:"sections" json:"sections"`
	Quiz            *Quiz         `yaml:"quiz,omitempty" json:"quiz,omitempty"`
}

// ForRole reports whether the module is assigned to the given role.
func (m *Module) ForRole(role domain.Role) bool {
	for _, r := range m.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// SectionIDs returns the ordered section identifiers of the module.
func (m *Module) SectionIDs() []string {
	out := make([]string, len(m.Sections))
	for i, s := range m.Sections {
		out[i] = s.ID
	}
	return out
}

// AllSectionsCompleted reports whether every catalog section of the
// module is present in the given completed set. This is the quiz gating
// rule: a quiz may only be attempted once it returns true.
func (m *Module) AllSectionsCompleted(completed []string) bool {
	set := make(map[string]struct{}, len(completed))
	for _, s := range completed {
		set[s] = struct{}{}
	}
	for _, s := range m.Sections {
		if _, ok := set[s.ID]; !ok {
			return false
		}
	}
	return true
}

// Resource is an external learning resource from the resource library.
type Resource struct {
	ID          string        `yaml:"id" json:"id"`
	Title       string        `yaml:"title" json:"title"`
	Description string        `yaml:"description" json:"description"`
	Type        string        `yaml:"type" json:"type"` // documentation | video | guide | tutorial
	URL         string        `yaml:"url" json:"url"`
	Roles       []domain.Role `yaml:"roles" json:"roles"`
	Tools       []Tool        `yaml:"tools,omitempty" json:"tools,omitempty"`
	Category    string        `yaml:"category" json:"category"`
}

// Catalog is the loaded training content, indexed for lookup.
type Catalog struct {
	Modules   []Module
	Resources []Resource

	byID map[string]*Module
}

// Load parses the embedded catalog data and validates its integrity.
func Load() (*Catalog, error) {
	var modules struct {
		Modules []Module `yaml:"modules"`
	}
	if err := unmarshalFile("data/modules.yaml", &modules); err != nil {
		return nil, err
	}

	var resources struct {
		Resources []Resource `yaml:"resources"`
	}
	if err := unmarshalFile("data/resources.yaml", &resources); err != nil {
		return nil, err
	}

	c := &Catalog{
		Modules:   modules.Modules,
		Resources: resources.Resources,
		byID:      make(map[string]*Module, len(modules.Modules)),
	}
	for i := range c.Modules {
		m := &c.Modules[i]
		if _, dup := c.byID[m.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate module id %q", m.ID)
		}
		c.byID[m.ID] = m
		if err := validateModule(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func unmarshalFile(name string, v interface{}) error {
	raw, err := dataFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read catalog file %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("parse catalog file %s: %w", name, err)
	}
	return nil
}

func validateModule(m *Module) error {
	if len(m.Sections) == 0 {
		return fmt.Errorf("catalog: module %q has no sections", m.ID)
	}
	for _, role := range m.Roles {
		if !role.Valid() {
			return fmt.Errorf("catalog: module %q references unknown role %q", m.ID, role)
		}
	}
	if m.Quiz == nil {
		return nil
	}
	if m.Quiz.ModuleID != m.ID {
		return fmt.Errorf("catalog: quiz %q belongs to %q, embedded in %q", m.Quiz.ID, m.Quiz.ModuleID, m.ID)
	}
	if m.Quiz.PassingScore < 0 || m.Quiz.PassingScore > 100 {
		return fmt.Errorf("catalog: quiz %q has invalid passing score %d", m.Quiz.ID, m.Quiz.PassingScore)
	}
	for _, q := range m.Quiz.Questions {
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return fmt.Errorf("catalog: question %q correct answer out of range", q.ID)
		}
	}
	return nil
}

// Module returns the module with the given ID, or nil if unknown.
func (c *Catalog) Module(id string) *Module {
	return c.byID[id]
}

// ModulesForRole returns every module assigned to the role, in catalog order.
func (c *Catalog) ModulesForRole(role domain.Role) []Module {
	var out []Module
	for _, m := range c.Modules {
		if m.ForRole(role) {
			out = append(out, m)
		}
	}
	return out
}

// ResourcesForRole returns every resource assigned to the role.
func (c *Catalog) ResourcesForRole(role domain.Role) []Resource {
	var out []Resource
	for _, r := range c.Resources {
		for _, rr := range r.Roles {
			if rr == role {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// Stats summarizes a session's progress against the catalog for the
// dashboard: module counts by status, average quiz score and rough time
// spent based on module durations.
type Stats struct {
	TotalModules      int `json:"totalModules"`
	CompletedModules  int `json:"completedModules"`
	InProgressModules int `json:"inProgressModules"`
	AverageQuizScore  int `json:"averageQuizScore"`
	TotalTimeSpent    int `json:"totalTimeSpent"` // minutes, from completed module durations
}

// StatsFor computes dashboard stats for a role's module set.
func (c *Catalog) StatsFor(role domain.Role, records []domain.Progress) Stats {
	assigned := c.ModulesForRole(role)
	stats := Stats{TotalModules: len(assigned)}

	byModule := make(map[string]*domain.Progress, len(records))
	for i := range records {
		byModule[records[i].ModuleID] = &records[i]
	}

	scoreSum, scoreCount := 0, 0
	for _, m := range assigned {
		rec, ok := byModule[m.ID]
		if !ok {
			continue
		}
		switch rec.Status {
		case domain.StatusCompleted:
			stats.CompletedModules++
			stats.TotalTimeSpent += m.DurationMinutes
		case domain.StatusInProgress:
			stats.InProgressModules++
		}
		if rec.QuizResult != nil {
			scoreSum += rec.QuizResult.Score
			scoreCount++
		}
	}
	if scoreCount > 0 {
		stats.AverageQuizScore = scoreSum / scoreCount
	}
	return stats
}
