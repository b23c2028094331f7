// Package domain contains core domain types for the onboarding application.
package domain

import "time"

// Role identifies the position a learner was hired for. The role drives
// which training modules and resources are surfaced to them.
type Role string

const (
	RoleDeveloper       Role = "developer"
	RoleProjectManager  Role = "project_manager"
	RoleProductOwner    Role = "product_owner"
	RoleUIUXDesigner    Role = "ui_ux_designer"
	RoleQA              Role = "qa"
	RoleFrontendDev     Role = "frontend_dev"
	RoleBackendDev      Role = "backend_dev"
	RoleDevOpsEngineer  Role = "devops_engineer"
	RoleBusinessAnalyst Role = "business_analyst"
	RoleNonITEmployee   Role = "non_it_employee"
)

// Roles lists every valid role in display order.
var Roles = []Role{
	RoleDeveloper,
	RoleProjectManager,
	RoleProductOwner,
	RoleUIUXDesigner,
	RoleQA,
	RoleFrontendDev,
	RoleBackendDev,
	RoleDevOpsEngineer,
	RoleBusinessAnalyst,
	RoleNonITEmployee,
}

// RoleLabels maps roles to human-readable names.
var RoleLabels = map[Role]string{
	RoleDeveloper:       "Developer",
	RoleProjectManager:  "Project Manager",
	RoleProductOwner:    "Product Owner",
	RoleUIUXDesigner:    "UI/UX Designer",
	RoleQA:              "QA Engineer",
	RoleFrontendDev:     "Front-End Developer",
	RoleBackendDev:      "Back-End Developer",
	RoleDevOpsEngineer:  "DevOps Engineer",
	RoleBusinessAnalyst: "Business Analyst",
	RoleNonITEmployee:   "Non-IT Employee",
}

// RoleDescriptions maps roles to the short blurbs shown at role selection.
var RoleDescriptions = map[Role]string{
	RoleDeveloper:       "Build and maintain software applications with cutting-edge AI tools",
	RoleProjectManager:  "Lead teams and coordinate projects using agile methodologies",
	RoleProductOwner:    "Define product vision and manage the product backlog",
	RoleUIUXDesigner:    "Create intuitive interfaces and exceptional user experiences",
	RoleQA:              "Ensure software quality through comprehensive testing strategies",
	RoleFrontendDev:     "Build responsive, accessible user interfaces",
	RoleBackendDev:      "Develop robust server-side applications and APIs",
	RoleDevOpsEngineer:  "Manage infrastructure, CI/CD, and cloud deployments",
	RoleBusinessAnalyst: "Bridge business needs with technical solutions",
	RoleNonITEmployee:   "Learn no-code tools to build solutions without programming",
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := RoleLabels[r]
	return ok
}

// Label returns the display name for the role.
func (r Role) Label() string {
	return RoleLabels[r]
}

// ChatRole is the author of a chat message.
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// Valid reports whether c is a known chat author.
func (c ChatRole) Valid() bool {
	return c == ChatRoleUser || c == ChatRoleAssistant
}

// ChatMessage is a single entry in a session's assistant transcript.
// Messages are immutable once appended.
type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// Session tracks a single learner's onboarding journey: their identity,
// assigned role, per-module progress and the assistant chat transcript.
// Sessions are owned by the store and mutated only through store
// operations, each of which refreshes LastActivityAt.
type Session struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Role           Role          `json:"role"`
	Progress       []Progress    `json:"progress"`
	ChatHistory    []ChatMessage `json:"chatHistory"`
	CreatedAt      time.Time     `json:"createdAt"`
	LastActivityAt time.Time     `json:"lastActivityAt"`
}
