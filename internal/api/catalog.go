package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/onboard-hub/onboard/internal/catalog"
	"github.com/onboard-hub/onboard/internal/domain"
)

// ListModules returns the training catalog, optionally filtered by role.
func (h *Handler) ListModules(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")
	if role == "" {
		JSON(w, http.StatusOK, h.catalog.Modules)
		return
	}
	if !domain.Role(role).Valid() {
		ValidationError(w, []FieldError{{Field: "role", Message: "unknown role"}})
		return
	}
	modules := h.catalog.ModulesForRole(domain.Role(role))
	if modules == nil {
		modules = []catalog.Module{}
	}
	JSON(w, http.StatusOK, modules)
}

// GetModule returns a single training module by ID.
func (h *Handler) GetModule(w http.ResponseWriter, r *http.Request) {
	module := h.catalog.Module(chi.URLParam(r, "id"))
	if module == nil {
		Error(w, http.StatusNotFound, "Module not found")
		return
	}
	JSON(w, http.StatusOK, module)
}

// ListResources returns reference resources, optionally filtered by role.
func (h *Handler) ListResources(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")
	if role == "" {
		JSON(w, http.StatusOK, h.catalog.Resources)
		return
	}
	if !domain.Role(role).Valid() {
		ValidationError(w, []FieldError{{Field: "role", Message: "unknown role"}})
		return
	}
	resources := h.catalog.ResourcesForRole(domain.Role(role))
	if resources == nil {
		resources = []catalog.Resource{}
	}
	JSON(w, http.StatusOK, resources)
}

type roleInfo struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// ListRoles returns the supported learner roles.
func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles := make([]roleInfo, 0, len(domain.Roles))
	for _, role := range domain.Roles {
		roles = append(roles, roleInfo{
			ID:          string(role),
			Label:       role.Label(),
			Description: domain.RoleDescriptions[role],
		})
	}
	JSON(w, http.StatusOK, roles)
}

// GetConfig reports which optional capabilities the server has enabled.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]bool{"ai_enabled": h.aiEnabled})
}
