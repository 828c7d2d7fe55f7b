package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/taskdeck/taskdeck-be/internal/apperr"
	"github.com/taskdeck/taskdeck-be/internal/auth"
	"github.com/taskdeck/taskdeck-be/internal/models"
	"github.com/taskdeck/taskdeck-be/internal/services"
)

// AdminHandler handles the admin-only inspection and deletion endpoints.
// The router gates the whole group behind the admin role.
type AdminHandler struct {
	users  services.UserServiceProvider
	tasks  services.TaskServiceProvider
	events services.EventServiceProvider
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(users services.UserServiceProvider, tasks services.TaskServiceProvider, events services.EventServiceProvider) *AdminHandler {
	return &AdminHandler{users: users, tasks: tasks, events: events}
}

// ListUsers returns all user accounts.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageFromQuery(r)

	users, err := h.users.List(limit, offset)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}

	writeJSON(w, http.StatusOK, users)
}

// DeleteUser removes a user account and, through the ownership cascade,
// every task they own. Admins cannot delete themselves.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if id == principal.ID {
		writeError(w, r, fmt.Errorf("%w: cannot delete your own account", apperr.ErrValidation))
		return
	}

	if err := h.users.Delete(id); err != nil {
		writeError(w, r, err)
		return
	}

	log.Info().Str("user_id", id).Str("admin", principal.Username).Msg("User deleted by admin")
	w.WriteHeader(http.StatusNoContent)
}

// ListTasks returns tasks across all owners.
func (h *AdminHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.tasks.ListAll(taskFilterFromQuery(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}

	writeJSON(w, http.StatusOK, tasks)
}

// ListEvents returns the most recent audit events.
func (h *AdminHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 20 // Default limit
	}

	events, err := h.events.Recent(limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if events == nil {
		events = []models.Event{}
	}

	writeJSON(w, http.StatusOK, events)
}

func pageFromQuery(r *http.Request) (limit, offset int) {
	q := r.URL.Query()
	limit, err := strconv.Atoi(q.Get("limit"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 100
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}
