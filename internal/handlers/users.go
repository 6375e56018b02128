package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/smartkuk/simple-flask/internal/events"
	"github.com/smartkuk/simple-flask/internal/metrics"
	"github.com/smartkuk/simple-flask/internal/middleware"
	"github.com/smartkuk/simple-flask/internal/users"
)

// UsersHandler serves the user collection backed by an in-memory registry.
type UsersHandler struct {
	registry *users.Registry
	hub      *events.Hub
	metrics  *metrics.Metrics
	logger   *slog.Logger
	version  string
	maxBody  int64
}

// NewUsersHandler creates a new UsersHandler.
func NewUsersHandler(registry *users.Registry, hub *events.Hub, m *metrics.Metrics, logger *slog.Logger, version string, maxBody int64) *UsersHandler {
	return &UsersHandler{
		registry: registry,
		hub:      hub,
		metrics:  m,
		logger:   logger,
		version:  version,
		maxBody:  maxBody,
	}
}

// Routes registers user routes on the given chi router.
func (h *UsersHandler) Routes(r chi.Router) {
	r.Get("/", h.ListUsers)
	r.Post("/", h.CreateUser)
	r.Get("/{userID}", h.GetUser)
	r.Delete("/{userID}", h.DeleteUser)
}

// CreateUser stores a user sent as JSON or as form fields and echoes it back.
func (h *UsersHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	u, kind, err := decodeUser(w, r, h.maxBody)
	if err != nil {
		var bre *badRequestError
		if errors.As(err, &bre) {
			h.logger.DebugContext(ctx, "rejected create request",
				"reason", err.Error(),
				"request_id", middleware.RequestIDFromContext(ctx),
			)
			writeError(w, http.StatusBadRequest, bre.message)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to read request")
		return
	}

	if err := h.registry.Put(u); err != nil {
		switch {
		case errors.Is(err, users.ErrConflict):
			writeError(w, http.StatusBadRequest, fmt.Sprintf("user_id %s already exists", u.ID))
		case errors.Is(err, users.ErrInvalidID):
			writeError(w, http.StatusBadRequest, msgUserIDRequired)
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	h.metrics.IncrementUsersCreated()
	h.hub.Publish(events.KindCreated, u)
	h.logger.InfoContext(ctx, "user created",
		"user_id", u.ID,
		"input", kind.String(),
		"request_id", middleware.RequestIDFromContext(ctx),
	)

	writeJSON(w, http.StatusOK, u.View())
}

// ListUsers returns every user, or the first user with a matching name when
// the user_name query parameter is present.
func (h *UsersHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if query.Has("user_name") {
		name := query.Get("user_name")
		u, err := h.registry.FindByName(name)
		if err != nil {
			h.writeLookupError(w, err, "user_name", name)
			return
		}
		writeJSON(w, http.StatusOK, userResponse{User: u.View(), Version: h.version})
		return
	}

	writeJSON(w, http.StatusOK, userListResponse{
		Users:   users.Views(h.registry.List()),
		Version: h.version,
	})
}

// GetUser returns a single user by id.
func (h *UsersHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "userID")

	u, err := h.registry.Get(id)
	if err != nil {
		h.writeLookupError(w, err, "user_id", id)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{User: u.View(), Version: h.version})
}

// DeleteUser removes a user by id and returns the removed record.
func (h *UsersHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "userID")

	u, err := h.registry.Delete(id)
	if err != nil {
		h.writeLookupError(w, err, "user_id", id)
		return
	}

	h.metrics.IncrementUsersDeleted()
	h.hub.Publish(events.KindDeleted, u)
	h.logger.InfoContext(ctx, "user deleted",
		"user_id", u.ID,
		"request_id", middleware.RequestIDFromContext(ctx),
	)

	writeJSON(w, http.StatusOK, u.View())
}

func (h *UsersHandler) writeLookupError(w http.ResponseWriter, err error, key, value string) {
	if errors.Is(err, users.ErrNotFound) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Not found user by %s=%s", key, value))
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}
