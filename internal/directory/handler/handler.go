package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rollcall/internal/directory"
	dErrors "rollcall/pkg/domain-errors"
	"rollcall/pkg/platform/httputil"
	"rollcall/pkg/requestcontext"
)

// Service defines the directory operations the handler exposes.
type Service interface {
	Create(ctx context.Context, req directory.CreateRequest) (*directory.Employee, error)
	Get(ctx context.Context, employeeID string) (*directory.Employee, error)
	List(ctx context.Context) ([]*directory.Employee, error)
	Deactivate(ctx context.Context, employeeID string) error
	Delete(ctx context.Context, employeeID string) error
}

// Handler wires employee management endpoints to the directory service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the management endpoints. The router places these behind
// the admin middleware.
func (h *Handler) Register(r chi.Router) {
	r.Post("/employees", h.HandleCreate)
	r.Get("/employees", h.HandleList)
	r.Patch("/employees/{employeeID}/deactivate", h.HandleDeactivate)
	r.Delete("/employees/{employeeID}", h.HandleDelete)
}

// RegisterAuthed mounts the profile read available to any authenticated
// employee; non-admins can only read their own record.
func (h *Handler) RegisterAuthed(r chi.Router) {
	r.Get("/employees/{employeeID}", h.HandleGet)
}

// HandleCreate handles POST /employees requests.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[*CreateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	emp, err := h.service.Create(ctx, req.ToDomain())
	if err != nil {
		h.logger.ErrorContext(ctx, "employee creation failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, FromEmployee(emp))
}

// HandleList handles GET /employees requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	employees, err := h.service.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromEmployees(employees))
}

// HandleGet handles GET /employees/{employeeID} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	employeeID := chi.URLParam(r, "employeeID")

	if employeeID != requestcontext.EmployeeID(ctx) && !requestcontext.IsAdmin(ctx) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "cannot read another employee's profile"))
		return
	}

	emp, err := h.service.Get(ctx, employeeID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromEmployee(emp))
}

// HandleDeactivate handles PATCH /employees/{employeeID}/deactivate requests.
func (h *Handler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Deactivate(r.Context(), chi.URLParam(r, "employeeID")); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete handles DELETE /employees/{employeeID} requests. Removing an
// employee also clears their attendance history.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "employeeID")); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
