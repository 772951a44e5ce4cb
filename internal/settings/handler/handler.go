package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rollcall/internal/settings"
	dErrors "rollcall/pkg/domain-errors"
	"rollcall/pkg/platform/httputil"
	"rollcall/pkg/requestcontext"
)

// Service defines the settings operations the handler exposes.
type Service interface {
	Get(ctx context.Context) (*settings.WindowSettings, error)
	Save(ctx context.Context, next settings.WindowSettings) (*settings.WindowSettings, error)
}

// Handler wires the settings endpoints to the settings service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts settings endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/settings", h.HandleGet)
	r.Put("/settings", h.HandleSave)
}

// HandleGet handles GET /settings requests. Any authenticated employee may
// read the window; only admins may change it.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	stored, err := h.service.Get(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromSettings(stored))
}

// HandleSave handles PUT /settings requests. Admin only.
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	if !requestcontext.IsAdmin(ctx) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "admin role required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[*SaveRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	saved, err := h.service.Save(ctx, req.ToDomain())
	if err != nil {
		h.logger.ErrorContext(ctx, "settings save failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromSettings(saved))
}
