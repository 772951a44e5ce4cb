package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"rollcall/internal/attendance"
	dErrors "rollcall/pkg/domain-errors"
	"rollcall/pkg/platform/httputil"
	"rollcall/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/handler_mocks.go -package=mocks Service

// Service defines the attendance operations the handler exposes.
type Service interface {
	Mark(ctx context.Context, req attendance.MarkRequest) (*attendance.Record, error)
	ForDay(ctx context.Context, employeeID string, at time.Time) (*attendance.Record, error)
	ForRange(ctx context.Context, employeeID string, from, to time.Time) ([]*attendance.Record, error)
	All(ctx context.Context) ([]*attendance.Record, error)
}

// Handler wires attendance endpoints to the ledger service.
type Handler struct {
	service Service
	loc     *time.Location
	logger  *slog.Logger
}

// New constructs an attendance handler. loc is the organization timezone used
// to interpret date query parameters.
func New(service Service, loc *time.Location, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		loc:     loc,
		logger:  logger,
	}
}

// Register mounts attendance endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/attendance", h.HandleMark)
	r.Get("/attendance", h.HandleList)
	r.Get("/attendance/day", h.HandleDay)
	r.Get("/attendance/history", h.HandleHistory)
}

// HandleMark handles POST /attendance requests.
func (h *Handler) HandleMark(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[*MarkRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	// Non-admins can only mark for themselves.
	caller := requestcontext.EmployeeID(ctx)
	if req.EmployeeID != caller && !requestcontext.IsAdmin(ctx) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "cannot mark attendance for another employee"))
		return
	}

	record, err := h.service.Mark(ctx, req.ToDomain())
	if err != nil {
		h.logger.ErrorContext(ctx, "attendance mark failed",
			"request_id", requestID,
			"employee_id", req.EmployeeID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "attendance mark handled",
		"request_id", requestID,
		"employee_id", record.EmployeeID,
		"status", record.Status,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, FromRecord(record))
}

// HandleList handles GET /attendance requests. Admins get the full ledger,
// everyone else their own records.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	records, err := h.service.All(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromRecords(records))
}

// HandleDay handles GET /attendance/day?employeeId=EMP001&date=2026-03-02.
// date defaults to today.
func (h *Handler) HandleDay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	employeeID := r.URL.Query().Get("employeeId")
	if employeeID == "" {
		employeeID = requestcontext.EmployeeID(ctx)
	}

	at := requestcontext.Now(ctx)
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, h.loc)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "date must be YYYY-MM-DD"))
			return
		}
		at = parsed
	}

	record, err := h.service.ForDay(ctx, employeeID, at)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromRecord(record))
}

// HandleHistory handles GET /attendance/history?employeeId=&startDate=&endDate=.
// Both dates are inclusive day buckets.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	employeeID := r.URL.Query().Get("employeeId")
	if employeeID == "" {
		employeeID = requestcontext.EmployeeID(ctx)
	}

	from, err := h.parseDate(r.URL.Query().Get("startDate"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	to, err := h.parseDate(r.URL.Query().Get("endDate"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	records, err := h.service.ForRange(ctx, employeeID, from, to)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromRecords(records))
}

func (h *Handler) parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, dErrors.New(dErrors.CodeValidation, "startDate and endDate are required")
	}
	parsed, err := time.ParseInLocation("2006-01-02", raw, h.loc)
	if err != nil {
		return time.Time{}, dErrors.New(dErrors.CodeValidation, "dates must be YYYY-MM-DD")
	}
	return parsed, nil
}
