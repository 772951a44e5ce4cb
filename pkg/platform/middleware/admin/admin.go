package admin

import (
	"log/slog"
	"net/http"

	request "rollcall/pkg/platform/middleware/request"
	"rollcall/pkg/requestcontext"
)

// RequireAdmin gates a route on the ADMIN role claim. It must run after
// auth.RequireAuth, which populates the role claims in the context.
func RequireAdmin(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if !requestcontext.IsAdmin(ctx) {
				logger.WarnContext(ctx, "forbidden - admin role required",
					"request_id", request.GetRequestID(ctx),
					"employee_id", requestcontext.EmployeeID(ctx),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":"forbidden","error_description":"admin role required"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
