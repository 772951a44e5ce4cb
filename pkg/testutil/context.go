package testutil

import (
	"net/http"

	"rollcall/pkg/requestcontext"
)

// WithEmployee adds an authenticated employee to the request context.
// This simulates what the auth middleware would do for authenticated requests.
func WithEmployee(req *http.Request, employeeID string, roles ...string) *http.Request {
	ctx := requestcontext.WithEmployeeID(req.Context(), employeeID)
	if len(roles) > 0 {
		ctx = requestcontext.WithRoles(ctx, roles)
	}
	return req.WithContext(ctx)
}

// WithAdmin adds an authenticated admin to the request context.
func WithAdmin(req *http.Request, employeeID string) *http.Request {
	return WithEmployee(req, employeeID, requestcontext.RoleAdmin)
}
