package handler

import (
	"strings"

	"rollcall/internal/authn"
	dErrors "rollcall/pkg/domain-errors"
)

// LoginRequest is the HTTP request body for POST /login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks the credentials are present.
// Implements the Validator interface for httputil.DecodeAndPrepare.
func (r *LoginRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Username = strings.TrimSpace(r.Username)
	if r.Username == "" || r.Password == "" {
		return dErrors.New(dErrors.CodeBadRequest, "username and password are required")
	}
	return nil
}

// TokenResponse is the wire form of a successful login.
type TokenResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	ExpiresIn   int      `json:"expires_in"`
	EmployeeID  string   `json:"employee_id"`
	Roles       []string `json:"roles"`
}

// FromTokenResult converts a token result to its wire form.
func FromTokenResult(result *authn.TokenResult) TokenResponse {
	return TokenResponse{
		AccessToken: result.AccessToken,
		TokenType:   result.TokenType,
		ExpiresIn:   result.ExpiresIn,
		EmployeeID:  result.EmployeeID,
		Roles:       result.Roles,
	}
}
