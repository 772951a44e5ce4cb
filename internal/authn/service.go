package authn

import (
	"context"
	"log/slog"
	"time"

	"rollcall/internal/audit"
	"rollcall/internal/directory"
	"rollcall/internal/platform/metrics"
	dErrors "rollcall/pkg/domain-errors"
	"rollcall/pkg/requestcontext"
)

// Authenticator verifies credentials against the employee directory.
type Authenticator interface {
	Authenticate(ctx context.Context, login, password string) (*directory.Employee, error)
}

// Revoker is the slice of the revocation list the service needs for logout.
type Revoker interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
}

// AuditPublisher emits authentication events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event)
}

// TokenResult is a successful login.
type TokenResult struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int
	EmployeeID  string
	Roles       []string
}

// Service authenticates employees and revokes tokens on logout.
type Service struct {
	directory Authenticator
	jwt       *JWTService
	revoker   Revoker
	auditor   AuditPublisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

type Option func(*Service)

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) { s.auditor = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func NewService(dir Authenticator, jwtService *JWTService, revoker Revoker, opts ...Option) *Service {
	s := &Service{
		directory: dir,
		jwt:       jwtService,
		revoker:   revoker,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login verifies credentials and mints an access token. Every failure mode
// returns the same unauthorized error so callers cannot probe for usernames.
func (s *Service) Login(ctx context.Context, username, password string) (*TokenResult, error) {
	emp, err := s.directory.Authenticate(ctx, username, password)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeUnauthorized) {
			s.recordFailure(ctx, username)
		}
		return nil, err
	}

	token, claims, err := s.jwt.GenerateAccessToken(emp.EmployeeID, emp.Roles)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "minting access token")
	}

	s.metrics.IncrementLogin("success")
	s.emit(ctx, audit.Event{
		Action:     audit.ActionLoginSucceeded,
		EmployeeID: emp.EmployeeID,
	})
	s.logger.InfoContext(ctx, "login succeeded",
		"request_id", requestcontext.RequestID(ctx),
		"employee_id", emp.EmployeeID,
	)
	return &TokenResult{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.jwt.TTL().Seconds()),
		EmployeeID:  emp.EmployeeID,
		Roles:       claims.Roles,
	}, nil
}

// Logout revokes the caller's token jti until its natural expiry.
func (s *Service) Logout(ctx context.Context) error {
	jti := requestcontext.TokenID(ctx)
	if jti == "" {
		return dErrors.New(dErrors.CodeUnauthorized, "no token to revoke")
	}

	if err := s.revoker.RevokeToken(ctx, jti, s.jwt.TTL()); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "revoking token")
	}

	s.emit(ctx, audit.Event{
		Action:     audit.ActionLogout,
		EmployeeID: requestcontext.EmployeeID(ctx),
	})
	s.logger.InfoContext(ctx, "logout",
		"request_id", requestcontext.RequestID(ctx),
		"employee_id", requestcontext.EmployeeID(ctx),
	)
	return nil
}

func (s *Service) recordFailure(ctx context.Context, username string) {
	s.metrics.IncrementLogin("failure")
	s.emit(ctx, audit.Event{
		Action:  audit.ActionLoginFailed,
		Subject: username,
	})
	s.logger.WarnContext(ctx, "login failed",
		"request_id", requestcontext.RequestID(ctx),
		"username", username,
		"user_agent", requestcontext.UserAgent(ctx),
	)
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	event.ClientIP = requestcontext.ClientIP(ctx)
	event.RequestID = requestcontext.RequestID(ctx)
	s.auditor.Emit(ctx, event)
}
