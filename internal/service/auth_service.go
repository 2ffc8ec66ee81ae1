package service

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/gravyapp/gravy/internal/domain"
	"github.com/gravyapp/gravy/internal/repository"
)

// authService implements AuthService. It is the strategy router: one
// explicit table from strategy name to implementation, built once at
// construction.
type authService struct {
	strategies map[string]Strategy
	sessions   *SessionManager
	users      repository.UserRepository
	resolver   *IdentityResolver
	logger     *zap.Logger
	attempts   metric.Int64Counter
}

// NewAuthService creates the auth service with the local strategy plus one
// provider strategy per name in providerNames.
func NewAuthService(
	users repository.UserRepository,
	resolver *IdentityResolver,
	sessions *SessionManager,
	providerNames []string,
	logger *zap.Logger,
) AuthService {
	strategies := map[string]Strategy{
		StrategyLocal: NewLocalStrategy(resolver),
	}
	for _, name := range providerNames {
		strategies[name] = NewProviderStrategy(name, resolver)
	}

	meter := otel.Meter("gravy/auth")
	attempts, err := meter.Int64Counter("auth_attempts_total",
		metric.WithDescription("Authentication attempts by strategy and outcome"))
	if err != nil {
		logger.Warn("failed to create auth attempts counter", zap.Error(err))
	}

	return &authService{
		strategies: strategies,
		sessions:   sessions,
		users:      users,
		resolver:   resolver,
		logger:     logger,
		attempts:   attempts,
	}
}

// Attempt runs one authentication attempt: resolve, establish session, set
// presence, strictly in that order. Presence never flips before the session
// is resolvable, and if the presence write fails the session is torn down
// so the attempt as a whole fails.
func (s *authService) Attempt(ctx context.Context, cred Credential) (*Outcome, error) {
	strategy, ok := s.strategies[cred.Strategy()]
	if !ok {
		s.logger.Warn("authentication attempt for unregistered strategy",
			zap.String("strategy", cred.Strategy()),
		)
		s.count(ctx, cred.Strategy(), "failed")
		return nil, ErrAuthenticationFailed
	}

	user, err := strategy.Authenticate(ctx, cred)
	if err != nil {
		// The concrete kind stays here; the caller only ever sees a
		// generic failure.
		s.logger.Info("authentication failed",
			zap.String("strategy", strategy.Name()),
			zap.Error(err),
		)
		s.count(ctx, strategy.Name(), "failed")
		return nil, ErrAuthenticationFailed
	}

	token, err := s.sessions.Issue(ctx, user)
	if err != nil {
		s.logger.Error("failed to establish session",
			zap.String("strategy", strategy.Name()),
			zap.String("user_id", user.ID),
			zap.Error(err),
		)
		s.count(ctx, strategy.Name(), "failed")
		return nil, ErrAuthenticationFailed
	}

	if err := s.users.SetOnline(ctx, user.ID, true); err != nil {
		if derr := s.sessions.Destroy(ctx, token); derr != nil {
			s.logger.Error("failed to destroy session after presence failure",
				zap.String("user_id", user.ID),
				zap.Error(derr),
			)
		}
		s.logger.Error("failed to set presence on login",
			zap.String("user_id", user.ID),
			zap.Error(err),
		)
		s.count(ctx, strategy.Name(), "failed")
		return nil, ErrAuthenticationFailed
	}
	user.Online = true

	s.logger.Info("authentication succeeded",
		zap.String("strategy", strategy.Name()),
		zap.String("user_id", user.ID),
	)
	s.count(ctx, strategy.Name(), "succeeded")

	return &Outcome{User: user, SessionToken: token}, nil
}

// SignupLocal creates a local account. Unlike Attempt, its failures are
// allowed to be specific: weak password and duplicate email are input
// guidance, not authentication secrets. Signup does not auto-login.
func (s *authService) SignupLocal(ctx context.Context, email, password, displayName string) (*domain.User, error) {
	user, err := s.resolver.SignupLocal(ctx, email, password, displayName)
	if err != nil {
		s.logger.Info("signup failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("user signed up", zap.String("user_id", user.ID))
	return user, nil
}

// Logout flips presence off and destroys the session. A failed presence
// write is logged and swallowed: a stale online flag beats a user who
// cannot log out.
func (s *authService) Logout(ctx context.Context, token string) error {
	user, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		s.logger.Warn("failed to resolve session during logout", zap.Error(err))
	}

	if user != nil {
		if err := s.users.SetOnline(ctx, user.ID, false); err != nil {
			s.logger.Warn("failed to clear presence on logout",
				zap.String("user_id", user.ID),
				zap.Error(err),
			)
		}
	}

	return s.sessions.Destroy(ctx, token)
}

// CurrentUser resolves a session token to its user.
func (s *authService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	return s.sessions.Resolve(ctx, token)
}

func (s *authService) count(ctx context.Context, strategy, outcome string) {
	if s.attempts == nil {
		return
	}
	s.attempts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("strategy", strategy),
		attribute.String("outcome", outcome),
	))
}
