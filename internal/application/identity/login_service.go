package identity

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/mamo-store/backend/internal/domain/identity"
	"github.com/mamo-store/backend/internal/domain/shared"
	"github.com/mamo-store/backend/internal/infrastructure/auth"
)

// LoginService handles phone-keyed login.
// There are no passwords: presenting a phone number creates the account on
// first use and returns the existing one afterwards.
type LoginService struct {
	repo     identity.UserRepository
	sessions *auth.SessionService
	adminPIN string
	logger   *zap.Logger
}

// NewLoginService creates a new login service
func NewLoginService(repo identity.UserRepository, sessions *auth.SessionService, adminPIN string, logger *zap.Logger) *LoginService {
	return &LoginService{repo: repo, sessions: sessions, adminPIN: adminPIN, logger: logger}
}

// LoginResult carries the resolved user and their session token
type LoginResult struct {
	User  *identity.User
	Token string
}

// Login finds the user by phone or creates them, then issues a session token.
// The stored name is authoritative for returning users; the submitted name is
// only used on first login.
func (s *LoginService) Login(ctx context.Context, name, phone string) (*LoginResult, error) {
	user, err := s.repo.FindByPhone(ctx, phone)
	switch {
	case err == nil:
		// returning user
	case errors.Is(err, shared.ErrNotFound):
		user, err = identity.NewUser(name, phone)
		if err != nil {
			return nil, err
		}
		if err := s.repo.Save(ctx, user); err != nil {
			s.logger.Error("failed to save user", zap.String("phone", phone), zap.Error(err))
			return nil, err
		}
		s.logger.Info("user registered", zap.String("phone", phone))
	default:
		return nil, err
	}

	token, err := s.sessions.Issue(user.ID, user.Name, false)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, Token: token}, nil
}

// ElevateAdmin checks the admin PIN and issues an admin-scoped session token
func (s *LoginService) ElevateAdmin(ctx context.Context, phone, pin string) (*LoginResult, error) {
	if pin == "" || pin != s.adminPIN {
		return nil, shared.ErrUnauthorized
	}
	user, err := s.repo.FindByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	token, err := s.sessions.Issue(user.ID, user.Name, true)
	if err != nil {
		return nil, err
	}
	s.logger.Info("admin session granted", zap.String("phone", phone))
	return &LoginResult{User: user, Token: token}, nil
}
