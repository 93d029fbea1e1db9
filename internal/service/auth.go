package service

import (
	"context"
	"errors"
	"fmt"

	"liveoverlay.app/hooks/internal/model"
	"liveoverlay.app/hooks/internal/store"
)

// AuthService validates sessions issued by the account service. Login and
// session issuance live elsewhere.
type AuthService interface {
	ValidateSession(ctx context.Context, sessionID int64) (*model.User, *model.Session, error)
}

type authService struct {
	userStore    store.UserStore
	sessionStore store.SessionStore
}

func NewAuthService(userStore store.UserStore, sessionStore store.SessionStore) AuthService {
	return &authService{
		userStore:    userStore,
		sessionStore: sessionStore,
	}
}

func (s *authService) ValidateSession(ctx context.Context, sessionID int64) (*model.User, *model.Session, error) {
	session, err := s.sessionStore.GetValid(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrSessionExpired
		}
		return nil, nil, fmt.Errorf("fetching session: %w", err)
	}

	user, err := s.userStore.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("fetching user: %w", err)
	}
	return user, session, nil
}
