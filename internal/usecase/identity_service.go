package usecase

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/club-roster/internal/domain/user"
)

// IdentityService turns an authenticated user id into the Principal every
// query and mutation is scoped by.
type IdentityService struct {
	users user.Repository
}

func NewIdentityService(users user.Repository) *IdentityService {
	return &IdentityService{users: users}
}

func (s *IdentityService) Resolve(ctx context.Context, userID string) (user.Principal, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IdentityService.Resolve")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return user.Principal{}, errors.Wrap(ErrUnauthorized, "user id is required")
	}

	account, exists, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return user.Principal{}, errors.Mark(errors.Wrapf(err, "get user %s", userID), ErrDependencyUnavailable)
	}
	if !exists {
		return user.Principal{}, errors.Wrapf(ErrUnauthorized, "user %s has no account", userID)
	}

	principal := user.Principal{UserID: account.ID, Role: account.Role, TeamID: account.TeamID}
	if err := principal.Validate(); err != nil {
		return user.Principal{}, errors.Mark(errors.Wrapf(err, "user %s", userID), ErrForbidden)
	}
	return principal, nil
}
