package usecase

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/club-roster/internal/domain/user"
)

type ProfileService struct {
	users    user.Repository
	uploader ImageUploader
}

func NewProfileService(users user.Repository, uploader ImageUploader) *ProfileService {
	return &ProfileService{users: users, uploader: uploader}
}

// UpdateProfilePhoto uploads image and merges its URL into the caller's user
// document. Any signed-in member may change their own photo.
func (s *ProfileService) UpdateProfilePhoto(ctx context.Context, principal user.Principal, image string) (string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileService.UpdateProfilePhoto")
	defer span.End()

	if err := principal.Validate(); err != nil {
		return "", errors.Mark(errors.Wrap(err, "update profile photo"), ErrUnauthorized)
	}
	if strings.TrimSpace(image) == "" {
		return "", errors.Wrap(ErrInvalidInput, "image is required")
	}

	url, err := resolveImage(ctx, s.uploader, image, folderUsers)
	if err != nil {
		return "", err
	}
	if err := s.users.UpdateProfilePhoto(ctx, principal.UserID, url); err != nil {
		return "", errors.Wrap(err, "update profile photo")
	}
	return url, nil
}
