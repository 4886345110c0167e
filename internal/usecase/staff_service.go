package usecase

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/club-roster/internal/domain/staff"
	"github.com/riskibarqy/club-roster/internal/domain/user"
	"github.com/riskibarqy/club-roster/internal/platform/id"
)

type SaveStaffInput struct {
	ID    string
	Name  string
	Role  string
	Email string
	Phone string
	Image string
}

type StaffService struct {
	repo     staff.Repository
	uploader ImageUploader
	ids      id.Generator
}

func NewStaffService(repo staff.Repository, uploader ImageUploader, ids id.Generator) *StaffService {
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	return &StaffService{repo: repo, uploader: uploader, ids: ids}
}

func (s *StaffService) Save(ctx context.Context, principal user.Principal, input SaveStaffInput) (staff.Member, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StaffService.Save")
	defer span.End()

	if err := authorize(principal, user.Principal.CanManage, "edit staff"); err != nil {
		return staff.Member{}, err
	}

	item := staff.Member{
		ID:     strings.TrimSpace(input.ID),
		TeamID: principal.TeamID,
		Name:   strings.TrimSpace(input.Name),
		Role:   strings.TrimSpace(input.Role),
		Email:  strings.TrimSpace(input.Email),
		Phone:  strings.TrimSpace(input.Phone),
	}
	if item.ID == "" {
		item.ID = s.ids.NewID()
	}
	if err := item.Validate(); err != nil {
		return staff.Member{}, errors.Wrapf(ErrInvalidInput, "%v", err)
	}

	image, err := resolveImage(ctx, s.uploader, input.Image, folderStaff)
	if err != nil {
		return staff.Member{}, err
	}
	item.Image = image

	if err := s.repo.Save(ctx, item); err != nil {
		return staff.Member{}, errors.Wrap(err, "save staff member")
	}
	return item, nil
}

func (s *StaffService) Delete(ctx context.Context, principal user.Principal, memberID string) error {
	if err := authorize(principal, user.Principal.CanManage, "edit staff"); err != nil {
		return err
	}
	memberID = strings.TrimSpace(memberID)
	if memberID == "" {
		return errors.Wrap(ErrInvalidInput, "staff id is required")
	}
	if err := s.repo.Delete(ctx, memberID); err != nil {
		return errors.Wrap(err, "delete staff member")
	}
	return nil
}
