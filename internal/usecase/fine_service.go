package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/club-roster/internal/domain/fine"
	"github.com/riskibarqy/club-roster/internal/domain/user"
	"github.com/riskibarqy/club-roster/internal/platform/id"
	"github.com/riskibarqy/club-roster/internal/platform/logging"
)

type CreateFineInput struct {
	PlayerID string
	Reason   string
	Amount   float64
	Date     time.Time
}

// UpdateFineInput changes only the fields that are set.
type UpdateFineInput struct {
	Reason *string
	Amount *float64
	Date   *time.Time
	Paid   *bool
}

type FineService struct {
	repo   fine.Repository
	ids    id.Generator
	now    func() time.Time
	logger *logging.Logger
}

func NewFineService(repo fine.Repository, ids id.Generator, logger *logging.Logger) *FineService {
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	return &FineService{
		repo:   repo,
		ids:    ids,
		now:    time.Now,
		logger: logging.OrDefault(logger).Named("fine_service"),
	}
}

// Create records a fine. Only coaches may issue fines.
func (s *FineService) Create(ctx context.Context, principal user.Principal, input CreateFineInput) (fine.Fine, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FineService.Create")
	defer span.End()

	if err := authorize(principal, user.Principal.IsCoach, "issue fines"); err != nil {
		return fine.Fine{}, err
	}

	item := fine.Fine{
		ID:        s.ids.NewID(),
		PlayerID:  strings.TrimSpace(input.PlayerID),
		TeamID:    principal.TeamID,
		Reason:    strings.TrimSpace(input.Reason),
		Amount:    input.Amount,
		Date:      input.Date,
		CreatedBy: principal.UserID,
	}
	if item.Date.IsZero() {
		item.Date = s.now().UTC()
	}
	if err := item.Validate(); err != nil {
		return fine.Fine{}, errors.Wrapf(ErrInvalidInput, "%v", err)
	}

	if err := s.repo.Save(ctx, item); err != nil {
		return fine.Fine{}, errors.Wrap(err, "create fine")
	}
	s.logger.InfoContext(ctx, "fine created", "fine_id", item.ID, "player_id", item.PlayerID, "created_by", principal.UserID)
	return item, nil
}

func (s *FineService) Update(ctx context.Context, principal user.Principal, fineID string, input UpdateFineInput) (fine.Fine, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FineService.Update")
	defer span.End()

	item, err := s.loadManaged(ctx, principal, fineID)
	if err != nil {
		return fine.Fine{}, err
	}
	if input.Reason != nil {
		item.Reason = strings.TrimSpace(*input.Reason)
	}
	if input.Amount != nil {
		item.Amount = *input.Amount
	}
	if input.Date != nil {
		item.Date = *input.Date
	}
	if input.Paid != nil {
		item.Paid = *input.Paid
	}
	if err := item.Validate(); err != nil {
		return fine.Fine{}, errors.Wrapf(ErrInvalidInput, "%v", err)
	}

	if err := s.repo.Save(ctx, item); err != nil {
		return fine.Fine{}, errors.Wrap(err, "update fine")
	}
	return item, nil
}

func (s *FineService) TogglePaid(ctx context.Context, principal user.Principal, fineID string) (fine.Fine, error) {
	item, err := s.loadManaged(ctx, principal, fineID)
	if err != nil {
		return fine.Fine{}, err
	}
	paid := !item.Paid
	return s.Update(ctx, principal, fineID, UpdateFineInput{Paid: &paid})
}

func (s *FineService) Delete(ctx context.Context, principal user.Principal, fineID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.FineService.Delete")
	defer span.End()

	item, err := s.loadManaged(ctx, principal, fineID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, item.ID); err != nil {
		return errors.Wrap(err, "delete fine")
	}
	s.logger.InfoContext(ctx, "fine deleted", "fine_id", item.ID, "deleted_by", principal.UserID)
	return nil
}

// loadManaged fetches fineID for a coach or admin of the fine's team.
func (s *FineService) loadManaged(ctx context.Context, principal user.Principal, fineID string) (fine.Fine, error) {
	if err := authorize(principal, user.Principal.CanManage, "manage fines"); err != nil {
		return fine.Fine{}, err
	}
	fineID = strings.TrimSpace(fineID)
	if fineID == "" {
		return fine.Fine{}, errors.Wrap(ErrInvalidInput, "fine id is required")
	}

	item, exists, err := s.repo.GetByID(ctx, fineID)
	if err != nil {
		return fine.Fine{}, errors.Wrapf(err, "get fine %s", fineID)
	}
	if !exists {
		return fine.Fine{}, errors.Wrapf(ErrNotFound, "fine %s", fineID)
	}
	if item.TeamID != "" && item.TeamID != principal.TeamID {
		return fine.Fine{}, errors.Wrapf(ErrForbidden, "fine %s belongs to another team", fineID)
	}
	return item, nil
}

// authorize checks principal is well formed and passes allowed.
func authorize(principal user.Principal, allowed func(user.Principal) bool, action string) error {
	if err := principal.Validate(); err != nil {
		return errors.Mark(errors.Wrap(err, action), ErrUnauthorized)
	}
	if !allowed(principal) {
		return errors.Wrapf(ErrForbidden, "role %s cannot %s", principal.Role, action)
	}
	return nil
}
