package usecase

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/club-roster/internal/domain/player"
	"github.com/riskibarqy/club-roster/internal/domain/user"
	"github.com/riskibarqy/club-roster/internal/platform/id"
)

// SavePlayerInput creates a player when ID is empty. Image may be a URL or a
// local file to upload.
type SavePlayerInput struct {
	ID       string
	Name     string
	Number   int
	Position player.Position
	Foot     player.Foot
	Email    string
	Phone    string
	Image    string
}

type PlayerService struct {
	repo     player.Repository
	uploader ImageUploader
	ids      id.Generator
}

func NewPlayerService(repo player.Repository, uploader ImageUploader, ids id.Generator) *PlayerService {
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	return &PlayerService{repo: repo, uploader: uploader, ids: ids}
}

func (s *PlayerService) Save(ctx context.Context, principal user.Principal, input SavePlayerInput) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Save")
	defer span.End()

	if err := authorize(principal, user.Principal.CanManage, "edit the roster"); err != nil {
		return player.Player{}, err
	}

	item := player.Player{
		ID:       strings.TrimSpace(input.ID),
		TeamID:   principal.TeamID,
		Name:     strings.TrimSpace(input.Name),
		Number:   input.Number,
		Position: input.Position,
		Foot:     input.Foot,
		Email:    strings.TrimSpace(input.Email),
		Phone:    strings.TrimSpace(input.Phone),
	}
	if item.ID == "" {
		item.ID = s.ids.NewID()
	}
	if id.IsTemporary(item.ID) {
		return player.Player{}, errors.Wrap(ErrInvalidInput, "temporary players cannot join the roster")
	}
	if err := item.Validate(); err != nil {
		return player.Player{}, errors.Wrapf(ErrInvalidInput, "%v", err)
	}

	image, err := resolveImage(ctx, s.uploader, input.Image, folderPlayers)
	if err != nil {
		return player.Player{}, err
	}
	item.Image = image

	if err := s.repo.Save(ctx, item); err != nil {
		return player.Player{}, errors.Wrap(err, "save player")
	}
	return item, nil
}

func (s *PlayerService) Delete(ctx context.Context, principal user.Principal, playerID string) error {
	if err := authorize(principal, user.Principal.CanManage, "edit the roster"); err != nil {
		return err
	}
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return errors.Wrap(ErrInvalidInput, "player id is required")
	}
	if err := s.repo.Delete(ctx, playerID); err != nil {
		return errors.Wrap(err, "delete player")
	}
	return nil
}
