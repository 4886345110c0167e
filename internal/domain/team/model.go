package team

import (
	"context"
	"fmt"

	"github.com/riskibarqy/club-roster/internal/platform/docstore"
)

// Profile is the club's public card.
type Profile struct {
	ID          string
	Name        string
	ShortName   string
	Crest       string
	City        string
	FoundedYear int
}

func (p Profile) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("team name is required")
	}
	return nil
}

// Repository watches the single team profile document. onChange receives
// exists=false when the document is missing.
type Repository interface {
	WatchProfile(ctx context.Context, teamID string, onChange func(p Profile, exists bool), onError func(error)) (docstore.Unsubscribe, error)
	SaveProfile(ctx context.Context, p Profile) error
}
