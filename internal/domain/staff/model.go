package staff

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/club-roster/internal/platform/docstore"
)

// Member is a non-playing club member (coach, physio, delegate).
type Member struct {
	ID     string
	TeamID string
	Name   string
	Role   string
	Image  string
	Email  string
	Phone  string
}

func (m Member) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return fmt.Errorf("staff id is required")
	}
	if strings.TrimSpace(m.TeamID) == "" {
		return fmt.Errorf("staff team id is required")
	}
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("staff name is required")
	}
	return nil
}

type Repository interface {
	WatchByTeam(ctx context.Context, teamID string, onChange func([]Member), onError func(error)) (docstore.Unsubscribe, error)
	Save(ctx context.Context, m Member) error
	Delete(ctx context.Context, memberID string) error
}
