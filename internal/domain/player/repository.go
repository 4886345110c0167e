package player

import (
	"context"

	"github.com/riskibarqy/club-roster/internal/platform/docstore"
)

// Repository describes roster persistence. Watch delivers the full team roster
// on every change until the returned Unsubscribe is called.
type Repository interface {
	WatchByTeam(ctx context.Context, teamID string, onChange func([]Player), onError func(error)) (docstore.Unsubscribe, error)
	Save(ctx context.Context, p Player) error
	Delete(ctx context.Context, playerID string) error
}
