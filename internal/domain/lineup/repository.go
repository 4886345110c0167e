package lineup

import (
	"context"

	"github.com/riskibarqy/club-roster/internal/platform/docstore"
)

// Repository persists one Alignment document per match.
type Repository interface {
	WatchByMatch(ctx context.Context, matchID string, onChange func(a Alignment, exists bool), onError func(error)) (docstore.Unsubscribe, error)
	Save(ctx context.Context, a Alignment) error
}
