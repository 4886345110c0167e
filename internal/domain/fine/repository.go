package fine

import (
	"context"

	"github.com/riskibarqy/club-roster/internal/platform/docstore"
)

type Repository interface {
	WatchByPlayer(ctx context.Context, playerID string, onChange func([]Fine), onError func(error)) (docstore.Unsubscribe, error)
	GetByID(ctx context.Context, fineID string) (Fine, bool, error)
	Save(ctx context.Context, f Fine) error
	Delete(ctx context.Context, fineID string) error
}
