package usecase

import (
	"context"

	"github.com/riskibarqy/club-roster/internal/domain/fine"
	"github.com/riskibarqy/club-roster/internal/domain/lineup"
	"github.com/riskibarqy/club-roster/internal/domain/player"
	"github.com/riskibarqy/club-roster/internal/domain/staff"
	"github.com/riskibarqy/club-roster/internal/domain/team"
	"github.com/riskibarqy/club-roster/internal/livequery"
	"github.com/riskibarqy/club-roster/internal/platform/docstore"
)

// TeamProfileSnapshot is the team document as the cache holds it.
type TeamProfileSnapshot struct {
	Profile team.Profile
	Exists  bool
}

// AlignmentSnapshot is the match document as the cache holds it.
type AlignmentSnapshot struct {
	Alignment lineup.Alignment
	Exists    bool
}

func PlayersSource(repo player.Repository, teamID string) livequery.Source[[]player.Player] {
	return livequery.Source[[]player.Player]{
		Key: "players:team:" + teamID,
		Watch: func(ctx context.Context, onData func([]player.Player), onError func(error)) (docstore.Unsubscribe, error) {
			return repo.WatchByTeam(ctx, teamID, onData, onError)
		},
	}
}

func StaffSource(repo staff.Repository, teamID string) livequery.Source[[]staff.Member] {
	return livequery.Source[[]staff.Member]{
		Key: "staff:team:" + teamID,
		Watch: func(ctx context.Context, onData func([]staff.Member), onError func(error)) (docstore.Unsubscribe, error) {
			return repo.WatchByTeam(ctx, teamID, onData, onError)
		},
	}
}

func TeamProfileSource(repo team.Repository, teamID string) livequery.Source[TeamProfileSnapshot] {
	return livequery.Source[TeamProfileSnapshot]{
		Key: "teams:" + teamID,
		Watch: func(ctx context.Context, onData func(TeamProfileSnapshot), onError func(error)) (docstore.Unsubscribe, error) {
			return repo.WatchProfile(ctx, teamID, func(p team.Profile, exists bool) {
				onData(TeamProfileSnapshot{Profile: p, Exists: exists})
			}, onError)
		},
	}
}

func FinesSource(repo fine.Repository, playerID string) livequery.Source[[]fine.Fine] {
	return livequery.Source[[]fine.Fine]{
		Key: "fines:player:" + playerID,
		Watch: func(ctx context.Context, onData func([]fine.Fine), onError func(error)) (docstore.Unsubscribe, error) {
			return repo.WatchByPlayer(ctx, playerID, onData, onError)
		},
	}
}

func AlignmentSource(repo lineup.Repository, matchID string) livequery.Source[AlignmentSnapshot] {
	return livequery.Source[AlignmentSnapshot]{
		Key: "alignments:" + matchID,
		Watch: func(ctx context.Context, onData func(AlignmentSnapshot), onError func(error)) (docstore.Unsubscribe, error) {
			return repo.WatchByMatch(ctx, matchID, func(a lineup.Alignment, exists bool) {
				onData(AlignmentSnapshot{Alignment: a, Exists: exists})
			}, onError)
		},
	}
}
