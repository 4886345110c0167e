// Package memory seeds the in-memory backend with a demo club so the daemon
// is usable without a remote project.
package memory

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/club-roster/internal/domain/player"
	"github.com/riskibarqy/club-roster/internal/domain/staff"
	"github.com/riskibarqy/club-roster/internal/domain/team"
	"github.com/riskibarqy/club-roster/internal/domain/user"
)

const (
	DemoTeamID  = "demo-rovers"
	DemoCoachID = "demo-coach"
	DemoAdminID = "demo-admin"
)

// AccountWriter provisions user accounts.
type AccountWriter interface {
	SaveAccount(ctx context.Context, acc user.Account) error
}

func SeedTeamProfile() team.Profile {
	return team.Profile{
		ID:          DemoTeamID,
		Name:        "Rovers Football Club",
		ShortName:   "ROV",
		City:        "Valencia",
		FoundedYear: 1998,
	}
}

func SeedAccounts() []user.Account {
	return []user.Account{
		{ID: DemoCoachID, Name: "Marta Ruiz", Email: "coach@rovers.test", Role: user.RoleCoach, TeamID: DemoTeamID},
		{ID: DemoAdminID, Name: "Pablo Gil", Email: "admin@rovers.test", Role: user.RoleAdmin, TeamID: DemoTeamID},
	}
}

func SeedPlayers() []player.Player {
	return []player.Player{
		{ID: "rov-gk-01", TeamID: DemoTeamID, Name: "Iker Sanz", Number: 1, Position: player.PositionGoalkeeper, Foot: player.FootRight},
		{ID: "rov-gk-02", TeamID: DemoTeamID, Name: "Dani Prieto", Number: 13, Position: player.PositionGoalkeeper, Foot: player.FootLeft},
		{ID: "rov-def-01", TeamID: DemoTeamID, Name: "Carles Mora", Number: 2, Position: player.PositionDefender, Foot: player.FootRight},
		{ID: "rov-def-02", TeamID: DemoTeamID, Name: "Sergio Ramos Vidal", Number: 4, Position: player.PositionDefender, Foot: player.FootRight},
		{ID: "rov-def-03", TeamID: DemoTeamID, Name: "Jordi Alba Ruiz", Number: 3, Position: player.PositionDefender, Foot: player.FootLeft},
		{ID: "rov-def-04", TeamID: DemoTeamID, Name: "Pau Torres", Number: 5, Position: player.PositionDefender, Foot: player.FootLeft},
		{ID: "rov-def-05", TeamID: DemoTeamID, Name: "Alex Grau", Number: 15, Position: player.PositionDefender, Foot: player.FootBoth},
		{ID: "rov-mid-01", TeamID: DemoTeamID, Name: "Xavi Costa", Number: 6, Position: player.PositionMidfielder, Foot: player.FootRight},
		{ID: "rov-mid-02", TeamID: DemoTeamID, Name: "Andres Ibanez", Number: 8, Position: player.PositionMidfielder, Foot: player.FootBoth},
		{ID: "rov-mid-03", TeamID: DemoTeamID, Name: "Sergi Busquets Pla", Number: 16, Position: player.PositionMidfielder, Foot: player.FootRight},
		{ID: "rov-mid-04", TeamID: DemoTeamID, Name: "Pedro Lopez", Number: 10, Position: player.PositionMidfielder, Foot: player.FootLeft},
		{ID: "rov-fwd-01", TeamID: DemoTeamID, Name: "Raul Blanco", Number: 7, Position: player.PositionForward, Foot: player.FootRight},
		{ID: "rov-fwd-02", TeamID: DemoTeamID, Name: "David Villa Real", Number: 9, Position: player.PositionForward, Foot: player.FootRight},
		{ID: "rov-fwd-03", TeamID: DemoTeamID, Name: "Nico Serra", Number: 11, Position: player.PositionForward, Foot: player.FootLeft},
	}
}

func SeedStaff() []staff.Member {
	return []staff.Member{
		{ID: "rov-staff-01", TeamID: DemoTeamID, Name: "Marta Ruiz", Role: "Entrenadora"},
		{ID: "rov-staff-02", TeamID: DemoTeamID, Name: "Luis Ferrer", Role: "Fisioterapeuta"},
		{ID: "rov-staff-03", TeamID: DemoTeamID, Name: "Ana Pons", Role: "Delegada"},
	}
}

// Seed writes the demo club through the given repositories.
func Seed(ctx context.Context, teams team.Repository, accounts AccountWriter, players player.Repository, members staff.Repository) error {
	if err := teams.SaveProfile(ctx, SeedTeamProfile()); err != nil {
		return errors.Wrap(err, "seed team profile")
	}
	for _, acc := range SeedAccounts() {
		if err := accounts.SaveAccount(ctx, acc); err != nil {
			return errors.Wrap(err, "seed accounts")
		}
	}
	for _, p := range SeedPlayers() {
		if err := players.Save(ctx, p); err != nil {
			return errors.Wrap(err, "seed players")
		}
	}
	for _, m := range SeedStaff() {
		if err := members.Save(ctx, m); err != nil {
			return errors.Wrap(err, "seed staff")
		}
	}
	return nil
}
