package lineup

import "github.com/riskibarqy/club-roster/internal/domain/player"

// AvailablePlayers returns roster then temporary players, in input order,
// minus anyone occupying a slot or sitting in the substitute pool. It never
// mutates its inputs.
func AvailablePlayers(slots map[string]string, substitutes []string, temporary, roster []player.Player) []player.Player {
	taken := make(map[string]struct{}, len(slots)+len(substitutes))
	for _, id := range slots {
		if id != "" {
			taken[id] = struct{}{}
		}
	}
	for _, id := range substitutes {
		taken[id] = struct{}{}
	}

	out := make([]player.Player, 0, len(roster)+len(temporary))
	for _, group := range [][]player.Player{roster, temporary} {
		for _, p := range group {
			if _, skip := taken[p.ID]; skip || p.ID == "" {
				continue
			}
			taken[p.ID] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}
