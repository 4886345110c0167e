package player

import (
	"fmt"
	"strings"
)

// Position is the broad pitch role printed on the roster.
type Position string

const (
	PositionGoalkeeper Position = "GK"
	PositionDefender   Position = "DEF"
	PositionMidfielder Position = "MID"
	PositionForward    Position = "FWD"
)

var AllPositions = map[Position]struct{}{
	PositionGoalkeeper: {},
	PositionDefender:   {},
	PositionMidfielder: {},
	PositionForward:    {},
}

type Foot string

const (
	FootLeft  Foot = "left"
	FootRight Foot = "right"
	FootBoth  Foot = "both"
)

// Player is a club member available for lineups. Temporary players exist only
// inside one match alignment and are never written to the roster collection.
type Player struct {
	ID        string
	TeamID    string
	Name      string
	Number    int
	Position  Position
	Image     string
	Email     string
	Phone     string
	Foot      Foot
	Temporary bool
}

func (p Player) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("player id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("player name is required")
	}
	if !p.Temporary && strings.TrimSpace(p.TeamID) == "" {
		return fmt.Errorf("player team id is required")
	}
	if p.Number < 0 || p.Number > 99 {
		return fmt.Errorf("player number must be between 0 and 99")
	}
	if _, ok := AllPositions[p.Position]; !ok {
		return fmt.Errorf("invalid player position: %s", p.Position)
	}
	switch p.Foot {
	case "", FootLeft, FootRight, FootBoth:
	default:
		return fmt.Errorf("invalid preferred foot: %s", p.Foot)
	}

	return nil
}

// Label renders "#10 Name" for role and lineup listings.
func (p Player) Label() string {
	if p.Number <= 0 {
		return p.Name
	}
	return fmt.Sprintf("#%d %s", p.Number, p.Name)
}

// Index maps players by id; later entries do not override earlier ones.
func Index(groups ...[]Player) map[string]Player {
	out := make(map[string]Player)
	for _, group := range groups {
		for _, p := range group {
			if _, exists := out[p.ID]; !exists {
				out[p.ID] = p
			}
		}
	}
	return out
}
