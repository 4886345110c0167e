// Package formation holds the static catalogue of pitch formations. Entries
// are immutable; callers receive copies.
package formation

import (
	"fmt"

	"github.com/riskibarqy/club-roster/internal/domain/player"
)

const DefaultID = "433"

// Slot is one named position. X runs left to right and Y from the attacking
// end (0) to the own goal line (1).
type Slot struct {
	ID   string
	Line player.Position
	X    float64
	Y    float64
}

type Formation struct {
	ID    string
	Name  string
	Slots []Slot
}

func (f Formation) HasSlot(slotID string) bool {
	for _, s := range f.Slots {
		if s.ID == slotID {
			return true
		}
	}
	return false
}

func (f Formation) SlotIDs() []string {
	out := make([]string, 0, len(f.Slots))
	for _, s := range f.Slots {
		out = append(out, s.ID)
	}
	return out
}

func (f Formation) clone() Formation {
	f.Slots = append([]Slot(nil), f.Slots...)
	return f
}

type line struct {
	pos   player.Position
	count int
	y     float64
}

var catalogue = []Formation{
	build("433", "4-3-3", line{player.PositionDefender, 4, 0.72}, line{player.PositionMidfielder, 3, 0.48}, line{player.PositionForward, 3, 0.2}),
	build("442", "4-4-2", line{player.PositionDefender, 4, 0.72}, line{player.PositionMidfielder, 4, 0.46}, line{player.PositionForward, 2, 0.2}),
	build("4231", "4-2-3-1", line{player.PositionDefender, 4, 0.72}, line{player.PositionMidfielder, 2, 0.56}, line{player.PositionMidfielder, 3, 0.36}, line{player.PositionForward, 1, 0.16}),
	build("451", "4-5-1", line{player.PositionDefender, 4, 0.72}, line{player.PositionMidfielder, 5, 0.44}, line{player.PositionForward, 1, 0.18}),
	build("352", "3-5-2", line{player.PositionDefender, 3, 0.72}, line{player.PositionMidfielder, 5, 0.46}, line{player.PositionForward, 2, 0.2}),
	build("343", "3-4-3", line{player.PositionDefender, 3, 0.72}, line{player.PositionMidfielder, 4, 0.48}, line{player.PositionForward, 3, 0.2}),
	build("532", "5-3-2", line{player.PositionDefender, 5, 0.72}, line{player.PositionMidfielder, 3, 0.46}, line{player.PositionForward, 2, 0.2}),
}

var byID = func() map[string]int {
	out := make(map[string]int, len(catalogue))
	for i, f := range catalogue {
		out[f.ID] = i
	}
	return out
}()

// Get returns the formation with the given id.
func Get(id string) (Formation, bool) {
	idx, ok := byID[id]
	if !ok {
		return Formation{}, false
	}
	return catalogue[idx].clone(), true
}

// MustGet panics on unknown ids; for package level defaults only.
func MustGet(id string) Formation {
	f, ok := Get(id)
	if !ok {
		panic(fmt.Sprintf("formation %q is not in the catalogue", id))
	}
	return f
}

// All lists the catalogue in display order.
func All() []Formation {
	out := make([]Formation, 0, len(catalogue))
	for _, f := range catalogue {
		out = append(out, f.clone())
	}
	return out
}

func build(id, name string, lines ...line) Formation {
	slots := []Slot{{ID: "GK", Line: player.PositionGoalkeeper, X: 0.5, Y: 0.92}}
	counters := make(map[player.Position]int)
	for _, l := range lines {
		for i := 0; i < l.count; i++ {
			counters[l.pos]++
			slots = append(slots, Slot{
				ID:   fmt.Sprintf("%s%d", l.pos, counters[l.pos]),
				Line: l.pos,
				X:    float64(i+1) / float64(l.count+1),
				Y:    l.y,
			})
		}
	}
	return Formation{ID: id, Name: name, Slots: slots}
}
