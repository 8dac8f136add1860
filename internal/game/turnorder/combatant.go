// Package turnorder implements the fixed-turn-cost initiative scheduler used to
// predict the order in which dragons and monsters act during a Coliseum battle.
package turnorder

import (
	"errors"
	"fmt"
)

// Category distinguishes dragons from monsters.
type Category int

const (
	CategoryDragon Category = iota
	CategoryMonster
)

// String returns a human-readable category label.
func (c Category) String() string {
	switch c {
	case CategoryDragon:
		return "dragon"
	case CategoryMonster:
		return "monster"
	default:
		return "unknown"
	}
}

// MaxAmbushActions is the number of ambush actions after which further ambush
// count has no effect.
const MaxAmbushActions = 2

// MaxQuickness bounds the magnitude of a combatant's quickness so that
// MaxRounds rounds of accumulation cannot overflow an initiative.
const MaxQuickness = 1_000_000

// ErrQuicknessOutOfRange is returned by ValidateQuickness.
var ErrQuicknessOutOfRange = errors.New("quickness out of range")

// ValidateQuickness reports whether q lies in [-MaxQuickness, MaxQuickness].
func ValidateQuickness(q int) error {
	if q < -MaxQuickness || q > MaxQuickness {
		return fmt.Errorf("%w: %d (limit %d)", ErrQuicknessOutOfRange, q, MaxQuickness)
	}
	return nil
}

// Combatant holds the immutable attributes of one participant.
// Initiative is not stored here; it lives in per-run scheduler state.
type Combatant struct {
	Name      string
	Quickness int
	Category  Category
}

// Dragon is a combatant that may act before round-based simulation begins.
type Dragon struct {
	Combatant
	// Ambush is the configured number of ambush actions. Values above
	// MaxAmbushActions behave like MaxAmbushActions.
	Ambush int
}

// Monster is a combatant drawn from a venue's encounter.
type Monster struct {
	Combatant
}

// NewDragon constructs a Dragon with CategoryDragon.
func NewDragon(name string, quickness, ambush int) Dragon {
	return Dragon{
		Combatant: Combatant{Name: name, Quickness: quickness, Category: CategoryDragon},
		Ambush:    ambush,
	}
}

// NewMonster constructs a Monster with CategoryMonster.
func NewMonster(name string, quickness int) Monster {
	return Monster{Combatant: Combatant{Name: name, Quickness: quickness, Category: CategoryMonster}}
}

// AmbushActions returns how many ambush turns the dragon takes.
//
// Postcondition: Returns a value in [0, MaxAmbushActions].
func (d Dragon) AmbushActions() int {
	switch {
	case d.Ambush >= MaxAmbushActions:
		return MaxAmbushActions
	case d.Ambush > 0:
		return d.Ambush
	default:
		return 0
	}
}
