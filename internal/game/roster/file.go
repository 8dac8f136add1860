package roster

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/colosseum/internal/game/encounter"
	"github.com/cory-johannsen/colosseum/internal/game/turnorder"
)

// CombatantSpec is one dragon or monster in a roster file.
type CombatantSpec struct {
	Name      string `yaml:"name"`
	Quickness int    `yaml:"quickness"`
	Ambush    int    `yaml:"ambush,omitempty"`
}

// File is the YAML form of a battle setup:
//
//	rounds: 10
//	venue: Training Fields
//	encounter: [Field Mouse, Hayloft Owl]
//	dragons:
//	  - {name: Ember, quickness: 20, ambush: 1}
//	monsters:
//	  - {name: Bat, quickness: 9}
//
// When Encounter is set it replaces Monsters on commit.
type File struct {
	Rounds    int             `yaml:"rounds"`
	Venue     string          `yaml:"venue"`
	Encounter []string        `yaml:"encounter"`
	Dragons   []CombatantSpec `yaml:"dragons"`
	Monsters  []CombatantSpec `yaml:"monsters"`
}

// ParseFile decodes and checks a roster file.
//
// Postcondition: Returns a File whose combatants all have names and in-range
// quickness, or an error.
func ParseFile(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing roster: %w", err)
	}
	for i, d := range f.Dragons {
		if d.Name == "" {
			return nil, fmt.Errorf("dragon %d: name must not be empty", i)
		}
		if err := turnorder.ValidateQuickness(d.Quickness); err != nil {
			return nil, fmt.Errorf("dragon %q: %w", d.Name, err)
		}
	}
	for i, m := range f.Monsters {
		if m.Name == "" {
			return nil, fmt.Errorf("monster %d: name must not be empty", i)
		}
		if err := turnorder.ValidateQuickness(m.Quickness); err != nil {
			return nil, fmt.Errorf("monster %q: %w", m.Name, err)
		}
	}
	if len(f.Encounter) > 0 && f.Venue == "" {
		return nil, errors.New("encounter requires a venue")
	}
	if len(f.Encounter) > encounter.MaxSlots {
		return nil, fmt.Errorf("encounter has %d monsters, max %d", len(f.Encounter), encounter.MaxSlots)
	}
	return &f, nil
}

// LoadFile reads and parses the roster file at path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading roster %s: %w", path, err)
	}
	return ParseFile(data)
}

// Populate adds the file's dragons and monsters to r.
func (f *File) Populate(r *Roster) {
	for _, d := range f.Dragons {
		r.AddDragon(d.Name, d.Quickness, d.Ambush)
	}
	for _, m := range f.Monsters {
		r.AddMonster(m.Name, m.Quickness)
	}
}
