// Package roster tracks the dragons and monsters taking part in a battle and
// hands them to the turn scheduler.
package roster

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/colosseum/internal/game/encounter"
	"github.com/cory-johannsen/colosseum/internal/game/turnorder"
	"github.com/cory-johannsen/colosseum/internal/game/venue"
)

// ErrEntryNotFound is returned when removing an entry that is not on the roster.
var ErrEntryNotFound = errors.New("roster entry not found")

// ErrInvalidEncounter is returned when committing a selection that matches no
// sanctioned combination.
var ErrInvalidEncounter = errors.New("selection is not a valid encounter")

// DataConsistencyError reports a selected monster with no record in the
// venue's monster data.
type DataConsistencyError struct {
	Venue   string
	Monster string
}

// Error implements error.
func (e *DataConsistencyError) Error() string {
	return fmt.Sprintf("could not find data for %q in venue %q", e.Monster, e.Venue)
}

// DragonEntry is a dragon on the roster.
type DragonEntry struct {
	ID     string
	Dragon turnorder.Dragon
}

// MonsterEntry is a monster on the roster.
type MonsterEntry struct {
	ID      string
	Monster turnorder.Monster
}

// CommitReport describes the outcome of CommitEncounter.
type CommitReport struct {
	Added   []MonsterEntry
	Skipped []*DataConsistencyError
}

// Roster holds the active dragons and monsters. All methods are safe for
// concurrent use.
type Roster struct {
	logger *zap.Logger

	mu       sync.Mutex
	dragons  []DragonEntry
	monsters []MonsterEntry
}

// New creates an empty Roster.
//
// Precondition: logger must be non-nil.
func New(logger *zap.Logger) *Roster {
	return &Roster{logger: logger}
}

// AddDragon appends a dragon and returns its entry.
func (r *Roster) AddDragon(name string, quickness, ambush int) DragonEntry {
	e := DragonEntry{ID: uuid.NewString(), Dragon: turnorder.NewDragon(name, quickness, ambush)}
	r.mu.Lock()
	r.dragons = append(r.dragons, e)
	r.mu.Unlock()
	return e
}

// AddMonster appends a monster and returns its entry.
func (r *Roster) AddMonster(name string, quickness int) MonsterEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.addMonsterLocked(name, quickness)
}

func (r *Roster) addMonsterLocked(name string, quickness int) MonsterEntry {
	e := MonsterEntry{ID: uuid.NewString(), Monster: turnorder.NewMonster(name, quickness)}
	r.monsters = append(r.monsters, e)
	return e
}

// RemoveDragon removes the dragon with the given entry ID.
//
// Postcondition: Returns ErrEntryNotFound if no such dragon exists.
func (r *Roster) RemoveDragon(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.dragons {
		if e.ID == id {
			r.dragons = append(r.dragons[:i:i], r.dragons[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("dragon %q: %w", id, ErrEntryNotFound)
}

// RemoveMonster removes the monster with the given entry ID.
//
// Postcondition: Returns ErrEntryNotFound if no such monster exists.
func (r *Roster) RemoveMonster(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.monsters {
		if e.ID == id {
			r.monsters = append(r.monsters[:i:i], r.monsters[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("monster %q: %w", id, ErrEntryNotFound)
}

// Dragons returns a snapshot of the dragon entries in roster order.
func (r *Roster) Dragons() []DragonEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]DragonEntry(nil), r.dragons...)
}

// Monsters returns a snapshot of the monster entries in roster order.
func (r *Roster) Monsters() []MonsterEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]MonsterEntry(nil), r.monsters...)
}

// Clear removes every dragon and monster.
func (r *Roster) Clear() {
	r.mu.Lock()
	r.dragons = nil
	r.monsters = nil
	r.mu.Unlock()
}

// CommitEncounter replaces the roster's monsters with the selected encounter.
// Monsters missing from the catalog's monster data are logged and skipped;
// the rest of the encounter is still added.
//
// Precondition: cat must be non-nil.
// Postcondition: On ErrInvalidEncounter the roster is unchanged. Otherwise the
// previous monsters are gone and the report lists added and skipped monsters.
func (r *Roster) CommitEncounter(cat *venue.Catalog, sel encounter.Selection) (CommitReport, error) {
	if !encounter.IsValid(cat.Encounters, sel) {
		return CommitReport{}, fmt.Errorf("%v: %w", []string(sel), ErrInvalidEncounter)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var report CommitReport
	r.monsters = nil
	for _, name := range sel {
		rec, ok := cat.Monster(name)
		if !ok {
			dcErr := &DataConsistencyError{Venue: cat.Venue.Name, Monster: name}
			r.logger.Warn("skipping encounter monster", zap.Error(dcErr))
			report.Skipped = append(report.Skipped, dcErr)
			continue
		}
		report.Added = append(report.Added, r.addMonsterLocked(rec.Name, rec.Quickness))
	}
	return report, nil
}

// Calculate snapshots the roster and runs sched over it.
//
// Precondition: sched must be non-nil.
// Postcondition: Returns the scheduler's result or its configuration error.
func (r *Roster) Calculate(sched *turnorder.Scheduler, rounds int) (*turnorder.Result, error) {
	r.mu.Lock()
	dragons := make([]turnorder.Dragon, len(r.dragons))
	for i, e := range r.dragons {
		dragons[i] = e.Dragon
	}
	monsters := make([]turnorder.Monster, len(r.monsters))
	for i, e := range r.monsters {
		monsters[i] = e.Monster
	}
	r.mu.Unlock()

	return sched.Calculate(dragons, monsters, rounds)
}
