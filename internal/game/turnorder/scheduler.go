package turnorder

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// MaxRounds is the largest number of rounds a single calculation may simulate.
const MaxRounds = 50

// ErrTooManyRounds is the sentinel wrapped by ConfigurationError.
var ErrTooManyRounds = errors.New("numRounds exceeds limit")

// ConfigurationError reports a round count above the configured limit.
type ConfigurationError struct {
	Rounds int
	Limit  int
}

// Error implements error.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %d rounds requested, max %d", ErrTooManyRounds, e.Rounds, e.Limit)
}

// Unwrap allows errors.Is(err, ErrTooManyRounds).
func (e *ConfigurationError) Unwrap() error { return ErrTooManyRounds }

// Turn is one entry of the event log.
type Turn struct {
	// Round is 0 for ambush actions and 1-based for simulated rounds.
	Round    int
	Name     string
	Category Category
	Ambush   bool
}

// Result is the outcome of one scheduler run.
type Result struct {
	// Turns holds the combatant names in the order they act.
	Turns []string
	// Events holds the same log as Turns with round and category detail.
	Events []Turn
	// TurnCost is the initiative threshold used for round-based turns.
	// Zero when no round-based simulation ran.
	TurnCost int
	// FinalInitiative holds each pool member's initiative after the last
	// round, dragons first then monsters, in input order. Nil when no
	// round-based simulation ran.
	FinalInitiative []int
	// Calculated is true once the round phase has been reached. It stays
	// false when there are no monsters and only ambush actions were logged.
	Calculated bool
}

func (r *Result) record(t Turn) {
	r.Turns = append(r.Turns, t.Name)
	r.Events = append(r.Events, t)
}

// TurnCost returns the quickness of the last monster in input order.
//
// Postcondition: ok is false iff monsters is empty.
func TurnCost(monsters []Monster) (cost int, ok bool) {
	if len(monsters) == 0 {
		return 0, false
	}
	return monsters[len(monsters)-1].Quickness, true
}

// MonstersSorted reports whether monsters are in ascending quickness order,
// i.e. whether the last monster is also the fastest.
func MonstersSorted(monsters []Monster) bool {
	for i := 1; i < len(monsters); i++ {
		if monsters[i].Quickness < monsters[i-1].Quickness {
			return false
		}
	}
	return true
}

// Calculate produces the turn order for the given combatants over rounds
// rounds, using the MaxRounds limit.
//
// Precondition: none; inputs are not validated beyond the round limit.
// Postcondition: Returns a Result, or a *ConfigurationError when
// rounds > MaxRounds, in which case no output is produced. With no monsters
// the Result holds only ambush actions and is not marked Calculated. Inputs
// are never modified.
func Calculate(dragons []Dragon, monsters []Monster, rounds int) (*Result, error) {
	return calculate(dragons, monsters, rounds, MaxRounds)
}

func calculate(dragons []Dragon, monsters []Monster, rounds, limit int) (*Result, error) {
	if rounds > limit {
		return nil, &ConfigurationError{Rounds: rounds, Limit: limit}
	}

	res := &Result{}
	for _, d := range dragons {
		for i := 0; i < d.AmbushActions(); i++ {
			res.record(Turn{Round: 0, Name: d.Name, Category: CategoryDragon, Ambush: true})
		}
	}

	cost, ok := TurnCost(monsters)
	if !ok {
		// Without a monster there is no turn cost; only the ambush log is
		// produced and the run is not marked calculated.
		return res, nil
	}
	if cost <= 0 {
		// A non-positive cost would let a single combatant act forever.
		res.Calculated = true
		return res, nil
	}
	res.TurnCost = cost

	pool := make([]Combatant, 0, len(dragons)+len(monsters))
	for _, d := range dragons {
		pool = append(pool, d.Combatant)
	}
	for _, m := range monsters {
		pool = append(pool, m.Combatant)
	}
	initiative := make([]int, len(pool))

	for round := 1; round <= rounds; round++ {
		for i, c := range pool {
			initiative[i] += c.Quickness
		}
		for {
			next := 0
			for i := 1; i < len(pool); i++ {
				if initiative[i] > initiative[next] {
					next = i
				}
			}
			if initiative[next] < cost {
				break
			}
			c := pool[next]
			res.record(Turn{Round: round, Name: c.Name, Category: c.Category})
			initiative[next] -= cost
		}
	}

	res.FinalInitiative = initiative
	res.Calculated = true
	return res, nil
}

// Scheduler runs calculations with a configured round limit and logs each run.
type Scheduler struct {
	logger    *zap.Logger
	maxRounds int
}

// NewScheduler creates a Scheduler.
//
// Precondition: logger must be non-nil.
// Postcondition: maxRounds outside [1, MaxRounds] is replaced by MaxRounds.
func NewScheduler(logger *zap.Logger, maxRounds int) *Scheduler {
	if maxRounds < 1 || maxRounds > MaxRounds {
		maxRounds = MaxRounds
	}
	return &Scheduler{logger: logger, maxRounds: maxRounds}
}

// MaxRounds returns the scheduler's round limit.
func (s *Scheduler) MaxRounds() int { return s.maxRounds }

// Calculate behaves like the package-level Calculate but enforces the
// scheduler's own round limit.
func (s *Scheduler) Calculate(dragons []Dragon, monsters []Monster, rounds int) (*Result, error) {
	res, err := calculate(dragons, monsters, rounds, s.maxRounds)
	if err != nil {
		s.logger.Warn("turn calculation rejected",
			zap.Int("rounds", rounds),
			zap.Int("max_rounds", s.maxRounds),
			zap.Error(err),
		)
		return nil, err
	}
	if !MonstersSorted(monsters) {
		s.logger.Warn("monsters not in ascending quickness order; turn cost uses last monster",
			zap.Int("turn_cost", res.TurnCost),
		)
	}
	s.logger.Debug("turns calculated",
		zap.Int("dragons", len(dragons)),
		zap.Int("monsters", len(monsters)),
		zap.Int("rounds", rounds),
		zap.Int("turn_cost", res.TurnCost),
		zap.Int("turns", len(res.Turns)),
	)
	return res, nil
}
