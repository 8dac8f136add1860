package roster_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/colosseum/internal/game/encounter"
	"github.com/cory-johannsen/colosseum/internal/game/roster"
	"github.com/cory-johannsen/colosseum/internal/game/turnorder"
	"github.com/cory-johannsen/colosseum/internal/game/venue"
)

func testCatalog() *venue.Catalog {
	return &venue.Catalog{
		Venue: venue.Venue{Name: "Training Fields", Slug: "trainingfields"},
		Monsters: []venue.MonsterRecord{
			{Name: "Bat", Quickness: 9},
			{Name: "Crow", Quickness: 12},
		},
		Encounters: []encounter.Combination{
			{"Bat", "Crow"},
			{"Bat", "Ghost"},
		},
	}
}

func TestRoster_AddRemove(t *testing.T) {
	r := roster.New(zaptest.NewLogger(t))
	d1 := r.AddDragon("Ember", 20, 1)
	d2 := r.AddDragon("Frost", 18, 0)
	m := r.AddMonster("Bat", 9)

	assert.NotEqual(t, d1.ID, d2.ID)
	assert.Equal(t, turnorder.CategoryDragon, d1.Dragon.Category)
	assert.Equal(t, turnorder.CategoryMonster, m.Monster.Category)

	require.NoError(t, r.RemoveDragon(d1.ID))
	dragons := r.Dragons()
	require.Len(t, dragons, 1)
	assert.Equal(t, "Frost", dragons[0].Dragon.Name)

	err := r.RemoveDragon(d1.ID)
	assert.ErrorIs(t, err, roster.ErrEntryNotFound)

	require.NoError(t, r.RemoveMonster(m.ID))
	assert.Empty(t, r.Monsters())
	assert.ErrorIs(t, r.RemoveMonster(m.ID), roster.ErrEntryNotFound)
}

func TestRoster_RemoveKeepsSnapshotsIntact(t *testing.T) {
	r := roster.New(zap.NewNop())
	a := r.AddMonster("A", 1)
	r.AddMonster("B", 2)
	r.AddMonster("C", 3)

	before := r.Monsters()
	require.NoError(t, r.RemoveMonster(a.ID))
	assert.Equal(t, "A", before[0].Monster.Name)
	assert.Equal(t, "B", r.Monsters()[0].Monster.Name)
}

func TestRoster_CommitEncounter(t *testing.T) {
	r := roster.New(zaptest.NewLogger(t))
	r.AddMonster("Leftover", 50)

	report, err := r.CommitEncounter(testCatalog(), encounter.Selection{"Bat", "Crow"})
	require.NoError(t, err)
	assert.Empty(t, report.Skipped)
	require.Len(t, report.Added, 2)

	monsters := r.Monsters()
	require.Len(t, monsters, 2)
	assert.Equal(t, "Bat", monsters[0].Monster.Name)
	assert.Equal(t, 9, monsters[0].Monster.Quickness)
	assert.Equal(t, "Crow", monsters[1].Monster.Name)
}

func TestRoster_CommitEncounter_SkipsMissingMonster(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	r := roster.New(zap.New(core))

	report, err := r.CommitEncounter(testCatalog(), encounter.Selection{"Bat", "Ghost"})
	require.NoError(t, err)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, "Ghost", report.Skipped[0].Monster)
	assert.Equal(t, "Training Fields", report.Skipped[0].Venue)
	require.Len(t, report.Added, 1)
	assert.Equal(t, "Bat", r.Monsters()[0].Monster.Name)
	assert.Equal(t, 1, logs.Len())
}

func TestRoster_CommitEncounter_InvalidSelectionLeavesRoster(t *testing.T) {
	r := roster.New(zaptest.NewLogger(t))
	r.AddMonster("Keep", 5)

	_, err := r.CommitEncounter(testCatalog(), encounter.Selection{"Crow"})
	assert.True(t, errors.Is(err, roster.ErrInvalidEncounter))
	require.Len(t, r.Monsters(), 1)
	assert.Equal(t, "Keep", r.Monsters()[0].Monster.Name)
}

func TestRoster_Calculate(t *testing.T) {
	r := roster.New(zaptest.NewLogger(t))
	r.AddDragon("D", 15, 2)
	r.AddMonster("M", 10)
	sched := turnorder.NewScheduler(zaptest.NewLogger(t), turnorder.MaxRounds)

	res, err := r.Calculate(sched, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"D", "D", "D", "M", "D", "D", "M"}, res.Turns)

	_, err = r.Calculate(sched, 51)
	assert.ErrorIs(t, err, turnorder.ErrTooManyRounds)
}

func TestRoster_Clear(t *testing.T) {
	r := roster.New(zap.NewNop())
	r.AddDragon("D", 1, 0)
	r.AddMonster("M", 1)
	r.Clear()
	assert.Empty(t, r.Dragons())
	assert.Empty(t, r.Monsters())
}

func TestRoster_ConcurrentAdds(t *testing.T) {
	r := roster.New(zap.NewNop())
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); r.AddDragon("D", 1, 0) }()
		go func() { defer wg.Done(); r.AddMonster("M", 1) }()
	}
	wg.Wait()
	assert.Len(t, r.Dragons(), 20)
	assert.Len(t, r.Monsters(), 20)
}
