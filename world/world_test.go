package world

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calderos/hollowdeep/action"
	"github.com/calderos/hollowdeep/core"
	"github.com/calderos/hollowdeep/engine"
)

// openWorld builds a width x height map of floor ringed by walls.
func openWorld(t *testing.T, width, height int) (*World, *engine.Arena) {
	t.Helper()
	terrain := make([]Terrain, width*height)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			terrain[y*width+x] = Floor
		}
	}
	arena := engine.NewArena()
	return New(width, height, terrain, arena, Options{AttackDamage: 2}, nil), arena
}

func spawnAt(t *testing.T, w *World, arena *engine.Arena, pos core.Point, hp int) engine.Handle {
	t.Helper()
	h := arena.Spawn(engine.NewTurnActor(100))
	require.NoError(t, w.PlaceActor(h, pos, hp, 'x'))
	return h
}

func TestMoveUpdatesPositionAndOccupancy(t *testing.T) {
	w, arena := openWorld(t, 10, 10)
	h := spawnAt(t, w, arena, core.Point{X: 4, Y: 4}, 10)

	dur, err := w.Apply(h, action.NewMove(core.East))
	require.NoError(t, err)
	require.Equal(t, uint64(action.BaseCost), dur)

	pos, _ := w.PositionOf(h)
	require.Equal(t, core.Point{X: 5, Y: 4}, pos)

	_, occupied := w.OccupantAt(core.Point{X: 4, Y: 4})
	require.False(t, occupied, "old tile must be vacated")
	got, _ := w.OccupantAt(core.Point{X: 5, Y: 4})
	require.Equal(t, h, got)
}

func TestMoveIntoWallIsBlocked(t *testing.T) {
	w, arena := openWorld(t, 10, 10)
	h := spawnAt(t, w, arena, core.Point{X: 1, Y: 1}, 10)

	_, err := w.Apply(h, action.NewMove(core.West))
	require.ErrorIs(t, err, engine.ErrActionBlocked)

	pos, _ := w.PositionOf(h)
	require.Equal(t, core.Point{X: 1, Y: 1}, pos, "failed move must not change position")
}

func TestBumpAttackConversion(t *testing.T) {
	w, arena := openWorld(t, 10, 10)
	h := spawnAt(t, w, arena, core.Point{X: 4, Y: 4}, 10)
	spawnAt(t, w, arena, core.Point{X: 5, Y: 4}, 10)

	_, err := w.Apply(h, action.NewMove(core.East))
	var retry *engine.RetryError
	require.ErrorAs(t, err, &retry)
	require.Equal(t, action.Attack, retry.Replacement.Kind)
	require.Equal(t, core.Point{X: 5, Y: 4}, retry.Replacement.Target)
}

func TestAttackAppliesDamageAndDeath(t *testing.T) {
	w, arena := openWorld(t, 10, 10)
	attacker := spawnAt(t, w, arena, core.Point{X: 4, Y: 4}, 10)
	victim := spawnAt(t, w, arena, core.Point{X: 5, Y: 4}, 3)

	_, err := w.Apply(attacker, action.NewAttack(core.Point{X: 5, Y: 4}))
	require.NoError(t, err)
	hp, _ := w.HealthOf(victim)
	require.Equal(t, 1, hp)
	require.True(t, arena.Get(victim).IsAlive())

	_, err = w.Apply(attacker, action.NewAttack(core.Point{X: 5, Y: 4}))
	require.NoError(t, err)

	require.False(t, arena.Get(victim).IsAlive(), "lethal hit kills the actor")
	_, hasPos := w.PositionOf(victim)
	require.False(t, hasPos, "dead actor leaves the grid")
	_, occupied := w.OccupantAt(core.Point{X: 5, Y: 4})
	require.False(t, occupied)

	events := w.DrainEvents()
	var sawDeath bool
	for _, ev := range events {
		if ev.Kind == EventDeath && ev.Actor == victim {
			sawDeath = true
		}
	}
	require.True(t, sawDeath)
}

func TestAttackRequiresOccupiedAdjacentTile(t *testing.T) {
	w, arena := openWorld(t, 10, 10)
	h := spawnAt(t, w, arena, core.Point{X: 4, Y: 4}, 10)

	// Empty tile.
	_, err := w.Apply(h, action.NewAttack(core.Point{X: 5, Y: 4}))
	require.ErrorIs(t, err, engine.ErrInvalidTarget)

	// Out of melee range.
	spawnAt(t, w, arena, core.Point{X: 7, Y: 4}, 10)
	_, err = w.Apply(h, action.NewAttack(core.Point{X: 7, Y: 4}))
	require.ErrorIs(t, err, engine.ErrInvalidTarget)
}

func TestTeleportValidation(t *testing.T) {
	w, arena := openWorld(t, 10, 10)
	h := spawnAt(t, w, arena, core.Point{X: 2, Y: 2}, 10)

	// Valid teleport.
	dur, err := w.Apply(h, action.NewTeleport(core.Point{X: 7, Y: 7}))
	require.NoError(t, err)
	require.Equal(t, uint64(action.BaseCost), dur)
	pos, _ := w.PositionOf(h)
	require.Equal(t, core.Point{X: 7, Y: 7}, pos)

	// Into a wall.
	_, err = w.Apply(h, action.NewTeleport(core.Point{X: 0, Y: 0}))
	require.ErrorIs(t, err, engine.ErrActionBlocked)

	// Onto another actor.
	other := spawnAt(t, w, arena, core.Point{X: 3, Y: 3}, 10)
	_ = other
	_, err = w.Apply(h, action.NewTeleport(core.Point{X: 3, Y: 3}))
	require.ErrorIs(t, err, engine.ErrInvalidTarget)

	// Off the grid.
	_, err = w.Apply(h, action.NewTeleport(core.Point{X: -1, Y: 4}))
	require.ErrorIs(t, err, engine.ErrInvalidTarget)
}

func TestMoveToStepsTowardTarget(t *testing.T) {
	w, arena := openWorld(t, 12, 12)
	h := spawnAt(t, w, arena, core.Point{X: 2, Y: 2}, 10)

	_, err := w.Apply(h, action.NewMoveTo(core.Point{X: 6, Y: 2}))
	require.NoError(t, err)

	pos, _ := w.PositionOf(h)
	require.Equal(t, core.Point{X: 3, Y: 2}, pos, "one greedy step per turn")
}

func TestMoveToAtTargetActsAsWait(t *testing.T) {
	w, arena := openWorld(t, 10, 10)
	h := spawnAt(t, w, arena, core.Point{X: 4, Y: 4}, 10)

	dur, err := w.Apply(h, action.NewMoveTo(core.Point{X: 4, Y: 4}))
	require.NoError(t, err)
	require.Equal(t, uint64(action.BaseCost), dur)
}

func TestSpeedScaledDurations(t *testing.T) {
	width, height := 10, 10
	terrain := make([]Terrain, width*height)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			terrain[y*width+x] = Floor
		}
	}
	arena := engine.NewArena()
	w := New(width, height, terrain, arena, Options{SpeedScaling: true, AttackDamage: 2}, nil)

	fast := arena.Spawn(engine.NewTurnActor(200))
	require.NoError(t, w.PlaceActor(fast, core.Point{X: 4, Y: 4}, 10, '@'))

	dur, err := w.Apply(fast, action.NewWait())
	require.NoError(t, err)
	require.Equal(t, uint64(action.BaseCost)*100/200, dur, "speed 200 halves the cost")
}
