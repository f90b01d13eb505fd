package ai

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calderos/hollowdeep/action"
	"github.com/calderos/hollowdeep/core"
	"github.com/calderos/hollowdeep/engine"
	"github.com/calderos/hollowdeep/world"
)

func testArena(t *testing.T, width, height int) (*world.World, *engine.Arena) {
	t.Helper()
	terrain := make([]world.Terrain, width*height)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			terrain[y*width+x] = world.Floor
		}
	}
	arena := engine.NewArena()
	return world.New(width, height, terrain, arena, world.Options{}, nil), arena
}

func place(t *testing.T, w *world.World, arena *engine.Arena, pos core.Point) engine.Handle {
	t.Helper()
	h := arena.Spawn(engine.NewTurnActor(100))
	require.NoError(t, w.PlaceActor(h, pos, 10, 'm'))
	return h
}

func TestAdjacentMonsterAttacks(t *testing.T) {
	w, arena := testArena(t, 20, 20)
	player := place(t, w, arena, core.Point{X: 5, Y: 5})
	monster := place(t, w, arena, core.Point{X: 6, Y: 5})

	brain := New(w, arena, player, Options{Seed: 1}, nil)
	brain.Think()

	act, ok := arena.Get(monster).PeekAction()
	require.True(t, ok)
	require.Equal(t, action.Attack, act.Kind)
	require.Equal(t, core.Point{X: 5, Y: 5}, act.Target)
}

func TestVisibleMonsterChases(t *testing.T) {
	w, arena := testArena(t, 20, 20)
	player := place(t, w, arena, core.Point{X: 5, Y: 5})
	monster := place(t, w, arena, core.Point{X: 10, Y: 5})

	brain := New(w, arena, player, Options{SightRadius: 8, Seed: 1}, nil)
	brain.Think()

	act, ok := arena.Get(monster).PeekAction()
	require.True(t, ok)
	require.Equal(t, action.MoveTo, act.Kind)
	require.Equal(t, core.Point{X: 5, Y: 5}, act.Target)
}

func TestDistantMonsterWanders(t *testing.T) {
	w, arena := testArena(t, 30, 30)
	player := place(t, w, arena, core.Point{X: 2, Y: 2})
	monster := place(t, w, arena, core.Point{X: 25, Y: 25})

	brain := New(w, arena, player, Options{SightRadius: 5, Seed: 1}, nil)
	brain.Think()

	act, ok := arena.Get(monster).PeekAction()
	require.True(t, ok)
	require.Contains(t, []action.Kind{action.MoveDelta, action.Wait}, act.Kind)
}

func TestThinkSkipsActorsWithPendingActions(t *testing.T) {
	w, arena := testArena(t, 20, 20)
	player := place(t, w, arena, core.Point{X: 5, Y: 5})
	monster := place(t, w, arena, core.Point{X: 10, Y: 10})
	arena.Get(monster).QueueAction(action.NewWait())

	brain := New(w, arena, player, Options{Seed: 1}, nil)
	brain.Think()

	require.Equal(t, 1, arena.Get(monster).ActionCount(), "brain must not stack decisions")
}

func TestThinkSkipsPlayerAndDead(t *testing.T) {
	w, arena := testArena(t, 20, 20)
	player := place(t, w, arena, core.Point{X: 5, Y: 5})
	dead := place(t, w, arena, core.Point{X: 8, Y: 8})
	arena.Get(dead).Kill()

	brain := New(w, arena, player, Options{Seed: 1}, nil)
	brain.Think()

	require.False(t, arena.Get(player).HasAction())
	require.False(t, arena.Get(dead).HasAction())
}

func TestDecisionCachedAsPreferred(t *testing.T) {
	w, arena := testArena(t, 20, 20)
	player := place(t, w, arena, core.Point{X: 5, Y: 5})
	monster := place(t, w, arena, core.Point{X: 10, Y: 5})

	brain := New(w, arena, player, Options{SightRadius: 8, Seed: 1}, nil)
	brain.Think()

	cached, ok := arena.Get(monster).Preferred()
	require.True(t, ok)
	require.Equal(t, action.MoveTo, cached.Kind)

	// A second Think with a drained queue reuses the cached plan even
	// after the player moved.
	act, _ := arena.Get(monster).NextAction()
	_, err := w.Apply(player, action.NewMove(core.South))
	require.NoError(t, err)
	brain.Think()

	again, ok := arena.Get(monster).PeekAction()
	require.True(t, ok)
	require.Equal(t, act, again)
}
