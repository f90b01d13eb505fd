// Package ai decides what non-player actors do. It is a collaborator of
// the scheduler, not part of it: the scheduler pops turns and executes
// queued actions, the brain keeps those queues filled.
package ai

import (
	"log/slog"
	"math/rand"

	"github.com/calderos/hollowdeep/action"
	"github.com/calderos/hollowdeep/core"
	"github.com/calderos/hollowdeep/engine"
	"github.com/calderos/hollowdeep/world"
)

// Options tunes monster behavior.
type Options struct {
	// SightRadius is the Chebyshev distance at which a monster notices
	// the player and starts chasing.
	SightRadius int
	// Seed drives wander decisions; fixed seeds reproduce runs.
	Seed int64
}

// Brain queues one decision per idle monster. Decisions are cached on
// the actor until the next player turn executes, so a monster acting
// several times between player turns does not re-plan each time.
type Brain struct {
	world  *world.World
	arena  *engine.Arena
	player engine.Handle
	opts   Options
	rng    *rand.Rand
	log    *slog.Logger
}

// New creates a brain over the given world and arena. log may be nil.
func New(w *world.World, arena *engine.Arena, player engine.Handle, opts Options, log *slog.Logger) *Brain {
	if opts.SightRadius <= 0 {
		opts.SightRadius = 8
	}
	if log == nil {
		log = slog.Default()
	}
	return &Brain{
		world:  w,
		arena:  arena,
		player: player,
		opts:   opts,
		rng:    rand.New(rand.NewSource(opts.Seed)),
		log:    log,
	}
}

// Think queues a decision for every live monster whose pending queue is
// empty. Called by the host loop before each scheduler pass.
func (b *Brain) Think() {
	b.arena.Range(func(h engine.Handle, actor *engine.TurnActor) {
		if h == b.player || !actor.IsAlive() || actor.HasAction() {
			return
		}
		actor.QueueAction(b.decide(h, actor))
	})
}

// decide picks one action for the monster: attack when adjacent to the
// player, chase when in sight, wander otherwise.
func (b *Brain) decide(h engine.Handle, actor *engine.TurnActor) action.Action {
	if cached, ok := actor.Preferred(); ok {
		return cached
	}

	act := b.plan(h)
	actor.SetPreferred(act)
	return act
}

func (b *Brain) plan(h engine.Handle) action.Action {
	pos, ok := b.world.PositionOf(h)
	if !ok {
		return action.NewWait()
	}
	playerPos, playerAlive := b.world.PositionOf(b.player)
	if playerAlive {
		switch dist := pos.Chebyshev(playerPos); {
		case dist <= 1:
			return action.NewAttack(playerPos)
		case dist <= b.opts.SightRadius:
			return action.NewMoveTo(playerPos)
		}
	}
	return b.wander(pos)
}

// wander picks a random walkable, unoccupied neighbor; a cornered
// monster waits.
func (b *Brain) wander(pos core.Point) action.Action {
	dirs := b.rng.Perm(len(core.AllDirections))
	for _, i := range dirs {
		d := core.AllDirections[i]
		dest := pos.Add(d.Delta())
		if !b.world.Walkable(dest) {
			continue
		}
		if _, occupied := b.world.OccupantAt(dest); occupied {
			continue
		}
		return action.NewMove(d)
	}
	return action.NewWait()
}
