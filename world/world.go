// Package world owns the dungeon grid and everything the engine treats
// as opaque domain state: terrain, positions, occupancy and health. It
// implements the engine's Effector contract, so action validation rules
// and combat effects live here and never leak into the scheduler.
package world

import (
	"fmt"
	"log/slog"

	"github.com/calderos/hollowdeep/action"
	"github.com/calderos/hollowdeep/core"
	"github.com/calderos/hollowdeep/engine"
)

// Terrain is a tile kind.
type Terrain uint8

const (
	Wall Terrain = iota
	Floor
)

// EventKind tags a domain event.
type EventKind uint8

const (
	EventMove EventKind = iota
	EventAttack
	EventDeath
	EventTeleport
)

// Event is an observable domain effect. The engine never interprets
// these; the host drains them for the message log and the journal.
type Event struct {
	Kind   EventKind
	Actor  engine.Handle
	Target engine.Handle
	Pos    core.Point
	Damage int
}

// Options tunes world behavior.
type Options struct {
	// SpeedScaling selects the base*100/speed duration model instead of
	// flat costs.
	SpeedScaling bool
	// AttackDamage is applied per landed hit.
	AttackDamage int
}

// World is the grid the simulation plays on.
type World struct {
	width, height int
	terrain       []Terrain

	arena     *engine.Arena
	positions map[engine.Handle]core.Point
	occupants map[core.Point]engine.Handle
	health    map[engine.Handle]int
	glyphs    map[engine.Handle]rune

	pather Pather
	opts   Options
	log    *slog.Logger

	events []Event
}

// New creates a world over terrain produced by a generator. arena is
// the externally owned actor store the engine schedules from.
func New(width, height int, terrain []Terrain, arena *engine.Arena, opts Options, log *slog.Logger) *World {
	if log == nil {
		log = slog.Default()
	}
	if opts.AttackDamage <= 0 {
		opts.AttackDamage = 2
	}
	return &World{
		width:     width,
		height:    height,
		terrain:   terrain,
		arena:     arena,
		positions: make(map[engine.Handle]core.Point),
		occupants: make(map[core.Point]engine.Handle),
		health:    make(map[engine.Handle]int),
		glyphs:    make(map[engine.Handle]rune),
		pather:    GreedyPather{},
		opts:      opts,
		log:       log,
	}
}

// SetPather swaps the navigation strategy. Pathfinding proper is an
// external collaborator; the default takes greedy single steps.
func (w *World) SetPather(p Pather) {
	w.pather = p
}

// Size returns the grid dimensions.
func (w *World) Size() (int, int) {
	return w.width, w.height
}

// InBounds reports whether p lies on the grid.
func (w *World) InBounds(p core.Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < w.width && p.Y < w.height
}

// TerrainAt returns the tile at p; out-of-bounds reads as Wall.
func (w *World) TerrainAt(p core.Point) Terrain {
	if !w.InBounds(p) {
		return Wall
	}
	return w.terrain[p.Y*w.width+p.X]
}

// Walkable reports whether p is a floor tile.
func (w *World) Walkable(p core.Point) bool {
	return w.TerrainAt(p) == Floor
}

// OccupantAt returns the actor on p, if any.
func (w *World) OccupantAt(p core.Point) (engine.Handle, bool) {
	h, ok := w.occupants[p]
	return h, ok
}

// PositionOf returns the actor's position.
func (w *World) PositionOf(h engine.Handle) (core.Point, bool) {
	p, ok := w.positions[h]
	return p, ok
}

// HealthOf returns the actor's remaining hit points.
func (w *World) HealthOf(h engine.Handle) (int, bool) {
	hp, ok := w.health[h]
	return hp, ok
}

// GlyphOf returns the actor's display rune.
func (w *World) GlyphOf(h engine.Handle) rune {
	if g, ok := w.glyphs[h]; ok {
		return g
	}
	return '?'
}

// PlaceActor puts h on pos with the given hit points and glyph.
func (w *World) PlaceActor(h engine.Handle, pos core.Point, hp int, glyph rune) error {
	if !w.Walkable(pos) {
		return fmt.Errorf("place actor: %w", engine.ErrActionBlocked)
	}
	if _, taken := w.occupants[pos]; taken {
		return fmt.Errorf("place actor: %w", engine.ErrInvalidTarget)
	}
	w.positions[h] = pos
	w.occupants[pos] = h
	w.health[h] = hp
	w.glyphs[h] = glyph
	return nil
}

// RemoveActor clears every trace of h from the grid.
func (w *World) RemoveActor(h engine.Handle) {
	if pos, ok := w.positions[h]; ok {
		delete(w.occupants, pos)
	}
	delete(w.positions, h)
	delete(w.health, h)
	delete(w.glyphs, h)
}

// DrainEvents returns accumulated domain events and clears the buffer.
func (w *World) DrainEvents() []Event {
	out := w.events
	w.events = nil
	return out
}

func (w *World) emit(ev Event) {
	w.events = append(w.events, ev)
}

// Apply implements engine.Effector: validate one action against world
// state, apply its effects, and return its duration.
func (w *World) Apply(h engine.Handle, act action.Action) (uint64, error) {
	actor := w.arena.Get(h)
	if actor == nil {
		return 0, fmt.Errorf("effector: actor %v not in arena", h)
	}
	pos, ok := w.positions[h]
	if !ok {
		return 0, fmt.Errorf("effector: actor %v has no position", h)
	}

	cost := act.Cost(actor.Speed(), w.opts.SpeedScaling)

	switch act.Kind {
	case action.Wait:
		return cost, nil

	case action.MoveDelta:
		return w.applyMove(h, pos, act.Dir, cost)

	case action.MoveTo:
		if pos == act.Target {
			return cost, nil
		}
		dir, ok := w.pather.NextStep(pos, act.Target, w.Walkable)
		if !ok {
			return 0, engine.ErrActionBlocked
		}
		return w.applyMove(h, pos, dir, cost)

	case action.Attack:
		return w.applyAttack(h, pos, act.Target, cost)

	case action.Teleport:
		return w.applyTeleport(h, pos, act.Target, cost)

	default:
		return 0, fmt.Errorf("effector: unknown action kind %d", act.Kind)
	}
}

func (w *World) applyMove(h engine.Handle, pos core.Point, dir core.Direction, cost uint64) (uint64, error) {
	dest := pos.Add(dir.Delta())

	if !w.InBounds(dest) {
		return 0, engine.ErrInvalidTarget
	}
	if w.TerrainAt(dest) == Wall {
		return 0, engine.ErrActionBlocked
	}
	if _, occupied := w.occupants[dest]; occupied {
		// Bump-attack: movement into an occupied tile converts to an
		// attack on it, resolved through the executor's retry path.
		return 0, &engine.RetryError{Replacement: action.NewAttack(dest)}
	}

	delete(w.occupants, pos)
	w.occupants[dest] = h
	w.positions[h] = dest
	w.emit(Event{Kind: EventMove, Actor: h, Pos: dest})
	return cost, nil
}

func (w *World) applyAttack(h engine.Handle, pos, target core.Point, cost uint64) (uint64, error) {
	if pos.Chebyshev(target) > 1 {
		return 0, engine.ErrInvalidTarget
	}
	victim, ok := w.occupants[target]
	if !ok || victim == h {
		return 0, engine.ErrInvalidTarget
	}

	w.health[victim] -= w.opts.AttackDamage
	w.emit(Event{Kind: EventAttack, Actor: h, Target: victim, Pos: target, Damage: w.opts.AttackDamage})

	if w.health[victim] <= 0 {
		if a := w.arena.Get(victim); a != nil {
			a.Kill()
		}
		w.RemoveActor(victim)
		w.emit(Event{Kind: EventDeath, Actor: victim, Pos: target})
		w.log.Debug("actor died", "actor", victim, "pos", target)
	}
	return cost, nil
}

func (w *World) applyTeleport(h engine.Handle, pos, target core.Point, cost uint64) (uint64, error) {
	if !w.InBounds(target) {
		return 0, engine.ErrInvalidTarget
	}
	if w.TerrainAt(target) == Wall {
		return 0, engine.ErrActionBlocked
	}
	if _, occupied := w.occupants[target]; occupied {
		return 0, engine.ErrInvalidTarget
	}

	delete(w.occupants, pos)
	w.occupants[target] = h
	w.positions[h] = target
	w.emit(Event{Kind: EventTeleport, Actor: h, Pos: target})
	return cost, nil
}
